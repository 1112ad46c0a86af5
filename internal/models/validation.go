package models

import (
	"fmt"
	"strings"
)

// ValidationError is one entry of a 422 response. Loc elements are strings or numbers.
type ValidationError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// Field joins the location path with dots, dropping the leading "body" or "query" segment.
func (v ValidationError) Field() string {
	parts := make([]string, 0, len(v.Loc))
	for i, l := range v.Loc {
		s := fmt.Sprint(l)
		if f, ok := l.(float64); ok {
			s = fmt.Sprintf("%d", int(f))
		}
		if i == 0 && (s == "body" || s == "query" || s == "path") && len(v.Loc) > 1 {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ".")
}

// String implements [fmt.Stringer].
func (v ValidationError) String() string {
	if field := v.Field(); field != "" {
		return field + ": " + v.Msg
	}
	return v.Msg
}

// HTTPValidationError is the uniform 422 body of every backend.
type HTTPValidationError struct {
	Detail []ValidationError `json:"detail"`
}

// HealthResponse is returned by GET /_healthz.
type HealthResponse struct {
	Status string `json:"status"`
}
