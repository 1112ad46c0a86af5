package models

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// VideoEntry is a video link queued for text extraction.
type VideoEntry struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// Validate requires a name and an absolute http(s) link.
func (v VideoEntry) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("video name is required")
	}
	return ValidateLink(v.Link)
}

// ValidateLink requires an absolute http or https URL with a host.
func ValidateLink(link string) error {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return fmt.Errorf("invalid video link %q: %w", link, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("video link %q must be an absolute http(s) URL", link)
	}
	return nil
}

// AddVideoResponse is returned after a video is added to the list.
type AddVideoResponse struct {
	Message     string `json:"message"`
	VideoID     int    `json:"video_id"`
	TotalVideos int    `json:"total_videos"`
}

// ProcessVideoRequest names the video to convert into structured text.
type ProcessVideoRequest struct {
	VideoLink string `json:"video_link"`
}

// ProcessSource tells where processed text came from.
type ProcessSource string

const (
	SourceCache     ProcessSource = "cache"
	SourceProcessed ProcessSource = "processed"
	SourceError     ProcessSource = "error"
	// SourceLocal marks text served from the CLI's own transcript cache without calling the backend.
	SourceLocal ProcessSource = "local"
)

// ProcessVideoResponse is the result of processing a video link.
type ProcessVideoResponse struct {
	StructuredText string        `json:"structured_text"`
	Source         ProcessSource `json:"source"`
	ErrorMessage   *string       `json:"error_message,omitempty"`
}

// Failed reports whether the backend answered with an error source.
func (r ProcessVideoResponse) Failed() bool {
	return r.Source == SourceError
}

// Error returns the backend error message or an empty string.
func (r ProcessVideoResponse) Error() string {
	if r.ErrorMessage == nil {
		return ""
	}
	return *r.ErrorMessage
}

const (
	cacheKeyPrefix = "processed_text_"
	maxCacheKeyLen = 250
)

var (
	schemePattern      = regexp.MustCompile(`^https?://`)
	unsafeCharsPattern = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
)

// SanitizeStorageKey strips the URL scheme from link and replaces every character outside [A-Za-z0-9._-]
// with an underscore.
func SanitizeStorageKey(link string) string {
	return unsafeCharsPattern.ReplaceAllString(schemePattern.ReplaceAllString(link, ""), "_")
}

// CacheKey returns the processed-text storage key for link, truncated to 250 characters.
func CacheKey(link string) string {
	key := cacheKeyPrefix + SanitizeStorageKey(strings.TrimSpace(link))
	if len(key) > maxCacheKeyLen {
		key = key[:maxCacheKeyLen]
	}
	return key
}
