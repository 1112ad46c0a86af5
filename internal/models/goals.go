package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Priority ranks a goal. The zero value is not a valid priority; use [PriorityNone].
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
	PriorityNone   Priority = "None"
)

// Priorities lists every priority from highest to lowest.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow, PriorityNone}

// Rank orders priorities High=3, Medium=2, Low=1 and None=0. Unknown values rank as None.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ParsePriority matches s case-insensitively against the known priorities. Empty input is [PriorityNone].
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PriorityNone, nil
	}
	for _, p := range Priorities {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q (want High, Medium, Low or None)", s)
}

// Status is the completion state of a goal.
type Status string

const (
	StatusActive Status = "active"
	StatusDone   Status = "done"
)

// Toggle flips between active and done.
func (s Status) Toggle() Status {
	if s == StatusDone {
		return StatusActive
	}
	return StatusDone
}

// ParseStatus accepts "active" or "done".
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, nil
	case StatusDone:
		return StatusDone, nil
	default:
		return "", fmt.Errorf("unknown status %q (want active or done)", s)
	}
}

// GoalType is a user-defined goal category.
type GoalType struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       *string   `json:"color"`
	CreatedAt   Timestamp `json:"created_at"`
	IsDeletable bool      `json:"is_deletable"`
}

// UnmarshalJSON implements [json.Unmarshaler]. A missing is_deletable defaults to true.
func (t *GoalType) UnmarshalJSON(data []byte) error {
	type alias GoalType
	decoded := alias{IsDeletable: true}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*t = GoalType(decoded)
	return nil
}

// CreateGoalTypeRequest is the body of both goal type create and update.
type CreateGoalTypeRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

// Goal is a tracked personal goal.
type Goal struct {
	ID                  string     `json:"id"`
	TypeID              string     `json:"type_id"`
	Name                string     `json:"name"`
	Summary             *string    `json:"summary"`
	DescriptionMarkdown *string    `json:"description_markdown"`
	Status              Status     `json:"status"`
	Priority            Priority   `json:"priority"`
	DueDate             *Timestamp `json:"due_date"`
	Notify              bool       `json:"notify"`
	CreatedAt           Timestamp  `json:"created_at"`
	UpdatedAt           Timestamp  `json:"updated_at"`
}

// IsDone reports whether the goal is complete.
func (g Goal) IsDone() bool {
	return g.Status == StatusDone
}

// MatchesQuery reports whether the goal name contains query, ignoring case.
func (g Goal) MatchesQuery(query string) bool {
	return strings.Contains(strings.ToLower(g.Name), strings.ToLower(query))
}

// CreateGoalRequest is the body of POST /routes/goals/.
type CreateGoalRequest struct {
	TypeID              string     `json:"type_id"`
	Name                string     `json:"name"`
	Summary             *string    `json:"summary,omitempty"`
	DescriptionMarkdown *string    `json:"description_markdown,omitempty"`
	Priority            Priority   `json:"priority"`
	DueDate             *Timestamp `json:"due_date,omitempty"`
	Notify              bool       `json:"notify"`
}

// Validate checks the fields the backend requires.
func (r CreateGoalRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("goal name is required")
	}
	if strings.TrimSpace(r.TypeID) == "" {
		return fmt.Errorf("goal type id is required")
	}
	if _, err := ParsePriority(string(r.Priority)); err != nil {
		return err
	}
	return nil
}

// UpdateGoalRequest is the body of PUT /routes/goals/{goal_id}. Nil fields are not sent.
type UpdateGoalRequest struct {
	TypeID              *string    `json:"type_id,omitempty"`
	Name                *string    `json:"name,omitempty"`
	Summary             *string    `json:"summary,omitempty"`
	DescriptionMarkdown *string    `json:"description_markdown,omitempty"`
	Status              *Status    `json:"status,omitempty"`
	Priority            *Priority  `json:"priority,omitempty"`
	DueDate             *Timestamp `json:"due_date,omitempty"`
	Notify              *bool      `json:"notify,omitempty"`
}

// IsEmpty reports whether the update carries no fields. The backend rejects empty updates with 400.
func (r UpdateGoalRequest) IsEmpty() bool {
	return r == UpdateGoalRequest{}
}

// SortOrder selects the client-side goal ordering.
type SortOrder string

const (
	SortPriorityDesc SortOrder = "priority-desc"
	SortPriorityAsc  SortOrder = "priority-asc"
)

// ParseSortOrder accepts priority-desc or priority-asc. Empty input is [SortPriorityDesc].
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.TrimSpace(s)) {
	case "", SortPriorityDesc:
		return SortPriorityDesc, nil
	case SortPriorityAsc:
		return SortPriorityAsc, nil
	default:
		return "", fmt.Errorf("unknown sort order %q (want priority-desc or priority-asc)", s)
	}
}

// Toggle flips between descending and ascending priority.
func (o SortOrder) Toggle() SortOrder {
	if o == SortPriorityAsc {
		return SortPriorityDesc
	}
	return SortPriorityAsc
}

// FilterGoals returns the goals whose name contains query, ignoring case, in their original order.
// An empty query returns every goal.
func FilterGoals(goals []Goal, query string) []Goal {
	filtered := make([]Goal, 0, len(goals))
	for _, g := range goals {
		if g.MatchesQuery(query) {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

// FilterByType returns the goals belonging to typeID. An empty typeID returns every goal.
func FilterByType(goals []Goal, typeID string) []Goal {
	filtered := make([]Goal, 0, len(goals))
	for _, g := range goals {
		if typeID == "" || g.TypeID == typeID {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

// SortGoals returns a copy of goals ordered by priority. Goals of equal priority keep their relative order.
func SortGoals(goals []Goal, order SortOrder) []Goal {
	sorted := slices.Clone(goals)
	slices.SortStableFunc(sorted, func(a, b Goal) int {
		if order == SortPriorityAsc {
			return a.Priority.Rank() - b.Priority.Rank()
		}
		return b.Priority.Rank() - a.Priority.Rank()
	})
	return sorted
}

// GoalForm is the raw input of the goal create/edit form.
type GoalForm struct {
	TypeID      string
	Name        string
	Summary     string
	Description string
	Priority    string
	DueDate     string // YYYY-MM-DD, empty for none
	Notify      bool
}

// CreateRequest converts the form into a [CreateGoalRequest]. The due date becomes UTC midnight.
func (f GoalForm) CreateRequest() (CreateGoalRequest, error) {
	priority, err := ParsePriority(f.Priority)
	if err != nil {
		return CreateGoalRequest{}, err
	}

	due, err := f.dueDate()
	if err != nil {
		return CreateGoalRequest{}, err
	}

	req := CreateGoalRequest{
		TypeID:              strings.TrimSpace(f.TypeID),
		Name:                strings.TrimSpace(f.Name),
		Summary:             optional(f.Summary),
		DescriptionMarkdown: optional(f.Description),
		Priority:            priority,
		DueDate:             due,
		Notify:              f.Notify,
	}
	return req, req.Validate()
}

// UpdateRequest converts the non-empty form fields into an [UpdateGoalRequest].
func (f GoalForm) UpdateRequest() (UpdateGoalRequest, error) {
	var req UpdateGoalRequest
	if s := strings.TrimSpace(f.TypeID); s != "" {
		req.TypeID = &s
	}
	if s := strings.TrimSpace(f.Name); s != "" {
		req.Name = &s
	}
	req.Summary = optional(f.Summary)
	req.DescriptionMarkdown = optional(f.Description)

	if strings.TrimSpace(f.Priority) != "" {
		p, err := ParsePriority(f.Priority)
		if err != nil {
			return req, err
		}
		req.Priority = &p
	}

	due, err := f.dueDate()
	if err != nil {
		return req, err
	}
	req.DueDate = due
	return req, nil
}

func (f GoalForm) dueDate() (*Timestamp, error) {
	if strings.TrimSpace(f.DueDate) == "" {
		return nil, nil
	}
	d, err := ParseDate(f.DueDate)
	if err != nil {
		return nil, err
	}
	ts := NewTimestamp(d.Time)
	return &ts, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
