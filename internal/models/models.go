// package models defines the data model for the brain CLI
package models

import (
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for all persistent models.
// Implementations include Reminder and Transcript.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// record carries the bookkeeping columns every persisted table shares.
type record struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func newRecord(sequence int) record {
	now := time.Now()
	return record{sequence: sequence, createdAt: now, updatedAt: now}
}

func (r *record) ID() string                { return r.id }
func (r *record) Sequence() int             { return r.sequence }
func (r *record) CreatedAt() time.Time      { return r.createdAt }
func (r *record) UpdatedAt() time.Time      { return r.updatedAt }
func (r *record) DeletedAt() *time.Time     { return r.deletedAt }
func (r *record) IsDeleted() bool           { return r.deletedAt != nil }
func (r *record) SetID(id string)           { r.id = id }
func (r *record) SetSequence(seq int)       { r.sequence = seq }
func (r *record) SetCreatedAt(t time.Time)  { r.createdAt = t }
func (r *record) SetUpdatedAt(t time.Time)  { r.updatedAt = t }
func (r *record) SetDeletedAt(t *time.Time) { r.deletedAt = t }

// Reminder records that a due notification for a goal was delivered, so a restarted scheduler does not fire it
// again inside the same window.
type Reminder struct {
	record
	goalID   string
	goalName string
	dueAt    time.Time
	channel  string
}

// Reminder delivery channels.
const (
	ChannelDesktop = "desktop"
	ChannelToast   = "toast"
)

// NewReminder creates a [Reminder] for goal fired at dueAt through channel.
func NewReminder(sequence int, goalID, goalName string, dueAt time.Time, channel string) *Reminder {
	return &Reminder{record: newRecord(sequence), goalID: goalID, goalName: goalName, dueAt: dueAt.UTC(), channel: channel}
}

func (r *Reminder) GoalID() string    { return r.goalID }
func (r *Reminder) GoalName() string  { return r.goalName }
func (r *Reminder) DueAt() time.Time  { return r.dueAt }
func (r *Reminder) Channel() string   { return r.channel }
func (r *Reminder) SetChannel(c string) { r.channel = c }

// Validate implements [Model].
func (r *Reminder) Validate() error {
	if strings.TrimSpace(r.goalID) == "" {
		return fmt.Errorf("reminder goal id is required")
	}
	if r.dueAt.IsZero() {
		return fmt.Errorf("reminder due time is required")
	}
	switch r.channel {
	case ChannelDesktop, ChannelToast:
		return nil
	default:
		return fmt.Errorf("unknown reminder channel %q", r.channel)
	}
}

// Transcript is the processed text produced for one video link, keyed by [CacheKey].
type Transcript struct {
	record
	key    string
	link   string
	body   string
	source ProcessSource
}

// NewTranscript creates a [Transcript] for link. The cache key is derived from the link.
func NewTranscript(sequence int, link, body string, source ProcessSource) *Transcript {
	return &Transcript{record: newRecord(sequence), key: CacheKey(link), link: link, body: body, source: source}
}

func (t *Transcript) Key() string               { return t.key }
func (t *Transcript) Link() string              { return t.link }
func (t *Transcript) Body() string              { return t.body }
func (t *Transcript) Source() ProcessSource     { return t.source }
func (t *Transcript) SetKey(key string)         { t.key = key }
func (t *Transcript) SetBody(body string)       { t.body = body }
func (t *Transcript) SetSource(s ProcessSource) { t.source = s }

// Validate implements [Model].
func (t *Transcript) Validate() error {
	if t.key == "" {
		return fmt.Errorf("transcript cache key is required")
	}
	if len(t.key) > maxCacheKeyLen {
		return fmt.Errorf("transcript cache key exceeds %d characters", maxCacheKeyLen)
	}
	if t.source == SourceError {
		return fmt.Errorf("failed results are not cached")
	}
	return nil
}
