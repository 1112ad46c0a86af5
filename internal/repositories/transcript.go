package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/shared"
)

// TranscriptRepository implements [models.Repository] for [models.Transcript] persistence.
type TranscriptRepository struct {
	db *sql.DB
}

// NewTranscriptRepository creates a new [TranscriptRepository] with the given database connection
func NewTranscriptRepository(db *sql.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

const transcriptColumns = "id, sequence, cache_key, link, body, source, created_at, updated_at, deleted_at"

// Create inserts a new transcript with generated ID and sequence
func (r *TranscriptRepository) Create(t *models.Transcript) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "transcripts")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	t.SetID(id)
	t.SetSequence(sequence)

	query := `
		INSERT INTO transcripts (id, sequence, cache_key, link, body, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, t.Key(), t.Link(), t.Body(), string(t.Source()), t.CreatedAt(), t.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert transcript: %w", err)
	}
	return nil
}

// Get retrieves a transcript by ID, excluding soft-deleted rows
func (r *TranscriptRepository) Get(id string) (*models.Transcript, error) {
	query := "SELECT " + transcriptColumns + " FROM transcripts WHERE id = ? AND deleted_at IS NULL"
	t, err := scanTranscript(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transcript not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transcript: %w", err)
	}
	return t, nil
}

// GetByKey retrieves a live transcript by cache key. A missing row returns [shared.ErrNotFound].
func (r *TranscriptRepository) GetByKey(key string) (*models.Transcript, error) {
	query := "SELECT " + transcriptColumns + " FROM transcripts WHERE cache_key = ? AND deleted_at IS NULL"
	t, err := scanTranscript(r.db.QueryRow(query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: transcript %s", shared.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transcript: %w", err)
	}
	return t, nil
}

// Update replaces the body of an existing transcript
func (r *TranscriptRepository) Update(t *models.Transcript) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	t.SetUpdatedAt(now)

	query := `
		UPDATE transcripts
		SET body = ?, source = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, t.Body(), string(t.Source()), now, t.ID())
	if err != nil {
		return fmt.Errorf("failed to update transcript: %w", err)
	}
	return expectRow(result, "transcripts", t.ID())
}

// Delete soft-deletes a transcript by ID
func (r *TranscriptRepository) Delete(id string) error {
	return softDelete(r.db, "transcripts", id)
}

// List retrieves transcripts matching criteria, excluding soft-deleted rows.
//
// Supported criteria: "source" (string).
func (r *TranscriptRepository) List(criteria map[string]any) ([]*models.Transcript, error) {
	query := "SELECT " + transcriptColumns + " FROM transcripts WHERE deleted_at IS NULL"
	args := []any{}

	if source, ok := criteria["source"].(string); ok && source != "" {
		query += " AND source = ?"
		args = append(args, source)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcripts: %w", err)
	}
	defer rows.Close()

	var transcripts []*models.Transcript
	for rows.Next() {
		t, err := scanTranscript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transcript: %w", err)
		}
		transcripts = append(transcripts, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return transcripts, nil
}

func scanTranscript(row rowScanner) (*models.Transcript, error) {
	var (
		id        string
		sequence  int
		key       string
		link      string
		body      string
		source    string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	if err := row.Scan(&id, &sequence, &key, &link, &body, &source, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	t := models.NewTranscript(sequence, link, body, models.ProcessSource(source))
	t.SetID(id)
	t.SetKey(key)
	t.SetCreatedAt(createdAt)
	t.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		t.SetDeletedAt(&deletedAt.Time)
	}
	return t, nil
}

// TranscriptCacheAdapter implements tasks.TranscriptCache using TranscriptRepository.
//
// Storing a link that is already cached replaces its body. Soft-deleted rows are purged first so the unique
// cache key can be reused.
type TranscriptCacheAdapter struct {
	repo *TranscriptRepository
}

// NewTranscriptCacheAdapter creates a new TranscriptCacheAdapter with the given repository
func NewTranscriptCacheAdapter(repo *TranscriptRepository) *TranscriptCacheAdapter {
	return &TranscriptCacheAdapter{repo: repo}
}

// Lookup returns the cached text for link and whether it was found.
func (a *TranscriptCacheAdapter) Lookup(link string) (string, bool, error) {
	t, err := a.repo.GetByKey(models.CacheKey(link))
	if errors.Is(err, shared.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return t.Body(), true, nil
}

// Store caches text for link.
func (a *TranscriptCacheAdapter) Store(link, text string, source models.ProcessSource) error {
	key := models.CacheKey(link)

	existing, err := a.repo.GetByKey(key)
	switch {
	case err == nil:
		existing.SetBody(text)
		existing.SetSource(source)
		return a.repo.Update(existing)
	case !errors.Is(err, shared.ErrNotFound):
		return err
	}

	if _, err := a.repo.db.Exec("DELETE FROM transcripts WHERE cache_key = ? AND deleted_at IS NOT NULL", key); err != nil {
		return fmt.Errorf("failed to clear deleted transcript: %w", err)
	}

	if err := a.repo.Create(models.NewTranscript(0, link, text, source)); err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to cache transcript: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}
