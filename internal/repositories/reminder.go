package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/shared"
)

// ReminderRepository implements [models.Repository] for [models.Reminder] persistence.
//
// Due instants are stored as unix milliseconds so (goal_id, due_at_ms) equality is exact.
type ReminderRepository struct {
	db *sql.DB
}

// NewReminderRepository creates a new [ReminderRepository] with the given database connection
func NewReminderRepository(db *sql.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

const reminderColumns = "id, sequence, goal_id, goal_name, due_at_ms, channel, created_at, updated_at, deleted_at"

// Create inserts a new reminder into the database with generated ID and sequence
func (r *ReminderRepository) Create(reminder *models.Reminder) error {
	if err := reminder.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "reminders")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	reminder.SetID(id)
	reminder.SetSequence(sequence)

	query := `
		INSERT INTO reminders (id, sequence, goal_id, goal_name, due_at_ms, channel, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, reminder.GoalID(), reminder.GoalName(), reminder.DueAt().UnixMilli(),
		reminder.Channel(), reminder.CreatedAt(), reminder.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}

	return nil
}

// Get retrieves a reminder by ID, excluding soft-deleted rows
func (r *ReminderRepository) Get(id string) (*models.Reminder, error) {
	query := "SELECT " + reminderColumns + " FROM reminders WHERE id = ? AND deleted_at IS NULL"

	reminder, err := scanReminder(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reminder not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query reminder: %w", err)
	}
	return reminder, nil
}

// Update modifies the delivery channel of an existing reminder
func (r *ReminderRepository) Update(reminder *models.Reminder) error {
	if err := reminder.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	reminder.SetUpdatedAt(now)

	query := `
		UPDATE reminders
		SET goal_name = ?, channel = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, reminder.GoalName(), reminder.Channel(), now, reminder.ID())
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	return expectRow(result, "reminders", reminder.ID())
}

// Delete soft-deletes a reminder by ID
func (r *ReminderRepository) Delete(id string) error {
	return softDelete(r.db, "reminders", id)
}

// List retrieves reminders matching criteria, excluding soft-deleted rows.
//
// Supported criteria: "goal_id" (string) and "since" ([time.Time], inclusive lower bound on the due instant).
func (r *ReminderRepository) List(criteria map[string]any) ([]*models.Reminder, error) {
	query := "SELECT " + reminderColumns + " FROM reminders WHERE deleted_at IS NULL"
	args := []any{}

	if goalID, ok := criteria["goal_id"].(string); ok && goalID != "" {
		query += " AND goal_id = ?"
		args = append(args, goalID)
	}
	if since, ok := criteria["since"].(time.Time); ok && !since.IsZero() {
		query += " AND due_at_ms >= ?"
		args = append(args, since.UnixMilli())
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return reminders, nil
}

// Seen reports whether a live reminder exists for goalID at dueAt.
func (r *ReminderRepository) Seen(goalID string, dueAt time.Time) (bool, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM reminders WHERE goal_id = ? AND due_at_ms = ? AND deleted_at IS NULL",
		goalID, dueAt.UnixMilli(),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query reminder ledger: %w", err)
	}
	return count > 0, nil
}

// Purge permanently removes reminders whose due instant is before cutoff and returns how many were removed.
func (r *ReminderRepository) Purge(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM reminders WHERE due_at_ms < ?", cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge reminders: %w", err)
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReminder(row rowScanner) (*models.Reminder, error) {
	var (
		id        string
		sequence  int
		goalID    string
		goalName  string
		dueAtMS   int64
		channel   string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	if err := row.Scan(&id, &sequence, &goalID, &goalName, &dueAtMS, &channel, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	reminder := models.NewReminder(sequence, goalID, goalName, time.UnixMilli(dueAtMS), channel)
	reminder.SetID(id)
	reminder.SetCreatedAt(createdAt)
	reminder.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		reminder.SetDeletedAt(&deletedAt.Time)
	}
	return reminder, nil
}

// ReminderLedgerAdapter implements tasks.ReminderLedger using ReminderRepository.
//
// Recording the same (goal, due instant) twice is not an error.
type ReminderLedgerAdapter struct {
	repo *ReminderRepository
}

// NewReminderLedgerAdapter creates a new ReminderLedgerAdapter with the given repository
func NewReminderLedgerAdapter(repo *ReminderRepository) *ReminderLedgerAdapter {
	return &ReminderLedgerAdapter{repo: repo}
}

// Seen reports whether the reminder was already delivered.
func (a *ReminderLedgerAdapter) Seen(goalID string, dueAt time.Time) (bool, error) {
	return a.repo.Seen(goalID, dueAt)
}

// Record stores a delivered reminder.
func (a *ReminderLedgerAdapter) Record(goalID, goalName string, dueAt time.Time, channel string) error {
	seen, err := a.repo.Seen(goalID, dueAt)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}
	if err := a.repo.Create(models.NewReminder(0, goalID, goalName, dueAt, channel)); err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to record reminder: %w", err)
	}
	return nil
}
