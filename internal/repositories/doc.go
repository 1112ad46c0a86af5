// Package repositories implements SQLite persistence for the CLI's local state.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [ReminderRepository] : ledger of reminders already fired, keyed by goal and due instant
//   - [TranscriptRepository] : processed video text keyed by the sanitized link
//   - [TranscriptCacheAdapter] : adapts TranscriptRepository to the bulk processor's cache interface
//   - [ReminderLedgerAdapter] : adapts ReminderRepository to the reminder scheduler's ledger interface
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
