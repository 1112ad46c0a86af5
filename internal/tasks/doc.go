// Package tasks runs the long-lived and multi-step operations behind the CLI and TUI.
//
// # Reminders
//
// [Scheduler] polls a goal snapshot on a fixed interval (60s by default). A goal is due when notify is on, it has
// a due date, and that date lies in the last window (60s by default). Due goals produce a desktop notification
// when [shared.Notifier] permission is granted and an in-app toast otherwise. An optional [ReminderLedger]
// (repositories.ReminderLedgerAdapter) keeps a restarted process from firing the same reminder twice.
//
// [RequestPermission] asks for notification permission once and reports the outcome as a toast message.
//
// # Profiles
//
// [ResolveProfile] loads a portfolio profile. A missing own profile resolves to [ProfileMissing] so callers can
// offer the creation flow instead of failing.
//
// # Video library
//
// [ProcessLibrary] processes many video links with a bounded worker pool and a shared rate limiter, consulting
// an optional [TranscriptCache] first.
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values over non-blocking channels. Updates are dropped when nobody reads them.
package tasks
