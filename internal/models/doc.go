// Package models defines the typed contracts shared by the goals, media and portfolio backends, and the local
// entities persisted by the CLI.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): JSON contracts exchanged with the REST backends
//   - [Goal], [GoalType], [CreateGoalRequest], [UpdateGoalRequest] : goal tracker
//   - [VideoEntry], [AddVideoResponse], [ProcessVideoResponse] : media proxy
//   - [ProfileData], [Profile], [PublicProfile] and their nested records : portfolio
//   - [HTTPValidationError] : the uniform 422 body of every backend
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Reminder] : ledger row for a reminder that has already fired
//   - [Transcript] : cached processed text for a video link
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
//
// Goal lists fetched from the backend are filtered and ordered client-side with [FilterGoals], [FilterByType] and
// [SortGoals]. None of them mutate their input.
package models
