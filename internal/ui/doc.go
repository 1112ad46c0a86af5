// Package ui implements an interactive terminal interface for goals using bubbletea's Elm architecture.
//
// Views:
//  1. [GoalListView] : Browse goals, filter by name with /, sort by priority, toggle done
//  2. [GoalDetailView] : Show a single goal with its summary and description
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Reminders flow in through a channel fed by tasks.Scheduler and show up as toasts at the bottom of the screen.
//
// Keyboard bindings (space, s, r, n, enter, esc, q) are listed via charmbracelet/bubbles/help.
package ui
