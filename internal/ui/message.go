package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgGoalsFetched MsgKind = iota
	MsgGoalUpdated
	MsgReminder
	MsgPermission
	MsgToastExpired
)

type goalsFetched struct {
	goals []models.Goal
	types []models.GoalType
	err   error
}

type goalUpdated struct {
	goal *models.Goal
	err  error
}

// goalsFetchedMsg is the constructor for [MsgGoalsFetched]
func goalsFetchedMsg(goals []models.Goal, types []models.GoalType, err error) Msg {
	return Msg{kind: MsgGoalsFetched, data: goalsFetched{goals, types, err}}
}

// goalUpdatedMsg is the constructor for [MsgGoalUpdated]
func goalUpdatedMsg(goal *models.Goal, err error) Msg {
	return Msg{kind: MsgGoalUpdated, data: goalUpdated{goal, err}}
}

// reminderMsg is the constructor for [MsgReminder]
func reminderMsg(r tasks.Reminder) Msg {
	return Msg{kind: MsgReminder, data: r}
}

// permissionMsg is the constructor for [MsgPermission]
func permissionMsg(out tasks.PermissionOutcome) Msg {
	return Msg{kind: MsgPermission, data: out}
}

// toastExpiredMsg is the constructor for [MsgToastExpired]
func toastExpiredMsg(seq int) Msg {
	return Msg{kind: MsgToastExpired, data: seq}
}
