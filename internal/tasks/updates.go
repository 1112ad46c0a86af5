package tasks

import (
	"fmt"

	"github.com/desertthunder/brain/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchGoals Phase = iota
	CheckReminders
	FetchProfile
	FetchVideos
	ProcessVideos
)

func (p Phase) String() string {
	switch p {
	case FetchGoals:
		return "fetch_goals"
	case CheckReminders:
		return "check_reminders"
	case FetchProfile:
		return "fetch_profile"
	case FetchVideos:
		return "fetch_videos"
	case ProcessVideos:
		return "process_videos"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func processingVideoUpdate(step, total int, v models.VideoEntry) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessVideos,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Processing: %s...", step, total, v.Name),
	}
}

func processedVideoUpdate(step, total int, res VideoResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessVideos,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, res.Video.Name, res.Source),
		Data:    res,
	}
}

func failedVideoUpdate(step, total int, res VideoResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessVideos,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Video.Name, res.Err),
		Data:    res,
	}
}

func refreshFailedUpdate(err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchGoals,
		Message: fmt.Sprintf("Failed to refresh goals: %v", err),
	}
}

func remindersCheckedUpdate(checked, fired int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CheckReminders,
		Step:    fired,
		Total:   checked,
		Message: fmt.Sprintf("Checked %d goals, %d due", checked, fired),
	}
}
