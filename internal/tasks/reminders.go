package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/shared"
)

const (
	// DefaultReminderInterval is the time between reminder checks.
	DefaultReminderInterval = 60 * time.Second
	// DefaultReminderWindow is how long after its due instant a goal still counts as due.
	DefaultReminderWindow = 60 * time.Second

	NotificationTitle = "Goal Due!"
	ToastHint         = "Enable notifications to get reminders directly on your desktop."
)

// NotificationBody is the desktop notification text for a due goal.
func NotificationBody(goalName string) string {
	return fmt.Sprintf("Your goal %q is due now.", goalName)
}

// ToastMessage is the in-app fallback text for a due goal.
func ToastMessage(goalName string) string {
	return fmt.Sprintf("Your goal %q is due!", goalName)
}

// IsDue reports whether goal wants a reminder at now: notify is on, a due date is set, and the due instant lies in
// (now-window, now].
func IsDue(goal models.Goal, now time.Time, window time.Duration) bool {
	if !goal.Notify || goal.DueDate == nil {
		return false
	}
	due := goal.DueDate.Time
	return !due.After(now) && now.Sub(due) < window
}

// GoalSource supplies the current goal list on each tick.
type GoalSource interface {
	ListGoals(ctx context.Context) ([]models.Goal, error)
}

// ReminderLedger remembers which reminders were already delivered.
type ReminderLedger interface {
	Seen(goalID string, dueAt time.Time) (bool, error)
	Record(goalID, goalName string, dueAt time.Time, channel string) error
}

// Reminder is a delivered reminder, published on the scheduler's event channel.
type Reminder struct {
	GoalID   string
	GoalName string
	DueAt    time.Time
	FiredAt  time.Time
	Channel  string // models.ChannelDesktop or models.ChannelToast
	Message  string
}

// ReminderOpts configures a [Scheduler]. Zero values select the defaults.
type ReminderOpts struct {
	Interval time.Duration
	Window   time.Duration
	Now      func() time.Time
	Ledger   ReminderLedger // optional
	Logger   *log.Logger
}

// Scheduler checks a goal snapshot on a fixed interval and delivers reminders for goals that just became due.
//
// Delivery is best effort: a tick that runs late can miss a goal, and without a ledger a goal can fire on two
// consecutive ticks when the interval is shorter than the window.
type Scheduler struct {
	source   GoalSource
	notifier shared.Notifier
	opts     ReminderOpts

	mu    sync.Mutex
	goals []models.Goal
}

// NewScheduler creates a [Scheduler]. source may be nil when goals are supplied through [Scheduler.SetGoals];
// notifier may be nil, in which case every reminder is a toast.
func NewScheduler(source GoalSource, notifier shared.Notifier, opts ReminderOpts) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultReminderInterval
	}
	if opts.Window <= 0 {
		opts.Window = DefaultReminderWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Scheduler{source: source, notifier: notifier, opts: opts}
}

// SetGoals replaces the goal snapshot.
func (s *Scheduler) SetGoals(goals []models.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = slices.Clone(goals)
}

// Goals returns a copy of the current goal snapshot.
func (s *Scheduler) Goals() []models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.goals)
}

// Run checks goals every interval until ctx is cancelled. The first check happens one interval after Run starts.
//
// When a source is set the snapshot is refreshed before every check; a failed refresh keeps the previous snapshot.
func (s *Scheduler) Run(ctx context.Context, events chan<- Reminder, progress chan<- ProgressUpdate) error {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	s.opts.Logger.Debug("reminder loop started", "interval", s.opts.Interval, "window", s.opts.Window)

	for {
		select {
		case <-ctx.Done():
			s.opts.Logger.Debug("reminder loop stopped")
			return nil
		case <-ticker.C:
		}

		if s.source != nil {
			if err := s.Refresh(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				s.opts.Logger.Warn("goal refresh failed", "error", err)
				sendProgress(progress, refreshFailedUpdate(err))
			}
		}

		fired := s.Tick(ctx, s.opts.Now(), events)
		sendProgress(progress, remindersCheckedUpdate(len(s.Goals()), len(fired)))
	}
}

// Refresh replaces the snapshot with the source's current goals.
func (s *Scheduler) Refresh(ctx context.Context) error {
	if s.source == nil {
		return nil
	}
	goals, err := s.source.ListGoals(ctx)
	if err != nil {
		return err
	}
	s.SetGoals(goals)
	return nil
}

// Tick delivers a reminder for every goal due at now and returns what was delivered.
func (s *Scheduler) Tick(ctx context.Context, now time.Time, events chan<- Reminder) []Reminder {
	var fired []Reminder
	for _, goal := range s.Goals() {
		if !IsDue(goal, now, s.opts.Window) {
			continue
		}

		due := goal.DueDate.Time
		if s.opts.Ledger != nil {
			seen, err := s.opts.Ledger.Seen(goal.ID, due)
			if err != nil {
				s.opts.Logger.Warn("reminder ledger lookup failed", "goal", goal.ID, "error", err)
			} else if seen {
				continue
			}
		}

		r := s.deliver(ctx, goal, now)
		fired = append(fired, r)

		if s.opts.Ledger != nil {
			if err := s.opts.Ledger.Record(goal.ID, goal.Name, due, r.Channel); err != nil {
				s.opts.Logger.Warn("failed to record reminder", "goal", goal.ID, "error", err)
			}
		}

		if events != nil {
			select {
			case events <- r:
			default:
			}
		}
	}
	return fired
}

// deliver sends a desktop notification when permission is granted and falls back to a toast otherwise.
func (s *Scheduler) deliver(ctx context.Context, goal models.Goal, now time.Time) Reminder {
	r := Reminder{
		GoalID:   goal.ID,
		GoalName: goal.Name,
		DueAt:    goal.DueDate.Time,
		FiredAt:  now,
		Channel:  models.ChannelToast,
		Message:  ToastMessage(goal.Name),
	}

	if s.notifier != nil && s.notifier.Permission() == shared.PermissionGranted {
		body := NotificationBody(goal.Name)
		if err := s.notifier.Notify(ctx, NotificationTitle, body); err != nil {
			s.opts.Logger.Warn("desktop notification failed, showing toast", "goal", goal.Name, "error", err)
		} else {
			r.Channel = models.ChannelDesktop
			r.Message = body
		}
	}

	s.opts.Logger.Info(r.Message, "goal", goal.ID, "channel", r.Channel)
	return r
}

// ToastLevel classifies an in-app message.
type ToastLevel string

const (
	ToastInfo    ToastLevel = "info"
	ToastSuccess ToastLevel = "success"
	ToastWarning ToastLevel = "warning"
	ToastError   ToastLevel = "error"
)

// PermissionOutcome is the user-facing result of a permission request.
type PermissionOutcome struct {
	Permission shared.Permission
	Level      ToastLevel
	Message    string
}

// RequestPermission asks notifier for permission once and describes the outcome. It never re-prompts a
// decision that was already made.
func RequestPermission(ctx context.Context, notifier shared.Notifier) PermissionOutcome {
	unsupported := PermissionOutcome{
		Permission: shared.PermissionDenied,
		Level:      ToastError,
		Message:    "This system does not support desktop notifications.",
	}
	if notifier == nil {
		return unsupported
	}

	switch notifier.Permission() {
	case shared.PermissionGranted:
		return PermissionOutcome{shared.PermissionGranted, ToastSuccess, "Notification permission already granted."}
	case shared.PermissionDenied:
		return PermissionOutcome{shared.PermissionDenied, ToastWarning, "Notifications are blocked. Please enable them in your system settings."}
	}

	p, err := notifier.RequestPermission(ctx)
	if errors.Is(err, shared.ErrNotificationsUnsupported) {
		return unsupported
	}
	if err != nil {
		return PermissionOutcome{shared.PermissionDenied, ToastError, fmt.Sprintf("Failed to request notification permission: %v", err)}
	}
	if p == shared.PermissionGranted {
		return PermissionOutcome{p, ToastSuccess, "Notification permission granted!"}
	}
	return PermissionOutcome{p, ToastWarning, "Notification permission denied."}
}
