package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/shared"
	tu "github.com/desertthunder/brain/internal/testing"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func goalDue(id, name string, due time.Time, notify bool) models.Goal {
	ts := models.NewTimestamp(due)
	return models.Goal{ID: id, Name: name, Status: models.StatusActive, DueDate: &ts, Notify: notify}
}

type memoryLedger struct {
	seen    map[string]bool
	records int
	err     error
}

func newMemoryLedger() *memoryLedger { return &memoryLedger{seen: map[string]bool{}} }

func (l *memoryLedger) key(goalID string, dueAt time.Time) string {
	return goalID + "@" + dueAt.UTC().Format(time.RFC3339Nano)
}

func (l *memoryLedger) Seen(goalID string, dueAt time.Time) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return l.seen[l.key(goalID, dueAt)], nil
}

func (l *memoryLedger) Record(goalID, _ string, dueAt time.Time, _ string) error {
	l.records++
	l.seen[l.key(goalID, dueAt)] = true
	return nil
}

func TestIsDue(t *testing.T) {
	tests := []struct {
		name string
		goal models.Goal
		want bool
	}{
		{"due 30s ago", goalDue("1", "a", fixedNow.Add(-30*time.Second), true), true},
		{"due exactly now", goalDue("1", "a", fixedNow, true), true},
		{"due 90s ago", goalDue("1", "a", fixedNow.Add(-90*time.Second), true), false},
		{"due exactly one window ago", goalDue("1", "a", fixedNow.Add(-time.Minute), true), false},
		{"due in the future", goalDue("1", "a", fixedNow.Add(time.Second), true), false},
		{"notify off", goalDue("1", "a", fixedNow.Add(-10*time.Second), false), false},
		{"no due date", models.Goal{ID: "1", Notify: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDue(tt.goal, fixedNow, DefaultReminderWindow); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScheduler_Tick(t *testing.T) {
	ctx := context.Background()

	t.Run("fires desktop notification when granted", func(t *testing.T) {
		n := tu.GrantedNotifier()
		s := NewScheduler(nil, n, ReminderOpts{})
		s.SetGoals([]models.Goal{
			goalDue("1", "Ship it", fixedNow.Add(-30*time.Second), true),
			goalDue("2", "Too old", fixedNow.Add(-90*time.Second), true),
		})

		fired := s.Tick(ctx, fixedNow, nil)
		if len(fired) != 1 {
			t.Fatalf("expected 1 reminder, got %d", len(fired))
		}
		if fired[0].Channel != models.ChannelDesktop {
			t.Errorf("expected desktop channel, got %s", fired[0].Channel)
		}

		sent := n.Sent()
		if len(sent) != 1 {
			t.Fatalf("expected 1 notification, got %d", len(sent))
		}
		if sent[0].Title != "Goal Due!" {
			t.Errorf("unexpected title %q", sent[0].Title)
		}
		if sent[0].Body != `Your goal "Ship it" is due now.` {
			t.Errorf("unexpected body %q", sent[0].Body)
		}
	})

	t.Run("falls back to toast without permission", func(t *testing.T) {
		n := tu.NewFakeNotifier(shared.PermissionGranted)
		s := NewScheduler(nil, n, ReminderOpts{})
		s.SetGoals([]models.Goal{goalDue("1", "Ship it", fixedNow.Add(-5*time.Second), true)})

		fired := s.Tick(ctx, fixedNow, nil)
		if len(fired) != 1 {
			t.Fatalf("expected 1 reminder, got %d", len(fired))
		}
		if fired[0].Channel != models.ChannelToast {
			t.Errorf("expected toast channel, got %s", fired[0].Channel)
		}
		if fired[0].Message != `Your goal "Ship it" is due!` {
			t.Errorf("unexpected toast %q", fired[0].Message)
		}
		if len(n.Sent()) != 0 {
			t.Error("no desktop notification expected before permission is granted")
		}
	})

	t.Run("falls back to toast when notify fails", func(t *testing.T) {
		n := tu.GrantedNotifier()
		n.FailNotify(errors.New("boom"))
		s := NewScheduler(nil, n, ReminderOpts{})
		s.SetGoals([]models.Goal{goalDue("1", "Ship it", fixedNow, true)})

		fired := s.Tick(ctx, fixedNow, nil)
		if len(fired) != 1 || fired[0].Channel != models.ChannelToast {
			t.Fatalf("expected toast fallback, got %+v", fired)
		}
	})

	t.Run("nil notifier always toasts", func(t *testing.T) {
		s := NewScheduler(nil, nil, ReminderOpts{})
		s.SetGoals([]models.Goal{goalDue("1", "Ship it", fixedNow, true)})

		fired := s.Tick(ctx, fixedNow, nil)
		if len(fired) != 1 || fired[0].Channel != models.ChannelToast {
			t.Fatalf("expected toast, got %+v", fired)
		}
	})

	t.Run("fires on every tick inside the window without a ledger", func(t *testing.T) {
		s := NewScheduler(nil, nil, ReminderOpts{})
		s.SetGoals([]models.Goal{goalDue("1", "Ship it", fixedNow.Add(-10*time.Second), true)})

		first := s.Tick(ctx, fixedNow, nil)
		second := s.Tick(ctx, fixedNow.Add(20*time.Second), nil)
		if len(first) != 1 || len(second) != 1 {
			t.Errorf("expected 1 reminder per tick, got %d and %d", len(first), len(second))
		}
	})

	t.Run("ledger suppresses repeats", func(t *testing.T) {
		ledger := newMemoryLedger()
		s := NewScheduler(nil, nil, ReminderOpts{Ledger: ledger})
		s.SetGoals([]models.Goal{goalDue("1", "Ship it", fixedNow.Add(-10*time.Second), true)})

		first := s.Tick(ctx, fixedNow, nil)
		second := s.Tick(ctx, fixedNow.Add(20*time.Second), nil)
		if len(first) != 1 {
			t.Errorf("expected first tick to fire, got %d", len(first))
		}
		if len(second) != 0 {
			t.Errorf("expected second tick to be suppressed, got %d", len(second))
		}
		if ledger.records != 1 {
			t.Errorf("expected 1 ledger record, got %d", ledger.records)
		}
	})

	t.Run("ledger lookup failure still fires", func(t *testing.T) {
		ledger := newMemoryLedger()
		ledger.err = errors.New("db gone")
		s := NewScheduler(nil, nil, ReminderOpts{Ledger: ledger})
		s.SetGoals([]models.Goal{goalDue("1", "Ship it", fixedNow, true)})

		if fired := s.Tick(ctx, fixedNow, nil); len(fired) != 1 {
			t.Errorf("expected 1 reminder, got %d", len(fired))
		}
	})

	t.Run("publishes events without blocking", func(t *testing.T) {
		s := NewScheduler(nil, nil, ReminderOpts{})
		s.SetGoals([]models.Goal{
			goalDue("1", "One", fixedNow, true),
			goalDue("2", "Two", fixedNow, true),
		})

		events := make(chan Reminder, 1)
		fired := s.Tick(ctx, fixedNow, events)
		if len(fired) != 2 {
			t.Fatalf("expected 2 reminders, got %d", len(fired))
		}
		if len(events) != 1 {
			t.Errorf("expected buffered channel to hold 1 event, got %d", len(events))
		}
	})
}

func TestScheduler_SetGoalsCopies(t *testing.T) {
	goals := []models.Goal{goalDue("1", "One", fixedNow, true)}
	s := NewScheduler(nil, nil, ReminderOpts{})
	s.SetGoals(goals)
	goals[0].Name = "changed"

	if got := s.Goals()[0].Name; got != "One" {
		t.Errorf("snapshot should not alias caller slice, got %q", got)
	}
}

func TestScheduler_Run(t *testing.T) {
	t.Run("refreshes from source and fires", func(t *testing.T) {
		source := &tu.FakeGoals{Goals: []models.Goal{goalDue("1", "Ship it", fixedNow.Add(-30*time.Second), true)}}
		s := NewScheduler(source, nil, ReminderOpts{
			Interval: 10 * time.Millisecond,
			Now:      func() time.Time { return fixedNow },
			Ledger:   newMemoryLedger(),
		})

		ctx, cancel := context.WithCancel(context.Background())
		events := make(chan Reminder, 4)
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx, events, nil) }()

		select {
		case r := <-events:
			if r.GoalID != "1" {
				t.Errorf("unexpected goal %s", r.GoalID)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for reminder")
		}

		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run returned %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not stop after cancel")
		}
	})

	t.Run("keeps snapshot when refresh fails", func(t *testing.T) {
		source := &tu.FakeGoals{Err: errors.New("offline")}
		s := NewScheduler(source, nil, ReminderOpts{
			Interval: 10 * time.Millisecond,
			Now:      func() time.Time { return fixedNow },
			Ledger:   newMemoryLedger(),
		})
		s.SetGoals([]models.Goal{goalDue("1", "Ship it", fixedNow, true)})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		events := make(chan Reminder, 1)
		progress := make(chan ProgressUpdate, 16)
		go s.Run(ctx, events, progress)

		select {
		case <-events:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for reminder from stale snapshot")
		}

		sawFailure := false
		for len(progress) > 0 {
			if u := <-progress; u.Phase == FetchGoals {
				sawFailure = true
			}
		}
		if !sawFailure {
			t.Error("expected a refresh failure progress update")
		}
	})

	t.Run("stops immediately on cancelled context", func(t *testing.T) {
		s := NewScheduler(nil, nil, ReminderOpts{Interval: time.Hour})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := s.Run(ctx, nil, nil); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})
}

func TestRequestPermission(t *testing.T) {
	ctx := context.Background()

	t.Run("already granted", func(t *testing.T) {
		n := tu.GrantedNotifier()
		out := RequestPermission(ctx, n)
		if out.Message != "Notification permission already granted." {
			t.Errorf("unexpected message %q", out.Message)
		}
		if n.Requests != 0 {
			t.Error("should not prompt again")
		}
	})

	t.Run("newly granted", func(t *testing.T) {
		out := RequestPermission(ctx, tu.NewFakeNotifier(shared.PermissionGranted))
		if out.Permission != shared.PermissionGranted || out.Level != ToastSuccess {
			t.Errorf("unexpected outcome %+v", out)
		}
		if out.Message != "Notification permission granted!" {
			t.Errorf("unexpected message %q", out.Message)
		}
	})

	t.Run("denied after request", func(t *testing.T) {
		out := RequestPermission(ctx, tu.NewFakeNotifier(shared.PermissionDenied))
		if out.Message != "Notification permission denied." {
			t.Errorf("unexpected message %q", out.Message)
		}
	})

	t.Run("already denied does not re-prompt", func(t *testing.T) {
		n := tu.NewFakeNotifier(shared.PermissionDenied)
		_, _ = n.RequestPermission(ctx)

		out := RequestPermission(ctx, n)
		if out.Level != ToastWarning {
			t.Errorf("expected warning, got %s", out.Level)
		}
		if n.Requests != 1 {
			t.Errorf("expected no second prompt, got %d requests", n.Requests)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		n := tu.NewFakeNotifier(shared.PermissionGranted)
		n.FailRequest(shared.ErrNotificationsUnsupported)

		out := RequestPermission(ctx, n)
		if out.Level != ToastError || out.Permission != shared.PermissionDenied {
			t.Errorf("unexpected outcome %+v", out)
		}
	})

	t.Run("nil notifier", func(t *testing.T) {
		if out := RequestPermission(ctx, nil); out.Level != ToastError {
			t.Errorf("expected error level, got %s", out.Level)
		}
	})
}
