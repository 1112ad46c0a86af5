package main

import (
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/shared"
	"github.com/desertthunder/brain/internal/tasks"
	tu "github.com/desertthunder/brain/internal/testing"
)

func dueGoals(now time.Time) *tu.FakeGoals {
	recent := models.NewTimestamp(now.Add(-30 * time.Second))
	stale := models.NewTimestamp(now.Add(-90 * time.Second))
	return &tu.FakeGoals{
		Goals: []models.Goal{
			{ID: goalHigh, Name: "Ship release", Status: models.StatusActive, Priority: models.PriorityHigh, DueDate: &recent, Notify: true},
			{ID: goalLow, Name: "Stretch daily", Status: models.StatusActive, Priority: models.PriorityLow, DueDate: &stale, Notify: true},
			{ID: goalNone, Name: "Read 12 books", Status: models.StatusActive, Priority: models.PriorityNone, DueDate: &recent},
		},
	}
}

func TestRemindCommands(t *testing.T) {
	t.Run("once sends a desktop notification for the due goal", func(t *testing.T) {
		notifier := tu.GrantedNotifier()
		runner, output := newTestRunner(t, RunnerOpts{Goals: dueGoals(time.Now()), Notifier: notifier})

		if err := run(t, runner, "remind", "--once"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		sent := notifier.Sent()
		if len(sent) != 1 {
			t.Fatalf("expected one notification, got %d", len(sent))
		}
		if sent[0].Title != tasks.NotificationTitle || sent[0].Body != tasks.NotificationBody("Ship release") {
			t.Errorf("unexpected notification %+v", sent[0])
		}
		if !strings.Contains(output.String(), "Checked 3 goals, 1 due") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("ledger prevents a repeat after restart", func(t *testing.T) {
		notifier := tu.GrantedNotifier()
		runner, _ := newTestRunner(t, RunnerOpts{Goals: dueGoals(time.Now()), Notifier: notifier})

		for range 2 {
			if err := run(t, runner, "remind", "--once"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if len(notifier.Sent()) != 1 {
			t.Errorf("expected one notification across runs, got %d", len(notifier.Sent()))
		}
	})

	t.Run("without a ledger every run fires", func(t *testing.T) {
		notifier := tu.GrantedNotifier()
		runner, _ := newTestRunner(t, RunnerOpts{Goals: dueGoals(time.Now()), Notifier: notifier})

		for range 2 {
			if err := run(t, runner, "remind", "--once", "--no-ledger"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if len(notifier.Sent()) != 2 {
			t.Errorf("expected two notifications, got %d", len(notifier.Sent()))
		}
	})

	t.Run("no-desktop falls back to a toast", func(t *testing.T) {
		notifier := tu.GrantedNotifier()
		runner, output := newTestRunner(t, RunnerOpts{Goals: dueGoals(time.Now()), Notifier: notifier})

		if err := run(t, runner, "remind", "--once", "--no-desktop"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(notifier.Sent()) != 0 {
			t.Error("expected no desktop notification")
		}
		out := output.String()
		if !strings.Contains(out, tasks.ToastMessage("Ship release")) || !strings.Contains(out, tasks.ToastHint) {
			t.Errorf("expected toast with hint, got %q", out)
		}
	})

	t.Run("undecided permission is requested once", func(t *testing.T) {
		notifier := tu.NewFakeNotifier(shared.PermissionDenied)
		runner, output := newTestRunner(t, RunnerOpts{Goals: dueGoals(time.Now()), Notifier: notifier})

		if err := run(t, runner, "remind", "--once", "--no-ledger"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := run(t, runner, "remind", "--once", "--no-ledger"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if notifier.Requests != 1 {
			t.Errorf("expected one permission request, got %d", notifier.Requests)
		}
		if !strings.Contains(output.String(), "Notification permission denied.") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("history and purge", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Goals: dueGoals(time.Now()), Notifier: tu.GrantedNotifier()})

		if err := run(t, runner, "remind", "--once"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output.Reset()

		if err := run(t, runner, "remind", "history"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "Reminders (1)") || !strings.Contains(output.String(), "desktop") {
			t.Errorf("unexpected history %q", output.String())
		}

		output.Reset()
		if err := run(t, runner, "remind", "purge", "--older-than", "1ms"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "Purged 1 reminders") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("permission", func(t *testing.T) {
		tests := []struct {
			name     string
			notifier shared.Notifier
			want     string
		}{
			{"granted on request", tu.NewFakeNotifier(shared.PermissionGranted), "Notification permission granted!"},
			{"already granted", tu.GrantedNotifier(), "Notification permission already granted."},
			{"unsupported", nil, "This system does not support desktop notifications."},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				runner, output := newTestRunner(t, RunnerOpts{Notifier: tt.notifier})

				if err := run(t, runner, "remind", "permission"); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if strings.TrimSpace(output.String()) != tt.want {
					t.Errorf("expected %q, got %q", tt.want, output.String())
				}
			})
		}
	})
}
