package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/repositories"
	"github.com/desertthunder/brain/internal/shared"
	"github.com/desertthunder/brain/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Remind watches goals and delivers reminders as they fall due, until ctx is cancelled.
//
// With --once it performs a single check immediately and exits.
func (r *Runner) Remind(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.goalService()
	if err != nil {
		return err
	}

	notifier := r.reminderNotifier(cmd)
	if notifier != nil && notifier.Permission() == shared.PermissionDefault {
		outcome := tasks.RequestPermission(ctx, notifier)
		r.writePlain("%s\n", outcome.Message)
	}

	opts, closeLedger := r.reminderOpts(cmd)
	defer closeLedger()

	sched := tasks.NewScheduler(svc, notifier, opts)
	if err := sched.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to list goals: %w", err)
	}

	if cmd.Bool("once") {
		fired := sched.Tick(ctx, time.Now(), nil)
		for _, rem := range fired {
			r.printReminder(rem)
		}
		return r.writePlain("Checked %d goals, %d due\n", len(sched.Goals()), len(fired))
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = tasks.DefaultReminderInterval
	}
	r.writePlain("Watching %d goals, checking every %s (Ctrl+C to stop)\n", len(sched.Goals()), interval)

	events := make(chan tasks.Reminder, 16)
	progressCh := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case rem, ok := <-events:
				if !ok {
					return
				}
				r.printReminder(rem)
			case update := <-progressCh:
				r.logger.Debug(update.Message, "phase", update.Phase)
			}
		}
	}()

	runErr := sched.Run(ctx, events, progressCh)
	close(events)
	<-done
	return runErr
}

func (r *Runner) printReminder(rem tasks.Reminder) {
	if rem.Channel == models.ChannelDesktop {
		r.writePlain("🔔 %s\n", rem.Message)
		return
	}
	r.writePlain("🔔 %s\n   %s\n", rem.Message, tasks.ToastHint)
}

// reminderNotifier returns the desktop notifier unless desktop delivery is disabled by flag or config.
func (r *Runner) reminderNotifier(cmd *cli.Command) shared.Notifier {
	if cmd.Bool("no-desktop") || !r.cfg().Reminders.Desktop {
		return nil
	}
	return r.notifier
}

// reminderOpts builds scheduler options from config and flags. The returned func closes the ledger database.
func (r *Runner) reminderOpts(cmd *cli.Command) (tasks.ReminderOpts, func()) {
	cfg := r.cfg().Reminders
	opts := tasks.ReminderOpts{
		Interval: cfg.Interval.Duration,
		Window:   cfg.Window.Duration,
		Logger:   r.logger,
	}
	if cmd.IsSet("interval") {
		opts.Interval = cmd.Duration("interval")
	}
	if cmd.IsSet("window") {
		opts.Window = cmd.Duration("window")
	}

	if cmd.Bool("no-ledger") || !cfg.Ledger {
		return opts, func() {}
	}

	db, err := r.openDatabase()
	if err != nil {
		r.logger.Warn("reminder ledger unavailable, reminders may repeat after restart", "error", err)
		return opts, func() {}
	}
	opts.Ledger = repositories.NewReminderLedgerAdapter(repositories.NewReminderRepository(db))
	return opts, func() { db.Close() }
}

// RemindPermission requests desktop notification permission once and reports the outcome.
func (r *Runner) RemindPermission(ctx context.Context, cmd *cli.Command) error {
	outcome := tasks.RequestPermission(ctx, r.notifier)
	r.logger.Debug("notification permission", "permission", outcome.Permission, "level", outcome.Level)
	return r.writePlain("%s\n", outcome.Message)
}

// RemindHistory lists reminders recorded in the ledger.
func (r *Runner) RemindHistory(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	reminders, err := repositories.NewReminderRepository(db).List(map[string]any{"goal_id": cmd.String("goal")})
	if err != nil {
		return err
	}

	if len(reminders) == 0 {
		return r.writePlain("No reminders recorded\n")
	}

	r.writePlainHeader(fmt.Sprintf("Reminders (%d)", len(reminders)))
	for _, rem := range reminders {
		r.writePlain("%s  %-7s %s\n", models.NewTimestamp(rem.DueAt()), rem.Channel(), rem.GoalName())
	}
	return nil
}

// RemindPurge removes ledger entries whose due instant is older than --older-than.
func (r *Runner) RemindPurge(ctx context.Context, cmd *cli.Command) error {
	age := cmd.Duration("older-than")
	if age <= 0 {
		return fmt.Errorf("%w: --older-than must be positive", shared.ErrInvalidFlag)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := repositories.NewReminderRepository(db).Purge(time.Now().Add(-age))
	if err != nil {
		return err
	}

	r.logger.Info("purged reminders", "count", n, "older_than", age)
	return r.writePlain("✓ Purged %d reminders\n", n)
}
