package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/brain/internal/shared"
	"github.com/desertthunder/brain/internal/tasks"
	"github.com/desertthunder/brain/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive goal list with a background reminder loop feeding toasts.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.goalService()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	notifier := r.reminderNotifier(cmd)
	opts, closeLedger := r.reminderOpts(cmd)
	defer closeLedger()

	events := make(chan tasks.Reminder, 16)
	sched := tasks.NewScheduler(svc, notifier, opts)
	go func() {
		if err := sched.Run(ctx, events, nil); err != nil {
			r.logger.Error("reminder loop stopped", "error", err)
		}
	}()

	model := ui.NewModel(ctx, svc, ui.Options{
		Notifier: notifier,
		Events:   events,
		Logger:   r.logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
