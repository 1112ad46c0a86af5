package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/brain/internal/formatter"
	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/services"
	"github.com/desertthunder/brain/internal/shared"
	"github.com/urfave/cli/v3"
)

// GoalsList prints goals, optionally narrowed by type and name filter and ordered by priority.
func (r *Runner) GoalsList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.goalService()
	if err != nil {
		return err
	}

	order, err := models.ParseSortOrder(cmd.String("sort"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	goals, types, err := r.fetchGoals(ctx, svc)
	if err != nil {
		return err
	}

	if t := cmd.String("type"); t != "" {
		typeID, err := resolveTypeID(types, t)
		if err != nil {
			return err
		}
		goals = models.FilterByType(goals, typeID)
	}
	goals = models.SortGoals(models.FilterGoals(goals, cmd.String("filter")), order)

	r.logger.Debug("listing goals", "count", len(goals), "order", order)

	if cmd.Bool("json") {
		return r.writeJSON(goals, true)
	}

	if len(goals) == 0 {
		r.writePlain("No goals found\n")
		return nil
	}

	data, err := formatter.GoalsToText(goals, types)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// GoalsAdd creates a goal from flags.
func (r *Runner) GoalsAdd(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.goalService()
	if err != nil {
		return err
	}

	types, err := svc.ListGoalTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list goal types: %w", err)
	}
	typeID, err := resolveTypeID(types, cmd.String("type"))
	if err != nil {
		return err
	}

	form := models.GoalForm{
		TypeID:      typeID,
		Name:        cmd.String("name"),
		Summary:     cmd.String("summary"),
		Description: cmd.String("description"),
		Priority:    cmd.String("priority"),
		Notify:      cmd.Bool("notify"),
	}
	due, err := parseDue(cmd.String("due"))
	if err != nil {
		return err
	}

	req, err := form.CreateRequest()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	req.DueDate = due

	goal, err := svc.CreateGoal(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}

	r.logger.Info("goal created", "id", goal.ID, "name", goal.Name)
	r.writePlain("✓ Created goal %s (%s)\n", goal.Name, goal.ID)
	return nil
}

// GoalsUpdate applies the flags that were set to an existing goal.
func (r *Runner) GoalsUpdate(ctx context.Context, cmd *cli.Command) error {
	goalID, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	svc, err := r.goalService()
	if err != nil {
		return err
	}

	form := models.GoalForm{
		Name:        cmd.String("name"),
		Summary:     cmd.String("summary"),
		Description: cmd.String("description"),
		Priority:    cmd.String("priority"),
	}
	if t := cmd.String("type"); t != "" {
		types, err := svc.ListGoalTypes(ctx)
		if err != nil {
			return fmt.Errorf("failed to list goal types: %w", err)
		}
		if form.TypeID, err = resolveTypeID(types, t); err != nil {
			return err
		}
	}

	req, err := form.UpdateRequest()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if req.DueDate, err = parseDue(cmd.String("due")); err != nil {
		return err
	}
	if cmd.IsSet("notify") {
		notify := cmd.Bool("notify")
		req.Notify = &notify
	}
	if s := cmd.String("status"); s != "" {
		status, err := models.ParseStatus(s)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
		req.Status = &status
	}

	if req.IsEmpty() {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	goal, err := svc.UpdateGoal(ctx, goalID, req)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}

	r.logger.Info("goal updated", "id", goal.ID)
	r.writePlain("✓ Updated goal %s\n", goal.Name)
	return nil
}

// GoalsDone marks a goal done.
func (r *Runner) GoalsDone(ctx context.Context, cmd *cli.Command) error {
	return r.setGoalStatus(ctx, cmd, models.StatusDone)
}

// GoalsReopen marks a goal active.
func (r *Runner) GoalsReopen(ctx context.Context, cmd *cli.Command) error {
	return r.setGoalStatus(ctx, cmd, models.StatusActive)
}

func (r *Runner) setGoalStatus(ctx context.Context, cmd *cli.Command, status models.Status) error {
	goalID, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	svc, err := r.goalService()
	if err != nil {
		return err
	}

	goal, err := svc.SetGoalStatus(ctx, goalID, status)
	if services.IsNotFound(err) {
		return fmt.Errorf("%w: %s", shared.ErrGoalNotFound, goalID)
	}
	if err != nil {
		return fmt.Errorf("failed to update goal status: %w", err)
	}

	r.logger.Info("goal status changed", "id", goal.ID, "status", goal.Status)
	r.writePlain("✓ %s is now %s\n", goal.Name, goal.Status)
	return nil
}

// GoalsDelete deletes a goal.
func (r *Runner) GoalsDelete(ctx context.Context, cmd *cli.Command) error {
	goalID, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	svc, err := r.goalService()
	if err != nil {
		return err
	}

	if err := svc.DeleteGoal(ctx, goalID); err != nil {
		if services.IsNotFound(err) {
			return fmt.Errorf("%w: %s", shared.ErrGoalNotFound, goalID)
		}
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	r.logger.Info("goal deleted", "id", goalID)
	r.writePlain("✓ Deleted goal %s\n", goalID)
	return nil
}

// GoalsExport renders every goal in the requested format to stdout or --output.
func (r *Runner) GoalsExport(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.goalService()
	if err != nil {
		return err
	}

	order, err := models.ParseSortOrder(cmd.String("sort"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	goals, types, err := r.fetchGoals(ctx, svc)
	if err != nil {
		return err
	}

	format := strings.ToLower(cmd.String("format"))
	data, err := formatter.ExportGoals(models.SortGoals(goals, order), types, format)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	if out := cmd.String("output"); out != "" {
		if err := formatter.WriteFile(out, data); err != nil {
			return err
		}
		r.logger.Info("goals exported", "path", out, "format", format, "count", len(goals))
		r.writePlain("✓ Exported %d goals to %s\n", len(goals), out)
		return nil
	}

	_, err = r.output.Write(data)
	return err
}

// GoalTypesList prints every goal type.
func (r *Runner) GoalTypesList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.goalService()
	if err != nil {
		return err
	}

	types, err := svc.ListGoalTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list goal types: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(types, true)
	}

	r.writePlainHeader(fmt.Sprintf("Goal types (%d)", len(types)))
	for _, t := range types {
		color := ""
		if t.Color != nil {
			color = *t.Color
		}
		locked := ""
		if !t.IsDeletable {
			locked = " (built-in)"
		}
		r.writePlain("%s  %-20s %s%s\n", t.ID, t.Name, color, locked)
	}
	return nil
}

// GoalTypesAdd creates a goal type.
func (r *Runner) GoalTypesAdd(ctx context.Context, cmd *cli.Command) error {
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}

	svc, err := r.goalService()
	if err != nil {
		return err
	}

	gt, err := svc.CreateGoalType(ctx, models.CreateGoalTypeRequest{Name: name, Color: optionalFlag(cmd, "color")})
	if err != nil {
		return fmt.Errorf("failed to create goal type: %w", err)
	}

	r.logger.Info("goal type created", "id", gt.ID, "name", gt.Name)
	r.writePlain("✓ Created goal type %s (%s)\n", gt.Name, gt.ID)
	return nil
}

// GoalTypesUpdate renames or recolors a goal type.
func (r *Runner) GoalTypesUpdate(ctx context.Context, cmd *cli.Command) error {
	typeID, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	svc, err := r.goalService()
	if err != nil {
		return err
	}

	name, color := optionalFlag(cmd, "name"), optionalFlag(cmd, "color")
	if name == nil && color == nil {
		return fmt.Errorf("%w: nothing to update, pass --name or --color", shared.ErrMissingArgument)
	}

	// the backend replaces both columns, so unset fields carry the current values
	types, err := svc.ListGoalTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list goal types: %w", err)
	}
	idx := slices.IndexFunc(types, func(t models.GoalType) bool { return t.ID == typeID })
	if idx < 0 {
		return fmt.Errorf("%w: goal type %s", shared.ErrNotFound, typeID)
	}

	req := models.CreateGoalTypeRequest{Name: types[idx].Name, Color: types[idx].Color}
	if name != nil {
		req.Name = *name
	}
	if color != nil {
		req.Color = color
	}

	gt, err := svc.UpdateGoalType(ctx, typeID, req)
	if err != nil {
		return fmt.Errorf("failed to update goal type: %w", err)
	}

	r.writePlain("✓ Updated goal type %s\n", gt.Name)
	return nil
}

// GoalTypesDelete deletes a goal type. Built-in types are refused before any request is made.
func (r *Runner) GoalTypesDelete(ctx context.Context, cmd *cli.Command) error {
	typeID, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	svc, err := r.goalService()
	if err != nil {
		return err
	}

	types, err := svc.ListGoalTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list goal types: %w", err)
	}
	for _, t := range types {
		if t.ID == typeID && !t.IsDeletable {
			return fmt.Errorf("%w: goal type %q cannot be deleted", shared.ErrInvalidArgument, t.Name)
		}
	}

	if err := svc.DeleteGoalType(ctx, typeID); err != nil {
		return fmt.Errorf("failed to delete goal type: %w", err)
	}

	r.logger.Info("goal type deleted", "id", typeID)
	r.writePlain("✓ Deleted goal type %s\n", typeID)
	return nil
}

func (r *Runner) fetchGoals(ctx context.Context, svc services.GoalService) ([]models.Goal, []models.GoalType, error) {
	goals, err := svc.ListGoals(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list goals: %w", err)
	}
	types, err := svc.ListGoalTypes(ctx)
	if err != nil {
		r.logger.Warn("failed to list goal types, showing ids", "error", err)
	}
	return goals, types, nil
}

// resolveTypeID accepts a goal type id or a case-insensitive type name.
func resolveTypeID(types []models.GoalType, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: --type", shared.ErrMissingArgument)
	}
	for _, t := range types {
		if t.ID == ref || strings.EqualFold(t.Name, ref) {
			return t.ID, nil
		}
	}
	if shared.IsUUID(ref) {
		return ref, nil
	}
	return "", fmt.Errorf("%w: unknown goal type %q", shared.ErrInvalidArgument, ref)
}

// parseDue reads a calendar date as UTC midnight, or a full timestamp.
func parseDue(s string) (*models.Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if d, err := models.ParseDate(s); err == nil {
		ts := models.NewTimestamp(d.Time)
		return &ts, nil
	}
	ts, err := models.ParseTimestamp(s)
	if err != nil {
		return nil, fmt.Errorf("%w: --due %q (want YYYY-MM-DD or an RFC 3339 timestamp)", shared.ErrInvalidFlag, s)
	}
	return &ts, nil
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := strings.TrimSpace(cmd.StringArg(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return v, nil
}

func optionalFlag(cmd *cli.Command, name string) *string {
	v := strings.TrimSpace(cmd.String(name))
	if v == "" {
		return nil
	}
	return &v
}
