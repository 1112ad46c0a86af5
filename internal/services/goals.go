package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/shared"
)

const (
	goalsPath     = "/routes/goals/"
	goalTypesPath = "/routes/goals/types"
)

// GoalsClient talks to the goal tracker backend.
type GoalsClient struct {
	*client
}

// NewGoalsClient builds a [GoalsClient] rooted at baseURL.
func NewGoalsClient(baseURL string, opts ...Option) (*GoalsClient, error) {
	c, err := newClient(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &GoalsClient{client: c}, nil
}

// CheckHealth calls GET /_healthz.
func (g *GoalsClient) CheckHealth(ctx context.Context) (*models.HealthResponse, error) {
	return g.checkHealth(ctx)
}

// ListGoalTypes calls GET /routes/goals/types.
func (g *GoalsClient) ListGoalTypes(ctx context.Context) ([]models.GoalType, error) {
	var types []models.GoalType
	if _, err := g.send(ctx, http.MethodGet, goalTypesPath, nil, nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// CreateGoalType calls POST /routes/goals/types.
func (g *GoalsClient) CreateGoalType(ctx context.Context, req models.CreateGoalTypeRequest) (*models.GoalType, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: goal type name is required", shared.ErrInvalidInput)
	}
	var gt models.GoalType
	if _, err := g.send(ctx, http.MethodPost, goalTypesPath, nil, req, &gt); err != nil {
		return nil, err
	}
	return &gt, nil
}

// UpdateGoalType calls PUT /routes/goals/types/{type_id}.
func (g *GoalsClient) UpdateGoalType(ctx context.Context, typeID string, req models.CreateGoalTypeRequest) (*models.GoalType, error) {
	if err := requireUUID("type id", typeID); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: goal type name is required", shared.ErrInvalidInput)
	}
	var gt models.GoalType
	if _, err := g.send(ctx, http.MethodPut, goalTypesPath+"/"+typeID, nil, req, &gt); err != nil {
		return nil, err
	}
	return &gt, nil
}

// DeleteGoalType calls DELETE /routes/goals/types/{type_id}.
func (g *GoalsClient) DeleteGoalType(ctx context.Context, typeID string) error {
	if err := requireUUID("type id", typeID); err != nil {
		return err
	}
	_, err := g.send(ctx, http.MethodDelete, goalTypesPath+"/"+typeID, nil, nil, nil)
	return err
}

// ListGoals calls GET /routes/goals/.
func (g *GoalsClient) ListGoals(ctx context.Context) ([]models.Goal, error) {
	var goals []models.Goal
	if _, err := g.send(ctx, http.MethodGet, goalsPath, nil, nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// CreateGoal calls POST /routes/goals/.
func (g *GoalsClient) CreateGoal(ctx context.Context, req models.CreateGoalRequest) (*models.Goal, error) {
	if req.Priority == "" {
		req.Priority = models.PriorityNone
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if err := requireUUID("type id", req.TypeID); err != nil {
		return nil, err
	}

	var goal models.Goal
	if _, err := g.send(ctx, http.MethodPost, goalsPath, nil, req, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

// UpdateGoal calls PUT /routes/goals/{goal_id}. Empty updates are rejected before sending.
func (g *GoalsClient) UpdateGoal(ctx context.Context, goalID string, req models.UpdateGoalRequest) (*models.Goal, error) {
	if err := requireUUID("goal id", goalID); err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", shared.ErrInvalidInput)
	}

	var goal models.Goal
	if _, err := g.send(ctx, http.MethodPut, goalsPath+goalID, nil, req, &goal); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s: %w", shared.ErrGoalNotFound, goalID, err)
		}
		return nil, err
	}
	return &goal, nil
}

// DeleteGoal calls DELETE /routes/goals/{goal_id}.
func (g *GoalsClient) DeleteGoal(ctx context.Context, goalID string) error {
	if err := requireUUID("goal id", goalID); err != nil {
		return err
	}
	if _, err := g.send(ctx, http.MethodDelete, goalsPath+goalID, nil, nil, nil); err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("%w: %s: %w", shared.ErrGoalNotFound, goalID, err)
		}
		return err
	}
	return nil
}

// SetGoalStatus sends an update carrying only the status field.
func (g *GoalsClient) SetGoalStatus(ctx context.Context, goalID string, status models.Status) (*models.Goal, error) {
	if _, err := models.ParseStatus(string(status)); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return g.UpdateGoal(ctx, goalID, models.UpdateGoalRequest{Status: &status})
}
