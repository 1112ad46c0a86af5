package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/brain/internal/models"
	"github.com/urfave/cli/v3"
)

type healthCheck struct {
	name  string
	check func(context.Context) (*models.HealthResponse, error)
}

// Health checks every backend and fails when any of them is unreachable.
func (r *Runner) Health(ctx context.Context, cmd *cli.Command) error {
	var checks []healthCheck
	failed := 0

	if svc, err := r.goalService(); err != nil {
		r.writePlain("✗ goals: %v\n", err)
		failed++
	} else {
		checks = append(checks, healthCheck{"goals", svc.CheckHealth})
	}
	if svc, err := r.mediaService(); err != nil {
		r.writePlain("✗ media: %v\n", err)
		failed++
	} else {
		checks = append(checks, healthCheck{"media", svc.CheckHealth})
	}
	if svc, err := r.portfolioService(); err != nil {
		r.writePlain("✗ portfolio: %v\n", err)
		failed++
	} else {
		checks = append(checks, healthCheck{"portfolio", svc.CheckHealth})
	}

	for _, c := range checks {
		start := time.Now()
		health, err := c.check(ctx)
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			r.logger.Warn("health check failed", "app", c.name, "error", err)
			r.writePlain("✗ %s: %v\n", c.name, err)
			failed++
			continue
		}
		r.writePlain("✓ %s: %s (%s)\n", c.name, health.Status, elapsed)
	}

	if failed > 0 {
		return fmt.Errorf("%d of 3 backends unhealthy", failed)
	}
	return nil
}
