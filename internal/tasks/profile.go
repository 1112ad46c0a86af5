package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/services"
	"github.com/desertthunder/brain/internal/shared"
)

// ProfileFetcher is the part of [services.PortfolioService] the resolver needs.
type ProfileFetcher interface {
	GetMyProfile(ctx context.Context) (*models.Profile, error)
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// ProfileOutcome tells the caller what to show.
type ProfileOutcome int

const (
	ProfileFound ProfileOutcome = iota
	// ProfileMissing means the caller has no profile yet and should be sent to the creation flow.
	ProfileMissing
)

func (o ProfileOutcome) String() string {
	switch o {
	case ProfileFound:
		return "found"
	case ProfileMissing:
		return "missing"
	default:
		return ""
	}
}

// ProfileResult is the resolved profile view.
type ProfileResult struct {
	Outcome ProfileOutcome
	Own     bool
	Profile *models.Profile // nil when Outcome is ProfileMissing
}

// ResolveProfile loads the caller's own profile when userID is empty and another user's profile otherwise.
//
// A 404 on the own profile is not an error: it resolves to [ProfileMissing]. A 404 on another user's profile
// returns an error wrapping [shared.ErrProfileNotFound].
func ResolveProfile(ctx context.Context, svc ProfileFetcher, userID string) (*ProfileResult, error) {
	if svc == nil {
		return nil, fmt.Errorf("%w: portfolio service not initialized", shared.ErrServiceUnavailable)
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		profile, err := svc.GetMyProfile(ctx)
		if services.IsNotFound(err) {
			return &ProfileResult{Outcome: ProfileMissing, Own: true}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch profile: %w", err)
		}
		return &ProfileResult{Outcome: ProfileFound, Own: true, Profile: profile}, nil
	}

	profile, err := svc.GetProfile(ctx, userID)
	if services.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %s", shared.ErrProfileNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile %s: %w", userID, err)
	}
	return &ProfileResult{Outcome: ProfileFound, Profile: profile}, nil
}
