package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/brain/internal/formatter"
	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/services"
	"github.com/desertthunder/brain/internal/shared"
	"github.com/desertthunder/brain/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PortfolioShow prints the caller's profile, or another user's when a user id is given.
//
// When the caller has no profile yet it prints guidance, and with --create writes a template to fill in.
func (r *Runner) PortfolioShow(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.portfolioService()
	if err != nil {
		return err
	}

	res, err := tasks.ResolveProfile(ctx, svc, cmd.StringArg("user-id"))
	if err != nil {
		return err
	}

	if res.Outcome == tasks.ProfileMissing {
		r.logger.Info("no profile found for caller")
		r.writePlain("You have not created a profile yet.\n")
		if !cmd.Bool("create") {
			r.writePlain("Run 'brain portfolio show --create' to start from a template.\n")
			return nil
		}
		path := cmd.String("template")
		if err := writeProfileTemplate(path); err != nil {
			return err
		}
		r.writePlain("✓ Template written to %s\n", path)
		r.writePlain("Edit it, then run 'brain portfolio save --file %s'\n", path)
		return nil
	}

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(res.Profile, true)
	case cmd.Bool("markdown"):
		data, err := formatter.ProfileToMarkdown(*res.Profile)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	p := res.Profile
	r.writePlainHeader(p.DisplayName("Anonymous"))
	r.writePlain("User: %s\n", p.UserID)
	if p.ElevatorPitch != nil {
		r.writePlain("Pitch: %s\n", *p.ElevatorPitch)
	}
	if p.BusinessEmail != nil {
		r.writePlain("Email: %s\n", *p.BusinessEmail)
	}
	r.writePlain("Links: %d  Experience: %d  Education: %d  Media: %d  Code: %d\n",
		len(p.Links), len(p.WorkExperiences), len(p.Educations), len(p.Media), len(p.CodeSnippets))
	return nil
}

// PortfolioStatus reports whether the caller has a profile.
func (r *Runner) PortfolioStatus(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.portfolioService()
	if err != nil {
		return err
	}

	health, err := svc.ProfileHealth(ctx)
	if err != nil {
		return fmt.Errorf("failed to check profile: %w", err)
	}

	if health.ProfileExists {
		return r.writePlain("✓ Profile exists\n")
	}
	return r.writePlain("✗ No profile yet\n")
}

// PortfolioSave creates or updates the caller's profile from a JSON file. The payload is validated locally
// before it is sent.
func (r *Runner) PortfolioSave(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.portfolioService()
	if err != nil {
		return err
	}

	path := cmd.String("file")
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read profile file: %w", err)
	}

	var data models.ProfileData
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrInvalidInput, path, err)
	}

	data.Normalize()
	if err := services.ValidateProfile(data); err != nil {
		return err
	}

	profile, created, err := svc.SaveProfile(ctx, data)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	verb := "Updated"
	if created {
		verb = "Created"
	}
	r.logger.Info("profile saved", "id", profile.ID, "created", created)
	r.writePlain("✓ %s profile for %s\n", verb, profile.DisplayName("Anonymous"))
	return nil
}

// PortfolioTemplate writes a profile template to --output or stdout.
func (r *Runner) PortfolioTemplate(ctx context.Context, cmd *cli.Command) error {
	if out := cmd.String("output"); out != "" {
		if err := writeProfileTemplate(out); err != nil {
			return err
		}
		return r.writePlain("✓ Template written to %s\n", out)
	}
	return r.writeJSON(profileTemplate(), true)
}

// PortfolioPictureUpload uploads a profile picture.
func (r *Runner) PortfolioPictureUpload(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "file")
	if err != nil {
		return err
	}

	svc, err := r.portfolioService()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open picture: %w", err)
	}
	defer f.Close()

	if _, err := svc.UploadPicture(ctx, filepath.Base(path), f); err != nil {
		return fmt.Errorf("failed to upload picture: %w", err)
	}

	r.logger.Info("profile picture uploaded", "file", path)
	return r.writePlain("✓ Uploaded profile picture %s\n", filepath.Base(path))
}

// PortfolioPictureGet downloads a user's profile picture to --output.
func (r *Runner) PortfolioPictureGet(ctx context.Context, cmd *cli.Command) error {
	userID, err := requireArg(cmd, "user-id")
	if err != nil {
		return err
	}

	svc, err := r.portfolioService()
	if err != nil {
		return err
	}

	pic, err := svc.GetPicture(ctx, userID)
	if services.IsNotFound(err) {
		return fmt.Errorf("%w: no picture for user %s", shared.ErrNotFound, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to download picture: %w", err)
	}

	out := cmd.String("output")
	if err := formatter.WriteFile(out, pic.Data); err != nil {
		return err
	}
	return r.writePlain("✓ Saved %s (%d bytes, %s)\n", out, len(pic.Data), pic.ContentType)
}

// PortfolioMediaUpload uploads a media item to the caller's profile.
func (r *Runner) PortfolioMediaUpload(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "file")
	if err != nil {
		return err
	}

	svc, err := r.portfolioService()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open media file: %w", err)
	}
	defer f.Close()

	title := cmd.String("title")
	if title == "" {
		title = filepath.Base(path)
	}

	profile, err := svc.UploadMedia(ctx, filepath.Base(path), f, title, cmd.String("description"))
	if err != nil {
		return fmt.Errorf("failed to upload media: %w", err)
	}

	r.logger.Info("profile media uploaded", "file", path, "items", len(profile.Media))
	return r.writePlain("✓ Uploaded %s (%d media items)\n", title, len(profile.Media))
}

// PortfolioDiscover lists public profiles, optionally filtered by a search term.
func (r *Runner) PortfolioDiscover(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.portfolioService()
	if err != nil {
		return err
	}

	profiles, err := svc.ListPublicProfiles(ctx, cmd.String("search"))
	if err != nil {
		return fmt.Errorf("failed to list public profiles: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(profiles, true)
	}
	if len(profiles) == 0 {
		return r.writePlain("No public profiles found\n")
	}

	r.writePlainHeader(fmt.Sprintf("Public profiles (%d)", len(profiles)))
	_, err = r.output.Write(formatter.PublicProfilesToText(profiles))
	return err
}

func profileTemplate() models.ProfileData {
	str := func(s string) *string { return &s }
	start := models.Date{Time: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)}

	data := models.ProfileData{
		FirstName:     str("First"),
		LastName:      str("Last"),
		Bio:           str("A few sentences about you."),
		ElevatorPitch: str("One line that sums you up."),
		BusinessEmail: str("you@example.com"),
		Links: []models.Link{
			{LinkType: "website", URL: "https://example.com"},
		},
		WorkExperiences: []models.WorkExperience{
			{CompanyName: "Company", Role: "Role", StartDate: start, Description: str("What you did there.")},
		},
		Educations: []models.Education{
			{InstitutionName: "University", Degree: "Degree", FieldOfStudy: "Field", StartDate: start},
		},
	}
	data.Normalize()
	return data
}

func writeProfileTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s already exists", shared.ErrInvalidArgument, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	data, err := formatter.MarshalJSON(profileTemplate(), true)
	if err != nil {
		return err
	}
	return formatter.WriteFile(path, data)
}
