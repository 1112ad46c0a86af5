package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/shared"
	tu "github.com/desertthunder/brain/internal/testing"
)

const (
	userMe    = "dddddddd-dddd-4ddd-8ddd-dddddddddddd"
	userOther = "eeeeeeee-eeee-4eee-8eee-eeeeeeeeeeee"
)

func fakePortfolio(withMe bool) *tu.FakePortfolio {
	first, last, pitch := "Grace", "Hopper", "Compilers and COBOL"
	profiles := map[string]models.Profile{
		userOther: {
			ID:     "ffffffff-ffff-4fff-8fff-ffffffffffff",
			UserID: userOther,
			ProfileData: models.ProfileData{
				FirstName:     &first,
				LastName:      &last,
				ElevatorPitch: &pitch,
			},
		},
	}
	if withMe {
		name := "Ada"
		profiles[userMe] = models.Profile{ID: "99999999-9999-4999-8999-999999999999", UserID: userMe, ProfileData: models.ProfileData{FirstName: &name}}
	}
	return &tu.FakePortfolio{Me: userMe, Profiles: profiles}
}

func TestPortfolioCommands(t *testing.T) {
	t.Run("show", func(t *testing.T) {
		t.Run("own profile", func(t *testing.T) {
			runner, output := newTestRunner(t, RunnerOpts{Portfolio: fakePortfolio(true)})

			if err := run(t, runner, "portfolio", "show"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(output.String(), "Ada") || !strings.Contains(output.String(), userMe) {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("another user as markdown", func(t *testing.T) {
			runner, output := newTestRunner(t, RunnerOpts{Portfolio: fakePortfolio(false)})

			if err := run(t, runner, "portfolio", "show", "--markdown", userOther); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			out := output.String()
			if !strings.HasPrefix(out, "# Grace Hopper") || !strings.Contains(out, "> Compilers and COBOL") {
				t.Errorf("unexpected markdown %q", out)
			}
		})

		t.Run("missing own profile prints guidance", func(t *testing.T) {
			runner, output := newTestRunner(t, RunnerOpts{Portfolio: fakePortfolio(false)})

			if err := run(t, runner, "portfolio", "show"); err != nil {
				t.Fatalf("expected no error for a missing own profile, got %v", err)
			}
			if !strings.Contains(output.String(), "You have not created a profile yet.") {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("missing other profile is an error", func(t *testing.T) {
			runner, _ := newTestRunner(t, RunnerOpts{Portfolio: fakePortfolio(false)})

			err := run(t, runner, "portfolio", "show", "12345678-1234-4234-8234-123456789012")
			if !errors.Is(err, shared.ErrProfileNotFound) {
				t.Errorf("expected ErrProfileNotFound, got %v", err)
			}
		})
	})

	t.Run("create from template then save", func(t *testing.T) {
		portfolio := fakePortfolio(false)
		runner, output := newTestRunner(t, RunnerOpts{Portfolio: portfolio})
		path := filepath.Join(t.TempDir(), "profile.json")

		if err := run(t, runner, "portfolio", "show", "--create", "--template", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileExists(t, path)

		if err := run(t, runner, "portfolio", "save", "--file", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "Created profile for First Last") {
			t.Errorf("unexpected output %q", output.String())
		}
		if _, ok := portfolio.Profiles[userMe]; !ok {
			t.Error("expected profile to be stored")
		}

		if err := run(t, runner, "portfolio", "save", "--file", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "Updated profile") {
			t.Errorf("expected update on second save, got %q", output.String())
		}
	})

	t.Run("template refuses to overwrite", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{})
		path := filepath.Join(t.TempDir(), "profile.json")
		if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}

		err := run(t, runner, "portfolio", "template", "--output", path)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("save rejects invalid payloads", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
			want    error
		}{
			{"unknown field", `{"nickname": "ada"}`, shared.ErrInvalidInput},
			{"bad email", `{"business_email": "not-an-email"}`, shared.ErrValidation},
			{"empty link type", `{"links": [{"link_type": "", "url": "https://example.com"}]}`, shared.ErrValidation},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				portfolio := fakePortfolio(false)
				runner, _ := newTestRunner(t, RunnerOpts{Portfolio: portfolio})
				path := filepath.Join(t.TempDir(), "profile.json")
				if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
					t.Fatal(err)
				}

				err := run(t, runner, "portfolio", "save", "--file", path)
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
				if _, ok := portfolio.Profiles[userMe]; ok {
					t.Error("expected nothing to be saved")
				}
			})
		}
	})

	t.Run("status", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Portfolio: fakePortfolio(false)})

		if err := run(t, runner, "portfolio", "status"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "No profile yet") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("picture get writes the file", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Portfolio: fakePortfolio(false)})
		path := filepath.Join(t.TempDir(), "grace.png")

		if err := run(t, runner, "portfolio", "picture", "get", "--output", path, userOther); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tu.MustReadFile(t, path) != "png" {
			t.Error("expected picture bytes")
		}
		if !strings.Contains(output.String(), "image/png") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("picture upload", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Portfolio: fakePortfolio(true)})
		path := filepath.Join(t.TempDir(), "me.png")
		if err := os.WriteFile(path, []byte("png"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := run(t, runner, "portfolio", "picture", "upload", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "Uploaded profile picture me.png") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("discover", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Portfolio: fakePortfolio(false)})

		if err := run(t, runner, "portfolio", "discover"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), userOther+"  Grace Hopper") {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}
