package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/shared"
)

const userID = "a3c1e0f2-5b6d-4e7f-8a9b-0c1d2e3f4a5b"

func strPtr(s string) *string { return &s }

func TestPortfolioClient(t *testing.T) {
	ctx := context.Background()

	newClient := func(t *testing.T, handler http.HandlerFunc) *PortfolioClient {
		t.Helper()
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)
		c, err := NewPortfolioClient(server.URL)
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}
		return c
	}

	t.Run("SaveProfile reports creation", func(t *testing.T) {
		status := http.StatusCreated
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/routes/profile" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			body, _ := io.ReadAll(r.Body)
			var got map[string]any
			json.Unmarshal(body, &got)
			if _, ok := got["links"].([]any); !ok {
				t.Errorf("expected links array, got %s", body)
			}
			w.WriteHeader(status)
			w.Write([]byte(`{"id":"p1","user_id":"` + userID + `","first_name":"Ada"}`))
		})

		data := models.ProfileData{FirstName: strPtr("Ada")}
		profile, created, err := c.SaveProfile(ctx, data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !created || profile.UserID != userID {
			t.Errorf("expected created profile, got %+v created=%v", profile, created)
		}

		status = http.StatusOK
		if _, created, _ := c.SaveProfile(ctx, data); created {
			t.Error("expected 200 to report an update")
		}
	})

	t.Run("SaveProfile validates against schema", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("request should not be sent")
		})

		data := models.ProfileData{
			BusinessEmail:   strPtr("not-an-email"),
			WorkExperiences: []models.WorkExperience{{CompanyName: "", Role: "Engineer"}},
		}
		_, _, err := c.SaveProfile(ctx, data)
		if !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
		if !strings.Contains(err.Error(), "business_email") {
			t.Errorf("expected business_email in error, got %v", err)
		}
	})

	t.Run("GetMyProfile 404", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/routes/profile/me" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Profile not found"}`))
		})

		if _, err := c.GetMyProfile(ctx); !IsNotFound(err) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("GetProfile", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/routes/profile/"+userID {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(`{"id":"p1","user_id":"` + userID + `","educations":[{"institution_name":"MIT","degree":"BSc","field_of_study":"CS","start_date":"2010-09-01"}]}`))
		})

		profile, err := c.GetProfile(ctx, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(profile.Educations) != 1 || profile.Educations[0].StartDate.String() != "2010-09-01" {
			t.Errorf("unexpected educations %+v", profile.Educations)
		}
	})

	t.Run("UploadPicture sends multipart file", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/routes/profile/picture" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			file, header, err := r.FormFile("file")
			if err != nil {
				t.Errorf("expected file field: %v", err)
				return
			}
			defer file.Close()
			data, _ := io.ReadAll(file)
			if header.Filename != "me.png" || string(data) != "PNGDATA" {
				t.Errorf("unexpected upload %s %q", header.Filename, data)
			}
			w.Write([]byte(`{"id":"p1","user_id":"` + userID + `"}`))
		})

		profile, err := c.UploadPicture(ctx, "/tmp/me.png", strings.NewReader("PNGDATA"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if profile.ID != "p1" {
			t.Errorf("unexpected profile %+v", profile)
		}
	})

	t.Run("UploadMedia sends title and description", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if r.URL.Path != "/routes/profile/media" || q.Get("title") != "Demo" || q.Has("description") {
				t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
			}
			w.Write([]byte(`{"id":"p1","user_id":"` + userID + `","media":[{"media_type":"image","url":"https://cdn/x.png","title":"Demo"}]}`))
		})

		profile, err := c.UploadMedia(ctx, "x.png", strings.NewReader("x"), "Demo", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(profile.Media) != 1 {
			t.Errorf("expected media entry, got %+v", profile.Media)
		}
	})

	t.Run("GetPicture returns raw bytes", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/routes/profiles/"+userID+"/picture" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte{0xff, 0xd8, 0xff})
		})

		pic, err := c.GetPicture(ctx, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pic.ContentType != "image/jpeg" || len(pic.Data) != 3 {
			t.Errorf("unexpected picture %+v", pic)
		}
	})

	t.Run("ListPublicProfiles and ProfileHealth", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/routes/profiles/public":
				if r.URL.Query().Get("search") != "ada" {
					t.Errorf("expected search param, got %s", r.URL.RawQuery)
				}
				w.Write([]byte(`[{"user_id":"` + userID + `","first_name":"Ada","last_name":"Lovelace"}]`))
			case "/routes/health":
				w.Write([]byte(`{"profile_exists":true}`))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		})

		profiles, err := c.ListPublicProfiles(ctx, " ada ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(profiles) != 1 || profiles[0].DisplayName() != "Ada Lovelace" {
			t.Errorf("unexpected profiles %+v", profiles)
		}

		health, err := c.ProfileHealth(ctx)
		if err != nil || !health.ProfileExists {
			t.Errorf("expected profile to exist, got %+v err %v", health, err)
		}
	})
}

func TestValidateProfile(t *testing.T) {
	valid := models.ProfileData{
		FirstName:     strPtr("Ada"),
		BusinessEmail: strPtr("ada@example.com"),
		Links:         []models.Link{{LinkType: "github", URL: "https://github.com/ada"}},
		CodeSnippets:  []models.CodeSnippet{{Title: "hello", Code: "fmt.Println()", Language: "go"}},
	}
	valid.Normalize()
	if err := ValidateProfile(valid); err != nil {
		t.Errorf("expected valid profile, got %v", err)
	}

	long := valid
	long.FirstName = strPtr(strings.Repeat("A", 150))
	long.ElevatorPitch = strPtr(strings.Repeat("pitch ", 100))
	if err := ValidateProfile(long); err != nil {
		t.Errorf("expected long free-text fields to pass, got %v", err)
	}

	invalid := valid
	invalid.Links = []models.Link{{LinkType: "", URL: "https://x"}}
	if err := ValidateProfile(invalid); !errors.Is(err, shared.ErrValidation) {
		t.Errorf("expected ErrValidation for empty link type, got %v", err)
	}
}
