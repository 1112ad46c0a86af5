package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/shared"
)

const (
	profilePath        = "/routes/profile"
	profileHealthPath  = "/routes/health"
	publicProfilesPath = "/routes/profiles/public"
)

// PortfolioClient talks to the creator portfolio backend.
type PortfolioClient struct {
	*client
}

// NewPortfolioClient builds a [PortfolioClient] rooted at baseURL.
func NewPortfolioClient(baseURL string, opts ...Option) (*PortfolioClient, error) {
	c, err := newClient(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &PortfolioClient{client: c}, nil
}

// CheckHealth calls GET /_healthz.
func (p *PortfolioClient) CheckHealth(ctx context.Context) (*models.HealthResponse, error) {
	return p.checkHealth(ctx)
}

// ProfileHealth calls GET /routes/health, which reports whether the caller has a profile.
func (p *PortfolioClient) ProfileHealth(ctx context.Context) (*models.ProfileHealth, error) {
	var health models.ProfileHealth
	if _, err := p.send(ctx, http.MethodGet, profileHealthPath, nil, nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// SaveProfile calls POST /routes/profile. The boolean result is true when the backend created a new profile (201)
// rather than updating the existing one (200).
func (p *PortfolioClient) SaveProfile(ctx context.Context, data models.ProfileData) (*models.Profile, bool, error) {
	data.Normalize()
	if err := ValidateProfile(data); err != nil {
		return nil, false, err
	}

	var profile models.Profile
	status, err := p.send(ctx, http.MethodPost, profilePath, nil, data, &profile)
	if err != nil {
		return nil, false, err
	}
	return &profile, status == http.StatusCreated, nil
}

// GetMyProfile calls GET /routes/profile/me. A 404 means the caller has not created a profile yet.
func (p *PortfolioClient) GetMyProfile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if _, err := p.send(ctx, http.MethodGet, profilePath+"/me", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfile calls GET /routes/profile/{user_id}.
func (p *PortfolioClient) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id", shared.ErrMissingArgument)
	}
	var profile models.Profile
	if _, err := p.send(ctx, http.MethodGet, profilePath+"/"+url.PathEscape(userID), nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UploadPicture calls POST /routes/profile/picture with r as the multipart "file" field.
func (p *PortfolioClient) UploadPicture(ctx context.Context, filename string, r io.Reader) (*models.Profile, error) {
	return p.upload(ctx, profilePath+"/picture", nil, filename, r)
}

// UploadMedia calls POST /routes/profile/media with r as the multipart "file" field. Empty title and description
// are omitted.
func (p *PortfolioClient) UploadMedia(ctx context.Context, filename string, r io.Reader, title, description string) (*models.Profile, error) {
	query := url.Values{}
	if s := strings.TrimSpace(title); s != "" {
		query.Set("title", s)
	}
	if s := strings.TrimSpace(description); s != "" {
		query.Set("description", s)
	}
	return p.upload(ctx, profilePath+"/media", query, filename, r)
}

// GetPicture calls GET /routes/profiles/{user_id}/picture and returns the raw image.
func (p *PortfolioClient) GetPicture(ctx context.Context, userID string) (*models.Picture, error) {
	if err := requireUUID("user id", userID); err != nil {
		return nil, err
	}

	resp, err := p.sendRaw(ctx, http.MethodGet, "/routes/profiles/"+userID+"/picture", nil, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read picture: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &models.Picture{ContentType: contentType, Data: data}, nil
}

// ListPublicProfiles calls GET /routes/profiles/public, optionally narrowed by search.
func (p *PortfolioClient) ListPublicProfiles(ctx context.Context, search string) ([]models.PublicProfile, error) {
	var query url.Values
	if s := strings.TrimSpace(search); s != "" {
		query = url.Values{"search": {s}}
	}

	var profiles []models.PublicProfile
	if _, err := p.send(ctx, http.MethodGet, publicProfilesPath, query, nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// upload streams r as a multipart form through a pipe so large files are never buffered whole.
func (p *PortfolioClient) upload(ctx context.Context, path string, query url.Values, filename string, r io.Reader) (*models.Profile, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: file", shared.ErrMissingArgument)
	}
	if filename == "" {
		filename = "upload"
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(filename))
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	resp, err := p.sendRaw(ctx, http.MethodPost, path, query, mw.FormDataContentType(), pr)
	if err != nil {
		pr.CloseWithError(err)
		return nil, err
	}
	defer resp.Body.Close()

	var profile models.Profile
	if err := decodeJSON(resp.Body, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
