package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/shared"
)

const (
	videosPath       = "/routes/proxy/videos"
	processVideoPath = "/routes/proxy/process-video"
)

// MediaClient talks to the social reader backend through its proxy routes.
type MediaClient struct {
	*client
}

// NewMediaClient builds a [MediaClient] rooted at baseURL.
func NewMediaClient(baseURL string, opts ...Option) (*MediaClient, error) {
	c, err := newClient(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &MediaClient{client: c}, nil
}

// CheckHealth calls GET /_healthz.
func (m *MediaClient) CheckHealth(ctx context.Context) (*models.HealthResponse, error) {
	return m.checkHealth(ctx)
}

// ListVideos calls GET /routes/proxy/videos.
func (m *MediaClient) ListVideos(ctx context.Context) ([]models.VideoEntry, error) {
	var videos []models.VideoEntry
	if _, err := m.send(ctx, http.MethodGet, videosPath, nil, nil, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// AddVideo calls POST /routes/proxy/videos. The proxy binds name and link from the query string.
func (m *MediaClient) AddVideo(ctx context.Context, video models.VideoEntry) (*models.AddVideoResponse, error) {
	video.Name = strings.TrimSpace(video.Name)
	video.Link = strings.TrimSpace(video.Link)
	if err := video.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	query := url.Values{}
	query.Set("name", video.Name)
	query.Set("link", video.Link)

	var resp models.AddVideoResponse
	if _, err := m.send(ctx, http.MethodPost, videosPath, query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProcessVideo calls POST /routes/proxy/process-video.
//
// A 200 response whose source is "error" returns the response together with an error wrapping
// [shared.ErrProcessingFailed].
func (m *MediaClient) ProcessVideo(ctx context.Context, link string) (*models.ProcessVideoResponse, error) {
	link = strings.TrimSpace(link)
	if err := models.ValidateLink(link); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	query := url.Values{}
	query.Set("video_link", link)

	var resp models.ProcessVideoResponse
	if _, err := m.send(ctx, http.MethodPost, processVideoPath, query, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Failed() {
		return &resp, fmt.Errorf("%w: %s", shared.ErrProcessingFailed, resp.Error())
	}
	return &resp, nil
}
