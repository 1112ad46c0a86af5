// package services defines typed HTTP clients for the goals, media and portfolio backends
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/shared"
	"golang.org/x/oauth2"
)

const (
	defaultUserAgent = "brain/0.1"
	requestTimeout   = 30 * time.Second
	healthPath       = "/_healthz"
)

// GoalService is implemented by [GoalsClient] and by test doubles.
type GoalService interface {
	CheckHealth(ctx context.Context) (*models.HealthResponse, error)
	ListGoalTypes(ctx context.Context) ([]models.GoalType, error)
	CreateGoalType(ctx context.Context, req models.CreateGoalTypeRequest) (*models.GoalType, error)
	UpdateGoalType(ctx context.Context, typeID string, req models.CreateGoalTypeRequest) (*models.GoalType, error)
	DeleteGoalType(ctx context.Context, typeID string) error
	ListGoals(ctx context.Context) ([]models.Goal, error)
	CreateGoal(ctx context.Context, req models.CreateGoalRequest) (*models.Goal, error)
	UpdateGoal(ctx context.Context, goalID string, req models.UpdateGoalRequest) (*models.Goal, error)
	DeleteGoal(ctx context.Context, goalID string) error
	SetGoalStatus(ctx context.Context, goalID string, status models.Status) (*models.Goal, error)
}

// MediaService is implemented by [MediaClient] and by test doubles.
type MediaService interface {
	CheckHealth(ctx context.Context) (*models.HealthResponse, error)
	ListVideos(ctx context.Context) ([]models.VideoEntry, error)
	AddVideo(ctx context.Context, video models.VideoEntry) (*models.AddVideoResponse, error)
	ProcessVideo(ctx context.Context, link string) (*models.ProcessVideoResponse, error)
}

// PortfolioService is implemented by [PortfolioClient] and by test doubles.
type PortfolioService interface {
	CheckHealth(ctx context.Context) (*models.HealthResponse, error)
	ProfileHealth(ctx context.Context) (*models.ProfileHealth, error)
	SaveProfile(ctx context.Context, data models.ProfileData) (*models.Profile, bool, error)
	GetMyProfile(ctx context.Context) (*models.Profile, error)
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UploadPicture(ctx context.Context, filename string, r io.Reader) (*models.Profile, error)
	GetPicture(ctx context.Context, userID string) (*models.Picture, error)
	UploadMedia(ctx context.Context, filename string, r io.Reader, title, description string) (*models.Profile, error)
	ListPublicProfiles(ctx context.Context, search string) ([]models.PublicProfile, error)
}

var (
	_ GoalService      = (*GoalsClient)(nil)
	_ MediaService     = (*MediaClient)(nil)
	_ PortfolioService = (*PortfolioClient)(nil)
)

// Option configures a client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	token      string
	userAgent  string
}

// WithHTTPClient replaces the default HTTP client (30s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithToken attaches token as a bearer credential to every request.
func WithToken(token string) Option {
	return func(o *options) { o.token = strings.TrimSpace(token) }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// client is the request core shared by every typed client.
type client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

func newClient(baseURL string, opts ...Option) (*client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	o := options{userAgent: defaultUserAgent}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	if o.token != "" {
		httpClient = bearerClient(httpClient, o.token)
	}

	return &client{baseURL: base, http: httpClient, userAgent: o.userAgent}, nil
}

// bearerClient wraps base in an [oauth2.Transport] that sends token on every request.
func bearerClient(base *http.Client, token string) *http.Client {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	c := oauth2.NewClient(ctx, src)
	c.Timeout = base.Timeout
	return c
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: base URL is empty", shared.ErrMissingConfig)
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse base URL %q: %v", shared.ErrInvalidConfig, raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q has no host", shared.ErrInvalidConfig, raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	return u, nil
}

// BaseURL returns the backend root the client talks to.
func (c *client) BaseURL() string {
	return c.baseURL.String()
}

func (c *client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// sendRaw performs the request and returns the response for any 2xx status. Non-2xx statuses are converted into
// an [*APIError] and the body is closed.
func (c *client) sendRaw(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", shared.ErrServiceUnavailable, method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, newAPIError(method, path, resp)
	}
	return resp, nil
}

// send encodes payload as JSON (when non-nil), performs the request and decodes a JSON response into result
// (when non-nil). Empty bodies and 204 responses leave result untouched.
func (c *client) send(ctx context.Context, method, path string, query url.Values, payload, result any) (int, error) {
	var (
		body        io.Reader
		contentType string
	)
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.sendRaw(ctx, method, path, query, contentType, body)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if result == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	return resp.StatusCode, decodeJSON(resp.Body, result)
}

// decodeJSON reads r fully and decodes it into result. An empty body is not an error.
func decodeJSON(r io.Reader, result any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *client) checkHealth(ctx context.Context) (*models.HealthResponse, error) {
	var health models.HealthResponse
	if _, err := c.send(ctx, http.MethodGet, healthPath, nil, nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// APIError is a non-2xx response from a backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	// Detail holds a plain string detail ({"detail": "..."}) or the raw body when it is not JSON.
	Detail string
	// Validation holds the parsed entries of a 422 body.
	Validation []models.ValidationError
}

func newAPIError(method, path string, resp *http.Response) *APIError {
	apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return apiErr
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope.Detail) == 0 {
		apiErr.Detail = shared.Truncate(strings.TrimSpace(string(data)), 200)
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		apiErr.Detail = detail
		return apiErr
	}

	var validation []models.ValidationError
	if err := json.Unmarshal(envelope.Detail, &validation); err == nil {
		apiErr.Validation = validation
		return apiErr
	}

	apiErr.Detail = shared.Truncate(string(envelope.Detail), 200)
	return apiErr
}

// Error implements error.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	switch {
	case len(e.Validation) > 0:
		parts := make([]string, len(e.Validation))
		for i, v := range e.Validation {
			parts[i] = v.String()
		}
		return msg + ": " + strings.Join(parts, "; ")
	case e.Detail != "":
		return msg + ": " + e.Detail
	default:
		return msg
	}
}

// Unwrap maps the status code onto the shared sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return shared.ErrNotFound
	case http.StatusUnprocessableEntity:
		return shared.ErrValidation
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return shared.ErrServiceUnavailable
	default:
		return shared.ErrAPIRequest
	}
}

// IsNotFound reports whether err is a 404 from a backend.
func IsNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an [*APIError].
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func requireUUID(name, id string) error {
	if !shared.IsUUID(id) {
		return fmt.Errorf("%w: %s %q is not a UUID", shared.ErrInvalidArgument, name, id)
	}
	return nil
}
