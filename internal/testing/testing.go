// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/shared"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// Notification is one message delivered through [FakeNotifier].
type Notification struct {
	Title string
	Body  string
}

// FakeNotifier is a test double for [shared.Notifier] that records every notification.
type FakeNotifier struct {
	mu            sync.Mutex
	permission    shared.Permission
	answer        shared.Permission
	requestErr    error
	notifyErr     error
	Requests      int
	Notifications []Notification
}

// NewFakeNotifier returns a notifier whose permission request resolves to answer.
func NewFakeNotifier(answer shared.Permission) *FakeNotifier {
	return &FakeNotifier{answer: answer}
}

// GrantedNotifier returns a notifier that already holds permission.
func GrantedNotifier() *FakeNotifier {
	return &FakeNotifier{permission: shared.PermissionGranted, answer: shared.PermissionGranted}
}

// FailRequest makes RequestPermission return err.
func (f *FakeNotifier) FailRequest(err error) { f.requestErr = err }

// FailNotify makes Notify return err.
func (f *FakeNotifier) FailNotify(err error) { f.notifyErr = err }

func (f *FakeNotifier) Permission() shared.Permission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.permission
}

func (f *FakeNotifier) RequestPermission(context.Context) (shared.Permission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests++
	if f.requestErr != nil {
		return shared.PermissionDenied, f.requestErr
	}
	if f.permission == shared.PermissionDefault {
		f.permission = f.answer
	}
	return f.permission, nil
}

func (f *FakeNotifier) Notify(_ context.Context, title, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.Notifications = append(f.Notifications, Notification{Title: title, Body: body})
	return nil
}

// Sent returns a copy of the recorded notifications.
func (f *FakeNotifier) Sent() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Notification(nil), f.Notifications...)
}

// FakeGoals is an in-memory test double for [services.GoalService].
type FakeGoals struct {
	mu      sync.Mutex
	Goals   []models.Goal
	Types   []models.GoalType
	Err     error
	Updates []models.UpdateGoalRequest
	Calls   int
}

func (f *FakeGoals) CheckHealth(context.Context) (*models.HealthResponse, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return &models.HealthResponse{Status: "ok"}, nil
}

func (f *FakeGoals) ListGoalTypes(context.Context) ([]models.GoalType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.GoalType(nil), f.Types...), f.Err
}

func (f *FakeGoals) CreateGoalType(_ context.Context, req models.CreateGoalTypeRequest) (*models.GoalType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	gt := models.GoalType{ID: shared.GenerateID(), Name: req.Name, Color: req.Color, IsDeletable: true}
	f.Types = append(f.Types, gt)
	return &gt, nil
}

func (f *FakeGoals) UpdateGoalType(_ context.Context, typeID string, req models.CreateGoalTypeRequest) (*models.GoalType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Types {
		if f.Types[i].ID == typeID {
			f.Types[i].Name = req.Name
			f.Types[i].Color = req.Color
			gt := f.Types[i]
			return &gt, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *FakeGoals) DeleteGoalType(_ context.Context, typeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Types {
		if f.Types[i].ID == typeID {
			f.Types = append(f.Types[:i], f.Types[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (f *FakeGoals) ListGoals(context.Context) ([]models.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]models.Goal(nil), f.Goals...), nil
}

func (f *FakeGoals) CreateGoal(_ context.Context, req models.CreateGoalRequest) (*models.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	g := models.Goal{
		ID:                  shared.GenerateID(),
		TypeID:              req.TypeID,
		Name:                req.Name,
		Summary:             req.Summary,
		DescriptionMarkdown: req.DescriptionMarkdown,
		Status:              models.StatusActive,
		Priority:            req.Priority,
		DueDate:             req.DueDate,
		Notify:              req.Notify,
	}
	f.Goals = append(f.Goals, g)
	return &g, nil
}

func (f *FakeGoals) UpdateGoal(_ context.Context, goalID string, req models.UpdateGoalRequest) (*models.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Updates = append(f.Updates, req)
	if f.Err != nil {
		return nil, f.Err
	}
	for i := range f.Goals {
		g := &f.Goals[i]
		if g.ID != goalID {
			continue
		}
		if req.Name != nil {
			g.Name = *req.Name
		}
		if req.Status != nil {
			g.Status = *req.Status
		}
		if req.Priority != nil {
			g.Priority = *req.Priority
		}
		if req.DueDate != nil {
			g.DueDate = req.DueDate
		}
		if req.Notify != nil {
			g.Notify = *req.Notify
		}
		updated := *g
		return &updated, nil
	}
	return nil, shared.ErrGoalNotFound
}

func (f *FakeGoals) DeleteGoal(_ context.Context, goalID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Goals {
		if f.Goals[i].ID == goalID {
			f.Goals = append(f.Goals[:i], f.Goals[i+1:]...)
			return nil
		}
	}
	return shared.ErrGoalNotFound
}

func (f *FakeGoals) SetGoalStatus(ctx context.Context, goalID string, status models.Status) (*models.Goal, error) {
	return f.UpdateGoal(ctx, goalID, models.UpdateGoalRequest{Status: &status})
}

// FakeMedia is a test double for [services.MediaService]. Results maps a link to its processed response.
type FakeMedia struct {
	mu        sync.Mutex
	Videos    []models.VideoEntry
	Results   map[string]models.ProcessVideoResponse
	Processed []string
	Err       error
}

func (f *FakeMedia) CheckHealth(context.Context) (*models.HealthResponse, error) {
	return &models.HealthResponse{Status: "ok"}, f.Err
}

func (f *FakeMedia) ListVideos(context.Context) ([]models.VideoEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.VideoEntry(nil), f.Videos...), f.Err
}

func (f *FakeMedia) AddVideo(_ context.Context, v models.VideoEntry) (*models.AddVideoResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.Videos = append(f.Videos, v)
	return &models.AddVideoResponse{Message: "Video added successfully", VideoID: len(f.Videos), TotalVideos: len(f.Videos)}, nil
}

func (f *FakeMedia) ProcessVideo(_ context.Context, link string) (*models.ProcessVideoResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Processed = append(f.Processed, link)
	if f.Err != nil {
		return nil, f.Err
	}
	resp, ok := f.Results[link]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if resp.Failed() {
		return &resp, shared.ErrProcessingFailed
	}
	return &resp, nil
}

// FakePortfolio is a test double for [services.PortfolioService]. Profiles is keyed by user id; Me is the caller.
type FakePortfolio struct {
	Me       string
	Profiles map[string]models.Profile
	Err      error
}

func (f *FakePortfolio) CheckHealth(context.Context) (*models.HealthResponse, error) {
	return &models.HealthResponse{Status: "ok"}, f.Err
}

func (f *FakePortfolio) ProfileHealth(context.Context) (*models.ProfileHealth, error) {
	_, ok := f.Profiles[f.Me]
	return &models.ProfileHealth{ProfileExists: ok}, f.Err
}

func (f *FakePortfolio) SaveProfile(_ context.Context, data models.ProfileData) (*models.Profile, bool, error) {
	if f.Err != nil {
		return nil, false, f.Err
	}
	if f.Profiles == nil {
		f.Profiles = map[string]models.Profile{}
	}
	existing, ok := f.Profiles[f.Me]
	p := models.Profile{ProfileData: data, ID: existing.ID, UserID: f.Me}
	if !ok {
		p.ID = shared.GenerateID()
	}
	f.Profiles[f.Me] = p
	return &p, !ok, nil
}

func (f *FakePortfolio) GetMyProfile(ctx context.Context) (*models.Profile, error) {
	return f.GetProfile(ctx, f.Me)
}

func (f *FakePortfolio) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	p, ok := f.Profiles[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (f *FakePortfolio) UploadPicture(ctx context.Context, _ string, r io.Reader) (*models.Profile, error) {
	io.Copy(io.Discard, r)
	return f.GetMyProfile(ctx)
}

func (f *FakePortfolio) GetPicture(_ context.Context, userID string) (*models.Picture, error) {
	if _, ok := f.Profiles[userID]; !ok {
		return nil, shared.ErrNotFound
	}
	return &models.Picture{ContentType: "image/png", Data: []byte("png")}, nil
}

func (f *FakePortfolio) UploadMedia(ctx context.Context, _ string, r io.Reader, _, _ string) (*models.Profile, error) {
	io.Copy(io.Discard, r)
	return f.GetMyProfile(ctx)
}

func (f *FakePortfolio) ListPublicProfiles(context.Context, string) ([]models.PublicProfile, error) {
	var out []models.PublicProfile
	for _, p := range f.Profiles {
		out = append(out, models.PublicProfile{UserID: p.UserID, FirstName: p.FirstName, LastName: p.LastName})
	}
	return out, f.Err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
