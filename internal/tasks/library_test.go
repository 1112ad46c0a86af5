package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/shared"
	tu "github.com/desertthunder/brain/internal/testing"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]string
	stored  []string
}

func newMemoryCache() *memoryCache { return &memoryCache{entries: map[string]string{}} }

func (c *memoryCache) Lookup(link string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, ok := c.entries[link]
	return text, ok, nil
}

func (c *memoryCache) Store(link, text string, _ models.ProcessSource) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[link] = text
	c.stored = append(c.stored, link)
	return nil
}

func libraryFixture(n int) ([]models.VideoEntry, *tu.FakeMedia) {
	media := &tu.FakeMedia{Results: map[string]models.ProcessVideoResponse{}}
	videos := make([]models.VideoEntry, n)
	for i := range videos {
		link := fmt.Sprintf("https://youtu.be/v%d", i)
		videos[i] = models.VideoEntry{Name: fmt.Sprintf("Video %d", i), Link: link}
		media.Results[link] = models.ProcessVideoResponse{StructuredText: "text " + link, Source: models.SourceProcessed}
	}
	return videos, media
}

func TestProcessLibrary(t *testing.T) {
	ctx := context.Background()

	t.Run("processes every video in input order", func(t *testing.T) {
		videos, media := libraryFixture(5)
		res, err := ProcessLibrary(ctx, nil, media, videos, LibraryOpts{NumWorkers: 3, RateLimit: 1000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Total != 5 || res.Succeeded != 5 || res.Failed != 0 {
			t.Errorf("unexpected counts %+v", res)
		}
		for i, r := range res.Results {
			if r.Video.Name != videos[i].Name {
				t.Errorf("result %d out of order: %s", i, r.Video.Name)
			}
			if r.Text != "text "+videos[i].Link {
				t.Errorf("result %d has text %q", i, r.Text)
			}
		}
	})

	t.Run("partial failures are reported", func(t *testing.T) {
		videos, media := libraryFixture(3)
		msg := "no transcript"
		media.Results[videos[1].Link] = models.ProcessVideoResponse{Source: models.SourceError, ErrorMessage: &msg}

		res, err := ProcessLibrary(ctx, nil, media, videos, LibraryOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Succeeded != 2 || res.Failed != 1 {
			t.Errorf("expected 2/1, got %d/%d", res.Succeeded, res.Failed)
		}
		if !errors.Is(res.Results[1].Err, shared.ErrProcessingFailed) {
			t.Errorf("expected ErrProcessingFailed, got %v", res.Results[1].Err)
		}
		if len(media.Processed) != 3 {
			t.Errorf("failures must not be retried, got %d calls", len(media.Processed))
		}
	})

	t.Run("cache hits skip the backend", func(t *testing.T) {
		videos, media := libraryFixture(3)
		cache := newMemoryCache()
		cache.entries[videos[0].Link] = "cached text"

		res, err := ProcessLibrary(ctx, nil, media, videos, LibraryOpts{RateLimit: 1000, Cache: cache})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Cached != 1 {
			t.Errorf("expected 1 cached, got %d", res.Cached)
		}
		if res.Results[0].Source != models.SourceLocal || res.Results[0].Text != "cached text" {
			t.Errorf("unexpected cached result %+v", res.Results[0])
		}
		if len(media.Processed) != 2 {
			t.Errorf("expected 2 backend calls, got %d", len(media.Processed))
		}
		if len(cache.stored) != 2 {
			t.Errorf("expected 2 stored results, got %d", len(cache.stored))
		}
	})

	t.Run("refresh bypasses cache lookups", func(t *testing.T) {
		videos, media := libraryFixture(1)
		cache := newMemoryCache()
		cache.entries[videos[0].Link] = "stale"

		res, err := ProcessLibrary(ctx, nil, media, videos, LibraryOpts{RateLimit: 1000, Cache: cache, Refresh: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Results[0].Source != models.SourceProcessed {
			t.Errorf("expected processed source, got %s", res.Results[0].Source)
		}
		if cache.entries[videos[0].Link] != "text "+videos[0].Link {
			t.Error("cache should hold the fresh text")
		}
	})

	t.Run("empty input", func(t *testing.T) {
		res, err := ProcessLibrary(ctx, nil, &tu.FakeMedia{}, nil, LibraryOpts{})
		if err != nil || res.Total != 0 {
			t.Errorf("unexpected result %+v, %v", res, err)
		}
	})

	t.Run("nil service", func(t *testing.T) {
		_, err := ProcessLibrary(ctx, nil, nil, nil, LibraryOpts{})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		videos, media := libraryFixture(4)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		res, err := ProcessLibrary(cctx, nil, media, videos, LibraryOpts{RateLimit: 1000})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if res.Succeeded+res.Failed != 4 {
			t.Errorf("every video should be accounted for, got %d/%d", res.Succeeded, res.Failed)
		}
	})

	t.Run("rate limiting", func(t *testing.T) {
		videos, media := libraryFixture(3)
		start := time.Now()
		if _, err := ProcessLibrary(ctx, nil, media, videos, LibraryOpts{NumWorkers: 3, RateLimit: 20}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// burst of 1 then two waits of 50ms
		if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
			t.Errorf("expected rate limiting, finished in %v", elapsed)
		}
	})

	t.Run("progress updates", func(t *testing.T) {
		videos, media := libraryFixture(2)
		prog := make(chan ProgressUpdate, 10)
		if _, err := ProcessLibrary(ctx, prog, media, videos, LibraryOpts{RateLimit: 1000}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		close(prog)

		count := 0
		for u := range prog {
			if u.Phase != ProcessVideos {
				t.Errorf("unexpected phase %s", u.Phase)
			}
			count++
		}
		if count != 4 {
			t.Errorf("expected 4 updates, got %d", count)
		}
	})
}

func TestPhaseString(t *testing.T) {
	if ProcessVideos.String() != "process_videos" || Phase(99).String() != "" {
		t.Error("unexpected phase names")
	}
}
