package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultLibraryWorkers = 3
	maxLibraryWorkers     = 10
	defaultLibraryRate    = 1.0
)

// VideoProcessor turns a video link into structured text.
type VideoProcessor interface {
	ProcessVideo(ctx context.Context, link string) (*models.ProcessVideoResponse, error)
}

// TranscriptCache is a local store of processed text keyed by link.
//
// Implemented by repositories.TranscriptCacheAdapter.
type TranscriptCache interface {
	Lookup(link string) (string, bool, error)
	Store(link, text string, source models.ProcessSource) error
}

// LibraryOpts configures [ProcessLibrary].
type LibraryOpts struct {
	NumWorkers int             // Concurrent workers (default: 3, max: 10)
	RateLimit  float64         // Backend requests per second (default: 1)
	Cache      TranscriptCache // Optional local cache
	Refresh    bool            // Skip cache lookups but still store results
}

// VideoResult is the outcome for a single video.
type VideoResult struct {
	Video  models.VideoEntry
	Text   string
	Source models.ProcessSource
	Err    error
}

// LibraryResult summarizes a bulk processing run. Results keep the input order.
type LibraryResult struct {
	Total     int
	Succeeded int
	Failed    int
	Cached    int // served from the local cache
	Results   []VideoResult
}

type videoJob struct {
	index int
	video models.VideoEntry
}

type indexedResult struct {
	index int
	res   VideoResult
}

// ProcessLibrary processes videos concurrently with a bounded worker pool and a shared rate limiter.
//
// Local cache hits skip the backend and the limiter. Successful backend results are stored in the cache.
// Failures are recorded per video and never retried.
func ProcessLibrary(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	svc VideoProcessor,
	videos []models.VideoEntry,
	opts LibraryOpts,
) (*LibraryResult, error) {
	if svc == nil {
		return nil, fmt.Errorf("%w: media service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultLibraryWorkers
	}
	if opts.NumWorkers > maxLibraryWorkers {
		opts.NumWorkers = maxLibraryWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultLibraryRate
	}

	result := &LibraryResult{
		Total:   len(videos),
		Results: make([]VideoResult, len(videos)),
	}
	if len(videos) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan videoJob, len(videos))
	results := make(chan indexedResult, len(videos))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go processWorker(ctx, &wg, jobs, results, svc, limiter, opts)
	}

	go func() {
		for i, v := range videos {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			case jobs <- videoJob{index: i, video: v}:
			}
			sendProgress(prog, processingVideoUpdate(i+1, len(videos), v))
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	seen := make([]bool, len(videos))
	completed := 0
	for r := range results {
		completed++
		seen[r.index] = true
		result.Results[r.index] = r.res

		if r.res.Err != nil {
			result.Failed++
			sendProgress(prog, failedVideoUpdate(completed, len(videos), r.res))
			continue
		}
		result.Succeeded++
		if r.res.Source == models.SourceLocal {
			result.Cached++
		}
		sendProgress(prog, processedVideoUpdate(completed, len(videos), r.res))
	}

	if err := ctx.Err(); err != nil {
		for i, ok := range seen {
			if !ok {
				result.Results[i] = VideoResult{Video: videos[i], Source: models.SourceError, Err: err}
				result.Failed++
			}
		}
		return result, fmt.Errorf("processing interrupted: %w", err)
	}
	return result, nil
}

// processWorker processes videos from the jobs channel.
func processWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan videoJob,
	results chan<- indexedResult,
	svc VideoProcessor,
	limiter *rate.Limiter,
	opts LibraryOpts,
) {
	defer wg.Done()

	for job := range jobs {
		results <- indexedResult{index: job.index, res: processSingleVideo(ctx, svc, limiter, job.video, opts)}
	}
}

func processSingleVideo(
	ctx context.Context,
	svc VideoProcessor,
	limiter *rate.Limiter,
	video models.VideoEntry,
	opts LibraryOpts,
) VideoResult {
	res := VideoResult{Video: video, Source: models.SourceError}
	link := strings.TrimSpace(video.Link)

	if opts.Cache != nil && !opts.Refresh {
		if text, ok, err := opts.Cache.Lookup(link); err == nil && ok {
			res.Text = text
			res.Source = models.SourceLocal
			return res
		}
	}

	if err := limiter.Wait(ctx); err != nil {
		res.Err = err
		return res
	}

	resp, err := svc.ProcessVideo(ctx, link)
	if err != nil {
		res.Err = err
		return res
	}

	res.Text = resp.StructuredText
	res.Source = resp.Source
	if opts.Cache != nil {
		// Cache write failures do not fail the video.
		_ = opts.Cache.Store(link, res.Text, res.Source)
	}
	return res
}
