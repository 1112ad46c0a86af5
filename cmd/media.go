package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/brain/internal/formatter"
	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/repositories"
	"github.com/desertthunder/brain/internal/server"
	"github.com/desertthunder/brain/internal/shared"
	"github.com/desertthunder/brain/internal/tasks"
	"github.com/urfave/cli/v3"
)

const defaultPrintTimeout = 2 * time.Minute

// MediaList prints the video library.
func (r *Runner) MediaList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.mediaService()
	if err != nil {
		return err
	}

	videos, err := svc.ListVideos(ctx)
	if err != nil {
		return fmt.Errorf("failed to list videos: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(videos, true)
	}

	if len(videos) == 0 {
		r.writePlain("No videos in the library\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Videos (%d)", len(videos)))
	for i, v := range videos {
		r.writePlain("%d. %s\n   %s\n", i+1, v.Name, v.Link)
	}
	return nil
}

// MediaAdd adds a video to the library.
func (r *Runner) MediaAdd(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.mediaService()
	if err != nil {
		return err
	}

	video := models.VideoEntry{Name: strings.TrimSpace(cmd.String("name")), Link: strings.TrimSpace(cmd.String("link"))}
	if err := video.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	resp, err := svc.AddVideo(ctx, video)
	if err != nil {
		return fmt.Errorf("failed to add video: %w", err)
	}

	r.logger.Info("video added", "name", video.Name, "video_id", resp.VideoID, "total", resp.TotalVideos)
	r.writePlain("✓ %s (%d videos in library)\n", resp.Message, resp.TotalVideos)
	return nil
}

// MediaProcess processes a single link and prints its structured text.
func (r *Runner) MediaProcess(ctx context.Context, cmd *cli.Command) error {
	link, err := requireArg(cmd, "link")
	if err != nil {
		return err
	}

	res, err := r.processLink(ctx, cmd, models.VideoEntry{Name: link, Link: link})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(models.ProcessVideoResponse{StructuredText: res.Text, Source: res.Source}, true)
	}

	r.logger.Debug("processed video", "link", link, "source", res.Source)
	return r.writePlain("%s\n", res.Text)
}

// MediaProcessAll processes every video in the library with a bounded worker pool.
func (r *Runner) MediaProcessAll(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.mediaService()
	if err != nil {
		return err
	}

	videos, err := svc.ListVideos(ctx)
	if err != nil {
		return fmt.Errorf("failed to list videos: %w", err)
	}
	if len(videos) == 0 {
		r.writePlain("No videos in the library\n")
		return nil
	}

	cache, closeCache := r.transcriptCache(cmd)
	defer closeCache()

	opts := tasks.LibraryOpts{
		NumWorkers: r.cfg().Library.Workers,
		RateLimit:  r.cfg().Library.RateLimit,
		Cache:      cache,
		Refresh:    cmd.Bool("refresh"),
	}
	if cmd.IsSet("workers") {
		opts.NumWorkers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("rate") {
		opts.RateLimit = cmd.Float("rate")
	}

	r.logger.Info("processing library", "videos", len(videos), "workers", opts.NumWorkers, "rate", opts.RateLimit)
	r.writePlain("Processing %d videos...\n\n", len(videos))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if update.Data != nil {
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, runErr := tasks.ProcessLibrary(ctx, progressCh, svc, videos, opts)
	close(progressCh)
	<-done

	if result != nil {
		r.writePlain("\n═══════════════════════════════════════\n")
		r.writePlain("Processing Complete!\n")
		r.writePlain("═══════════════════════════════════════\n")
		r.writePlain("Succeeded: %d/%d (%d from local cache)\n", result.Succeeded, result.Total, result.Cached)

		if result.Failed > 0 {
			r.writePlain("\nFailed to process %d videos:\n", result.Failed)
			for _, res := range result.Results {
				if res.Err != nil {
					r.writePlain("  - %s: %v\n", res.Video.Name, res.Err)
				}
			}
		}
	}
	return runErr
}

// MediaPrint renders a link's processed text as a printable HTML page.
//
// With --output the page is written to a file. Otherwise it is served from a local preview server, opened in the
// browser, and the command returns after the first fetch, on --timeout, or when ctx is cancelled.
func (r *Runner) MediaPrint(ctx context.Context, cmd *cli.Command) error {
	link, err := requireArg(cmd, "link")
	if err != nil {
		return err
	}

	title := cmd.String("title")
	if title == "" {
		title = r.videoName(ctx, link)
	}

	res, err := r.processLink(ctx, cmd, models.VideoEntry{Name: title, Link: link})
	if err != nil {
		return err
	}

	doc, err := formatter.PrintDocument(title, link, res.Text)
	if err != nil {
		return err
	}

	if out := cmd.String("output"); out != "" {
		if err := formatter.WriteFile(out, doc); err != nil {
			return err
		}
		r.writePlain("✓ Print page written to %s\n", out)
		return nil
	}

	return r.servePrint(ctx, doc, cmd.Duration("timeout"))
}

func (r *Runner) servePrint(ctx context.Context, doc []byte, timeout time.Duration) error {
	handler := server.NewPrintHandler()
	id := handler.Add(doc)

	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Mount(handler)

	srv := server.NewPreviewServer(r.cfg().Server.Addr(), router, r.logger)
	if err := srv.Start(); err != nil {
		return err
	}
	defer func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			r.logger.Warn("preview server shutdown failed", "error", err)
		}
	}()

	url := srv.URL() + handler.Path(id)
	r.writePlain("Print preview: %s\n", url)
	if err := r.openBrowser(url); err != nil {
		r.logger.Warn("failed to open browser, open the URL manually", "error", err)
	}

	if timeout <= 0 {
		timeout = defaultPrintTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-handler.Served():
		r.logger.Info("print page delivered", "id", id)
		r.writePlain("✓ Page opened, use the browser's print dialog to print\n")
		return nil
	case err := <-srv.Errors():
		return fmt.Errorf("preview server failed: %w", err)
	case <-timer.C:
		return fmt.Errorf("%w: print page was not opened within %s", shared.ErrServiceUnavailable, timeout)
	case <-ctx.Done():
		return nil
	}
}

// MediaCacheList prints the links held in the local transcript cache.
func (r *Runner) MediaCacheList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	transcripts, err := repositories.NewTranscriptRepository(db).List(nil)
	if err != nil {
		return err
	}

	if len(transcripts) == 0 {
		r.writePlain("Transcript cache is empty\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Cached transcripts (%d)", len(transcripts)))
	for _, t := range transcripts {
		r.writePlain("%s  %-9s %6d chars  %s\n", t.UpdatedAt().Format(time.DateOnly), t.Source(), len(t.Body()), t.Link())
	}
	return nil
}

// MediaCacheClear removes one link from the local transcript cache.
func (r *Runner) MediaCacheClear(ctx context.Context, cmd *cli.Command) error {
	link, err := requireArg(cmd, "link")
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewTranscriptRepository(db)
	t, err := repo.GetByKey(models.CacheKey(link))
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("%w: %s is not cached", shared.ErrNotFound, link)
	}
	if err != nil {
		return err
	}

	if err := repo.Delete(t.ID()); err != nil {
		return err
	}
	r.writePlain("✓ Removed %s from the transcript cache\n", link)
	return nil
}

// processLink runs a single video through [tasks.ProcessLibrary] so it shares the cache and limiter behaviour
// of bulk processing.
func (r *Runner) processLink(ctx context.Context, cmd *cli.Command, video models.VideoEntry) (tasks.VideoResult, error) {
	if err := models.ValidateLink(video.Link); err != nil {
		return tasks.VideoResult{}, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	svc, err := r.mediaService()
	if err != nil {
		return tasks.VideoResult{}, err
	}

	cache, closeCache := r.transcriptCache(cmd)
	defer closeCache()

	result, err := tasks.ProcessLibrary(ctx, nil, svc, []models.VideoEntry{video}, tasks.LibraryOpts{
		NumWorkers: 1,
		Cache:      cache,
		Refresh:    cmd.Bool("refresh"),
	})
	if err != nil {
		return tasks.VideoResult{}, err
	}

	res := result.Results[0]
	if res.Err != nil {
		return res, fmt.Errorf("failed to process %s: %w", video.Link, res.Err)
	}
	return res, nil
}

// transcriptCache opens the local cache unless --no-cache is set. A database that cannot be opened disables
// caching rather than failing the command.
func (r *Runner) transcriptCache(cmd *cli.Command) (tasks.TranscriptCache, func()) {
	if cmd.Bool("no-cache") {
		return nil, func() {}
	}

	db, err := r.openDatabase()
	if err != nil {
		r.logger.Warn("transcript cache unavailable", "error", err)
		return nil, func() {}
	}
	return repositories.NewTranscriptCacheAdapter(repositories.NewTranscriptRepository(db)), func() { db.Close() }
}

// videoName returns the library name for link, or an empty string when it is not in the library.
func (r *Runner) videoName(ctx context.Context, link string) string {
	svc, err := r.mediaService()
	if err != nil {
		return ""
	}
	videos, err := svc.ListVideos(ctx)
	if err != nil {
		r.logger.Debug("failed to list videos for title", "error", err)
		return ""
	}
	for _, v := range videos {
		if v.Link == link {
			return v.Name
		}
	}
	return ""
}
