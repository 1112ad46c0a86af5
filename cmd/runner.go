package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/brain/internal/services"
	"github.com/desertthunder/brain/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Clients are built lazily from the loaded config unless they were injected through [RunnerOpts].
type Runner struct {
	configPath  string
	config      *shared.Config
	goals       services.GoalService
	media       services.MediaService
	portfolio   services.PortfolioService
	api         *services.APIService
	httpClient  *http.Client
	notifier    shared.Notifier
	openBrowser func(string) error
	logger      *log.Logger
	output      io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	ConfigPath  string
	Config      *shared.Config
	Goals       services.GoalService
	Media       services.MediaService
	Portfolio   services.PortfolioService
	API         *services.APIService
	HTTPClient  *http.Client
	Notifier    shared.Notifier
	OpenBrowser func(string) error
	Logger      *log.Logger
	Output      io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	return &Runner{
		configPath:  opts.ConfigPath,
		config:      opts.Config,
		goals:       opts.Goals,
		media:       opts.Media,
		portfolio:   opts.Portfolio,
		api:         opts.API,
		httpClient:  opts.HTTPClient,
		notifier:    opts.Notifier,
		openBrowser: opts.OpenBrowser,
		logger:      opts.Logger,
		output:      opts.Output,
	}
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, goalsCommand, mediaCommand, portfolioCommand, apiCommand, remindCommand, tuiCommand, healthCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before loads configuration from --config (unless one was injected) and applies the log level.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.config == nil {
		config, err := shared.LoadConfigOrDefault(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	level := r.config.Log.Level
	if cmd.Bool("verbose") {
		level = "debug"
	}
	if level != "" {
		ll, err := shared.ParseLogLevel(level)
		if err != nil {
			return ctx, err
		}
		shared.SetLogLevel(r.logger, ll)
	}
	return ctx, nil
}

func (r *Runner) cfg() *shared.Config {
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	return r.config
}

func (r *Runner) clientOpts(app shared.AppConfig) []services.Option {
	opts := []services.Option{services.WithToken(app.Token)}
	if r.httpClient != nil && r.httpClient != http.DefaultClient {
		opts = append(opts, services.WithHTTPClient(r.httpClient))
	}
	return opts
}

func (r *Runner) goalService() (services.GoalService, error) {
	if r.goals != nil {
		return r.goals, nil
	}
	app := r.cfg().Apps.Goals
	if app.BaseURL == "" {
		return nil, fmt.Errorf("%w: apps.goals.base_url", shared.ErrMissingConfig)
	}
	client, err := services.NewGoalsClient(app.BaseURL, r.clientOpts(app)...)
	if err != nil {
		return nil, fmt.Errorf("%w: goals client: %v", shared.ErrServiceUnavailable, err)
	}
	r.goals = client
	return client, nil
}

func (r *Runner) mediaService() (services.MediaService, error) {
	if r.media != nil {
		return r.media, nil
	}
	app := r.cfg().Apps.Media
	if app.BaseURL == "" {
		return nil, fmt.Errorf("%w: apps.media.base_url", shared.ErrMissingConfig)
	}
	client, err := services.NewMediaClient(app.BaseURL, r.clientOpts(app)...)
	if err != nil {
		return nil, fmt.Errorf("%w: media client: %v", shared.ErrServiceUnavailable, err)
	}
	r.media = client
	return client, nil
}

func (r *Runner) portfolioService() (services.PortfolioService, error) {
	if r.portfolio != nil {
		return r.portfolio, nil
	}
	app := r.cfg().Apps.Portfolio
	if app.BaseURL == "" {
		return nil, fmt.Errorf("%w: apps.portfolio.base_url", shared.ErrMissingConfig)
	}
	client, err := services.NewPortfolioClient(app.BaseURL, r.clientOpts(app)...)
	if err != nil {
		return nil, fmt.Errorf("%w: portfolio client: %v", shared.ErrServiceUnavailable, err)
	}
	r.portfolio = client
	return client, nil
}

func (r *Runner) apiService(appName string) (*services.APIService, error) {
	if r.api != nil {
		return r.api, nil
	}
	app, err := r.cfg().App(appName)
	if err != nil {
		return nil, err
	}
	api, err := services.NewAPIService(app.BaseURL, r.clientOpts(app)...)
	if err != nil {
		return nil, fmt.Errorf("%w: api client: %v", shared.ErrServiceUnavailable, err)
	}
	return api, nil
}

func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.OpenMigrated(r.cfg().Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
