package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidstash/internal/repositories"
	"github.com/desertthunder/vidstash/internal/services"
	"github.com/desertthunder/vidstash/internal/shared"
	"github.com/desertthunder/vidstash/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	store    repositories.Storage
	provider services.Provider
	engine   *tasks.ChannelEngine
	logger   *log.Logger
	output   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Store and Provider are optional. When absent they are built lazily from
// the config on first use, which lets `setup` run before a database exists.
type RunnerOpts struct {
	Config   *shared.Config
	Store    repositories.Storage
	Provider services.Provider
	Logger   *log.Logger
	Output   io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:   opts.Config,
		store:    opts.Store,
		provider: opts.Provider,
		logger:   opts.Logger,
		output:   opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, channelCommand, playlistCommand, watchCommand, searchCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, used when the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// ensureStore opens the storage backend named by the config, once.
func (r *Runner) ensureStore() (repositories.Storage, error) {
	if r.store != nil {
		return r.store, nil
	}

	store, err := repositories.Open(r.config)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	r.store = store
	return store, nil
}

// ensureEngine builds the sync engine over the configured provider and
// store, once.
func (r *Runner) ensureEngine() (*tasks.ChannelEngine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	store, err := r.ensureStore()
	if err != nil {
		return nil, err
	}

	if r.provider == nil {
		if r.config.YouTube.APIKey == "" {
			return nil, fmt.Errorf("%w: youtube.api_key not set", shared.ErrMissingAPIKey)
		}
		r.provider = services.NewYouTubeService(r.config.YouTube.APIKey, r.config.YouTube.BaseURL)
	}

	r.engine = tasks.NewChannelEngine(r.provider, store, r.logger)
	return r.engine, nil
}

// progressLogger returns a channel that drains engine progress updates into
// the logger, and a flush func to call once the operation returns.
func (r *Runner) progressLogger() (chan tasks.ProgressUpdate, func()) {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
		close(done)
	}()

	return progress, func() {
		close(progress)
		<-done
	}
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
