package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/formatter"
	"github.com/desertthunder/moodmix/internal/services"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/tasks"
	"github.com/desertthunder/moodmix/internal/web"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	fetcher    services.MetadataFetcher
	classifier services.MoodClassifier
	builder    services.PlaylistBuilder
	storage    web.Storage
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     tasks.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Nil services are left nil; the engine reports them as unavailable when a run reaches them.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Fetcher    services.MetadataFetcher
	Classifier services.MoodClassifier
	Builder    services.PlaylistBuilder
	Storage    web.Storage
	Engine     tasks.Engine
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Storage == nil {
		storage := services.NewStorageClient(opts.Config.Web.StorageURL, opts.HTTPClient)
		storage.SetLogger(opts.Logger)
		opts.Storage = storage
	}
	if opts.Engine == nil {
		opts.Engine = tasks.NewMoodEngine(opts.Fetcher, opts.Classifier, opts.Builder, opts.Logger)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		fetcher:    opts.Fetcher,
		classifier: opts.Classifier,
		builder:    opts.Builder,
		storage:    opts.Storage,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     opts.Engine,
	}
}

// SetLogger replaces the runner's logger. A default engine is rebuilt so its logs follow.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if storage, ok := r.storage.(*services.StorageClient); ok {
		storage.SetLogger(logger)
	}
	if _, ok := r.engine.(*tasks.MoodEngine); ok {
		r.engine = tasks.NewMoodEngine(r.fetcher, r.classifier, r.builder, logger)
	}
}

// Connect swaps in the providers built from config. Default storage and engine are rebuilt to match.
func (r *Runner) Connect(config *shared.Config) {
	opts := connectServices(config, r.logger)

	r.config = config
	r.fetcher = opts.Fetcher
	r.classifier = opts.Classifier
	r.builder = opts.Builder

	if _, ok := r.storage.(*services.StorageClient); ok {
		storage := services.NewStorageClient(config.Web.StorageURL, r.httpClient)
		storage.SetLogger(r.logger)
		r.storage = storage
	}
	if _, ok := r.engine.(*tasks.MoodEngine); ok {
		r.engine = tasks.NewMoodEngine(r.fetcher, r.classifier, r.builder, r.logger)
	}
}

// app builds the root command. connect runs after --debug is applied and before any action.
func (r *Runner) app(connect cli.BeforeFunc) *cli.Command {
	configPath := r.configPath
	if configPath == "" {
		configPath = defaultConfigPath
	}

	return &cli.Command{
		Name:    "moodmix",
		Usage:   "Build YouTube playlists from the mood of a song's lyrics",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   configPath,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				shared.SetLogLevel(r.logger, log.DebugLevel)
			}
			if connect == nil {
				return ctx, nil
			}
			return connect(ctx, cmd)
		},
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, generateCommand, songsCommand, statusCommand, apiCommand, webCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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

// writeResult sends data to path when set, otherwise to the runner's output.
func (r *Runner) writeResult(path string, data []byte) error {
	if path == "" {
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := formatter.WriteExport(path, data); err != nil {
		return err
	}
	r.logger.Info("output written", "path", path)
	return nil
}
