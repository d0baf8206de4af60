package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/services"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/urfave/cli/v3"
)

const (
	defaultConfigPath = "config.toml"
	defaultEnvPath    = ".env"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnvFile(defaultEnvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load env file", "path", defaultEnvPath, "error", err)
	}

	runner := NewRunner(RunnerOpts{ConfigPath: defaultConfigPath, Logger: logger})
	app := runner.app(func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		runner.Connect(loadConfig(cmd.String("config"), logger))
		return ctx, nil
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// loadConfig reads path when it exists and applies environment overrides.
func loadConfig(path string, logger *log.Logger) *shared.Config {
	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if loadedConfig, err := shared.LoadConfig(path); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", path, "error", err)
		}
	} else {
		logger.Debug("config file not found, using defaults", "path", path)
	}
	config.ApplyEnv(os.Getenv)
	return config
}

// connectServices builds every provider the config has credentials for.
//
// A provider that cannot be built is left nil and reported at debug level.
func connectServices(config *shared.Config, logger *log.Logger) RunnerOpts {
	var opts RunnerOpts

	if svc, err := services.NewGeniusService(config.Credentials.Genius, nil); err == nil {
		opts.Fetcher = svc
	} else {
		logger.Debug("genius service unavailable", "error", err)
	}

	if svc, err := services.NewGroqService(config.Credentials.Groq, nil); err == nil {
		opts.Classifier = svc
	} else {
		logger.Debug("groq service unavailable", "error", err)
	}

	if svc, err := services.NewYouTubeService(config.Credentials.YouTube, nil); err == nil {
		opts.Builder = svc
	} else {
		logger.Debug("youtube service unavailable", "error", err)
	}

	return opts
}
