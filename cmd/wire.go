package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/telkin/studio-bootstrap/internal/adapters/controlplane"
	scriptsource "github.com/telkin/studio-bootstrap/internal/adapters/script"
	"github.com/telkin/studio-bootstrap/internal/adapters/stream"
	"github.com/telkin/studio-bootstrap/internal/adapters/studio"
	"github.com/telkin/studio-bootstrap/internal/application"
)

const (
	envDomainID = "SAGEMAKER_DOMAIN_ID"

	pollIntervalKey   = "poll.interval"
	pollMaxKey        = "poll.max"
	commandTimeoutKey = "command.timeout"
)

type app struct {
	bootstrapper    *application.Bootstrapper
	defaultDomainID string
}

// wireApp builds the production dependency graph. Configuration comes
// from ~/.studio-bootstrap/config.toml, the environment and an optional
// .env file, in that order of increasing precedence for env keys.
func wireApp(ctx context.Context, verbose bool) (*app, error) {
	// .env is optional; absence is the normal case.
	_ = godotenv.Load()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := viper.New()
	cfg.SetDefault(pollIntervalKey, 2*time.Second)
	cfg.SetDefault(pollMaxKey, 0)
	cfg.SetDefault(commandTimeoutKey, time.Duration(0))
	if err := cfg.BindEnv(envDomainID); err != nil {
		return nil, fmt.Errorf("bind %s: %w", envDomainID, err)
	}

	scripts, err := scriptsource.NewSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire script source: %w", err)
	}

	cp, err := controlplane.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("wire control plane: %w", err)
	}

	appServer, err := studio.NewClient(logger)
	if err != nil {
		return nil, fmt.Errorf("wire studio client: %w", err)
	}
	appServer.PollInterval = cfg.GetDuration(pollIntervalKey)
	appServer.MaxPolls = cfg.GetInt(pollMaxKey)

	driver := application.NewDriver(&stream.Dialer{Logger: logger}, logger)
	driver.CommandTimeout = cfg.GetDuration(commandTimeoutKey)

	return &app{
		bootstrapper:    application.NewBootstrapper(cp, appServer, scripts, driver, logger),
		defaultDomainID: cfg.GetString(envDomainID),
	}, nil
}
