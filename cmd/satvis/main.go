package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/star/satvis/internal/config"
	"github.com/star/satvis/internal/fault"
	"github.com/star/satvis/internal/metrics"
	"github.com/star/satvis/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "optional TOML or YAML config file")
	input := flag.String("input", "", "ephemeris table (overrides config and SATVIS_INPUT)")
	output := flag.String("output", "", "visible times file (overrides config and SATVIS_OUTPUT)")
	flag.Parse()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})).With("run_id", uuid.NewString())

	cfg, err := loadConfig(*configPath, logger)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *input != "" {
		cfg.Input = *input
	}
	if *output != "" {
		cfg.Output = *output
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if l, err := config.ParseLevel(cfg.LogLevel); err == nil {
		level.Set(l)
	}
	logger.Debug("configuration loaded", cfg.LogAttrs()...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, runErr := pipeline.Run(ctx, cfg, logger)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("failed to write metrics file", "path", cfg.MetricsFile, "error", err)
		}
	}

	if runErr != nil {
		logger.Error("run failed", "kind", fault.KindOf(runErr).String(), "error", runErr)
		stop()
		os.Exit(1)
	}

	logger.Info("run complete", "output", res.Output, "visible", res.Visible, "passes", len(res.Passes))
	fmt.Printf("The satellite visibility times have been written to %s\n", res.Output)
}

func loadConfig(path string, logger *slog.Logger) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.LoadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("loading %s: %w", path, err)
		}
		logger.Info("loaded config file", "path", path)
	}
	config.ApplyEnv(&cfg, logger)
	return cfg, nil
}
