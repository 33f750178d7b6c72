package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/replaygen/replaygen/internal/config"
	"github.com/replaygen/replaygen/internal/server"
	"github.com/replaygen/replaygen/internal/storage/sqlite"
	"github.com/replaygen/replaygen/internal/synth"
	"github.com/replaygen/replaygen/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// Optional; env vars win over .env contents.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer("replaygen", logger)
		if err != nil {
			logger.Error("failed to init telemetry", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer shutdown(context.Background())
	}

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	defaults := synth.Options{
		TestName:      cfg.Generator.TestName,
		ComponentName: cfg.Generator.ComponentName,
		DescribeLabel: cfg.Generator.DescribeLabel,
	}

	srv := server.New(cfg.Server.Port, cfg.Server.Timeout, logger, store, defaults)
	if err := srv.Start(); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
