package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/ekiren/bistsignal/internal/config"
	"github.com/ekiren/bistsignal/internal/export"
	"github.com/ekiren/bistsignal/internal/logger"
	"github.com/ekiren/bistsignal/internal/marketdata"
	"github.com/ekiren/bistsignal/internal/pipeline"
	"github.com/ekiren/bistsignal/internal/state"
	"github.com/ekiren/bistsignal/internal/storage"
	"github.com/ekiren/bistsignal/internal/telegram"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("configuration loaded from %s", *configPath)

	pipe, cleanup := buildPipeline(cfg)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Schedule.Cron == "" {
		if err := pipe.Run(ctx); err != nil {
			logger.Fatal("run failed: %v", err)
		}
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule.Cron, func() {
		if err := pipe.Run(ctx); err != nil {
			logger.Error("scheduled run failed: %v", err)
		}
	}); err != nil {
		logger.Fatal("invalid schedule %q: %v", cfg.Schedule.Cron, err)
	}
	c.Start()
	defer c.Stop()
	logger.Info("scheduler started: %s", cfg.Schedule.Cron)

	if cfg.Schedule.RunOnStart {
		go func() {
			if err := pipe.Run(ctx); err != nil {
				logger.Error("initial run failed: %v", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("shutdown signal received, stopping")
}

// buildPipeline assembles the pipeline and its collaborators from config.
// Both binaries share this wiring.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, func()) {
	store, err := state.New(cfg.State.Dir)
	if err != nil {
		logger.Fatal("init state store: %v", err)
	}

	fetcher := marketdata.NewClient(cfg.MarketData.BaseURL, cfg.MarketData.Timeout, marketdata.ClientConfig{
		Range:          cfg.MarketData.Range,
		Interval:       cfg.MarketData.Interval,
		MaxRetries:     cfg.MarketData.MaxRetries,
		RetryDelayBase: cfg.MarketData.RetryDelayBase,
	})

	pipe := &pipeline.Pipeline{
		Fetcher:   fetcher,
		Watchlist: cfg.Watchlist.Path,
		Store:     store,
		Exporter:  export.NewWriter(cfg.Export.XLSXPath),
	}

	cleanup := func() {}
	if cfg.Storage.DBPath != "" {
		hist, err := storage.New(cfg.Storage.MaxRuns, cfg.Storage.DBPath)
		if err != nil {
			logger.Warn("init run history failed, continuing without it: %v", err)
		} else {
			pipe.Recorder = hist
			cleanup = func() { _ = hist.Close() }
		}
	}

	if cfg.Telegram.Enabled {
		client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Fatal("init telegram client: %v", err)
		}
		pipe.Notifier = client
	} else {
		logger.Warn("telegram not configured, digests will not be delivered")
	}

	return pipe, cleanup
}
