package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ekiren/bistsignal/internal/config"
	"github.com/ekiren/bistsignal/internal/export"
	"github.com/ekiren/bistsignal/internal/listener"
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

	if !cfg.Telegram.Enabled {
		logger.Warn("telegram not configured, listener has nothing to do")
		return
	}

	client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		logger.Fatal("init telegram client: %v", err)
	}

	store, err := state.New(cfg.State.Dir)
	if err != nil {
		logger.Fatal("init state store: %v", err)
	}

	pipe := &pipeline.Pipeline{
		Fetcher: marketdata.NewClient(cfg.MarketData.BaseURL, cfg.MarketData.Timeout, marketdata.ClientConfig{
			Range:          cfg.MarketData.Range,
			Interval:       cfg.MarketData.Interval,
			MaxRetries:     cfg.MarketData.MaxRetries,
			RetryDelayBase: cfg.MarketData.RetryDelayBase,
		}),
		Watchlist: cfg.Watchlist.Path,
		Store:     store,
		Notifier:  client,
		Exporter:  export.NewWriter(cfg.Export.XLSXPath),
	}

	if cfg.Storage.DBPath != "" {
		hist, err := storage.New(cfg.Storage.MaxRuns, cfg.Storage.DBPath)
		if err != nil {
			logger.Warn("init run history failed, continuing without it: %v", err)
		} else {
			pipe.Recorder = hist
			defer hist.Close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("shutdown signal received, stopping listener")
		cancel()
	}()

	run := func() {
		if err := pipe.Run(context.Background()); err != nil {
			logger.Error("triggered run failed: %v", err)
		}
	}

	l := listener.New(client, store, run, listener.Config{})
	logger.Info("command listener starting for chat %d", client.ChatID())
	l.Run(ctx)
}
