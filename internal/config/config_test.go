package config

import (
	"os"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Remove(tmpfile.Name()) })
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestLoadAndValidate(t *testing.T) {
	path := writeTempConfig(t, `
telegram:
  bot_token: "test_token"
  chat_id: "1110011334"
  enabled: true

marketdata:
  range: 6mo
  interval: 1d
  timeout: 20s

watchlist:
  path: "tickers.txt"

state:
  dir: "state"

logging:
  level: "info"
  format: "text"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MarketData.Timeout != 20*time.Second {
		t.Errorf("unexpected timeout: %v", cfg.MarketData.Timeout)
	}
	if cfg.MarketData.Range != "6mo" {
		t.Errorf("unexpected range: %s", cfg.MarketData.Range)
	}
	if !cfg.Telegram.Enabled {
		t.Error("telegram should stay enabled with full credentials")
	}
	if cfg.Export.XLSXPath == "" {
		t.Error("expected default xlsx path")
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.ChatIDInt() != 1110011334 {
		t.Errorf("unexpected chat id: %d", cfg.ChatIDInt())
	}
}

func TestLoad_MissingCredentialsDisablesTelegram(t *testing.T) {
	path := writeTempConfig(t, `
telegram:
  enabled: true
watchlist:
  path: "tickers.txt"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Telegram.Enabled {
		t.Error("telegram should be disabled when credentials are absent")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config without telegram credentials should still validate: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Telegram:   TelegramConfig{BotToken: "t", ChatID: "42", Enabled: true},
			MarketData: MarketDataConfig{BaseURL: "https://example.com", Range: "6mo", Interval: "1d", Timeout: 30 * time.Second, MaxRetries: 3, RetryDelayBase: time.Second},
			Watchlist:  WatchlistConfig{Path: "tickers.txt"},
			State:      StateConfig{Dir: "state"},
			Storage:    StorageConfig{DBPath: "data/test.db", MaxRuns: 10},
			Logging:    LoggingConfig{Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"non-numeric chat id", func(c *Config) { c.Telegram.ChatID = "not-a-number" }},
		{"missing base url", func(c *Config) { c.MarketData.BaseURL = "" }},
		{"tiny timeout", func(c *Config) { c.MarketData.Timeout = time.Millisecond }},
		{"zero retries", func(c *Config) { c.MarketData.MaxRetries = 0 }},
		{"missing watchlist", func(c *Config) { c.Watchlist.Path = "" }},
		{"missing state dir", func(c *Config) { c.State.Dir = "" }},
		{"bad max runs", func(c *Config) { c.Storage.MaxRuns = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error, got nil")
			}
		})
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("baseline config should validate: %v", err)
	}
}
