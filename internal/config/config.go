// Package config loads and validates application configuration.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	MarketData MarketDataConfig `mapstructure:"marketdata"`
	Watchlist  WatchlistConfig  `mapstructure:"watchlist"`
	Export     ExportConfig     `mapstructure:"export"`
	State      StateConfig      `mapstructure:"state"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// TelegramConfig holds the chat transport configuration. The chat ID is
// both the delivery recipient and the only sender the listener obeys.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

// MarketDataConfig holds the price-history provider configuration.
type MarketDataConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Range          string        `mapstructure:"range"`
	Interval       string        `mapstructure:"interval"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// WatchlistConfig holds the ticker list source.
type WatchlistConfig struct {
	Path string `mapstructure:"path"`
}

// ExportConfig holds the spreadsheet output configuration.
type ExportConfig struct {
	XLSXPath string `mapstructure:"xlsx_path"`
}

// StateConfig holds the flat-file run-state location.
type StateConfig struct {
	Dir string `mapstructure:"dir"`
}

// StorageConfig holds the run-history database configuration.
type StorageConfig struct {
	DBPath  string `mapstructure:"db_path"`
	MaxRuns int    `mapstructure:"max_runs"`
}

// ScheduleConfig controls whether the pipeline binary runs once or stays
// resident under a cron schedule.
type ScheduleConfig struct {
	Cron       string `mapstructure:"cron"`
	RunOnStart bool   `mapstructure:"run_on_start"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given file plus BISTSIGNAL_* environment
// overrides. A missing Telegram credential disables the transport rather
// than failing: the pipeline still runs, it just skips delivery.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("BISTSIGNAL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
		cfg.Telegram.Enabled = false
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.enabled", true)

	v.SetDefault("marketdata.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("marketdata.range", "6mo")
	v.SetDefault("marketdata.interval", "1d")
	v.SetDefault("marketdata.timeout", "30s")
	v.SetDefault("marketdata.max_retries", 3)
	v.SetDefault("marketdata.retry_delay_base", "2s")

	v.SetDefault("watchlist.path", "tickers.txt")
	v.SetDefault("export.xlsx_path", "output/signals.xlsx")
	v.SetDefault("state.dir", "state")

	v.SetDefault("storage.db_path", "data/bistsignal.db")
	v.SetDefault("storage.max_runs", 500)

	v.SetDefault("schedule.cron", "")
	v.SetDefault("schedule.run_on_start", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if c.Telegram.Enabled {
		if _, err := strconv.ParseInt(c.Telegram.ChatID, 10, 64); err != nil {
			return fmt.Errorf("telegram.chat_id must be a numeric chat identifier: %w", err)
		}
	}
	if c.MarketData.BaseURL == "" {
		return fmt.Errorf("marketdata.base_url is required")
	}
	if c.MarketData.Timeout < time.Second {
		return fmt.Errorf("marketdata.timeout must be at least 1 second")
	}
	if c.MarketData.MaxRetries < 1 {
		return fmt.Errorf("marketdata.max_retries must be at least 1")
	}
	if c.Watchlist.Path == "" {
		return fmt.Errorf("watchlist.path is required")
	}
	if c.State.Dir == "" {
		return fmt.Errorf("state.dir is required")
	}
	if c.Storage.DBPath != "" && c.Storage.MaxRuns < 1 {
		return fmt.Errorf("storage.max_runs must be at least 1")
	}
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}
	return nil
}

// ChatID returns the configured chat identifier as an int64. Callers must
// have validated the config first.
func (c *Config) ChatIDInt() int64 {
	id, _ := strconv.ParseInt(c.Telegram.ChatID, 10, 64)
	return id
}
