// Package config loads the application configuration.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Dexscreener   DexscreenerConfig   `mapstructure:"dexscreener"`
	Geckoterminal GeckoterminalConfig `mapstructure:"geckoterminal"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline"`
	Detector      DetectorConfig      `mapstructure:"detector"`
	Dispatcher    DispatcherConfig    `mapstructure:"dispatcher"`
	Notify        NotifyConfig        `mapstructure:"notify"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// DexscreenerConfig holds the pair metadata API configuration
type DexscreenerConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	ChainID        string        `mapstructure:"chain_id"`
	CallsPerMinute int           `mapstructure:"calls_per_minute"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// GeckoterminalConfig holds the OHLCV API configuration
type GeckoterminalConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	Network          string        `mapstructure:"network"`
	AggregateMinutes int           `mapstructure:"aggregate_minutes"`
	CallsPerMinute   int           `mapstructure:"calls_per_minute"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// PipelineConfig holds the fetch-and-score loop configuration
type PipelineConfig struct {
	AddressFeedPath      string        `mapstructure:"address_feed_path"`
	AlertLogPath         string        `mapstructure:"alert_log_path"`
	ResultsLogPath       string        `mapstructure:"results_log_path"`
	CycleInterval        time.Duration `mapstructure:"cycle_interval"`
	ErrorBackoff         time.Duration `mapstructure:"error_backoff"`
	MaxLiquidityFDVRatio float64       `mapstructure:"max_liquidity_fdv_ratio"`
}

// DetectorConfig holds the pattern detection thresholds
type DetectorConfig struct {
	BucketSeconds    int64   `mapstructure:"bucket_seconds"`
	VolumeFloor      float64 `mapstructure:"volume_floor"`
	CorrectionCutoff float64 `mapstructure:"correction_cutoff"`
	ThinSeriesFactor float64 `mapstructure:"thin_series_factor"`
}

// DispatcherConfig holds the alert delivery loop configuration
type DispatcherConfig struct {
	PollInterval      time.Duration `mapstructure:"poll_interval"`
	RetentionInterval time.Duration `mapstructure:"retention_interval"`
}

// NotifyConfig holds the notification sink configuration
type NotifyConfig struct {
	Sink       string         `mapstructure:"sink"` // "webhook", "telegram", or "none"
	WebhookURL string         `mapstructure:"webhook_url"`
	Telegram   TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig holds Telegram sink credentials
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	setDefaults(v)

	v.SetEnvPrefix("ONCHAIN_ALERTS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("dexscreener.base_url", "https://api.dexscreener.com")
	v.SetDefault("dexscreener.chain_id", "solana")
	v.SetDefault("dexscreener.calls_per_minute", 60)
	v.SetDefault("dexscreener.timeout", "10s")

	v.SetDefault("geckoterminal.base_url", "https://api.geckoterminal.com/api/v2")
	v.SetDefault("geckoterminal.network", "solana")
	v.SetDefault("geckoterminal.aggregate_minutes", 5)
	v.SetDefault("geckoterminal.calls_per_minute", 30)
	v.SetDefault("geckoterminal.timeout", "10s")

	v.SetDefault("pipeline.address_feed_path", "./data/solana_addresses.json")
	v.SetDefault("pipeline.alert_log_path", "./data/pattern_alerts.txt")
	v.SetDefault("pipeline.results_log_path", "./data/analysis_results.json")
	v.SetDefault("pipeline.cycle_interval", "5m")
	v.SetDefault("pipeline.error_backoff", "5m")
	v.SetDefault("pipeline.max_liquidity_fdv_ratio", 0.8)

	v.SetDefault("detector.bucket_seconds", 300)
	v.SetDefault("detector.volume_floor", 10.0)
	v.SetDefault("detector.correction_cutoff", 999.0)
	v.SetDefault("detector.thin_series_factor", 7.0)

	v.SetDefault("dispatcher.poll_interval", "10s")
	v.SetDefault("dispatcher.retention_interval", "6h")

	v.SetDefault("notify.sink", "none")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Dexscreener.BaseURL == "" {
		return fmt.Errorf("dexscreener.base_url is required")
	}
	if c.Dexscreener.ChainID == "" {
		return fmt.Errorf("dexscreener.chain_id is required")
	}
	if c.Dexscreener.CallsPerMinute < 1 {
		return fmt.Errorf("dexscreener.calls_per_minute must be at least 1")
	}
	if c.Dexscreener.Timeout <= 0 {
		return fmt.Errorf("dexscreener.timeout must be positive")
	}

	if c.Geckoterminal.BaseURL == "" {
		return fmt.Errorf("geckoterminal.base_url is required")
	}
	if c.Geckoterminal.Network == "" {
		return fmt.Errorf("geckoterminal.network is required")
	}
	if c.Geckoterminal.AggregateMinutes < 1 {
		return fmt.Errorf("geckoterminal.aggregate_minutes must be at least 1")
	}
	if c.Geckoterminal.CallsPerMinute < 1 {
		return fmt.Errorf("geckoterminal.calls_per_minute must be at least 1")
	}
	if c.Geckoterminal.Timeout <= 0 {
		return fmt.Errorf("geckoterminal.timeout must be positive")
	}

	if c.Pipeline.AddressFeedPath == "" {
		return fmt.Errorf("pipeline.address_feed_path is required")
	}
	if c.Pipeline.AlertLogPath == "" {
		return fmt.Errorf("pipeline.alert_log_path is required")
	}
	if c.Pipeline.ResultsLogPath == "" {
		return fmt.Errorf("pipeline.results_log_path is required")
	}
	if c.Pipeline.CycleInterval < time.Second {
		return fmt.Errorf("pipeline.cycle_interval must be at least 1 second")
	}
	if c.Pipeline.ErrorBackoff < time.Second {
		return fmt.Errorf("pipeline.error_backoff must be at least 1 second")
	}
	if c.Pipeline.MaxLiquidityFDVRatio <= 0 || c.Pipeline.MaxLiquidityFDVRatio > 1 {
		return fmt.Errorf("pipeline.max_liquidity_fdv_ratio must be in (0, 1]")
	}

	if c.Detector.BucketSeconds < 1 {
		return fmt.Errorf("detector.bucket_seconds must be at least 1")
	}
	if c.Detector.VolumeFloor < 0 {
		return fmt.Errorf("detector.volume_floor must not be negative")
	}
	if c.Detector.CorrectionCutoff < 0 {
		return fmt.Errorf("detector.correction_cutoff must not be negative")
	}
	if c.Detector.ThinSeriesFactor < 1 {
		return fmt.Errorf("detector.thin_series_factor must be at least 1")
	}

	if c.Dispatcher.PollInterval < time.Second {
		return fmt.Errorf("dispatcher.poll_interval must be at least 1 second")
	}
	if c.Dispatcher.RetentionInterval < time.Minute {
		return fmt.Errorf("dispatcher.retention_interval must be at least 1 minute")
	}

	switch c.Notify.Sink {
	case "none":
	case "webhook":
		if c.Notify.WebhookURL == "" {
			return fmt.Errorf("notify.webhook_url is required when notify.sink is webhook")
		}
	case "telegram":
		if c.Notify.Telegram.BotToken == "" {
			return fmt.Errorf("notify.telegram.bot_token is required when notify.sink is telegram")
		}
		if c.Notify.Telegram.ChatID == "" {
			return fmt.Errorf("notify.telegram.chat_id is required when notify.sink is telegram")
		}
	default:
		return fmt.Errorf("notify.sink must be one of: none, webhook, telegram")
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
