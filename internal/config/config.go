package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"BistRadar/internal/model"
	"BistRadar/internal/scan"
)

// Config holds all application configuration.
type Config struct {
	OperatorID int64          `yaml:"operator_id"`
	Universe   []model.Symbol `yaml:"universe"`
	Telegram   struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Providers struct {
		YahooSuffix        string `yaml:"yahoo_suffix"`
		AlphaVantageKey    string `yaml:"alphavantage_key"`
		AlphaVantageSuffix string `yaml:"alphavantage_suffix"`
	} `yaml:"providers"`
	Quotes struct {
		CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
		PacingMillis    int `yaml:"pacing_millis"`
	} `yaml:"quotes"`
	Scan struct {
		Threshold    scan.ThresholdProfile `yaml:"threshold"`
		HistoryLimit int                   `yaml:"history_limit"`
		WindowDays   int                   `yaml:"result_window_days"`
	} `yaml:"scan"`
	Resolve struct {
		ExpirePolicy   string `yaml:"expire_policy"` // zero | market
		RetentionHours int    `yaml:"retention_hours"`
	} `yaml:"resolve"`
	Schedule struct {
		ScanCron    string `yaml:"scan_cron"`
		ResolveCron string `yaml:"resolve_cron"`
		CollectCron string `yaml:"collect_cron"`
		ExpireCron  string `yaml:"expire_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment
// variable overrides and defaults. A missing file is not an error; the
// defaults describe a working single-operator BIST deployment.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.Providers.AlphaVantageKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("OPERATOR_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.OperatorID = id
		}
	}
	if v := os.Getenv("EXPIRE_POLICY"); v != "" {
		cfg.Resolve.ExpirePolicy = v
	}

	// Defaults
	if cfg.OperatorID == 0 {
		cfg.OperatorID = 1
	}
	if len(cfg.Universe) == 0 {
		cfg.Universe = DefaultUniverse()
	}
	if cfg.Providers.YahooSuffix == "" {
		cfg.Providers.YahooSuffix = ".IS"
	}
	if cfg.Providers.AlphaVantageSuffix == "" {
		cfg.Providers.AlphaVantageSuffix = ".IST"
	}
	if cfg.Quotes.CacheTTLSeconds == 0 {
		cfg.Quotes.CacheTTLSeconds = 120
	}
	if cfg.Quotes.PacingMillis == 0 {
		cfg.Quotes.PacingMillis = 400
	}
	if cfg.Scan.Threshold == (scan.ThresholdProfile{}) {
		cfg.Scan.Threshold = scan.DefaultThresholdProfile
	}
	if cfg.Scan.HistoryLimit == 0 {
		cfg.Scan.HistoryLimit = 60
	}
	if cfg.Scan.WindowDays == 0 {
		cfg.Scan.WindowDays = 30
	}
	if cfg.Resolve.ExpirePolicy == "" {
		cfg.Resolve.ExpirePolicy = "zero"
	}
	if cfg.Resolve.RetentionHours == 0 {
		cfg.Resolve.RetentionHours = 24
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 */15 10-18 * * 1-5"
	}
	if cfg.Schedule.ResolveCron == "" {
		cfg.Schedule.ResolveCron = "0 5/30 10-18 * * 1-5"
	}
	if cfg.Schedule.CollectCron == "" {
		cfg.Schedule.CollectCron = "0 15 18 * * 1-5"
	}
	if cfg.Schedule.ExpireCron == "" {
		cfg.Schedule.ExpireCron = "0 0 19 * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/bist_radar.db"
	}

	return cfg, nil
}

// Validate checks the loaded configuration for contradictions.
// Telegram credentials are optional; without them the bot runs
// scan-and-store only.
func (c *Config) Validate() error {
	if c.OperatorID <= 0 {
		return fmt.Errorf("operator_id must be positive")
	}
	if len(c.Universe) == 0 {
		return fmt.Errorf("universe must not be empty")
	}
	for _, sym := range c.Universe {
		if sym.Code == "" {
			return fmt.Errorf("universe entry with empty code")
		}
	}
	if err := c.Scan.Threshold.Validate(); err != nil {
		return err
	}
	if p := c.Resolve.ExpirePolicy; p != "zero" && p != "market" {
		return fmt.Errorf("resolve.expire_policy must be zero or market, got %q", p)
	}
	if c.Quotes.CacheTTLSeconds < 0 || c.Quotes.PacingMillis < 0 {
		return fmt.Errorf("quote timings must not be negative")
	}
	if c.Resolve.RetentionHours <= 0 {
		return fmt.Errorf("resolve.retention_hours must be positive")
	}
	if c.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is required")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when bot_token is set")
	}
	return nil
}
