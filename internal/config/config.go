// Package config loads the analyst configuration: data-source access,
// scan behavior, indicator windows and the long-running watch and serve
// modes. Values come from defaults, then the YAML file, then
// environment variables; command-line flags override on top of that in
// cmd/analyst.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Scan      ScanConfig      `yaml:"scan"`
	Indicator IndicatorConfig `yaml:"indicator"`
	History   HistoryConfig   `yaml:"history"`
	Watch     WatchConfig     `yaml:"watch"`
	Web       WebConfig       `yaml:"web"`
}

// SourceConfig selects and tunes the market-data sources. When a
// gateway URL is set the gateway becomes the primary source with the
// public EastMoney endpoints as fallback; otherwise EastMoney serves
// alone.
type SourceConfig struct {
	GatewayURL string        `yaml:"gateway_url"`
	GatewayKey string        `yaml:"gateway_key"`
	RateLimit  int           `yaml:"rate_limit"` // EastMoney requests per minute
	CacheTTL   time.Duration `yaml:"cache_ttl"`  // spot/board table reuse window
}

// ScanConfig holds batch-scan settings
type ScanConfig struct {
	Workers int           `yaml:"workers"`
	Timeout time.Duration `yaml:"timeout"` // per-stock fetch+analyze budget
	Days    int           `yaml:"days"`    // daily bars fetched per stock
	TopN    int           `yaml:"top_n"`   // rows shown in rankings
}

// IndicatorConfig carries every indicator window and span. Defaults
// match the standard A-share parameter set; see analyzer.DefaultConfig.
type IndicatorConfig struct {
	MAWindows    []int   `yaml:"ma_windows"`
	VolMAWindows []int   `yaml:"vol_ma_windows"`
	MACDFast     int     `yaml:"macd_fast"`
	MACDSlow     int     `yaml:"macd_slow"`
	MACDSignal   int     `yaml:"macd_signal"`
	KDJN         int     `yaml:"kdj_n"`
	KDJM1        int     `yaml:"kdj_m1"`
	KDJM2        int     `yaml:"kdj_m2"`
	RSIPeriod    int     `yaml:"rsi_period"`
	BollPeriod   int     `yaml:"boll_period"`
	BollWidth    float64 `yaml:"boll_width"`
	ATRPeriod    int     `yaml:"atr_period"`
	TrendShort   int     `yaml:"trend_short"`
	TrendLong    int     `yaml:"trend_long"`
	LevelPeriod  int     `yaml:"level_period"`
}

// HistoryConfig points at the SQLite history database. An empty path
// falls back to ~/.a-share-analyst/history.db.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// WatchConfig drives the scheduled daily reports.
type WatchConfig struct {
	Cron      string   `yaml:"cron"`       // standard 5-field spec
	OutputDir string   `yaml:"output_dir"` // where report files land
	Codes     []string `yaml:"codes"`      // watchlist stock codes
}

// WebConfig holds the serve-mode settings
type WebConfig struct {
	Port int `yaml:"port"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			GatewayURL: os.Getenv("ANALYST_GATEWAY_URL"),
			GatewayKey: os.Getenv("ANALYST_GATEWAY_KEY"),
			RateLimit:  120,
			CacheTTL:   5 * time.Minute,
		},
		Scan: ScanConfig{
			Workers: 8,
			Timeout: 30 * time.Second,
			Days:    250,
			TopN:    20,
		},
		Indicator: IndicatorConfig{
			MAWindows:    []int{5, 10, 20, 60, 120},
			VolMAWindows: []int{5, 10, 20},
			MACDFast:     12,
			MACDSlow:     26,
			MACDSignal:   9,
			KDJN:         9,
			KDJM1:        3,
			KDJM2:        3,
			RSIPeriod:    14,
			BollPeriod:   20,
			BollWidth:    2,
			ATRPeriod:    14,
			TrendShort:   20,
			TrendLong:    60,
			LevelPeriod:  20,
		},
		Watch: WatchConfig{
			// weekdays at 16:00, after the A-share close
			Cron:      "0 16 * * 1-5",
			OutputDir: "reports",
		},
		Web: WebConfig{
			Port: 8390,
		},
	}
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if file doesn't exist
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Override with environment variables if set
	if url := os.Getenv("ANALYST_GATEWAY_URL"); url != "" {
		cfg.Source.GatewayURL = url
	}
	if key := os.Getenv("ANALYST_GATEWAY_KEY"); key != "" {
		cfg.Source.GatewayKey = key
	}
	if path := os.Getenv("ANALYST_DB"); path != "" {
		cfg.History.Path = path
	}

	return cfg, nil
}

// Validate checks if the configuration is valid. Indicator windows are
// validated separately when the analyzer configuration is built.
func (c *Config) Validate() error {
	if c.Source.RateLimit < 1 {
		return fmt.Errorf("source rate_limit must be at least 1 request per minute")
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan workers must be at least 1")
	}
	if c.Scan.Timeout <= 0 {
		return fmt.Errorf("scan timeout must be positive")
	}
	if c.Scan.Days < 1 {
		return fmt.Errorf("scan days must be at least 1")
	}
	if c.Watch.Cron == "" {
		return fmt.Errorf("watch cron spec must not be empty")
	}
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port %d out of range", c.Web.Port)
	}
	return nil
}
