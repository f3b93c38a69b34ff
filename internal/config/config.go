package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Analysis struct {
		Benchmark          string  `yaml:"benchmark"`
		WindowYears        int     `yaml:"window_years"`
		RiskFreeRate       float64 `yaml:"risk_free_rate"`
		TradingDaysPerYear int     `yaml:"trading_days_per_year"`
		MaxParallel        int     `yaml:"max_parallel"`
	} `yaml:"analysis"`
	Tickers    []string `yaml:"tickers"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Watchlist struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"watchlist"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides.
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
	if v := os.Getenv("BENCHMARK"); v != "" {
		cfg.Analysis.Benchmark = v
	}
	if v := os.Getenv("WINDOW_YEARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.WindowYears = n
		}
	}
	if v := os.Getenv("RISK_FREE_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.RiskFreeRate = f
		}
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}

	// Defaults
	if cfg.Analysis.Benchmark == "" {
		cfg.Analysis.Benchmark = "^GSPC"
	}
	if cfg.Analysis.WindowYears == 0 {
		cfg.Analysis.WindowYears = 1
	}
	if cfg.Analysis.TradingDaysPerYear == 0 {
		cfg.Analysis.TradingDaysPerYear = 252
	}
	if cfg.Analysis.MaxParallel == 0 {
		cfg.Analysis.MaxParallel = 4
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 30 22 * * 1-5"
	}
	if cfg.Watchlist.StateFile == "" {
		cfg.Watchlist.StateFile = "data/watchlist.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/betalens.db"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and in range.
func (c *Config) Validate() error {
	if c.Analysis.Benchmark == "" {
		return fmt.Errorf("analysis.benchmark is required")
	}
	if c.Analysis.WindowYears < 1 || c.Analysis.WindowYears > 10 {
		return fmt.Errorf("analysis.window_years must be between 1 and 10")
	}
	if c.Analysis.RiskFreeRate < 0 || c.Analysis.RiskFreeRate >= 1 {
		return fmt.Errorf("analysis.risk_free_rate must be a fraction in [0, 1)")
	}
	if c.Analysis.TradingDaysPerYear <= 0 {
		return fmt.Errorf("analysis.trading_days_per_year must be positive")
	}
	if len(c.Tickers) == 0 {
		return fmt.Errorf("at least one ticker is required")
	}
	return nil
}
