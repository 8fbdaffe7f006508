package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	dashboard "github.com/goliatone/go-market-dashboard/components/dashboard"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvBackendURL = "DASHBOARD_BACKEND_URL"
	EnvAddress    = "DASHBOARD_ADDRESS"
	EnvLogLevel   = "DASHBOARD_LOG_LEVEL"
	EnvEChartsCDN = "GO_DASHBOARD_ECHARTS_CDN"
)

// Config is the dashboard service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Polling PollingConfig `yaml:"polling"`
	Charts  ChartsConfig  `yaml:"charts"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Address  string `yaml:"address"`
	BasePath string `yaml:"base_path"`
}

// BackendConfig points at the market analysis API.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// PollingConfig holds the controller timers.
type PollingConfig struct {
	StatusInterval        time.Duration `yaml:"status_interval"`
	OpportunitiesInterval time.Duration `yaml:"opportunities_interval"`
	RetryDelay            time.Duration `yaml:"retry_delay"`
	InitializingInterval  time.Duration `yaml:"initializing_interval"`
	LoadingHideDelay      time.Duration `yaml:"loading_hide_delay"`
	AlertTTL              time.Duration `yaml:"alert_ttl"`
}

// ChartsConfig customizes chart rendering.
type ChartsConfig struct {
	Theme         string        `yaml:"theme"`
	AssetsHost    string        `yaml:"assets_host"`
	TopCurrencies int           `yaml:"top_currencies"`
	TrendDays     int           `yaml:"trend_days"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	ChaosIcon     string        `yaml:"chaos_icon"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() Config {
	intervals := dashboard.DefaultIntervals()
	return Config{
		Server: ServerConfig{
			Address:  ":8080",
			BasePath: "/",
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 10 * time.Second,
		},
		Polling: PollingConfig{
			StatusInterval:        intervals.Status,
			OpportunitiesInterval: intervals.Opportunities,
			RetryDelay:            intervals.Retry,
			InitializingInterval:  intervals.Initializing,
			LoadingHideDelay:      intervals.LoadingHide,
			AlertTTL:              intervals.AlertTTL,
		},
		Charts: ChartsConfig{
			Theme:         "westeros",
			TopCurrencies: 5,
			TrendDays:     7,
			CacheTTL:      5 * time.Minute,
			ChaosIcon:     dashboard.DefaultChaosIcon,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads filename over the defaults, applies environment overrides and
// validates the result. An empty filename skips the file.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", filename, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", filename, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookupNonEmpty(lookup, EnvBackendURL); ok {
		c.Backend.BaseURL = v
	}
	if v, ok := lookupNonEmpty(lookup, EnvAddress); ok {
		c.Server.Address = v
	}
	if v, ok := lookupNonEmpty(lookup, EnvLogLevel); ok {
		c.Logging.Level = v
	}
	if v, ok := lookupNonEmpty(lookup, EnvEChartsCDN); ok {
		c.Charts.AssetsHost = v
	}
}

func lookupNonEmpty(lookup func(string) (string, bool), key string) (string, bool) {
	v, ok := lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address is required"))
	}
	if !strings.HasPrefix(c.Server.BasePath, "/") {
		errs = append(errs, fmt.Errorf("server.base_path %q must start with /", c.Server.BasePath))
	}
	if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("backend.base_url %q must be an absolute url", c.Backend.BaseURL))
	}
	for name, d := range map[string]time.Duration{
		"backend.timeout":                c.Backend.Timeout,
		"polling.status_interval":        c.Polling.StatusInterval,
		"polling.opportunities_interval": c.Polling.OpportunitiesInterval,
		"polling.retry_delay":            c.Polling.RetryDelay,
		"polling.initializing_interval":  c.Polling.InitializingInterval,
		"polling.loading_hide_delay":     c.Polling.LoadingHideDelay,
		"polling.alert_ttl":              c.Polling.AlertTTL,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.Charts.TopCurrencies <= 0 {
		errs = append(errs, errors.New("charts.top_currencies must be positive"))
	}
	if c.Charts.TrendDays <= 0 {
		errs = append(errs, errors.New("charts.trend_days must be positive"))
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// Intervals converts the polling section into controller intervals.
func (p PollingConfig) Intervals() dashboard.Intervals {
	return dashboard.Intervals{
		Status:        p.StatusInterval,
		Initializing:  p.InitializingInterval,
		Opportunities: p.OpportunitiesInterval,
		Retry:         p.RetryDelay,
		LoadingHide:   p.LoadingHideDelay,
		AlertTTL:      p.AlertTTL,
	}
}

// NewLogger builds a zap logger for the configured level.
func (l LoggingConfig) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("config: logging level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	if l.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
