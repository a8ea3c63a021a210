package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all daemon configuration.
type Config struct {
	Server    ServerConfig
	Projects  ProjectsConfig
	Apps      AppsConfig
	WM        WMConfig
	Helper    HelperConfig
	Layout    LayoutConfig
	Polling   PollingConfig
	Breaker   BreakerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"7820"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// ProjectsConfig locates the project definitions and recency state.
type ProjectsConfig struct {
	File      string `envconfig:"PROJECTS_FILE" default:"~/.config/deskpilot/projects.yaml"`
	StateFile string `envconfig:"STATE_FILE" default:"~/.local/state/deskpilot/recents.json"`
}

// AppsConfig identifies the managed applications by bundle id.
type AppsConfig struct {
	EditorBundleID  string `envconfig:"EDITOR_BUNDLE_ID" default:"com.microsoft.VSCode"`
	BrowserBundleID string `envconfig:"BROWSER_BUNDLE_ID" default:"com.google.Chrome"`
}

// WMConfig holds window-manager CLI configuration.
type WMConfig struct {
	Binary      string        `envconfig:"WM_BINARY" default:"aerospace"`
	CallTimeout time.Duration `envconfig:"WM_CALL_TIMEOUT" default:"5s"`
}

// HelperConfig locates the accessibility helper used for precise window
// frames and display metrics, which the window-manager CLI cannot report.
type HelperConfig struct {
	Binary      string        `envconfig:"HELPER_BINARY" default:"deskpilot-ax"`
	CallTimeout time.Duration `envconfig:"HELPER_CALL_TIMEOUT" default:"5s"`
}

// LayoutConfig holds the window layout parameters.
type LayoutConfig struct {
	SmallScreenThresholdInches float64 `envconfig:"LAYOUT_SMALL_THRESHOLD_INCHES" default:"23"`
	WindowHeightPercent        float64 `envconfig:"LAYOUT_HEIGHT_PERCENT" default:"0.95"`
	MaxWindowWidthInches       float64 `envconfig:"LAYOUT_MAX_WIDTH_INCHES" default:"14"`
	IDESide                    string  `envconfig:"LAYOUT_IDE_SIDE" default:"left"`
	Justification              string  `envconfig:"LAYOUT_JUSTIFICATION" default:"right"`
	MaxGapPercent              float64 `envconfig:"LAYOUT_MAX_GAP_PERCENT" default:"0.03"`
}

// PollingConfig bounds the launch and workspace-arrival poll loops.
type PollingConfig struct {
	Interval time.Duration `envconfig:"POLL_INTERVAL" default:"100ms"`
	Timeout  time.Duration `envconfig:"POLL_TIMEOUT" default:"10s"`
}

// BreakerConfig holds circuit breaker configuration.
type BreakerConfig struct {
	Cooldown            time.Duration `envconfig:"BREAKER_COOLDOWN" default:"30s"`
	MaxRecoveryAttempts int           `envconfig:"BREAKER_MAX_RECOVERY_ATTEMPTS" default:"2"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("DESKPILOT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "7820",
			Host: "127.0.0.1",
		},
		Projects: ProjectsConfig{
			File:      "~/.config/deskpilot/projects.yaml",
			StateFile: "~/.local/state/deskpilot/recents.json",
		},
		Apps: AppsConfig{
			EditorBundleID:  "com.microsoft.VSCode",
			BrowserBundleID: "com.google.Chrome",
		},
		WM: WMConfig{
			Binary:      "aerospace",
			CallTimeout: 5 * time.Second,
		},
		Helper: HelperConfig{
			Binary:      "deskpilot-ax",
			CallTimeout: 5 * time.Second,
		},
		Layout: LayoutConfig{
			SmallScreenThresholdInches: 23,
			WindowHeightPercent:        0.95,
			MaxWindowWidthInches:       14,
			IDESide:                    "left",
			Justification:              "right",
			MaxGapPercent:              0.03,
		},
		Polling: PollingConfig{
			Interval: 100 * time.Millisecond,
			Timeout:  10 * time.Second,
		},
		Breaker: BreakerConfig{
			Cooldown:            30 * time.Second,
			MaxRecoveryAttempts: 2,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}
