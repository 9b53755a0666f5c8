package config

import "time"

// Config holds runtime settings for the fleetdesk CLI.
//
// Fields:
//   - ServerBaseURL: scheme://host[:port] of the fleet backend.
//   - DatabasePath: location of the local credential database.
//   - CheckInterval: how often the session checker re-validates the token.
//   - WarnThreshold: remaining session lifetime below which the expiry
//     warning is shown.
type Config struct {
	ServerBaseURL string
	DatabasePath  string
	CheckInterval time.Duration
	WarnThreshold time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000"
	c.DatabasePath = "fleetdesk.db"
	c.CheckInterval = 5 * time.Minute
	c.WarnThreshold = 5 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
