package config

import "time"

// Config holds runtime settings for the Daybook CLI.
//
// Fields:
//   - DatabasePath: path to the encrypted SQLite database file.
//   - LegacyDir: directory scanned once for plaintext data from older versions.
//   - ReminderCheckInterval: how often the reminder engine re-evaluates.
//
// Units: ReminderCheckInterval is a time.Duration (e.g., time.Minute).
type Config struct {
	DatabasePath          string
	LegacyDir             string
	ReminderCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "daybook.db"
	c.LegacyDir = "legacy"
	c.ReminderCheckInterval = time.Minute
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
