// Package config loads runtime configuration for the Daybook CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path to the database file
//	-l string   legacy plaintext directory
//	-i int      reminder check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "60s" or integer nanoseconds:
//
//	{
//	  "database_path": "daybook.db",
//	  "legacy_dir": "legacy",
//	  "reminder_check_interval": "60s"
//	}
//
// Primary API
//
//   - type Config                     — holds the database path, legacy dir and reminder interval
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
