package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/daybook/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path to the database file (default from Config)
//	-l string   legacy plaintext directory (default from Config)
//	-i int      reminder check interval in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-l", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the database file")
	fs.StringVar(&cfg.LegacyDir, "l", cfg.LegacyDir, "directory with legacy plaintext data")
	reminderCheckInterval := fs.Int("i", int(cfg.ReminderCheckInterval.Seconds()), "reminder check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ReminderCheckInterval = time.Duration(*reminderCheckInterval) * time.Second
}
