package config

import (
	"flag"
	"os"
	"time"

	"github.com/tomarAyush07/fleetdesk-cli/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the fleet backend (default from Config)
//	-b string   path to the local credential database
//	-i int      session check interval in seconds (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the fleet backend")
	fs.StringVar(&cfg.DatabasePath, "b", cfg.DatabasePath, "path to the local credential database")
	checkInterval := fs.Int("i", int(cfg.CheckInterval.Seconds()), "session check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.CheckInterval = time.Duration(*checkInterval) * time.Second
}
