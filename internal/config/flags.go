package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/termrooms/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   store backend ("memory", "sqlite", "redis")
//	-d string   SQLite DSN
//	-r string   Redis host:port
//	-s string   session signing secret
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-d", "-r", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.StoreBackend, "b", config.StoreBackend, "store backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
