package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/flagx"
)

var ownFlags = []string{"-a", "-g", "-d", "-s", "-i", "-l"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   backend base URL
//	-g string   host:port of the gRPC health service
//	-d string   entity database path
//	-s string   sync-state database path
//	-i int      online check interval in seconds
//	-l string   log level
//
// Only the flags listed here are parsed, so cobra sub-command flags pass
// through untouched. They are all single letters so the cobra root can
// declare the same names as shorthands.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, ownFlags)

	fs := flag.NewFlagSet("gatherly", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BackendURL, "a", cfg.BackendURL, "backend base URL")
	fs.StringVar(&cfg.HealthAddr, "g", cfg.HealthAddr, "gRPC health address")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "entity database path")
	fs.StringVar(&cfg.SyncStatePath, "s", cfg.SyncStatePath, "sync-state database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	return nil
}
