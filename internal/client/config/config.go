package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the gatherly client.
//
// Fields:
//   - BackendURL: base URL of the REST backend (tables, storage, auth).
//   - HealthAddr: host:port of the backend gRPC health service.
//   - DatabasePath / SyncStatePath: SQLite files for entities and sync bookkeeping.
//   - OnlineCheckInterval / QuickSyncInterval / FullSyncInterval: daemon cadence.
//   - RequestTimeout: per-request budget for backend calls.
//   - MetadataTimeout: budget for product page fetches in the wishlist.
//   - LogLevel / LogFormat / LogFile: logging.Options.
//   - KeyringService: service name the session token is stored under.
type Config struct {
	BackendURL          string
	HealthAddr          string
	DatabasePath        string
	SyncStatePath       string
	OnlineCheckInterval time.Duration
	QuickSyncInterval   time.Duration
	FullSyncInterval    time.Duration
	RequestTimeout      time.Duration
	MetadataTimeout     time.Duration
	LogLevel            string
	LogFormat           string
	LogFile             string
	KeyringService      string
}

// DataDir is where the client keeps its databases unless told otherwise.
func DataDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		base = "."
	}
	return filepath.Join(base, "gatherly")
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	dir := DataDir()
	c.BackendURL = "http://127.0.0.1:8080"
	c.HealthAddr = "127.0.0.1:50051"
	c.DatabasePath = filepath.Join(dir, "gatherly.db")
	c.SyncStatePath = filepath.Join(dir, "syncstate.db")
	c.OnlineCheckInterval = 30 * time.Second
	c.QuickSyncInterval = 2 * time.Minute
	c.FullSyncInterval = 15 * time.Minute
	c.RequestTimeout = 15 * time.Second
	c.MetadataTimeout = 5 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.LogFile = ""
	c.KeyringService = "gatherly"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file and finally from command-line flags.
// args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
