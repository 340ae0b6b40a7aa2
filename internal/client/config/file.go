package config

import (
	"github.com/dmitrijs2005/gatherly/internal/configx"
	"github.com/dmitrijs2005/gatherly/internal/flagx"
	"github.com/dmitrijs2005/gatherly/internal/timex"
)

// FileConfig is the on-disk shape of the client config. Intervals use
// timex.Duration so they can be written as "30s" in every format.
// Empty values leave the current setting alone.
type FileConfig struct {
	BackendURL          string         `json:"backend_url" yaml:"backend_url" toml:"backend_url"`
	HealthAddr          string         `json:"health_addr" yaml:"health_addr" toml:"health_addr"`
	DatabasePath        string         `json:"database_path" yaml:"database_path" toml:"database_path"`
	SyncStatePath       string         `json:"sync_state_path" yaml:"sync_state_path" toml:"sync_state_path"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval" toml:"online_check_interval"`
	QuickSyncInterval   timex.Duration `json:"quick_sync_interval" yaml:"quick_sync_interval" toml:"quick_sync_interval"`
	FullSyncInterval    timex.Duration `json:"full_sync_interval" yaml:"full_sync_interval" toml:"full_sync_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout" toml:"request_timeout"`
	MetadataTimeout     timex.Duration `json:"metadata_timeout" yaml:"metadata_timeout" toml:"metadata_timeout"`
	LogLevel            string         `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat           string         `json:"log_format" yaml:"log_format" toml:"log_format"`
	LogFile             string         `json:"log_file" yaml:"log_file" toml:"log_file"`
	KeyringService      string         `json:"keyring_service" yaml:"keyring_service" toml:"keyring_service"`
}

// parseFile overlays cfg with the file named by -c/-config, if any.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	var fc FileConfig
	if err := configx.DecodeFile(path, &fc); err != nil {
		return err
	}
	fc.apply(cfg)
	return nil
}

func (fc FileConfig) apply(cfg *Config) {
	setString(&cfg.BackendURL, fc.BackendURL)
	setString(&cfg.HealthAddr, fc.HealthAddr)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.SyncStatePath, fc.SyncStatePath)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.LogFile, fc.LogFile)
	setString(&cfg.KeyringService, fc.KeyringService)

	if fc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.QuickSyncInterval.Duration > 0 {
		cfg.QuickSyncInterval = fc.QuickSyncInterval.Duration
	}
	if fc.FullSyncInterval.Duration > 0 {
		cfg.FullSyncInterval = fc.FullSyncInterval.Duration
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.MetadataTimeout.Duration > 0 {
		cfg.MetadataTimeout = fc.MetadataTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
