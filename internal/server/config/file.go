package config

import (
	"github.com/dmitrijs2005/gatherly/internal/configx"
	"github.com/dmitrijs2005/gatherly/internal/flagx"
	"github.com/dmitrijs2005/gatherly/internal/timex"
)

// FileConfig is the on-disk shape of the server config. Empty values leave
// the current setting alone.
type FileConfig struct {
	HTTPAddr                    string         `json:"http_addr" yaml:"http_addr" toml:"http_addr"`
	GRPCHealthAddr              string         `json:"grpc_health_addr" yaml:"grpc_health_addr" toml:"grpc_health_addr"`
	PublicURL                   string         `json:"public_url" yaml:"public_url" toml:"public_url"`
	DatabaseDSN                 string         `json:"database_dsn" yaml:"database_dsn" toml:"database_dsn"`
	SecretKey                   string         `json:"secret_key" yaml:"secret_key" toml:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration" toml:"access_token_validity_duration"`
	S3RootUser                  string         `json:"s3_root_user" yaml:"s3_root_user" toml:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password" yaml:"s3_root_password" toml:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket" yaml:"s3_bucket" toml:"s3_bucket"`
	S3Region                    string         `json:"s3_region" yaml:"s3_region" toml:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint" toml:"s3_base_endpoint"`
	LogLevel                    string         `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat                   string         `json:"log_format" yaml:"log_format" toml:"log_format"`
}

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
	for dst, v := range map[*string]string{
		&cfg.HTTPAddr:       fc.HTTPAddr,
		&cfg.GRPCHealthAddr: fc.GRPCHealthAddr,
		&cfg.PublicURL:      fc.PublicURL,
		&cfg.DatabaseDSN:    fc.DatabaseDSN,
		&cfg.SecretKey:      fc.SecretKey,
		&cfg.S3RootUser:     fc.S3RootUser,
		&cfg.S3RootPassword: fc.S3RootPassword,
		&cfg.S3Bucket:       fc.S3Bucket,
		&cfg.S3Region:       fc.S3Region,
		&cfg.S3BaseEndpoint: fc.S3BaseEndpoint,
		&cfg.LogLevel:       fc.LogLevel,
		&cfg.LogFormat:      fc.LogFormat,
	} {
		if v != "" {
			*dst = v
		}
	}

	if fc.AccessTokenValidityDuration.Duration > 0 {
		cfg.AccessTokenValidityDuration = fc.AccessTokenValidityDuration.Duration
	}
}
