// Package config loads runtime configuration for the gatherly client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. The format follows
//     the extension: .json, .yaml/.yml or .toml.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Intervals in files are duration strings:
//
//	backend_url: https://api.example.com
//	health_addr: api.example.com:50051
//	quick_sync_interval: 2m
//	full_sync_interval: 15m
package config
