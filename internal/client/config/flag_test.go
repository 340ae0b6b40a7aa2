package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    func(*Config)
		wantErr bool
	}{
		{
			name: "backend and interval",
			args: []string{"-a", "http://127.0.0.1:9090", "-i", "10"},
			want: func(c *Config) {
				c.BackendURL = "http://127.0.0.1:9090"
				c.OnlineCheckInterval = 10 * time.Second
			},
		},
		{
			name: "unrelated flags ignored",
			args: []string{"event", "add", "--title", "Party", "-d", "/tmp/x.db"},
			want: func(c *Config) { c.DatabasePath = "/tmp/x.db" },
		},
		{
			name:    "incorrect check interval",
			args:    []string{"-i", "abc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.want(want)
			assert.Empty(t, cmp.Diff(want, cfg))
		})
	}
}
