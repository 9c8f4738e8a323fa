package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "negative shutdown timeout",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = Duration(-time.Second) },
			wantErr: "shutdown timeout must be positive",
		},
		{
			name:    "negative completion timeout",
			mutate:  func(c *Config) { c.Completion.Timeout = -time.Second },
			wantErr: "completion timeout cannot be negative",
		},
		{
			name:    "missing bus url",
			mutate:  func(c *Config) { c.Bus.URL = "" },
			wantErr: "bus url required",
		},
		{
			name: "embedded bus needs no url",
			mutate: func(c *Config) {
				c.Bus.URL = ""
				c.Bus.Embedded = true
			},
		},
		{
			name:    "ingest enabled without dir",
			mutate:  func(c *Config) { c.Ingest.Enabled = true },
			wantErr: "ingest dir required",
		},
		{
			name:    "bogus logging level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "invalid logging level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDuration_RoundTrip(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("90s")))
	assert.Equal(t, 90*time.Second, d.Duration())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))
}

func TestDuration_RejectsNegative(t *testing.T) {
	var d Duration
	assert.Error(t, d.UnmarshalText([]byte("-5s")))
}
