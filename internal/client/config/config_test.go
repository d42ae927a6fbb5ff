package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://127.0.0.1:7777/api", c.ServerBaseURL)
	assert.Equal(t, "vault.db", c.VaultPath)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Zero(t, c.MinSplash)
	assert.Equal(t, "/dashboards/dashboard", c.ProtectedRoute)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoad_NoSourcesGivesDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	want := defaults()
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoad_JSONOverlaysOnlyGivenFields(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_base_url":       "https://api.example.com/api",
		"online_check_interval": "10s",
		"min_splash":            "500ms",
	})

	cfg, err := Load([]string{"-config", path})
	require.NoError(t, err)

	want := defaults()
	want.ServerBaseURL = "https://api.example.com/api"
	want.OnlineCheckInterval = 10 * time.Second
	want.MinSplash = 500 * time.Millisecond
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoad_JSONCanSelectMemoryStore(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"vault_path": ""})

	cfg, err := Load([]string{"-c", path})
	require.NoError(t, err)
	assert.Empty(t, cfg.VaultPath)
}

func TestLoad_JSONErrors(t *testing.T) {
	_, err := Load([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	assert.ErrorContains(t, err, "read config file")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = Load([]string{"-c", bad})
	assert.ErrorContains(t, err, "parse config file")

	wrongDuration := writeTempJSON(t, map[string]any{"request_timeout": "soon"})
	_, err = Load([]string{"-c", wrongDuration})
	assert.Error(t, err)
}

func TestLoad_EnvOverridesJSON(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_base_url": "https://from-json/api",
		"log_level":       "warn",
	})
	t.Setenv("SCANPACK_SERVER_BASE_URL", "https://from-env/api")
	t.Setenv("SCANPACK_VAULT_PASSPHRASE", "device-secret")
	t.Setenv("SCANPACK_MIN_SPLASH", "2s")

	cfg, err := Load([]string{"-c", path})
	require.NoError(t, err)

	assert.Equal(t, "https://from-env/api", cfg.ServerBaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "device-secret", cfg.VaultPassphrase)
	assert.Equal(t, 2*time.Second, cfg.MinSplash)
}

func TestLoad_EnvError(t *testing.T) {
	t.Setenv("SCANPACK_REQUEST_TIMEOUT", "not-a-duration")

	_, err := Load(nil)
	assert.ErrorContains(t, err, "parse env:")
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"server_base_url": "https://from-json/api"})
	t.Setenv("SCANPACK_SERVER_BASE_URL", "https://from-env/api")
	t.Setenv("SCANPACK_ONLINE_CHECK_INTERVAL", "7s")

	cfg, err := Load([]string{"-c", path, "-a", "http://10.0.0.2:7777/api", "-l", "debug", "unrelated", "-x"})
	require.NoError(t, err)

	want := defaults()
	want.ServerBaseURL = "http://10.0.0.2:7777/api"
	want.OnlineCheckInterval = 7 * time.Second
	want.LogLevel = "debug"
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoad_RejectsUnusableDurations(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		json map[string]any
	}{
		{name: "zero interval flag", args: []string{"-i", "0"}},
		{name: "negative interval flag", args: []string{"-i=-3"}},
		{name: "zero interval env", env: map[string]string{"SCANPACK_ONLINE_CHECK_INTERVAL": "0s"}},
		{name: "negative interval json", json: map[string]any{"online_check_interval": "-1s"}},
		{name: "negative request timeout", args: []string{"-t=-1s"}},
		{name: "negative min splash", env: map[string]string{"SCANPACK_MIN_SPLASH": "-200ms"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			args := tt.args
			if tt.json != nil {
				args = append([]string{"-c", writeTempJSON(t, tt.json)}, args...)
			}

			cfg, err := Load(args)
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, cfg)
		})
	}
}

func TestValidate_AcceptsZeroTimeoutAndSplash(t *testing.T) {
	cfg := defaults()
	cfg.RequestTimeout = 0
	cfg.MinSplash = 0
	assert.NoError(t, cfg.Validate())
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://h/api", "-g", "h:50051", "-v", "", "-i", "10", "-t", "3s", "-s", "1s", "-r", "/home", "-l", "error"},
			expected: Config{
				ServerBaseURL:       "http://h/api",
				HealthGRPCAddr:      "h:50051",
				VaultPath:           "",
				OnlineCheckInterval: 10 * time.Second,
				RequestTimeout:      3 * time.Second,
				MinSplash:           time.Second,
				ProtectedRoute:      "/home",
				LogLevel:            "error",
			},
		},
		{name: "incorrect check interval", args: []string{"-i", "abc"}, wantErr: true},
		{name: "incorrect splash", args: []string{"-s", "long"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			err := parseFlags(&cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
