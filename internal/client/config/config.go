package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/scanpack/internal/client/gate"
)

// Config holds runtime settings for the scanpack client.
//
// Fields:
//   - ServerBaseURL: root of the backend REST API.
//   - HealthGRPCAddr: optional host:port of a gRPC health endpoint; when
//     empty, liveness is checked over REST.
//   - VaultPath: SQLite file holding the encrypted session. Empty keeps the
//     session in memory only.
//   - VaultPassphrase: unlocks the vault. Environment only; prompted for
//     when unset.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: upper bound for a single backend request.
//   - MinSplash: minimum time the loading screen stays up at startup.
//   - ProtectedRoute: where authenticated users land.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerBaseURL       string        `env:"SCANPACK_SERVER_BASE_URL"`
	HealthGRPCAddr      string        `env:"SCANPACK_HEALTH_GRPC_ADDR"`
	VaultPath           string        `env:"SCANPACK_VAULT_PATH"`
	VaultPassphrase     string        `env:"SCANPACK_VAULT_PASSPHRASE"`
	OnlineCheckInterval time.Duration `env:"SCANPACK_ONLINE_CHECK_INTERVAL"`
	RequestTimeout      time.Duration `env:"SCANPACK_REQUEST_TIMEOUT"`
	MinSplash           time.Duration `env:"SCANPACK_MIN_SPLASH"`
	ProtectedRoute      string        `env:"SCANPACK_PROTECTED_ROUTE"`
	LogLevel            string        `env:"SCANPACK_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:7777/api"
	c.HealthGRPCAddr = ""
	c.VaultPath = "vault.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.MinSplash = 0
	c.ProtectedRoute = gate.DefaultProtectedRoute
	c.LogLevel = "info"
}

// LoadConfig builds a Config from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load constructs a Config, applies defaults, then overlays values from
// JSON (if -c/-config is given), the environment and command-line flags.
// Later sources take precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ErrInvalidConfig is wrapped by every error Validate returns.
var ErrInvalidConfig = errors.New("invalid config")

// Validate rejects values the client cannot run with: the online check
// interval must be positive, the request timeout and minimum splash must
// not be negative.
func (c *Config) Validate() error {
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("%w: online check interval must be positive, got %s", ErrInvalidConfig, c.OnlineCheckInterval)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("%w: request timeout must not be negative, got %s", ErrInvalidConfig, c.RequestTimeout)
	}
	if c.MinSplash < 0 {
		return fmt.Errorf("%w: minimum splash must not be negative, got %s", ErrInvalidConfig, c.MinSplash)
	}
	return nil
}
