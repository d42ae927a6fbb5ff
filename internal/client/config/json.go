package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/scanpack/internal/flagx"
	"github.com/dmitrijs2005/scanpack/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. The vault passphrase is
// never read from a file.
type JSONConfig struct {
	ServerBaseURL       string         `json:"server_base_url"`
	HealthGRPCAddr      string         `json:"health_grpc_addr"`
	VaultPath           *string        `json:"vault_path"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	MinSplash           timex.Duration `json:"min_splash"`
	ProtectedRoute      string         `json:"protected_route"`
	LogLevel            string         `json:"log_level"`
}

// parseJSON overlays cfg with the fields set in the file named by -c or
// -config. Without either flag it does nothing. vault_path is a pointer so
// a file can set it to "" to select the in-memory store.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.ServerBaseURL, jc.ServerBaseURL)
	setString(&cfg.HealthGRPCAddr, jc.HealthGRPCAddr)
	if jc.VaultPath != nil {
		cfg.VaultPath = *jc.VaultPath
	}
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.MinSplash, jc.MinSplash)
	setString(&cfg.ProtectedRoute, jc.ProtectedRoute)
	setString(&cfg.LogLevel, jc.LogLevel)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
