package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/scanpack/internal/flagx"
)

var knownFlags = []string{"-a", "-g", "-v", "-i", "-t", "-s", "-r", "-l"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     base URL of the backend REST API
//	-g string     host:port of the gRPC health endpoint
//	-v string     vault file path ("" keeps the session in memory)
//	-i int        online check interval in seconds
//	-t duration   request timeout
//	-s duration   minimum splash duration
//	-r string     protected route
//	-l string     log level
//
// The args are filtered with flagx.FilterArgs first so flags owned by other
// components (-c/-config) do not interfere.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("scanpack", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "backend API base URL")
	fs.StringVar(&cfg.HealthGRPCAddr, "g", cfg.HealthGRPCAddr, "gRPC health endpoint address")
	fs.StringVar(&cfg.VaultPath, "v", cfg.VaultPath, "vault file path")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.DurationVar(&cfg.MinSplash, "s", cfg.MinSplash, "minimum splash duration")
	fs.StringVar(&cfg.ProtectedRoute, "r", cfg.ProtectedRoute, "protected route")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// -i is whole seconds; only replace the interval when it was given.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
	return nil
}
