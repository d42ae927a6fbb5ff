// Package config loads runtime configuration for the scanpack client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. SCANPACK_* environment variables.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the backend REST API
//	-g string     host:port of the gRPC health endpoint
//	-v string     vault file path
//	-i int        online status check interval (seconds)
//	-t duration   request timeout
//	-s duration   minimum splash duration
//	-r string     protected route
//	-l string     log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://127.0.0.1:7777/api",
//	  "health_grpc_addr": "127.0.0.1:50051",
//	  "vault_path": "vault.db",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s",
//	  "min_splash": "500ms",
//	  "protected_route": "/dashboards/dashboard",
//	  "log_level": "info"
//	}
//
// The vault passphrase is only taken from SCANPACK_VAULT_PASSPHRASE.
package config
