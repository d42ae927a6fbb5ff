// Package cli provides the interactive scanpack command-line client.
//
// It wires configuration, the encrypted session vault, the backend transports
// and the auth gate, then runs a REPL whose prompt plays the part of the
// app's screen tree: the gate decides whether the user sees the loading
// indicator, the public welcome/login flow or the protected dashboard.
//
// Key features:
//   - Session restore on start, before any command is accepted
//   - Login / Logout, persisted across restarts
//   - whoami, get <path> and status on the dashboard
//   - Background connectivity watcher (online/offline mode)
//   - Forced logout when the backend rejects the session token
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
