package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Get(ctx context.Context, path string) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the scanpack CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF, on ctx cancellation
// or when the user types "exit" or "quit".
//
// Prompt & Commands
//
//	Public flow (signed out):
//	  - help             show available commands
//	  - login            sign in
//	  - status           connectivity and gate state
//	  - exit | quit      leave the program
//
//	Dashboard (signed in):
//	  - help             show available commands
//	  - whoami           show the signed-in user
//	  - get <path>       fetch a backend resource as JSON
//	  - status           connectivity and gate state
//	  - logout           sign out
//	  - exit | quit      leave the program
//
// Errors returned by command handlers are ignored here; handlers print
// their own messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		printf(w, "scanpack %s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			printf(w, "\n")
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printf(w, "Available commands: whoami, get <path>, status, logout, exit\n")
			} else {
				printf(w, "Available commands: login, status, exit\n")
			}

		case "login":
			if a.isLoggedIn() {
				printf(w, "Already signed in, logout first\n")
				continue
			}
			_ = a.Login(ctx)

		case "logout":
			if !a.isLoggedIn() {
				printf(w, "Not signed in\n")
				continue
			}
			_ = a.Logout(ctx)

		case "whoami":
			if !a.isLoggedIn() {
				printf(w, "Please login first\n")
				continue
			}
			_ = a.WhoAmI(ctx)

		case "get":
			if !a.isLoggedIn() {
				printf(w, "Please login first\n")
				continue
			}
			if len(args) == 0 {
				printf(w, "Usage: get <path>\n")
				continue
			}
			_ = a.Get(ctx, args[0])

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printf(w, "Bye!\n")
			return

		default:
			printf(w, "Unknown command: %s\n", cmd)
		}

		if err != nil {
			return
		}
	}
}
