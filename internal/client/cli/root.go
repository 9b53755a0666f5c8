package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// commandSet defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type commandSet interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Session(ctx context.Context) error
	Extend(ctx context.Context) error
	Passwd(ctx context.Context) error
	ResetRequest(ctx context.Context) error
	Token(ctx context.Context) error
}

// getStatus renders the prompt suffix: the display name of the logged-in
// user, the session state, and a trailing "!" while the session is close
// to expiry.
func (a *App) getStatus() string {
	s := ""
	if u := a.session.User(); u != nil {
		s = u.DisplayName() + " "
	}
	s = s + string(a.session.State())
	if info := a.session.SessionInfo(); info != nil && info.IsExpiringSoon {
		s = s + " !"
	}
	return fmt.Sprintf("(%s)", s)
}

// Root starts the interactive loop on stdin. It blocks until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to FleetDesk CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// runREPL is a simple read-eval-print loop for the FleetDesk CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - login          — authenticate against the fleet backend
//	  - resetreq       — request a password reset
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - whoami         — show the cached account profile
//	  - session        — show session metadata
//	  - extend         — refresh the access token now
//	  - passwd         — change the account password
//	  - token          — display decoded access-token claims
//	  - logout         — end the session
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a commandSet, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("fleetdesk %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, session, extend, passwd, token, logout, exit")
			} else {
				printlnFn("Available commands: login, resetreq, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "s", "session":
			_ = a.Session(ctx)

		case "extend":
			_ = a.Extend(ctx)

		case "passwd":
			_ = a.Passwd(ctx)

		case "resetreq":
			_ = a.ResetRequest(ctx)

		case "token":
			_ = a.Token(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
