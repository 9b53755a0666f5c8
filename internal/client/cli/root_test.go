package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomarAyush07/fleetdesk-cli/internal/client/models"
)

type fakeCmd struct {
	loggedIn bool
	calls    []string
}

func (f *fakeCmd) isLoggedIn() bool { return f.loggedIn }
func (f *fakeCmd) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeCmd) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeCmd) Whoami(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeCmd) Session(ctx context.Context) error {
	f.calls = append(f.calls, "session")
	return nil
}
func (f *fakeCmd) Extend(ctx context.Context) error {
	f.calls = append(f.calls, "extend")
	return nil
}
func (f *fakeCmd) Passwd(ctx context.Context) error {
	f.calls = append(f.calls, "passwd")
	return nil
}
func (f *fakeCmd) ResetRequest(ctx context.Context) error {
	f.calls = append(f.calls, "resetreq")
	return nil
}
func (f *fakeCmd) Token(ctx context.Context) error {
	f.calls = append(f.calls, "token")
	return nil
}

func capturePrintln(t *testing.T) (*[]string, func()) {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(a...))
		return 0, nil
	}
	return &lines, func() { printlnFn = orig }
}

func runScript(t *testing.T, f *fakeCmd, script string) []string {
	t.Helper()
	lines, restore := capturePrintln(t)
	defer restore()

	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), f, func() string { return "(test)" }, scanner)
	return *lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	f := &fakeCmd{}
	runScript(t, f, "login\nwhoami\nsession\nextend\npasswd\ntoken\nlogout\nresetreq\nexit\n")
	require.Equal(t,
		[]string{"login", "whoami", "session", "extend", "passwd", "token", "logout", "resetreq"},
		f.calls)
}

func TestRunREPL_SessionAlias(t *testing.T) {
	f := &fakeCmd{}
	runScript(t, f, "s\nexit\n")
	require.Equal(t, []string{"session"}, f.calls)
}

func TestRunREPL_SkipsBlankLines(t *testing.T) {
	f := &fakeCmd{}
	runScript(t, f, "\n   \nwhoami\nexit\n")
	require.Equal(t, []string{"whoami"}, f.calls)
}

func TestRunREPL_UnknownCommand(t *testing.T) {
	f := &fakeCmd{}
	out := runScript(t, f, "frobnicate\nexit\n")
	require.Empty(t, f.calls)

	joined := strings.Join(out, "")
	require.Contains(t, joined, "Unknown command: frobnicate")
}

func TestRunREPL_HelpFollowsLoginState(t *testing.T) {
	f := &fakeCmd{}
	out := runScript(t, f, "help\nlogin\nhelp\nexit\n")

	joined := strings.Join(out, "")
	require.Contains(t, joined, "login, resetreq, exit")
	require.Contains(t, joined, "whoami, session, extend, passwd, token, logout, exit")
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	f := &fakeCmd{}
	runScript(t, f, "whoami\n")
	require.Equal(t, []string{"whoami"}, f.calls)
}

func TestGetStatus(t *testing.T) {
	f := &fakeSession{}
	a := &App{session: f}
	require.Equal(t, "(unauthenticated)", a.getStatus())

	f.authed = true
	f.user = &models.UserProfile{FirstName: "Jane", LastName: "Doe"}
	require.Equal(t, "(Jane Doe authenticated)", a.getStatus())

	f.info = &models.SessionInfo{TimeRemainingSeconds: 120, IsExpiringSoon: true}
	require.Equal(t, "(Jane Doe authenticated !)", a.getStatus())
}
