package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tomarAyush07/fleetdesk-cli/internal/client/models"
	"github.com/tomarAyush07/fleetdesk-cli/internal/logging"
)

// capturePrintlnCh routes printlnFn output to a channel so goroutine output
// can be asserted without a data race.
func capturePrintlnCh(t *testing.T) (chan string, func()) {
	t.Helper()
	lines := make(chan string, 8)
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines <- fmt.Sprintln(a...)
		return 0, nil
	}
	return lines, func() { printlnFn = orig }
}

func waitForLine(t *testing.T, lines chan string, want string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case line := <-lines:
			if strings.Contains(line, want) {
				return
			}
		case <-deadline:
			t.Fatalf("no line containing %q printed", want)
		}
	}
}

func TestSessionNotifier_ReportsSessionEnd(t *testing.T) {
	f := &fakeSession{authed: true, subCh: make(chan struct{}, 1)}
	a := &App{session: f}

	lines, restore := capturePrintlnCh(t)
	defer restore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.startSessionNotifier(ctx)

	f.authed = false
	f.subCh <- struct{}{}

	waitForLine(t, lines, "Session ended")
}

func TestSessionNotifier_WarnsOnceWhenExpiringSoon(t *testing.T) {
	f := &fakeSession{authed: true, subCh: make(chan struct{}, 2)}
	a := &App{session: f}

	lines, restore := capturePrintlnCh(t)
	defer restore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.startSessionNotifier(ctx)

	f.info = &models.SessionInfo{TimeRemainingSeconds: 90, IsExpiringSoon: true}
	f.subCh <- struct{}{}

	waitForLine(t, lines, "expiring soon")
}

func TestRun_RestoreFailureIsNonFatal(t *testing.T) {
	// Run must reach the REPL even when no persisted session can be
	// restored; EOF on the scanner ends it immediately.
	f := &fakeSession{restoreErr: fmt.Errorf("corrupt store"), subCh: make(chan struct{})}
	a := &App{session: f, log: logging.NewTextLogger(io.Discard, slog.LevelError)}

	lines, restore := capturePrintlnCh(t)
	defer restore()
	_ = lines

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return on stdin EOF")
	}
	require.True(t, f.closed)
}

func TestRun_BlockingWatcherDoesNotStallREPL(t *testing.T) {
	// The store watcher runs until ctx is cancelled; Run must still reach
	// the REPL and return on stdin EOF while the watcher is live.
	f := &fakeSession{subCh: make(chan struct{})}
	watchStarted := make(chan struct{})
	a := &App{
		session: f,
		log:     logging.NewTextLogger(io.Discard, slog.LevelError),
		watch: func(ctx context.Context) error {
			close(watchStarted)
			<-ctx.Done()
			return ctx.Err()
		},
	}

	lines, restore := capturePrintlnCh(t)
	defer restore()
	_ = lines

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.Run(ctx)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run blocked in the store watcher instead of reaching the REPL")
	}

	select {
	case <-watchStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("store watcher was never started")
	}
	require.True(t, f.closed)
}
