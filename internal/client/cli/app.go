package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"github.com/tomarAyush07/fleetdesk-cli/internal/client/api"
	"github.com/tomarAyush07/fleetdesk-cli/internal/client/config"
	"github.com/tomarAyush07/fleetdesk-cli/internal/client/models"
	"github.com/tomarAyush07/fleetdesk-cli/internal/client/repositories/tokens"
	"github.com/tomarAyush07/fleetdesk-cli/internal/client/session"
	"github.com/tomarAyush07/fleetdesk-cli/internal/logging"

	_ "modernc.org/sqlite"
)

// sessionController is the slice of the session manager the command layer
// uses. The real *session.Manager satisfies it; tests can provide a stub.
type sessionController interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	RefreshAccessToken(ctx context.Context) bool
	ChangePassword(ctx context.Context, oldPassword, newPassword, confirm string) error
	RequestPasswordReset(ctx context.Context, employeeID, email string) error
	Restore(ctx context.Context) error
	IsAuthenticated() bool
	State() session.State
	User() *models.UserProfile
	Token() string
	SessionInfo() *models.SessionInfo
	Err() error
	ClearError()
	Subscribe() <-chan struct{}
	Close()
}

type App struct {
	config  *config.Config
	session sessionController
	// watch starts the cross-process credential-store watcher; nil in tests.
	watch  func(ctx context.Context) error
	reader *bufio.Reader
	log    logging.Logger
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()
	logger := logging.NewTextLogger(os.Stderr, slog.LevelInfo)

	db, err := tokens.Open(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing credential database", "error", err)
		return nil, err
	}

	store := tokens.NewSQLiteRepository(db)

	deviceID, err := store.DeviceID(ctx)
	if err != nil {
		logger.Error(ctx, "error reading device id", "error", err)
		return nil, err
	}

	apiClient := api.NewRESTClient(c.ServerBaseURL, deviceID, logger)

	manager := session.NewManager(apiClient, store, logger,
		session.WithCheckInterval(c.CheckInterval),
		session.WithWarnThreshold(c.WarnThreshold),
	)

	return &App{
		config:  c,
		session: manager,
		watch: func(ctx context.Context) error {
			return manager.WatchStore(ctx, c.DatabasePath)
		},
		reader: bufio.NewReader(os.Stdin),
		log:    logger,
	}, nil
}

// Run restores any persisted session, starts the store watcher, and hands
// control to the REPL. It blocks until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.session.Close()

	if err := a.session.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
	}

	// The watcher blocks until ctx is cancelled, so it gets its own goroutine.
	if a.watch != nil {
		go func() {
			if err := a.watch(ctx); err != nil {
				a.log.Warn(ctx, "credential store watch unavailable", "error", err)
			}
		}()
	}

	a.startSessionNotifier(ctx)

	a.Root(ctx)
}

// startSessionNotifier prints a line when the session ends or starts
// expiring, so a user sitting at the prompt notices without issuing a
// command. Forced logouts show up here as a plain notice, not an error.
func (a *App) startSessionNotifier(ctx context.Context) {
	ch := a.session.Subscribe()
	wasAuthed := a.session.IsAuthenticated()
	warned := false

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				authed := a.session.IsAuthenticated()
				if wasAuthed && !authed {
					printlnFn("\nSession ended. Use 'login' to sign in again.")
					warned = false
				}
				if info := a.session.SessionInfo(); authed && info != nil && info.IsExpiringSoon && !warned {
					printlnFn("\nSession expiring soon. Use 'extend' to renew it.")
					warned = true
				}
				wasAuthed = authed
			}
		}
	}()
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}
