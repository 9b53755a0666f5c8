package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomarAyush07/fleetdesk-cli/internal/client/api"
	"github.com/tomarAyush07/fleetdesk-cli/internal/client/models"
	"github.com/tomarAyush07/fleetdesk-cli/internal/client/repositories/tokens"
	"github.com/tomarAyush07/fleetdesk-cli/internal/common"
	"github.com/tomarAyush07/fleetdesk-cli/internal/logging"
)

// State describes where the session currently is in its lifecycle.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
	StateRefreshing      State = "refreshing"
	StateExpired         State = "expired"
)

const (
	defaultCheckInterval = 5 * time.Minute
	defaultWarnThreshold = 5 * time.Minute

	// checkTimeout caps one background validity check so a hung refresh call
	// cannot stall the ticker loop.
	checkTimeout = 30 * time.Second
)

// Manager is the session lifecycle controller: the only component that
// decides whether a usable access token exists, refreshes it before the
// refresh token runs out, and tears the session down when it is no longer
// recoverable. Every other layer consumes its read side or calls its
// mutating operations.
type Manager struct {
	api   api.Client
	store tokens.Repository
	log   logging.Logger

	checkInterval time.Duration
	warnThreshold time.Duration

	mu          sync.RWMutex
	state       State
	accessToken string
	refreshTok  string
	accessExp   time.Time
	refreshExp  time.Time
	user        *models.UserProfile
	sessionInfo *models.SessionInfo
	lastErr     error
	loading     bool

	// refreshGroup collapses concurrent refresh attempts (periodic checker
	// racing an explicit extend) into one upstream call.
	refreshGroup singleflight.Group

	// tearingDown makes Logout idempotent: both forced-logout paths and the
	// user command funnel into the same entry point, and only the first one
	// past this flag performs the teardown.
	tearingDown atomic.Bool

	watchCancel context.CancelFunc
	wg          sync.WaitGroup

	subsMu sync.Mutex
	subs   []chan struct{}
}

// Option configures a Manager.
type Option func(*Manager)

// WithCheckInterval overrides the periodic validity-check interval.
func WithCheckInterval(d time.Duration) Option {
	return func(m *Manager) { m.checkInterval = d }
}

// WithWarnThreshold overrides the remaining-lifetime threshold below which
// the session is flagged as expiring soon.
func WithWarnThreshold(d time.Duration) Option {
	return func(m *Manager) { m.warnThreshold = d }
}

// NewManager wires a Manager. The manager starts in StateUnauthenticated;
// call Restore to promote a session persisted by a previous run.
func NewManager(client api.Client, store tokens.Repository, log logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		api:           client,
		store:         store,
		log:           log,
		checkInterval: defaultCheckInterval,
		warnThreshold: defaultWarnThreshold,
		state:         StateUnauthenticated,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login exchanges credentials for a session, persists it, and promotes the
// manager to StateAuthenticated. The error is both returned and kept in Err
// so a status line and the calling form can react independently.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	return m.login(ctx, func(ctx context.Context) (*api.LoginResult, error) {
		return m.api.Login(ctx, email, password)
	})
}

// LoginWithToken is the backward-compatible alternate entry point; identical
// contract to Login with the username passed in place of the email.
func (m *Manager) LoginWithToken(ctx context.Context, username, password string) error {
	return m.login(ctx, func(ctx context.Context) (*api.LoginResult, error) {
		return m.api.LoginWithToken(ctx, username, password)
	})
}

func (m *Manager) login(ctx context.Context, exchange func(context.Context) (*api.LoginResult, error)) error {
	m.beginOp()
	defer m.endOp()

	res, err := exchange(ctx)
	if err != nil {
		m.setError(err)
		return err
	}

	if err := m.store.StoreTokens(ctx, res.Tokens); err != nil {
		m.setError(err)
		return err
	}
	if res.User != nil {
		if err := m.store.StoreUser(ctx, res.User); err != nil {
			m.setError(err)
			return err
		}
	}

	m.promote(res.Tokens, res.User, res.Session)
	if res.User != nil {
		m.log.Info(ctx, "logged in", "user", res.User.DisplayName())
	} else {
		m.log.Info(ctx, "logged in")
	}

	// advisory only; a failure here must not affect the authenticated state
	m.fetchSessionStatus(ctx)
	return nil
}

// Logout tears the session down: best-effort server-side revocation, full
// purge of the durable slots, and transition to StateUnauthenticated. It is
// idempotent and safe to call from several goroutines at once; every call
// after the first is a no-op. The server notification failing is logged and
// swallowed, never returned.
func (m *Manager) Logout(ctx context.Context) error {
	if !m.tearingDown.CompareAndSwap(false, true) {
		return nil
	}

	m.mu.RLock()
	access, refresh := m.accessToken, m.refreshTok
	m.mu.RUnlock()

	if access != "" && refresh != "" {
		if err := m.api.Logout(ctx, access, refresh); err != nil {
			m.log.Warn(ctx, "server-side session revocation failed", "error", err)
		}
	}

	err := m.store.Clear(ctx)
	m.clearMemory()
	m.stopWatchers()
	m.log.Info(ctx, "logged out")
	return err
}

// RefreshAccessToken mints a new access token immediately, regardless of how
// much lifetime the current one has left. This is what an "extend session"
// action calls. Returns true on success; on failure the session is torn down
// (a rejected refresh token is not recoverable).
func (m *Manager) RefreshAccessToken(ctx context.Context) bool {
	m.clearErrorLocked()

	refresh, err := m.store.RefreshToken(ctx)
	if err != nil || refresh == "" {
		return false
	}

	expired, err := m.store.RefreshTokenExpired(ctx)
	if err != nil || expired {
		_ = m.Logout(ctx)
		return false
	}

	if _, err := m.doRefresh(ctx, refresh); err != nil {
		m.log.Warn(ctx, "explicit refresh failed", "error", err)
		_ = m.Logout(ctx)
		return false
	}

	// correct countdown drift while we are talking to the server anyway
	m.fetchSessionStatus(ctx)
	return true
}

// ValidAccessToken answers "is there a currently usable access token",
// refreshing it if necessary. The returned token is empty when no session
// exists or the session could not be kept alive; in the latter case all
// durable slots have been purged. An error is returned only for storage
// failures.
func (m *Manager) ValidAccessToken(ctx context.Context) (string, error) {
	access, err := m.store.AccessToken(ctx)
	if err != nil {
		return "", err
	}
	refresh, err := m.store.RefreshToken(ctx)
	if err != nil {
		return "", err
	}
	if access == "" || refresh == "" {
		return "", nil
	}

	accessExpired, err := m.store.AccessTokenExpired(ctx)
	if err != nil {
		return "", err
	}
	if !accessExpired {
		// common cheap path: no network call
		return access, nil
	}

	refreshExpired, err := m.store.RefreshTokenExpired(ctx)
	if err != nil {
		return "", err
	}
	if refreshExpired {
		m.purge(ctx)
		return "", nil
	}

	token, err := m.doRefresh(ctx, refresh)
	if err != nil {
		m.log.Warn(ctx, "token refresh failed, ending session", "error", err)
		m.purge(ctx)
		return "", nil
	}
	return token, nil
}

// doRefresh performs one refresh round-trip, persisting the new access token
// and expiry with the refresh token and its expiry carried over verbatim.
// Concurrent callers share a single in-flight call.
func (m *Manager) doRefresh(ctx context.Context, refresh string) (string, error) {
	v, err, _ := m.refreshGroup.Do("refresh", func() (any, error) {
		m.setStateIf(StateAuthenticated, StateRefreshing)

		res, err := m.api.Refresh(ctx, refresh)
		if err != nil {
			return "", err
		}

		refreshExp, err := m.store.RefreshExpiry(ctx)
		if err != nil {
			return "", err
		}
		pair := models.TokenPair{
			AccessToken:      res.AccessToken,
			RefreshToken:     refresh,
			AccessExpiresAt:  res.AccessExpiresAt,
			RefreshExpiresAt: refreshExp,
		}
		if err := m.store.StoreTokens(ctx, pair); err != nil {
			return "", err
		}

		m.mu.Lock()
		m.accessToken = res.AccessToken
		m.accessExp = res.AccessExpiresAt
		if m.state == StateRefreshing {
			m.state = StateAuthenticated
		}
		m.mu.Unlock()
		m.notify()

		return res.AccessToken, nil
	})
	if err != nil {
		m.setStateIf(StateRefreshing, StateAuthenticated)
		return "", err
	}
	return v.(string), nil
}

// Restore promotes a session persisted by a previous run, if one exists and
// can still produce a usable access token. Call once at startup.
func (m *Manager) Restore(ctx context.Context) error {
	access, err := m.store.AccessToken(ctx)
	if err != nil {
		return err
	}
	refresh, err := m.store.RefreshToken(ctx)
	if err != nil {
		return err
	}
	user, err := m.store.User(ctx)
	if err != nil {
		return err
	}
	if access == "" && refresh == "" && user == nil {
		return nil
	}
	if access == "" || refresh == "" || user == nil {
		// A partial remnant (tokens without a profile, or the reverse) is
		// unusable and would otherwise sit in the store forever.
		m.log.Warn(ctx, "incomplete persisted session, clearing")
		return m.store.Clear(ctx)
	}

	token, err := m.ValidAccessToken(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	accessExp, err := m.store.AccessExpiry(ctx)
	if err != nil {
		return err
	}
	refreshExp, err := m.store.RefreshExpiry(ctx)
	if err != nil {
		return err
	}

	m.promote(models.TokenPair{
		AccessToken:      token,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, user, nil)
	m.log.Info(ctx, "session restored", "user", user.DisplayName())

	m.fetchSessionStatus(ctx)
	return nil
}

// ChangePassword changes the account password using a freshly validated
// access token.
func (m *Manager) ChangePassword(ctx context.Context, oldPassword, newPassword, confirm string) error {
	m.beginOp()
	defer m.endOp()

	access, err := m.ValidAccessToken(ctx)
	if err != nil {
		m.setError(err)
		return err
	}
	if access == "" {
		m.setError(common.ErrNotAuthenticated)
		return common.ErrNotAuthenticated
	}

	if err := m.api.ChangePassword(ctx, access, oldPassword, newPassword, confirm); err != nil {
		m.setError(err)
		return err
	}
	return nil
}

// RequestPasswordReset starts the unauthenticated reset flow.
func (m *Manager) RequestPasswordReset(ctx context.Context, employeeID, email string) error {
	m.beginOp()
	defer m.endOp()

	if err := m.api.RequestPasswordReset(ctx, employeeID, email); err != nil {
		m.setError(err)
		return err
	}
	return nil
}

// Close stops the background watchers and waits for them to exit.
func (m *Manager) Close() {
	m.stopWatchers()
	m.wg.Wait()
}

// promote installs a freshly minted or restored session in memory and starts
// the background watchers.
func (m *Manager) promote(pair models.TokenPair, user *models.UserProfile, info *models.SessionInfo) {
	m.mu.Lock()
	m.state = StateAuthenticated
	m.accessToken = pair.AccessToken
	m.refreshTok = pair.RefreshToken
	m.accessExp = pair.AccessExpiresAt
	m.refreshExp = pair.RefreshExpiresAt
	m.user = user
	m.sessionInfo = info
	m.mu.Unlock()

	m.tearingDown.Store(false)
	m.startWatchers()
	m.notify()
}

// purge ends an unrecoverable session: everything durable is wiped and the
// in-memory state is cleared. Watchers are left to the caller (checker and
// countdown both funnel into Logout for full teardown).
func (m *Manager) purge(ctx context.Context) {
	m.setStateIf(StateAuthenticated, StateExpired)
	m.setStateIf(StateRefreshing, StateExpired)

	if err := m.store.Clear(ctx); err != nil {
		m.log.Error(ctx, "failed to purge stored session", "error", err)
	}
	m.clearMemory()
}

func (m *Manager) clearMemory() {
	m.mu.Lock()
	m.state = StateUnauthenticated
	m.accessToken = ""
	m.refreshTok = ""
	m.accessExp = time.Time{}
	m.refreshExp = time.Time{}
	m.user = nil
	m.sessionInfo = nil
	m.mu.Unlock()
	m.notify()
}

// adoptFromStore reloads the in-memory snapshot from the durable slots after
// they changed underneath us (background refresh or another process).
func (m *Manager) adoptFromStore(ctx context.Context) {
	access, err := m.store.AccessToken(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to re-read token store", "error", err)
		return
	}
	refresh, _ := m.store.RefreshToken(ctx)
	accessExp, _ := m.store.AccessExpiry(ctx)
	refreshExp, _ := m.store.RefreshExpiry(ctx)
	user, _ := m.store.User(ctx)

	m.mu.Lock()
	m.accessToken = access
	m.refreshTok = refresh
	m.accessExp = accessExp
	m.refreshExp = refreshExp
	if user != nil {
		m.user = user
	}
	if m.state == StateUnauthenticated && access != "" && refresh != "" && m.user != nil {
		m.state = StateAuthenticated
	}
	m.mu.Unlock()
	m.notify()
}

// fetchSessionStatus refreshes the advisory metadata. Failures are logged
// and never surfaced: this data drives the display only.
func (m *Manager) fetchSessionStatus(ctx context.Context) {
	m.mu.RLock()
	access := m.accessToken
	m.mu.RUnlock()
	if access == "" {
		return
	}

	info, err := m.api.SessionStatus(ctx, access)
	if err != nil {
		m.log.Warn(ctx, "session status fetch failed", "error", err)
		return
	}

	m.mu.Lock()
	m.sessionInfo = info
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) beginOp() {
	m.mu.Lock()
	m.loading = true
	m.lastErr = nil
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) endOp() {
	m.mu.Lock()
	m.loading = false
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) setError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) clearErrorLocked() {
	m.mu.Lock()
	m.lastErr = nil
	m.mu.Unlock()
}

// setStateIf transitions from one state to another only when the current
// state matches.
func (m *Manager) setStateIf(from, to State) {
	m.mu.Lock()
	changed := m.state == from
	if changed {
		m.state = to
	}
	m.mu.Unlock()
	if changed {
		m.notify()
	}
}
