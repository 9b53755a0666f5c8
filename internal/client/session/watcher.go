package session

import (
	"context"
	"time"
)

// startWatchers launches the periodic validity checker and the per-second
// expiry countdown for the lifetime of the current session. A previous
// watcher pair, if any, is stopped first.
func (m *Manager) startWatchers() {
	m.stopWatchers()

	ctx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.watchCancel = cancel
	m.mu.Unlock()

	m.wg.Add(2)
	go m.runChecker(ctx)
	go m.runCountdown(ctx)
}

func (m *Manager) stopWatchers() {
	m.mu.Lock()
	cancel := m.watchCancel
	m.watchCancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// runChecker re-validates the session at the configured interval. This is
// what self-heals the session across long idle stretches: an expired access
// token gets refreshed without any user action, and an exhausted refresh
// token forces a logout.
func (m *Manager) runChecker(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.checkOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// checkOnce runs one validity check and reconciles memory with the durable
// store. A vanished session results in a full (idempotent) logout.
func (m *Manager) checkOnce(ctx context.Context) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), checkTimeout)
	defer cancel()

	token, err := m.ValidAccessToken(cctx)
	if err != nil {
		m.log.Warn(cctx, "periodic session check failed", "error", err)
		return
	}
	if token == "" {
		// normal session end, not an error: no message surfaces to Err
		_ = m.Logout(cctx)
		return
	}
	if token != m.Token() {
		m.adoptFromStore(cctx)
	}
}

// runCountdown ticks the advisory remaining-lifetime display down once per
// second, flips the expiring-soon flag at the warning threshold, and forces
// a logout when the countdown hits zero. This is deliberately a second,
// redundant trigger alongside the periodic checker; both call the same
// idempotent Logout.
func (m *Manager) runCountdown(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if m.tickCountdown(ctx) {
				_ = m.Logout(ctx)
			}
		case <-ctx.Done():
			return
		}
	}
}

// tickCountdown advances the countdown one second and reports whether the
// session just ran out. Sessions whose metadata never reported remaining
// time are left alone.
func (m *Manager) tickCountdown(_ context.Context) bool {
	m.mu.Lock()
	info := m.sessionInfo
	if info == nil || info.TimeRemainingSeconds <= 0 {
		m.mu.Unlock()
		return false
	}

	info.TimeRemainingSeconds--
	expiringSoon := info.TimeRemainingSeconds <= int(m.warnThreshold.Seconds())
	changed := expiringSoon != info.IsExpiringSoon
	info.IsExpiringSoon = expiringSoon
	ranOut := info.TimeRemainingSeconds == 0
	m.mu.Unlock()

	if changed {
		m.notify()
	}
	return ranOut
}
