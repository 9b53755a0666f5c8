package session

import (
	"github.com/tomarAyush07/fleetdesk-cli/internal/client/models"
)

// IsAuthenticated reports whether a full session (both tokens plus profile)
// is held in memory.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accessToken != "" && m.refreshTok != "" && m.user != nil
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// User returns the cached profile, or nil when signed out.
func (m *Manager) User() *models.UserProfile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	cp := *m.user
	return &cp
}

// Token returns the access token currently held in memory. It may already be
// expired; callers that need a guaranteed-usable token go through
// ValidAccessToken.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accessToken
}

// RefreshToken returns the refresh token currently held in memory.
func (m *Manager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshTok
}

// SessionInfo returns a copy of the advisory session metadata, or nil when
// none has been fetched.
func (m *Manager) SessionInfo() *models.SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.sessionInfo == nil {
		return nil
	}
	cp := *m.sessionInfo
	return &cp
}

// IsLoading reports whether a mutating operation is in flight.
func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Err returns the error recorded by the last failed mutating operation, or
// nil. Cleared automatically when the next operation starts.
func (m *Manager) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// ClearError drops the recorded error without touching session state.
func (m *Manager) ClearError() {
	m.mu.Lock()
	m.lastErr = nil
	m.mu.Unlock()
	m.notify()
}

// Subscribe returns a channel that receives a signal whenever the session
// state changes. The channel has a one-element buffer and signals are
// coalesced; consumers re-read the state they care about after each signal.
func (m *Manager) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	m.subsMu.Lock()
	m.subs = append(m.subs, ch)
	m.subsMu.Unlock()
	return ch
}

func (m *Manager) notify() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
