// Package models defines the data types shared by the API client, the token
// store, and the session manager: the user profile, the token pair with its
// expiry instants, and the advisory server-side session metadata.
package models

import "time"

// TokenPair holds the bearer credentials of one session together with their
// absolute expiry instants.
//
// Invariant: a token is never stored without its expiry, and the refresh
// expiry is at or after the access expiry at mint time.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Complete reports whether both tokens and both expiries are present.
func (p TokenPair) Complete() bool {
	return p.AccessToken != "" && p.RefreshToken != "" &&
		!p.AccessExpiresAt.IsZero() && !p.RefreshExpiresAt.IsZero()
}

// SessionInfo is server-reported session metadata. It is advisory only:
// it drives the expiry-warning display and is never consulted for
// access-control decisions.
type SessionInfo struct {
	SessionID            string    `json:"session_id"`
	MaxSessions          int       `json:"max_sessions"`
	ActiveSessionsCount  int       `json:"active_sessions_count"`
	TimeRemainingSeconds int       `json:"time_remaining_seconds"`
	IsExpiringSoon       bool      `json:"is_expiring_soon"`
	ExpiresAt            time.Time `json:"expires_at,omitzero"`
}
