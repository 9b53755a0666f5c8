// Package session implements the session lifecycle controller of the
// fleetdesk client.
//
// # Overview
//
// A Manager owns one session at a time and moves it through four states:
// unauthenticated, authenticated, refreshing, expired. It is the only
// component that decides whether a usable access token exists right now
// (ValidAccessToken), keeps it usable over time (a periodic validity checker
// plus a per-second expiry countdown), and tears everything down when the
// refresh token is exhausted. The REPL consumes its read side
// (IsAuthenticated, User, SessionInfo, Err, Subscribe) and calls its
// mutating operations (Login, Logout, RefreshAccessToken, ChangePassword,
// RequestPasswordReset).
//
// # Lifecycle
//
// A session is created by Login (or Restore at startup), refreshed zero or
// more times in place (the refresh token and its expiry are never touched by
// a refresh), and destroyed by Logout, by a refresh failure, or by a refresh
// token found expired during a check.
//
// # Concurrency
//
// All exported methods are safe for concurrent use. Concurrent refresh
// attempts are collapsed into one upstream call (singleflight), and Logout
// is idempotent so the two redundant forced-logout triggers (checker and
// countdown) cannot double-revoke. The durable store may be shared with
// other processes; WatchStore converges this process's state when the store
// changes externally.
package session
