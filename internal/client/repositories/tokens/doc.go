// Package tokens provides the durable credential store of the CLI: the token
// pair, both expiry instants, the cached user profile, and the per-install
// device id, kept in fixed slots of a local SQLite key-value table so a
// session survives process restarts.
//
// # Overview
//
// The Repository interface is what the session manager programs against; the
// SQLite implementation (SQLiteRepository) persists slots in the credentials
// table created by the embedded goose migrations (see Open / RunMigrations).
//
// The store holds no business logic. All expiry decisions are reduced to the
// pure IsExpired helper; a missing or unreadable expiry slot reads as expired
// so lifecycle checks fail closed.
//
// # Concurrency
//
// Safe for concurrent use when backed by a *sql.DB. The database file may be
// shared by several fleetdesk processes; last write wins on overlapping
// updates, and the session manager's store watcher re-reads the slots when
// another process changes them.
package tokens
