// Package cli provides the interactive FleetDesk command-line client.
//
// It wires configuration, the local credential store, the REST API client,
// and the session manager into an interactive REPL. Typical flow: restore a
// previously persisted session, start the credential-store watcher, and
// execute user commands until exit.
//
// Key features:
//   - login / logout against the fleet backend
//   - whoami / session: show the cached profile and session metadata
//   - extend: refresh the access token ahead of expiry
//   - passwd / resetreq: password maintenance
//   - token: display the decoded (unverified) access-token claims
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
