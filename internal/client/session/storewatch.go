package session

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// storeWatchDebounce coalesces the burst of filesystem events SQLite emits
// for a single commit (db file, -wal, -journal) into one re-check.
const storeWatchDebounce = 250 * time.Millisecond

// WatchStore watches the credential database file for changes made by other
// fleetdesk processes sharing it and re-runs the validity check when the
// slots change underneath this one, so every process converges on the same
// auth state promptly instead of waiting for its next periodic check.
//
// Runs until ctx is cancelled. Call it in its own goroutine after Restore.
func (m *Manager) WatchStore(ctx context.Context, dbPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// watch the directory: SQLite replaces sidecar files, and watching the
	// file itself breaks on rename
	dir := filepath.Dir(dbPath)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	base := filepath.Base(dbPath)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	recheck := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			if debounce == nil {
				debounce = time.AfterFunc(storeWatchDebounce, func() {
					select {
					case recheck <- struct{}{}:
					default:
					}
				})
			} else {
				debounce.Reset(storeWatchDebounce)
			}

		case <-recheck:
			m.log.Debug(ctx, "credential store changed externally, re-checking")
			m.checkOnce(ctx)
			debounce = nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.log.Warn(ctx, "credential store watcher error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}
