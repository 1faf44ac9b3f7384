package notes

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchConnectivity pings the server every interval while a remote identity
// is signed in. On an offline to online transition the outbox is flushed
// (when remote writes are enabled) and onChange is told about the new state.
// onChange may be nil.
func (s *Store) WatchConnectivity(ctx context.Context, interval time.Duration, onChange func(ctx context.Context, online bool)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	online := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.identity.Current().IsRemote() {
				continue
			}

			pctx, cancel := context.WithTimeout(ctx, s.timeout)
			err := s.remote.Ping(pctx)
			cancel()

			now := err == nil
			if now == online {
				continue
			}
			online = now
			s.logger.Info(ctx, "connectivity changed", "online", online)

			if online && s.Available() {
				if err := s.Flush(ctx); err != nil {
					s.logger.Warn(ctx, "flush after reconnect failed", "error", err)
				}
			}
			if onChange != nil {
				onChange(ctx, online)
			}
		}
	}
}

// WatchLocal reloads the in-memory state when another writer commits to the
// SQLite database at dbPath. Events are coalesced over debounce, and the
// store's own commits are recognised by their revision and skipped.
func (s *Store) WatchLocal(ctx context.Context, dbPath string, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(dbPath)); err != nil {
		return err
	}

	base := filepath.Base(dbPath)
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(filepath.Base(ev.Name), base) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn(ctx, "local watcher error", "error", err)
		case <-fire:
			fire = nil
			changed, err := s.changedOnDisk(ctx)
			if err != nil {
				s.logger.Error(ctx, "read local revision failed", "error", err)
				continue
			}
			if !changed {
				continue
			}
			if err := s.Load(ctx); err != nil {
				s.logger.Error(ctx, "reload after local change failed", "error", err)
				continue
			}
			s.logger.Info(ctx, "notes reloaded after local change")
		}
	}
}

func (s *Store) changedOnDisk(ctx context.Context) (bool, error) {
	rev, err := s.local.Revision(ctx)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return rev != s.rev, nil
}
