package notes

import (
	"context"
	"time"
)

// DefaultJanitorInterval is how often trashed notes are checked for expiry.
const DefaultJanitorInterval = 24 * time.Hour

// RunJanitor purges expired trash once immediately and then on every tick
// until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}

	s.sweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Store) sweep(ctx context.Context) {
	purged, err := s.PurgeExpired(ctx, s.now())
	if err != nil {
		s.logger.Error(ctx, "trash cleanup failed", "error", err)
		return
	}
	if len(purged) > 0 {
		s.logger.Info(ctx, "expired notes purged", "count", len(purged))
	}
}
