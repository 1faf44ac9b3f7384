// Package quotas counts note writes per owner in fixed time windows.
package quotas

import (
	"context"
	"time"
)

type Repository interface {
	// Consume records one write for userID in the window starting at
	// windowStart and returns the number of writes counted in that window,
	// including this one. An older stored window is reset.
	Consume(ctx context.Context, userID string, windowStart time.Time) (int, error)
}
