// Package refreshtokens stores the opaque refresh tokens issued at login.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type Repository interface {
	// Create stores token for userID, valid until expires.
	Create(ctx context.Context, userID, token string, expires time.Time) error

	// Find returns common.ErrorNotFound when the token is unknown.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete is a no-op for unknown tokens.
	Delete(ctx context.Context, token string) error

	// DeleteExpired drops the tokens of userID that expired before now and
	// reports how many were removed.
	DeleteExpired(ctx context.Context, userID string, now time.Time) (int64, error)
}
