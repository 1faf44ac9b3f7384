package outbox

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// Repository describes the outbox queue.
type Repository interface {
	// Append stores op and returns its assigned sequence number.
	Append(ctx context.Context, op models.Op) (int64, error)

	// Pending returns up to limit oldest ops in Seq order. A limit <= 0
	// returns every op.
	Pending(ctx context.Context, limit int) ([]models.Op, error)

	// Ack removes the op with the given sequence number. Acking an unknown
	// sequence is not an error.
	Ack(ctx context.Context, seq int64) error

	Count(ctx context.Context) (int, error)

	// Clear drops every pending op.
	Clear(ctx context.Context) error
}
