// Package notes stores the note collections of every owner. Each note lives
// in exactly one collection; order inside a collection is kept in the
// position column.
package notes

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type Repository interface {
	// Upsert inserts or replaces note keyed by (UserID, ID) and stamps it with
	// updatedAt. A new note, or one whose collection changed, is placed in
	// front of its collection; otherwise the position is kept. Position and
	// UpdatedAt are written back into note.
	Upsert(ctx context.Context, note *models.Note, updatedAt time.Time) error

	// Delete removes one note. Unknown ids are not an error.
	Delete(ctx context.Context, userID, id string) error

	// ClearCollection removes every note of collection and reports how many
	// rows were deleted.
	ClearCollection(ctx context.Context, userID, collection string) (int64, error)

	// Reorder sets position = index for each id of collection. Callers wrap
	// it in a transaction.
	Reorder(ctx context.Context, userID, collection string, ids []string) error

	// List returns collection ordered by position, newest update first on ties.
	List(ctx context.Context, userID, collection string) ([]*models.Note, error)
}
