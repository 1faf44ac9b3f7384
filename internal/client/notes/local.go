package notes

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
)

// Local is the persistence the Store depends on.
type Local interface {
	Load(ctx context.Context) (models.Collections, error)
	// Commit writes the whole state and appends ops atomically. It returns
	// the revision the commit produced.
	Commit(ctx context.Context, state models.Collections, ops []models.Op) (int64, error)
	// Revision reports the revision of the last commit by any writer.
	Revision(ctx context.Context) (int64, error)
	Pending(ctx context.Context, limit int) ([]models.Op, error)
	Ack(ctx context.Context, seq int64) error
	PendingCount(ctx context.Context) (int, error)
}

var collectionKeys = []struct {
	key string
	get func(*models.Collections) *[]models.Note
}{
	{metadata.KeyActiveNotes, func(c *models.Collections) *[]models.Note { return &c.Active }},
	{metadata.KeyArchivedNotes, func(c *models.Collections) *[]models.Note { return &c.Archived }},
	{metadata.KeyTrashedNotes, func(c *models.Collections) *[]models.Note { return &c.Trashed }},
}

// SQLiteLocal stores collections as JSON arrays in the metadata table and
// pending ops in the outbox table of the same database.
type SQLiteLocal struct {
	db *sql.DB
}

func NewSQLiteLocal(db *sql.DB) *SQLiteLocal {
	return &SQLiteLocal{db: db}
}

func (l *SQLiteLocal) Load(ctx context.Context) (models.Collections, error) {
	repo := metadata.NewSQLiteRepository(l.db)

	var state models.Collections
	for _, k := range collectionKeys {
		dst := k.get(&state)
		if _, err := repo.GetJSON(ctx, k.key, dst); err != nil {
			return models.Collections{}, fmt.Errorf("load %s: %w", k.key, err)
		}
		if *dst == nil {
			*dst = []models.Note{}
		}
	}
	return state, nil
}

func (l *SQLiteLocal) Commit(ctx context.Context, state models.Collections, ops []models.Op) (int64, error) {
	var rev int64
	err := dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		cur, err := revision(ctx, repo)
		if err != nil {
			return err
		}
		rev = cur + 1
		if err := repo.SetJSON(ctx, metadata.KeyRevision, rev); err != nil {
			return err
		}

		for _, k := range collectionKeys {
			notes := *k.get(&state)
			if notes == nil {
				notes = []models.Note{}
			}
			if err := repo.SetJSON(ctx, k.key, notes); err != nil {
				return err
			}
		}

		queue := outbox.NewSQLiteRepository(tx)
		for _, op := range ops {
			if _, err := queue.Append(ctx, op); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rev, nil
}

func (l *SQLiteLocal) Revision(ctx context.Context) (int64, error) {
	return revision(ctx, metadata.NewSQLiteRepository(l.db))
}

func revision(ctx context.Context, repo *metadata.SQLiteRepository) (int64, error) {
	var rev int64
	if _, err := repo.GetJSON(ctx, metadata.KeyRevision, &rev); err != nil {
		return 0, fmt.Errorf("read revision: %w", err)
	}
	return rev, nil
}

func (l *SQLiteLocal) Pending(ctx context.Context, limit int) ([]models.Op, error) {
	return outbox.NewSQLiteRepository(l.db).Pending(ctx, limit)
}

func (l *SQLiteLocal) Ack(ctx context.Context, seq int64) error {
	return outbox.NewSQLiteRepository(l.db).Ack(ctx, seq)
}

func (l *SQLiteLocal) PendingCount(ctx context.Context) (int, error) {
	return outbox.NewSQLiteRepository(l.db).Count(ctx)
}
