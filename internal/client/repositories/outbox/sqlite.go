package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Append(ctx context.Context, op models.Op) (int64, error) {
	if op.CreatedAt.IsZero() {
		op.CreatedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO outbox (kind, collection, note_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, string(op.Kind), op.Collection, op.NoteID, op.Payload, op.CreatedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to append %s op: %w", op.Kind, err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read op sequence: %w", err)
	}
	return seq, nil
}

func (r *SQLiteRepository) Pending(ctx context.Context, limit int) ([]models.Op, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT seq, kind, collection, note_id, payload, created_at
		FROM outbox ORDER BY seq LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select outbox: %w", err)
	}
	defer rows.Close()

	var result []models.Op
	for rows.Next() {
		var (
			op      models.Op
			kind    string
			created int64
		)
		if err := rows.Scan(&op.Seq, &kind, &op.Collection, &op.NoteID, &op.Payload, &created); err != nil {
			return nil, fmt.Errorf("failed to scan outbox row: %w", err)
		}
		op.Kind = models.OpKind(kind)
		op.CreatedAt = time.UnixMilli(created)
		result = append(result, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outbox rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Ack(ctx context.Context, seq int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM outbox WHERE seq = ?`, seq); err != nil {
		return fmt.Errorf("failed to ack op %d: %w", seq, err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count outbox: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM outbox`); err != nil {
		return fmt.Errorf("failed to clear outbox: %w", err)
	}
	return nil
}
