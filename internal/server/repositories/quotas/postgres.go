package quotas

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Consume(ctx context.Context, userID string, windowStart time.Time) (int, error) {
	query := `
		INSERT INTO write_quota (user_id, window_start, writes)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id) DO UPDATE SET
			writes = CASE WHEN write_quota.window_start < EXCLUDED.window_start
				THEN 1 ELSE write_quota.writes + 1 END,
			window_start = GREATEST(write_quota.window_start, EXCLUDED.window_start)
		RETURNING writes
	`
	var writes int
	if err := r.db.QueryRowContext(ctx, query, userID, windowStart).Scan(&writes); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return writes, nil
}
