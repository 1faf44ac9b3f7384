package notes

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, note *models.Note, updatedAt time.Time) error {
	query := `
		INSERT INTO notes (user_id, id, collection, heading, body,
			lock_salt, lock_verifier, lock_sealed, lock_nonce,
			created_at, trashed_at, position, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			(SELECT COALESCE(MIN(position), 0) - 1 FROM notes WHERE user_id = $1 AND collection = $3),
			$12)
		ON CONFLICT (user_id, id) DO UPDATE SET
			heading = EXCLUDED.heading,
			body = EXCLUDED.body,
			lock_salt = EXCLUDED.lock_salt,
			lock_verifier = EXCLUDED.lock_verifier,
			lock_sealed = EXCLUDED.lock_sealed,
			lock_nonce = EXCLUDED.lock_nonce,
			trashed_at = EXCLUDED.trashed_at,
			position = CASE WHEN notes.collection = EXCLUDED.collection
				THEN notes.position ELSE EXCLUDED.position END,
			collection = EXCLUDED.collection,
			updated_at = EXCLUDED.updated_at
		RETURNING position, updated_at
	`

	var trashedAt sql.NullTime
	if note.TrashedAt != nil {
		trashedAt = sql.NullTime{Time: *note.TrashedAt, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		note.UserID, note.ID, note.Collection, note.Heading, note.Body,
		note.LockSalt, note.LockVerifier, note.LockSealed, note.LockNonce,
		note.CreatedAt, trashedAt, updatedAt,
	).Scan(&note.Position, &note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM notes WHERE user_id = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ClearCollection(ctx context.Context, userID, collection string) (int64, error) {
	query := `DELETE FROM notes WHERE user_id = $1 AND collection = $2`
	res, err := r.db.ExecContext(ctx, query, userID, collection)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Reorder(ctx context.Context, userID, collection string, ids []string) error {
	query := `UPDATE notes SET position = $1 WHERE user_id = $2 AND collection = $3 AND id = $4`
	for i, id := range ids {
		if _, err := r.db.ExecContext(ctx, query, i, userID, collection, id); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, userID, collection string) ([]*models.Note, error) {
	query := `
		SELECT user_id, id, collection, heading, body,
			lock_salt, lock_verifier, lock_sealed, lock_nonce,
			created_at, trashed_at, position, updated_at
		FROM notes
		WHERE user_id = $1 AND collection = $2
		ORDER BY position, updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, collection)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Note
	for rows.Next() {
		n := &models.Note{}
		var trashedAt sql.NullTime
		if err := rows.Scan(&n.UserID, &n.ID, &n.Collection, &n.Heading, &n.Body,
			&n.LockSalt, &n.LockVerifier, &n.LockSealed, &n.LockNonce,
			&n.CreatedAt, &trashedAt, &n.Position, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if trashedAt.Valid {
			t := trashedAt.Time
			n.TrashedAt = &t
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
