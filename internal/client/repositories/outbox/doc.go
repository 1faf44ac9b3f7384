// Package outbox provides the write-ahead queue of remote note operations.
//
// # Overview
//
// Every local change made while a remote identity is active appends one or
// more models.Op rows here, inside the same transaction that persists the
// note collections. The flusher later replays the rows in Seq order and
// acknowledges each one after the server accepted it.
//
// A SQLite-backed implementation (SQLiteRepository) persists rows using a
// dbx.DBTX (either *sql.DB or *sql.Tx).
//
// Typical Usage
//
//	repo := outbox.NewSQLiteRepository(tx)
//	seq, _ := repo.Append(ctx, op)
//	pending, _ := repo.Pending(ctx, 100)
//	_ = repo.Ack(ctx, pending[0].Seq)
package outbox
