package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
)

const flushBatch = 100

// Flush replays pending ops in order. Each op is removed only after the
// server accepted it; the first failure stops the replay and keeps the rest
// of the queue.
func (s *Store) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	if !s.identity.Current().IsRemote() || !s.Available() {
		return ErrSyncUnavailable
	}

	sent := 0
	for {
		ops, err := s.local.Pending(ctx, flushBatch)
		if err != nil {
			return fmt.Errorf("read outbox: %w", err)
		}
		if len(ops) == 0 {
			break
		}

		for _, op := range ops {
			if err := s.send(ctx, op); err != nil {
				if !errors.Is(err, client.ErrInvalidRequest) {
					return s.remoteFailed(ctx, err)
				}
				// Retrying a rejected op would block the queue forever.
				s.logger.Error(ctx, "dropping op rejected by server",
					"seq", op.Seq, "kind", op.Kind, "note", op.NoteID, "error", err)
			}
			if err := s.local.Ack(ctx, op.Seq); err != nil {
				return fmt.Errorf("ack op %d: %w", op.Seq, err)
			}
			sent++
		}
	}

	s.setLastError(nil)
	if sent > 0 {
		s.logger.Info(ctx, "outbox flushed", "ops", sent)
	}
	return nil
}

func (s *Store) send(ctx context.Context, op models.Op) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	switch op.Kind {
	case models.OpPut:
		var n models.Note
		if err := json.Unmarshal(op.Payload, &n); err != nil {
			s.logger.Error(ctx, "dropping undecodable op", "seq", op.Seq, "error", err)
			return nil
		}
		return s.remote.PutNote(ctx, op.Collection, n)
	case models.OpDelete:
		return s.remote.DeleteNote(ctx, op.NoteID)
	case models.OpClear:
		return s.remote.ClearCollection(ctx, op.Collection)
	case models.OpReorder:
		var ids []string
		if err := json.Unmarshal(op.Payload, &ids); err != nil {
			s.logger.Error(ctx, "dropping undecodable op", "seq", op.Seq, "error", err)
			return nil
		}
		return s.remote.ReorderNotes(ctx, op.Collection, ids)
	default:
		s.logger.Error(ctx, "dropping unknown op", "seq", op.Seq, "kind", op.Kind)
		return nil
	}
}

// remoteFailed classifies a remote error and returns it unchanged.
func (s *Store) remoteFailed(ctx context.Context, err error) error {
	switch {
	case client.IsPermission(err):
		s.SetAvailable(false)
		s.logger.Warn(ctx, "remote sync disabled", "reason", err)
	case errors.Is(err, client.ErrQuotaExceeded):
		s.SetAvailable(false)
		s.logger.Warn(ctx, "remote quota exceeded, sync disabled", "error", err)
		if qerr := s.identity.MarkQuotaExceeded(ctx, s.now()); qerr != nil {
			s.logger.Error(ctx, "failed to record quota state", "error", qerr)
		}
	default:
		s.setLastError(err)
	}
	return err
}

// RetryConnection re-checks remote access. On success remote writes are
// enabled, the outbox is flushed and, when nothing is left pending, the
// collections are refetched from the server.
func (s *Store) RetryConnection(ctx context.Context) error {
	if !s.identity.Current().IsRemote() {
		return ErrSyncUnavailable
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	_, err := s.remote.CheckAccess(cctx)
	cancel()
	if err != nil {
		return s.remoteFailed(ctx, err)
	}

	s.SetAvailable(true)
	if err := s.Flush(ctx); err != nil {
		return err
	}

	n, err := s.local.PendingCount(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return s.refetch(ctx)
}

// refetch replaces local state with the server's collections. Local notes
// the server lacks are kept and queued for upload, so an empty server result
// never drops local notes.
func (s *Store) refetch(ctx context.Context) error {
	var fetched models.Collections
	for _, coll := range common.Collections {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		notes, err := s.remote.ListNotes(cctx, coll)
		cancel()
		if err != nil {
			return s.remoteFailed(ctx, fmt.Errorf("list %s: %w", coll, err))
		}
		if notes == nil {
			notes = []models.Note{}
		}
		fetched = fetched.With(coll, notes)
	}

	s.mu.Lock()
	// A local action may have queued ops while the lists were in flight.
	n, err := s.local.PendingCount(ctx)
	if err != nil || n > 0 {
		s.mu.Unlock()
		return err
	}

	ch, err := MergeRemote(fetched, s.state)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("merge refetched notes: %w", err)
	}
	now := s.now()
	for i := range ch.Ops {
		ch.Ops[i].CreatedAt = now
	}
	rev, err := s.local.Commit(ctx, ch.State, ch.Ops)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("commit refetched notes: %w", err)
	}
	s.state, s.rev = ch.State, rev
	s.mu.Unlock()

	s.logger.Info(ctx, "notes refetched", "notes", ch.State.Len(), "local_only", len(ch.Ops))
	if len(ch.Ops) == 0 {
		return nil
	}
	return s.Flush(ctx)
}

// AttachRemote is called after a remote sign-in. Every local note is queued
// as an idempotent put so notes created before sign-in reach the server,
// then the connection is retried.
func (s *Store) AttachRemote(ctx context.Context) error {
	if !s.identity.Current().IsRemote() {
		return ErrSyncUnavailable
	}

	s.mu.Lock()
	ops, err := SeedOps(s.state)
	if err == nil && len(ops) > 0 {
		now := s.now()
		for i := range ops {
			ops[i].CreatedAt = now
		}
		var rev int64
		if rev, err = s.local.Commit(ctx, s.state, ops); err == nil {
			s.rev = rev
		}
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("seed outbox: %w", err)
	}

	return s.RetryConnection(ctx)
}

// Export asks the server for a snapshot of every collection and returns the
// download URL.
func (s *Store) Export(ctx context.Context) (string, error) {
	if !s.identity.Current().IsRemote() || !s.Available() {
		return "", ErrSyncUnavailable
	}
	if err := s.Flush(ctx); err != nil {
		return "", err
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	url, err := s.remote.ExportNotes(cctx)
	if err != nil {
		return "", s.remoteFailed(ctx, err)
	}
	return url, nil
}
