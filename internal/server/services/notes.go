package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

// NotesService applies note writes on behalf of an authenticated owner. Every
// write counts against the owner's quota of writeQuota per window.
type NotesService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	writeQuota  int
	window      time.Duration
	now         func() time.Time
}

func NewNotesService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *NotesService {
	return &NotesService{
		db:          db,
		repomanager: m,
		writeQuota:  cfg.WriteQuota,
		window:      cfg.WriteQuotaWindow,
		now:         time.Now,
	}
}

func validateCollection(collection string) error {
	if !common.IsCollection(collection) {
		return fmt.Errorf("%w: %q", common.ErrorUnknownCollection, collection)
	}
	return nil
}

// consume charges one write to userID and fails with common.ErrQuotaExceeded
// once the window is used up.
func (s *NotesService) consume(ctx context.Context, userID string) error {
	windowStart := s.now().UTC().Truncate(s.window)
	writes, err := s.repomanager.Quotas(s.db).Consume(ctx, userID, windowStart)
	if err != nil {
		return fmt.Errorf("error counting writes: %w", err)
	}
	if writes > s.writeQuota {
		return common.ErrQuotaExceeded
	}
	return nil
}

// Put upserts note into collection for userID. The stored UpdatedAt is
// assigned here; CreatedAt defaults to the same instant when unset.
func (s *NotesService) Put(ctx context.Context, userID, collection string, note *models.Note) error {
	if err := validateCollection(collection); err != nil {
		return err
	}
	if note == nil || note.ID == "" {
		return common.ErrorEmptyNoteID
	}
	if err := s.consume(ctx, userID); err != nil {
		return err
	}

	now := s.now().UTC()
	note.UserID = userID
	note.Collection = collection
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}

	if err := s.repomanager.Notes(s.db).Upsert(ctx, note, now); err != nil {
		return fmt.Errorf("error saving note: %w", err)
	}
	return nil
}

func (s *NotesService) Delete(ctx context.Context, userID, id string) error {
	if id == "" {
		return common.ErrorEmptyNoteID
	}
	if err := s.consume(ctx, userID); err != nil {
		return err
	}
	if err := s.repomanager.Notes(s.db).Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("error deleting note: %w", err)
	}
	return nil
}

func (s *NotesService) Clear(ctx context.Context, userID, collection string) (int64, error) {
	if err := validateCollection(collection); err != nil {
		return 0, err
	}
	if err := s.consume(ctx, userID); err != nil {
		return 0, err
	}
	n, err := s.repomanager.Notes(s.db).ClearCollection(ctx, userID, collection)
	if err != nil {
		return 0, fmt.Errorf("error clearing collection: %w", err)
	}
	return n, nil
}

// Reorder stores ids as the order of collection in one transaction. Ids not
// in the collection are ignored.
func (s *NotesService) Reorder(ctx context.Context, userID, collection string, ids []string) error {
	if err := validateCollection(collection); err != nil {
		return err
	}
	for _, id := range ids {
		if id == "" {
			return common.ErrorEmptyNoteID
		}
	}
	if err := s.consume(ctx, userID); err != nil {
		return err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Notes(tx).Reorder(ctx, userID, collection, ids)
	})
	if err != nil {
		return fmt.Errorf("error reordering notes: %w", err)
	}
	return nil
}

func (s *NotesService) List(ctx context.Context, userID, collection string) ([]*models.Note, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}
	notes, err := s.repomanager.Notes(s.db).List(ctx, userID, collection)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	return notes, nil
}
