package notes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/google/uuid"
)

const (
	DefaultRemoteTimeout = 5 * time.Second
	DefaultRetention     = 7 * 24 * time.Hour
)

// Remote is the subset of the remote adapter the Store uses.
type Remote interface {
	Ping(ctx context.Context) error
	CheckAccess(ctx context.Context) (string, error)
	PutNote(ctx context.Context, collection string, note models.Note) error
	DeleteNote(ctx context.Context, id string) error
	ClearCollection(ctx context.Context, collection string) error
	ReorderNotes(ctx context.Context, collection string, ids []string) error
	ListNotes(ctx context.Context, collection string) ([]models.Note, error)
	ExportNotes(ctx context.Context) (string, error)
}

// IdentitySource reports who is signed in and receives quota notifications.
type IdentitySource interface {
	Current() models.Identity
	MarkQuotaExceeded(ctx context.Context, now time.Time) error
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func WithRemoteTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

func WithRetention(d time.Duration) Option {
	return func(s *Store) { s.retention = d }
}

// Status is a point-in-time view of the store for the presentation layer.
type Status struct {
	Identity  models.Identity
	Available bool
	Pending   int
	LastError error
	Counts    map[string]int
}

type Store struct {
	local    Local
	remote   Remote
	identity IdentitySource
	logger   logging.Logger

	now       func() time.Time
	newID     func() string
	timeout   time.Duration
	retention time.Duration

	mu        sync.Mutex
	state     models.Collections
	rev       int64 // revision state was loaded from or committed as
	available bool
	lastErr   error

	flushMu sync.Mutex
}

func NewStore(local Local, remote Remote, identity IdentitySource, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		local:     local,
		remote:    remote,
		identity:  identity,
		logger:    logger.With("component", "notes"),
		now:       time.Now,
		newID:     uuid.NewString,
		timeout:   DefaultRemoteTimeout,
		retention: DefaultRetention,
		state:     models.Collections{Active: []models.Note{}, Archived: []models.Note{}, Trashed: []models.Note{}},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the in-memory state with what is stored locally.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Read before the state: a commit racing with Load costs one extra
	// reload instead of a missed one.
	rev, err := s.local.Revision(ctx)
	if err != nil {
		return fmt.Errorf("load notes: %w", err)
	}
	st, err := s.local.Load(ctx)
	if err != nil {
		return fmt.Errorf("load notes: %w", err)
	}
	s.state, s.rev = st, rev
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() models.Collections {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// List returns a copy of one collection.
func (s *Store) List(collection string) ([]models.Note, error) {
	if !common.IsCollection(collection) {
		return nil, common.ErrorUnknownCollection
	}
	return s.Snapshot().Get(collection), nil
}

// Get finds a note by id in any collection.
func (s *Store) Get(id string) (models.Note, string, error) {
	snap := s.Snapshot()
	coll, idx, ok := snap.Find(id)
	if !ok {
		return models.Note{}, "", ErrNotFound
	}
	return snap.Get(coll)[idx], coll, nil
}

func (s *Store) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

// SetAvailable toggles remote writes for the session.
func (s *Store) SetAvailable(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = v
}

func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) setLastError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *Store) Status(ctx context.Context) Status {
	snap := s.Snapshot()
	st := Status{
		Identity:  s.identity.Current(),
		Available: s.Available(),
		LastError: s.LastError(),
		Counts: map[string]int{
			common.CollectionActive:   len(snap.Active),
			common.CollectionArchived: len(snap.Archived),
			common.CollectionTrashed:  len(snap.Trashed),
		},
	}
	if n, err := s.local.PendingCount(ctx); err == nil {
		st.Pending = n
	}
	return st
}

func (s *Store) Add(ctx context.Context, heading, text string) (models.Note, error) {
	now := s.now()
	n := models.Note{
		ID:        s.newID(),
		Heading:   heading,
		Text:      text,
		OwnerID:   s.identity.Current().UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apply(ctx, func(st models.Collections) (Change, error) { return AddNote(st, n) }); err != nil {
		return models.Note{}, err
	}
	return n, nil
}

func (s *Store) Update(ctx context.Context, id, heading, text string) error {
	now := s.now()
	return s.apply(ctx, func(st models.Collections) (Change, error) { return UpdateNote(st, id, heading, text, now) })
}

func (s *Store) Trash(ctx context.Context, id string) error {
	now := s.now()
	return s.apply(ctx, func(st models.Collections) (Change, error) { return TrashNote(st, id, now) })
}

func (s *Store) Archive(ctx context.Context, id string) error {
	now := s.now()
	return s.apply(ctx, func(st models.Collections) (Change, error) { return ArchiveNote(st, id, now) })
}

func (s *Store) Unarchive(ctx context.Context, id string) error {
	now := s.now()
	return s.apply(ctx, func(st models.Collections) (Change, error) { return UnarchiveNote(st, id, now) })
}

func (s *Store) Restore(ctx context.Context, id string) error {
	now := s.now()
	return s.apply(ctx, func(st models.Collections) (Change, error) { return RestoreNote(st, id, now) })
}

func (s *Store) Purge(ctx context.Context, id string) error {
	return s.apply(ctx, func(st models.Collections) (Change, error) { return PurgeNote(st, id) })
}

func (s *Store) EmptyTrash(ctx context.Context) error {
	return s.apply(ctx, EmptyTrash)
}

func (s *Store) Move(ctx context.Context, id string, index int) error {
	return s.apply(ctx, func(st models.Collections) (Change, error) { return MoveActive(st, id, index) })
}

func (s *Store) Lock(ctx context.Context, id string, password []byte) error {
	now := s.now()
	return s.apply(ctx, func(st models.Collections) (Change, error) {
		n, err := lockable(st, id)
		if err != nil {
			return Change{}, err
		}
		locked, err := Seal(n, password)
		if err != nil {
			return Change{}, err
		}
		locked.UpdatedAt = now
		return ReplaceNote(st, locked)
	})
}

func (s *Store) Unlock(ctx context.Context, id string, password []byte) error {
	now := s.now()
	return s.apply(ctx, func(st models.Collections) (Change, error) {
		n, err := lockable(st, id)
		if err != nil {
			return Change{}, err
		}
		opened, err := Open(n, password)
		if err != nil {
			return Change{}, err
		}
		opened.UpdatedAt = now
		return ReplaceNote(st, opened)
	})
}

// Reveal decrypts a locked note for display. The stored note stays locked.
func (s *Store) Reveal(id string, password []byte) (models.Note, error) {
	n, _, err := s.Get(id)
	if err != nil {
		return models.Note{}, err
	}
	return Open(n, password)
}

// PurgeExpired drops trashed notes older than the retention window and
// returns their ids.
func (s *Store) PurgeExpired(ctx context.Context, now time.Time) ([]string, error) {
	cutoff := now.Add(-s.retention)
	var purged []string
	err := s.apply(ctx, func(st models.Collections) (Change, error) {
		var ch Change
		ch, purged = PurgeExpired(st, cutoff)
		if len(purged) == 0 {
			return Change{}, errNoChange
		}
		return ch, nil
	})
	if errors.Is(err, errNoChange) {
		return nil, nil
	}
	return purged, err
}

func lockable(st models.Collections, id string) (models.Note, error) {
	coll, idx, ok := st.Find(id)
	if !ok || coll == common.CollectionTrashed {
		return models.Note{}, ErrNotFound
	}
	return st.Get(coll)[idx], nil
}

// apply runs reduce against the current state, commits the result together
// with its ops and then replays the outbox when remote writes are possible.
func (s *Store) apply(ctx context.Context, reduce func(models.Collections) (Change, error)) error {
	s.mu.Lock()
	ch, err := reduce(s.state)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	ops := ch.Ops
	if !s.identity.Current().IsRemote() {
		ops = nil
	}
	now := s.now()
	for i := range ops {
		ops[i].CreatedAt = now
	}

	rev, err := s.local.Commit(ctx, ch.State, ops)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("commit notes: %w", err)
	}
	s.state, s.rev = ch.State, rev
	flush := len(ops) > 0 && s.available
	s.mu.Unlock()

	if flush {
		if err := s.Flush(ctx); err != nil {
			s.logger.Warn(ctx, "remote sync deferred", "error", err)
		}
	}
	return nil
}
