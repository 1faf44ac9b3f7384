package notes

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/stretchr/testify/require"
)

func nopLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func openDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.db")
	db, err := client.InitDatabase(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, path
}

type fakeIdentity struct {
	mu    sync.Mutex
	id    models.Identity
	quota []time.Time
}

func (f *fakeIdentity) Current() models.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id
}

func (f *fakeIdentity) MarkQuotaExceeded(_ context.Context, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quota = append(f.quota, now)
	return nil
}

func (f *fakeIdentity) set(id models.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.id = id
}

func remoteUser() models.Identity {
	return models.Identity{Kind: models.IdentityRemote, UserID: "user-1", Username: "alice"}
}

func localUser() models.Identity {
	return models.Identity{Kind: models.IdentityLocal, UserID: "local-1"}
}

// fakeRemote keeps server collections in memory and records every call.
type fakeRemote struct {
	mu        sync.Mutex
	calls     []string
	server    models.Collections
	failAfter int // fail the n-th write call (1-based), 0 disables
	writes    int
	writeErr  error
	checkErr  error
	pingErr   error
	listErr   error
	exportURL string
	rejectID  string // PutNote of this id fails with client.ErrInvalidRequest
}

func (f *fakeRemote) record(call string) error {
	f.calls = append(f.calls, call)
	f.writes++
	if f.writeErr != nil && (f.failAfter == 0 || f.writes >= f.failAfter) {
		return f.writeErr
	}
	return nil
}

func (f *fakeRemote) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeRemote) CheckAccess(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return "user-1", f.checkErr
}

func (f *fakeRemote) PutNote(_ context.Context, coll string, n models.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("put:" + coll + ":" + n.ID); err != nil {
		return err
	}
	if n.ID == f.rejectID {
		return fmt.Errorf("%w: note too large", client.ErrInvalidRequest)
	}
	f.server = removeID(f.server, n.ID)
	f.server = f.server.With(coll, append([]models.Note{n}, f.server.Get(coll)...))
	return nil
}

func (f *fakeRemote) DeleteNote(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete:" + id); err != nil {
		return err
	}
	f.server = removeID(f.server, id)
	return nil
}

func (f *fakeRemote) ClearCollection(_ context.Context, coll string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("clear:" + coll); err != nil {
		return err
	}
	f.server = f.server.With(coll, nil)
	return nil
}

func (f *fakeRemote) ReorderNotes(_ context.Context, coll string, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(fmt.Sprintf("reorder:%s:%v", coll, ids)); err != nil {
		return err
	}
	return nil
}

func (f *fakeRemote) ListNotes(_ context.Context, coll string) ([]models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Note(nil), f.server.Get(coll)...), nil
}

func (f *fakeRemote) ExportNotes(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exportURL, nil
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) setWriteErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}

func (f *fakeRemote) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func removeID(c models.Collections, id string) models.Collections {
	for _, coll := range []string{"active", "archived", "trashed"} {
		var kept []models.Note
		for _, n := range c.Get(coll) {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		c = c.With(coll, kept)
	}
	return c
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *testClock {
	return &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func seqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("n%d", n)
	}
}

type harness struct {
	db       *sql.DB
	path     string
	local    *SQLiteLocal
	remote   *fakeRemote
	identity *fakeIdentity
	clock    *testClock
	store    *Store
}

func newHarness(t *testing.T, id models.Identity) *harness {
	t.Helper()
	db, path := openDB(t)
	h := &harness{
		db:       db,
		path:     path,
		local:    NewSQLiteLocal(db),
		remote:   &fakeRemote{},
		identity: &fakeIdentity{id: id},
		clock:    newClock(),
	}
	h.store = h.newStore()
	require.NoError(t, h.store.Load(context.Background()))
	return h
}

func (h *harness) newStore() *Store {
	return NewStore(h.local, h.remote, h.identity, nopLogger(),
		WithClock(h.clock.Now),
		WithIDGenerator(seqIDs()),
		WithRemoteTimeout(time.Second),
	)
}

// reload builds a second store over the same database.
func (h *harness) reload(t *testing.T) *Store {
	t.Helper()
	s := h.newStore()
	require.NoError(t, s.Load(context.Background()))
	return s
}

func (h *harness) pending(t *testing.T) []models.Op {
	t.Helper()
	ops, err := h.local.Pending(context.Background(), 0)
	require.NoError(t, err)
	return ops
}

func ids(notes []models.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}
