package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/config"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/notes"
	"github.com/dmitrijs2005/gophnotes/internal/client/services"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/stretchr/testify/require"
)

func nopLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeIdentity struct {
	mu     sync.Mutex
	id     models.Identity
	state  services.State
	online bool

	signInRes    services.SignInResult
	signInErr    error
	reconnectErr error
	registerErr  error
	calls        []string
}

func (f *fakeIdentity) SignIn(_ context.Context, username string, _ []byte) (services.SignInResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "signin:"+username)
	if f.signInErr != nil {
		f.state, f.id = services.StateSignedOut, models.Identity{}
		return services.SignInResult{}, f.signInErr
	}
	f.id, f.online = f.signInRes.Identity, f.signInRes.Online
	f.state = services.StateRemote
	if f.id.Kind == models.IdentityLocal {
		f.state = services.StateLocal
	}
	return f.signInRes, nil
}

func (f *fakeIdentity) Register(_ context.Context, username string, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "register:"+username)
	return f.registerErr
}

func (f *fakeIdentity) Reconnect(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "reconnect")
	if f.reconnectErr != nil {
		return f.reconnectErr
	}
	f.online = true
	return nil
}

func (f *fakeIdentity) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "signout")
	f.state, f.id, f.online = services.StateSignedOut, models.Identity{}, false
	return nil
}

func (f *fakeIdentity) MarkQuotaExceeded(context.Context, time.Time) error { return nil }

func (f *fakeIdentity) Current() models.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id
}

func (f *fakeIdentity) State() services.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeIdentity) Online() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online
}

func (f *fakeIdentity) Close() error { return nil }

func (f *fakeIdentity) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// signInAs puts the fake straight into a signed-in state.
func (f *fakeIdentity) signInAs(id models.Identity, online bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.id, f.online = id, online
	f.state = services.StateRemote
	if id.Kind == models.IdentityLocal {
		f.state = services.StateLocal
	}
}

func alice() models.Identity {
	return models.Identity{Kind: models.IdentityRemote, UserID: "u-1", Username: "alice"}
}

// stubRemote accepts every write and keeps the resulting collections in
// lists.
type stubRemote struct {
	mu        sync.Mutex
	calls     []string
	checkErr  error
	exportURL string
	lists     map[string][]models.Note
}

func (r *stubRemote) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *stubRemote) Ping(context.Context) error { return nil }

func (r *stubRemote) CheckAccess(context.Context) (string, error) {
	r.record("check")
	r.mu.Lock()
	defer r.mu.Unlock()
	return "u-1", r.checkErr
}

func (r *stubRemote) PutNote(_ context.Context, coll string, n models.Note) error {
	r.record("put:" + coll + ":" + n.ID)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(n.ID)
	r.lists[coll] = append([]models.Note{n}, r.lists[coll]...)
	return nil
}

func (r *stubRemote) DeleteNote(_ context.Context, id string) error {
	r.record("delete:" + id)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(id)
	return nil
}

func (r *stubRemote) ClearCollection(_ context.Context, coll string) error {
	r.record("clear:" + coll)
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lists, coll)
	return nil
}

// remove drops id from every list; r.mu must be held.
func (r *stubRemote) remove(id string) {
	if r.lists == nil {
		r.lists = map[string][]models.Note{}
	}
	for coll, ns := range r.lists {
		r.lists[coll] = slices.DeleteFunc(ns, func(n models.Note) bool { return n.ID == id })
	}
}

func (r *stubRemote) ReorderNotes(_ context.Context, coll string, ids []string) error {
	r.record(fmt.Sprintf("reorder:%s:%v", coll, ids))
	return nil
}

func (r *stubRemote) ListNotes(_ context.Context, coll string) ([]models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Note(nil), r.lists[coll]...), nil
}

func (r *stubRemote) ExportNotes(context.Context) (string, error) {
	r.record("export")
	return r.exportURL, nil
}

func (r *stubRemote) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type testApp struct {
	*App
	ident  *fakeIdentity
	remote *stubRemote
	buf    *bytes.Buffer
}

// newTestApp builds an App on a temporary database. Note ids are
// "0001-note", "0002-note" and so on.
func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), config.DBFileName)
	db, err := client.InitDatabase(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ident := &fakeIdentity{state: services.StateUninitialized}
	remote := &stubRemote{}

	seq := 0
	store := notes.NewStore(notes.NewSQLiteLocal(db), remote, ident, nopLogger(),
		notes.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("%04d-note", seq)
		}),
	)
	require.NoError(t, store.Load(ctx))

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DataDir = filepath.Dir(dbPath)

	buf := &bytes.Buffer{}
	return &testApp{
		App: &App{
			config:   cfg,
			logger:   nopLogger(),
			db:       db,
			dbPath:   dbPath,
			identity: ident,
			store:    store,
			reader:   rdr(input),
			out:      buf,
		},
		ident:  ident,
		remote: remote,
		buf:    buf,
	}
}

// addNotes creates notes with the given headings; the last one ends up on top.
func (a *testApp) addNotes(t *testing.T, headings ...string) {
	t.Helper()
	for _, h := range headings {
		_, err := a.store.Add(context.Background(), h, "text of "+h)
		require.NoError(t, err)
	}
}

func noteIDs(ns []models.Note) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.ID
	}
	return out
}

// stubPasswords makes getPassword return the given values in order.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	old := getPassword
	t.Cleanup(func() { getPassword = old })
	i := 0
	getPassword = func(io.Writer, string) ([]byte, error) {
		if i >= len(pws) {
			return nil, io.EOF
		}
		pw := []byte(pws[i])
		i++
		return pw, nil
	}
}
