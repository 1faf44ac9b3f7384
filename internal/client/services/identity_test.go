package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/cryptox"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	client.Client

	pingErr  error
	pings    int
	salt     []byte
	saltErr  error
	loginErr error
	userID   string
	logins   int

	LastUsername string
	LastSalt     []byte
	LastVerifier []byte
	closed       bool
}

func (f *fakeClient) Ping(context.Context) error {
	f.pings++
	return f.pingErr
}

func (f *fakeClient) GetSalt(_ context.Context, username string) ([]byte, error) {
	f.LastUsername = username
	return f.salt, f.saltErr
}

func (f *fakeClient) Login(_ context.Context, username string, verifier []byte) (string, error) {
	f.logins++
	f.LastUsername = username
	f.LastVerifier = verifier
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.userID, nil
}

func (f *fakeClient) Register(_ context.Context, username string, salt, verifier []byte) error {
	f.LastUsername, f.LastSalt, f.LastVerifier = username, salt, verifier
	return nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func nopLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, fc *fakeClient, opts ...IdentityOption) (*IdentityService, *sql.DB) {
	t.Helper()
	db := openDB(t)
	opts = append([]IdentityOption{
		WithPingRetry(2, time.Millisecond),
		WithIdentityClock(func() time.Time { return fixedNow }),
	}, opts...)
	return NewIdentityService(fc, db, nopLogger(), opts...), db
}

func meta(t *testing.T, db *sql.DB, key string) string {
	t.Helper()
	b, err := metadata.NewSQLiteRepository(db).Get(context.Background(), key)
	require.NoError(t, err)
	return string(b)
}

func TestSignIn_Online_SavesOfflineData(t *testing.T) {
	fc := &fakeClient{salt: []byte("0123456789abcdef"), userID: "u-1"}
	svc, db := newService(t, fc)

	res, err := svc.SignIn(context.Background(), "alice", []byte("pw"))
	require.NoError(t, err)

	assert.True(t, res.Online)
	assert.Empty(t, res.Fallback)
	assert.Equal(t, models.Identity{Kind: models.IdentityRemote, UserID: "u-1", Username: "alice"}, res.Identity)
	assert.Equal(t, StateRemote, svc.State())
	assert.True(t, svc.Online())

	key := cryptox.DeriveMasterKey([]byte("pw"), fc.salt)
	assert.Equal(t, cryptox.MakeVerifier(key), fc.LastVerifier)

	assert.Equal(t, "alice", meta(t, db, metadata.KeyUsername))
	assert.Equal(t, "u-1", meta(t, db, metadata.KeyRemoteUserID))
	assert.Equal(t, string(fc.salt), meta(t, db, metadata.KeySalt))
	assert.Equal(t, string(fc.LastVerifier), meta(t, db, metadata.KeyVerifier))
}

func TestSignIn_EmptyUsername_UsesLocal(t *testing.T) {
	fc := &fakeClient{}
	svc, db := newService(t, fc)

	res, err := svc.SignIn(context.Background(), "", nil)
	require.NoError(t, err)

	assert.Equal(t, FallbackCancelled, res.Fallback)
	assert.Equal(t, models.IdentityLocal, res.Identity.Kind)
	assert.Equal(t, "local-1740830400000", res.Identity.UserID)
	assert.Equal(t, res.Identity.UserID, meta(t, db, metadata.KeyLocalUserID))
	assert.Zero(t, fc.pings)
}

func TestUseLocal_ReusesStoredID(t *testing.T) {
	svc, db := newService(t, &fakeClient{})
	require.NoError(t, metadata.NewSQLiteRepository(db).Set(context.Background(), metadata.KeyLocalUserID, []byte("local-42")))

	id, err := svc.UseLocal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "local-42", id.UserID)
	assert.Equal(t, StateLocal, svc.State())
}

func TestSignIn_Offline_WithCachedCredentials(t *testing.T) {
	fc := &fakeClient{salt: []byte("0123456789abcdef"), userID: "u-1"}
	svc, _ := newService(t, fc)

	_, err := svc.SignIn(context.Background(), "alice", []byte("pw"))
	require.NoError(t, err)

	fc.pingErr = client.ErrUnavailable
	res, err := svc.SignIn(context.Background(), "alice", []byte("pw"))
	require.NoError(t, err)

	assert.False(t, res.Online)
	assert.Equal(t, models.IdentityRemote, res.Identity.Kind)
	assert.Equal(t, "u-1", res.Identity.UserID)
	assert.Equal(t, 1+2, fc.pings)
}

func TestSignIn_Offline_NoCache_FallsBackToLocal(t *testing.T) {
	fc := &fakeClient{pingErr: client.ErrUnavailable}
	svc, _ := newService(t, fc)

	res, err := svc.SignIn(context.Background(), "alice", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, FallbackNoCachedKey, res.Fallback)
	assert.Equal(t, models.IdentityLocal, res.Identity.Kind)
}

func TestSignIn_Offline_WrongPassword(t *testing.T) {
	fc := &fakeClient{salt: []byte("0123456789abcdef"), userID: "u-1"}
	svc, db := newService(t, fc)
	_, err := svc.SignIn(context.Background(), "alice", []byte("pw"))
	require.NoError(t, err)

	fc.pingErr = client.ErrUnavailable
	_, err = svc.SignIn(context.Background(), "alice", []byte("nope"))
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, StateSignedOut, svc.State())
	assert.Equal(t, "1", meta(t, db, metadata.KeyAuthAttempts))

	_, err = svc.SignIn(context.Background(), "bob", []byte("pw"))
	require.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestSignIn_Rejected_StartsCooldownAtLimit(t *testing.T) {
	fc := &fakeClient{salt: []byte("s"), loginErr: client.ErrUnauthorized}
	svc, db := newService(t, fc, WithMaxAuthAttempts(2))
	ctx := context.Background()

	_, err := svc.SignIn(ctx, "alice", []byte("pw"))
	require.ErrorIs(t, err, client.ErrUnauthorized)
	active, err := svc.QuotaActive(ctx)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = svc.SignIn(ctx, "alice", []byte("pw"))
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, "true", meta(t, db, metadata.KeyQuotaExceeded))

	res, err := svc.SignIn(ctx, "alice", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, FallbackQuota, res.Fallback)
	assert.Equal(t, 2, fc.logins)
}

func TestSignIn_ServerQuota_FallsBackToLocal(t *testing.T) {
	fc := &fakeClient{salt: []byte("s"), loginErr: client.ErrQuotaExceeded}
	svc, db := newService(t, fc)

	res, err := svc.SignIn(context.Background(), "alice", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, FallbackQuota, res.Fallback)
	assert.Equal(t, fixedNow.Add(24*time.Hour).Format(time.RFC3339), meta(t, db, metadata.KeyQuotaResetTime))
}

func TestQuotaActive_ExpiredCooldownIsCleared(t *testing.T) {
	svc, db := newService(t, &fakeClient{})
	ctx := context.Background()
	require.NoError(t, svc.MarkQuotaExceeded(ctx, fixedNow.Add(-25*time.Hour)))

	active, err := svc.QuotaActive(ctx)
	require.NoError(t, err)
	assert.False(t, active)
	assert.Empty(t, meta(t, db, metadata.KeyQuotaExceeded))
	assert.Equal(t, "0", meta(t, db, metadata.KeyAuthAttempts))
}

func TestSignIn_TransientLoginError_UsesCache(t *testing.T) {
	fc := &fakeClient{salt: []byte("0123456789abcdef"), userID: "u-1"}
	svc, _ := newService(t, fc)
	_, err := svc.SignIn(context.Background(), "alice", []byte("pw"))
	require.NoError(t, err)

	fc.loginErr = errors.New("boom")
	res, err := svc.SignIn(context.Background(), "alice", []byte("pw"))
	require.NoError(t, err)
	assert.False(t, res.Online)
	assert.Equal(t, models.IdentityRemote, res.Identity.Kind)
}

func TestReconnect(t *testing.T) {
	fc := &fakeClient{salt: []byte("0123456789abcdef"), userID: "u-1"}
	svc, _ := newService(t, fc)
	ctx := context.Background()

	require.ErrorIs(t, svc.Reconnect(ctx), client.ErrUnauthorized)

	_, err := svc.SignIn(ctx, "alice", []byte("pw"))
	require.NoError(t, err)
	fc.pingErr = client.ErrUnavailable
	_, err = svc.SignIn(ctx, "alice", []byte("pw"))
	require.NoError(t, err)
	require.False(t, svc.Online())

	fc.pingErr = nil
	require.NoError(t, svc.Reconnect(ctx))
	assert.True(t, svc.Online())
	assert.Equal(t, 2, fc.logins)
}

func TestSignOut_KeepsNotes(t *testing.T) {
	fc := &fakeClient{salt: []byte("0123456789abcdef"), userID: "u-1"}
	svc, db := newService(t, fc)
	ctx := context.Background()
	repo := metadata.NewSQLiteRepository(db)
	require.NoError(t, repo.Set(ctx, metadata.KeyActiveNotes, []byte(`[]`)))

	_, err := svc.SignIn(ctx, "alice", []byte("pw"))
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx))

	assert.Equal(t, StateSignedOut, svc.State())
	assert.Empty(t, meta(t, db, metadata.KeyVerifier))
	assert.Empty(t, meta(t, db, metadata.KeyUsername))
	assert.Equal(t, "[]", meta(t, db, metadata.KeyActiveNotes))
}

func queueOps(t *testing.T, db *sql.DB, ops ...models.Op) {
	t.Helper()
	repo := outbox.NewSQLiteRepository(db)
	for _, op := range ops {
		_, err := repo.Append(context.Background(), op)
		require.NoError(t, err)
	}
}

func pendingOps(t *testing.T, db *sql.DB) int {
	t.Helper()
	n, err := outbox.NewSQLiteRepository(db).Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestSignOut_DropsQueuedOps(t *testing.T) {
	fc := &fakeClient{salt: []byte("0123456789abcdef"), userID: "u-alice"}
	svc, db := newService(t, fc)
	ctx := context.Background()

	_, err := svc.SignIn(ctx, "alice", []byte("pw"))
	require.NoError(t, err)
	queueOps(t, db,
		models.Op{Kind: models.OpPut, Collection: common.CollectionTrashed, NoteID: "n1", Payload: []byte(`{}`)},
		models.Op{Kind: models.OpClear, Collection: common.CollectionTrashed},
	)

	require.NoError(t, svc.SignOut(ctx))
	assert.Zero(t, pendingOps(t, db), "the next account must not replay these ops")

	fc.userID = "u-bob"
	_, err = svc.SignIn(ctx, "bob", []byte("pw"))
	require.NoError(t, err)
	assert.Zero(t, pendingOps(t, db))
}

func TestSignIn_OtherAccountDropsQueuedOps(t *testing.T) {
	fc := &fakeClient{salt: []byte("0123456789abcdef"), userID: "u-alice"}
	svc, db := newService(t, fc)
	ctx := context.Background()

	_, err := svc.SignIn(ctx, "alice", []byte("pw"))
	require.NoError(t, err)
	queueOps(t, db, models.Op{Kind: models.OpClear, Collection: common.CollectionTrashed})

	_, err = svc.SignIn(ctx, "alice", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, 1, pendingOps(t, db), "same account keeps its queue")

	fc.userID = "u-bob"
	_, err = svc.SignIn(ctx, "bob", []byte("pw"))
	require.NoError(t, err)
	assert.Zero(t, pendingOps(t, db))
}

func TestSignIn_QuotaReadErrorRestoresState(t *testing.T) {
	fc := &fakeClient{}
	svc, db := newService(t, fc)
	ctx := context.Background()

	_, err := svc.UseLocal(ctx)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = svc.SignIn(ctx, "alice", []byte("pw"))
	require.Error(t, err)
	assert.Equal(t, StateLocal, svc.State())
	assert.Zero(t, fc.pings)
}

func TestRegister_SendsSaltAndVerifier(t *testing.T) {
	fc := &fakeClient{}
	svc, _ := newService(t, fc)

	require.NoError(t, svc.Register(context.Background(), "alice", []byte("pw")))
	assert.Equal(t, "alice", fc.LastUsername)
	assert.Len(t, fc.LastSalt, cryptox.SaltSize)
	key := cryptox.DeriveMasterKey([]byte("pw"), fc.LastSalt)
	assert.Equal(t, cryptox.MakeVerifier(key), fc.LastVerifier)
}

func TestClose(t *testing.T) {
	fc := &fakeClient{}
	svc, _ := newService(t, fc)
	require.NoError(t, svc.Close())
	assert.True(t, fc.closed)
}
