package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	notesrepo "github.com/dmitrijs2005/gophnotes/internal/server/repositories/notes"
	quotasrepo "github.com/dmitrijs2005/gophnotes/internal/server/repositories/quotas"
	refreshtokensrepo "github.com/dmitrijs2005/gophnotes/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/gophnotes/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

var fixedNow = time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret-key"
	cfg.AccessTokenValidityDuration = time.Hour
	cfg.RefreshTokenValidityDuration = 2 * time.Hour
	cfg.WriteQuota = 3
	cfg.WriteQuotaWindow = time.Hour
	return cfg
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	delErr        error
	createErr     error
	expiredErr    error
	created       []string
	createdExpiry time.Time
	deleted       []string
	prunedAt      time.Time
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID, token string, expires time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, token)
	f.createdExpiry = expires
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(ctx context.Context, userID string, now time.Time) (int64, error) {
	f.prunedAt = now
	return 0, f.expiredErr
}

type fakeNotesRepo struct {
	upserted  []*models.Note
	upsertErr error

	deleted   []string
	deleteErr error

	cleared  []string
	clearN   int64
	clearErr error

	reordered  [][]string
	reorderErr error

	lists   map[string][]*models.Note
	listErr error
}

func (f *fakeNotesRepo) Upsert(ctx context.Context, n *models.Note, updatedAt time.Time) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	n.UpdatedAt = updatedAt
	f.upserted = append(f.upserted, n)
	return nil
}

func (f *fakeNotesRepo) Delete(ctx context.Context, userID, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeNotesRepo) ClearCollection(ctx context.Context, userID, collection string) (int64, error) {
	if f.clearErr != nil {
		return 0, f.clearErr
	}
	f.cleared = append(f.cleared, collection)
	return f.clearN, nil
}

func (f *fakeNotesRepo) Reorder(ctx context.Context, userID, collection string, ids []string) error {
	if f.reorderErr != nil {
		return f.reorderErr
	}
	f.reordered = append(f.reordered, ids)
	return nil
}

func (f *fakeNotesRepo) List(ctx context.Context, userID, collection string) ([]*models.Note, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.lists[collection], nil
}

type fakeQuotaRepo struct {
	writes  int
	err     error
	windows []time.Time
}

func (f *fakeQuotaRepo) Consume(ctx context.Context, userID string, windowStart time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.writes++
	f.windows = append(f.windows, windowStart)
	return f.writes, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	n *fakeNotesRepo
	q *fakeQuotaRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Notes(db dbx.DBTX) notesrepo.Repository                 { return m.n }
func (m *fakeRepoManager) Quotas(db dbx.DBTX) quotasrepo.Repository               { return m.q }
