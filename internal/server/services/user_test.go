package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T, rm *fakeRepoManager) (*UserService, func()) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	s := NewUserService(db, rm, testConfig())
	s.now = func() time.Time { return fixedNow }
	return s, func() { _ = db.Close() }
}

func TestRefreshToken_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rt := &fakeRefreshRepo{findOut: &models.RefreshToken{UserID: "u1", Expires: fixedNow.Add(10 * time.Minute)}}
	s := NewUserService(db, &fakeRepoManager{r: rt}, testConfig())
	s.now = func() time.Time { return fixedNow }

	pair, err := s.RefreshToken(context.Background(), "refresh-xyz")
	require.NoError(t, err)
	require.Equal(t, "u1", pair.UserID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, []string{"refresh-xyz"}, rt.deleted)
	require.Equal(t, []string{pair.RefreshToken}, rt.created)
	require.Equal(t, fixedNow.Add(2*time.Hour), rt.createdExpiry)
	require.NoError(t, mock.ExpectationsWereMet())

	uid, err := auth.GetUserIDFromToken(pair.AccessToken, []byte("test-secret-key"))
	require.NoError(t, err)
	require.Equal(t, "u1", uid)
}

func TestRefreshToken_Expired(t *testing.T) {
	rm := &fakeRepoManager{r: &fakeRefreshRepo{
		findOut: &models.RefreshToken{UserID: "u1", Expires: fixedNow.Add(-time.Minute)},
	}}
	s, done := newUserService(t, rm)
	defer done()

	_, err := s.RefreshToken(context.Background(), "r")
	require.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}

func TestRefreshToken_Unknown(t *testing.T) {
	s, done := newUserService(t, &fakeRepoManager{r: &fakeRefreshRepo{findErr: common.ErrorNotFound}})
	defer done()

	_, err := s.RefreshToken(context.Background(), "r")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRefreshToken_FindErr(t *testing.T) {
	s, done := newUserService(t, &fakeRepoManager{r: &fakeRefreshRepo{findErr: errBoom{}}})
	defer done()

	_, err := s.RefreshToken(context.Background(), "r")
	if err == nil || !regexp.MustCompile(`error searching refresh token: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped find error, got %v", err)
	}
}

func TestRefreshToken_DeleteErr(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{r: &fakeRefreshRepo{
		findOut: &models.RefreshToken{UserID: "u1", Expires: time.Now().Add(10 * time.Minute)},
		delErr:  errBoom{},
	}}
	s := NewUserService(db, rm, testConfig())

	_, err := s.RefreshToken(context.Background(), "r")
	if err == nil || !regexp.MustCompile(`error deleting refresh token: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped delete error, got %v", err)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshToken_CreateErr(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{r: &fakeRefreshRepo{
		findOut:   &models.RefreshToken{UserID: "u1", Expires: time.Now().Add(10 * time.Minute)},
		createErr: errBoom{},
	}}
	s := NewUserService(db, rm, testConfig())

	_, err := s.RefreshToken(context.Background(), "r")
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestRegister(t *testing.T) {
	s, done := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{createOut: &models.User{ID: "42", UserName: "alice"}}})
	defer done()

	u, err := s.Register(context.Background(), "alice", []byte("s"), []byte("v"))
	require.NoError(t, err)
	require.Equal(t, "42", u.ID)
}

func TestRegister_Errors(t *testing.T) {
	s, done := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{createErr: common.ErrorAlreadyExists}})
	defer done()

	_, err := s.Register(context.Background(), "alice", []byte("s"), []byte("v"))
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	s2, done2 := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{createErr: errBoom{}}})
	defer done2()

	_, err = s2.Register(context.Background(), "bob", []byte("s"), []byte("v"))
	if err == nil || !regexp.MustCompile(`error creating user: .*boom`).MatchString(err.Error()) {
		t.Fatalf("Register expected wrapped error, got %v", err)
	}
}

func TestGetSalt(t *testing.T) {
	s, done := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{getOut: &models.User{Salt: []byte("SALT")}}})
	defer done()
	salt, err := s.GetSalt(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "SALT", string(salt))

	sNF, doneNF := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{getErr: common.ErrorNotFound}})
	defer doneNF()
	a, err := sNF.GetSalt(context.Background(), "ghost")
	require.NoError(t, err)
	require.Len(t, a, saltSize)
	b, err := sNF.GetSalt(context.Background(), "ghost")
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	sErr, doneErr := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{getErr: errBoom{}}})
	defer doneErr()
	_, err = sErr.GetSalt(context.Background(), "xx")
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestLogin_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		users *fakeUsersRepo
		input []byte
		want  error
	}{
		{"unknown user", &fakeUsersRepo{getErr: common.ErrorNotFound}, []byte("x"), common.ErrorUnauthorized},
		{"repository failure", &fakeUsersRepo{getErr: errBoom{}}, []byte("x"), common.ErrorInternal},
		{"wrong verifier", &fakeUsersRepo{getOut: &models.User{ID: "u1", Verifier: []byte("right")}}, []byte("wrong"), common.ErrorUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := newUserService(t, &fakeRepoManager{u: tt.users, r: &fakeRefreshRepo{}})
			defer done()

			_, err := s.Login(context.Background(), "u", tt.input)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestLogin_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rt := &fakeRefreshRepo{}
	rm := &fakeRepoManager{u: &fakeUsersRepo{getOut: &models.User{ID: "u1", Verifier: []byte("right")}}, r: rt}
	s := NewUserService(db, rm, testConfig())
	s.now = func() time.Time { return fixedNow }

	pair, err := s.Login(context.Background(), "u", []byte("right"))
	require.NoError(t, err)
	require.Equal(t, "u1", pair.UserID)
	require.NotEmpty(t, pair.AccessToken)
	require.Equal(t, []string{pair.RefreshToken}, rt.created)
	require.Equal(t, fixedNow, rt.prunedAt)
	require.NoError(t, mock.ExpectationsWereMet())

	uid, err := s.UserIDFromAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "u1", uid)
}

func TestLogin_PruneFailure(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getOut: &models.User{ID: "u1", Verifier: []byte("right")}},
		r: &fakeRefreshRepo{expiredErr: errBoom{}},
	}
	s := NewUserService(db, rm, testConfig())

	_, err := s.Login(context.Background(), "u", []byte("right"))
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestUserIDFromAccessToken_Invalid(t *testing.T) {
	s, done := newUserService(t, &fakeRepoManager{})
	defer done()

	_, err := s.UserIDFromAccessToken("garbage")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
