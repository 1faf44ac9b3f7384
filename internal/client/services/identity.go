// Package services contains application services for the GophNotes client.
// This file defines the identity provider wrapper: remote sign-in (online or
// against cached credentials), the local fallback identity, registration and
// the quota cooldown bookkeeping.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/cryptox"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

// State is the lifecycle position of the identity wrapper.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateSigningIn     State = "signing-in"
	StateRemote        State = "remote"
	StateLocal         State = "local"
	StateSignedOut     State = "signed-out"
)

const (
	DefaultMaxAuthAttempts = 5
	DefaultPingAttempts    = 3
	DefaultPingDelay       = 300 * time.Millisecond
)

// Reasons reported in SignInResult.Fallback.
const (
	FallbackCancelled   = "sign-in cancelled"
	FallbackQuota       = "quota cooldown active"
	FallbackNoCachedKey = "server unavailable and no cached credentials"
)

// SignInResult describes the identity a sign-in attempt ended with.
type SignInResult struct {
	Identity models.Identity
	// Online is set when the server issued tokens for this session.
	Online bool
	// Fallback explains why a local identity was chosen; empty otherwise.
	Fallback string
}

type IdentityOption func(*IdentityService)

func WithPingRetry(attempts uint, delay time.Duration) IdentityOption {
	return func(s *IdentityService) { s.pingAttempts, s.pingDelay = attempts, delay }
}

func WithMaxAuthAttempts(n int) IdentityOption {
	return func(s *IdentityService) { s.maxAttempts = n }
}

func WithIdentityClock(now func() time.Time) IdentityOption {
	return func(s *IdentityService) { s.now = now }
}

// IdentityService establishes who the note state belongs to. It is safe for
// concurrent use.
type IdentityService struct {
	client client.Client
	db     *sql.DB
	logger logging.Logger
	now    func() time.Time

	pingAttempts uint
	pingDelay    time.Duration
	maxAttempts  int

	mu       sync.Mutex
	state    State
	identity models.Identity
	online   bool
	verifier []byte
}

func NewIdentityService(c client.Client, db *sql.DB, logger logging.Logger, opts ...IdentityOption) *IdentityService {
	s := &IdentityService{
		client:       c,
		db:           db,
		logger:       logger.With("component", "identity"),
		now:          time.Now,
		pingAttempts: DefaultPingAttempts,
		pingDelay:    DefaultPingDelay,
		maxAttempts:  DefaultMaxAuthAttempts,
		state:        StateUninitialized,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *IdentityService) repo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

func (s *IdentityService) Current() models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

func (s *IdentityService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Online reports whether the current remote session holds server tokens.
func (s *IdentityService) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

func (s *IdentityService) set(state State, id models.Identity, online bool, verifier []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, s.identity, s.online, s.verifier = state, id, online, verifier
}

// SignIn establishes a remote identity when possible. An empty username or
// an active quota cooldown yields the local identity. When the server cannot
// be reached the cached verifier is used instead, and without cached
// credentials the local identity is used. Wrong credentials leave the wrapper
// signed out and return client.ErrUnauthorized.
func (s *IdentityService) SignIn(ctx context.Context, username string, password []byte) (SignInResult, error) {
	if username == "" {
		return s.fallback(ctx, FallbackCancelled)
	}

	s.mu.Lock()
	prev := s.state
	s.state = StateSigningIn
	s.mu.Unlock()

	active, err := s.QuotaActive(ctx)
	if err != nil {
		s.mu.Lock()
		s.state = prev
		s.mu.Unlock()
		return SignInResult{}, err
	}
	if active {
		return s.fallback(ctx, FallbackQuota)
	}

	if err := s.pingWithRetry(ctx); err == nil {
		res, err := s.onlineLogin(ctx, username, password)
		if err == nil {
			return res, nil
		}
		switch {
		case errors.Is(err, client.ErrUnauthorized):
			return SignInResult{}, s.loginFailed(ctx, err)
		case errors.Is(err, client.ErrQuotaExceeded):
			if qerr := s.MarkQuotaExceeded(ctx, s.now()); qerr != nil {
				return SignInResult{}, qerr
			}
			return s.fallback(ctx, FallbackQuota)
		}
		s.logger.Warn(ctx, "online login failed, trying cached credentials", "error", err)
	} else {
		s.logger.Warn(ctx, "server unreachable, trying cached credentials", "error", err)
	}

	res, err := s.offlineLogin(ctx, username, password)
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, errNoCachedCredentials):
		return s.fallback(ctx, FallbackNoCachedKey)
	case errors.Is(err, client.ErrUnauthorized):
		return SignInResult{}, s.loginFailed(ctx, err)
	}
	return SignInResult{}, err
}

func (s *IdentityService) pingWithRetry(ctx context.Context) error {
	base := s.pingDelay
	return retry.Do(
		func() error { return s.client.Ping(ctx) },
		retry.Context(ctx),
		retry.Attempts(s.pingAttempts),
		retry.Delay(base),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return time.Duration(n+1) * base
		}),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			s.logger.Info(ctx, "ping failed, retrying", "attempt", attempt+1, "error", err)
		}),
	)
}

func (s *IdentityService) onlineLogin(ctx context.Context, username string, password []byte) (SignInResult, error) {
	salt, err := s.client.GetSalt(ctx, username)
	if err != nil {
		return SignInResult{}, fmt.Errorf("get salt error: %w", err)
	}

	key := cryptox.DeriveMasterKey(password, salt)
	verifier := cryptox.MakeVerifier(key)
	common.WipeByteArray(key)

	userID, err := s.client.Login(ctx, username, verifier)
	if err != nil {
		return SignInResult{}, fmt.Errorf("login error: %w", err)
	}

	if err := s.saveOfflineData(ctx, username, userID, salt, verifier); err != nil {
		return SignInResult{}, fmt.Errorf("offline data saving error: %w", err)
	}

	id := models.Identity{Kind: models.IdentityRemote, UserID: userID, Username: username}
	s.set(StateRemote, id, true, verifier)
	s.logger.Info(ctx, "signed in", "user", username)
	return SignInResult{Identity: id, Online: true}, nil
}

var errNoCachedCredentials = errors.New("no cached credentials")

func (s *IdentityService) offlineLogin(ctx context.Context, username string, password []byte) (SignInResult, error) {
	repo := s.repo()

	savedUsername, err := repo.Get(ctx, metadata.KeyUsername)
	if err != nil {
		return SignInResult{}, err
	}
	salt, err := repo.Get(ctx, metadata.KeySalt)
	if err != nil {
		return SignInResult{}, err
	}
	verifier, err := repo.Get(ctx, metadata.KeyVerifier)
	if err != nil {
		return SignInResult{}, err
	}
	userID, err := repo.Get(ctx, metadata.KeyRemoteUserID)
	if err != nil {
		return SignInResult{}, err
	}
	if len(savedUsername) == 0 || len(salt) == 0 || len(verifier) == 0 {
		return SignInResult{}, errNoCachedCredentials
	}
	if string(savedUsername) != username {
		return SignInResult{}, client.ErrUnauthorized
	}

	key, ok := cryptox.CheckPassword(password, salt, verifier)
	if !ok {
		return SignInResult{}, client.ErrUnauthorized
	}
	common.WipeByteArray(key)

	if err := s.resetAttempts(ctx); err != nil {
		return SignInResult{}, err
	}

	id := models.Identity{Kind: models.IdentityRemote, UserID: string(userID), Username: username}
	s.set(StateRemote, id, false, verifier)
	s.logger.Info(ctx, "signed in with cached credentials", "user", username)
	return SignInResult{Identity: id}, nil
}

// saveOfflineData persists what offline login needs in one transaction and
// resets the failed attempts counter. Ops queued by a different account are
// dropped.
func (s *IdentityService) saveOfflineData(ctx context.Context, username, userID string, salt, verifier []byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		prev, err := repo.Get(ctx, metadata.KeyRemoteUserID)
		if err != nil {
			return err
		}
		if len(prev) > 0 && string(prev) != userID {
			if err := outbox.NewSQLiteRepository(tx).Clear(ctx); err != nil {
				return err
			}
		}
		for k, v := range map[string][]byte{
			metadata.KeyUsername:     []byte(username),
			metadata.KeyRemoteUserID: []byte(userID),
			metadata.KeySalt:         salt,
			metadata.KeyVerifier:     verifier,
			metadata.KeyAuthAttempts: []byte("0"),
		} {
			if err := repo.Set(ctx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// loginFailed counts a failed attempt and signs out. Reaching the attempt
// limit starts the quota cooldown.
func (s *IdentityService) loginFailed(ctx context.Context, cause error) error {
	s.set(StateSignedOut, models.Identity{}, false, nil)

	repo := s.repo()
	n, err := s.attempts(ctx)
	if err != nil {
		return err
	}
	n++
	if err := repo.Set(ctx, metadata.KeyAuthAttempts, []byte(strconv.Itoa(n))); err != nil {
		return err
	}
	s.logger.Warn(ctx, "sign-in rejected", "attempts", n, "limit", s.maxAttempts)

	if n >= s.maxAttempts {
		if err := s.MarkQuotaExceeded(ctx, s.now()); err != nil {
			return err
		}
	}
	return fmt.Errorf("sign in: %w", cause)
}

func (s *IdentityService) attempts(ctx context.Context) (int, error) {
	b, err := s.repo().Get(ctx, metadata.KeyAuthAttempts)
	if err != nil || len(b) == 0 {
		return 0, err
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (s *IdentityService) resetAttempts(ctx context.Context) error {
	return s.repo().Set(ctx, metadata.KeyAuthAttempts, []byte("0"))
}

func (s *IdentityService) fallback(ctx context.Context, reason string) (SignInResult, error) {
	id, err := s.UseLocal(ctx)
	if err != nil {
		return SignInResult{}, err
	}
	s.logger.Info(ctx, "using local identity", "reason", reason)
	return SignInResult{Identity: id, Fallback: reason}, nil
}

// UseLocal switches to the local identity, creating it on first use. The id
// is kept across runs.
func (s *IdentityService) UseLocal(ctx context.Context) (models.Identity, error) {
	repo := s.repo()
	b, err := repo.Get(ctx, metadata.KeyLocalUserID)
	if err != nil {
		return models.Identity{}, err
	}
	userID := string(b)
	if userID == "" {
		userID = fmt.Sprintf("local-%d", s.now().UnixMilli())
		if err := repo.Set(ctx, metadata.KeyLocalUserID, []byte(userID)); err != nil {
			return models.Identity{}, err
		}
	}

	id := models.Identity{Kind: models.IdentityLocal, UserID: userID}
	s.set(StateLocal, id, false, nil)
	return id, nil
}

// Register creates a new account on the server. It generates a random salt,
// derives a master key from the password and sends only salt and verifier.
func (s *IdentityService) Register(ctx context.Context, username string, password []byte) error {
	salt := cryptox.NewSalt()
	key := cryptox.DeriveMasterKey(password, salt)
	verifier := cryptox.MakeVerifier(key)
	common.WipeByteArray(key)

	return s.client.Register(ctx, username, salt, verifier)
}

// Reconnect logs in again with the session verifier, typically after an
// offline sign-in once the server is back.
func (s *IdentityService) Reconnect(ctx context.Context) error {
	s.mu.Lock()
	id, verifier, state := s.identity, s.verifier, s.state
	s.mu.Unlock()

	if state != StateRemote || len(verifier) == 0 {
		return client.ErrUnauthorized
	}

	userID, err := s.client.Login(ctx, id.Username, verifier)
	if err != nil {
		return err
	}
	if userID != "" {
		id.UserID = userID
	}
	s.set(StateRemote, id, true, verifier)
	s.logger.Info(ctx, "reconnected", "user", id.Username)
	return nil
}

// SignOut forgets cached credentials and the pending remote ops, which were
// authored by the signed-out account. Notes stay on disk.
func (s *IdentityService) SignOut(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for _, k := range []string{metadata.KeyUsername, metadata.KeyRemoteUserID, metadata.KeySalt, metadata.KeyVerifier} {
			if err := repo.Delete(ctx, k); err != nil {
				return err
			}
		}
		return outbox.NewSQLiteRepository(tx).Clear(ctx)
	})
	if err != nil {
		return err
	}
	s.set(StateSignedOut, models.Identity{}, false, nil)
	return nil
}

// MarkQuotaExceeded starts the cooldown: remote sign-in is refused until
// now + common.QuotaCooldown.
func (s *IdentityService) MarkQuotaExceeded(ctx context.Context, now time.Time) error {
	reset := now.Add(common.QuotaCooldown)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, metadata.KeyQuotaExceeded, []byte("true")); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeyQuotaResetTime, []byte(reset.UTC().Format(time.RFC3339)))
	})
	if err != nil {
		return err
	}
	s.logger.Warn(ctx, "quota cooldown started", "until", reset)
	return nil
}

// QuotaActive reports whether the cooldown is running. An expired cooldown is
// cleared together with the failed attempts counter.
func (s *IdentityService) QuotaActive(ctx context.Context) (bool, error) {
	repo := s.repo()
	flag, err := repo.Get(ctx, metadata.KeyQuotaExceeded)
	if err != nil {
		return false, err
	}
	if string(flag) != "true" {
		return false, nil
	}

	raw, err := repo.Get(ctx, metadata.KeyQuotaResetTime)
	if err != nil {
		return false, err
	}
	reset, perr := time.Parse(time.RFC3339, string(raw))
	if perr == nil && s.now().Before(reset) {
		return true, nil
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for _, k := range []string{metadata.KeyQuotaExceeded, metadata.KeyQuotaResetTime} {
			if err := repo.Delete(ctx, k); err != nil {
				return err
			}
		}
		return repo.Set(ctx, metadata.KeyAuthAttempts, []byte("0"))
	})
	return false, err
}

// Ping proxies a liveness check to the underlying client.
func (s *IdentityService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (s *IdentityService) Close() error {
	return s.client.Close()
}
