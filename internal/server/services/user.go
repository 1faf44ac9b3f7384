// Package services holds the server business logic: accounts and tokens,
// note storage with a write quota, and snapshot export to object storage.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

// saltSize is the length of the decoy salt returned for unknown users.
const saltSize = 16

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

// RefreshToken rotates refreshToken: the old token is deleted and a new pair
// is issued in the same transaction. Unknown tokens yield
// common.ErrorUnauthorized and expired ones common.ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expired(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Register creates a user. A taken username yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username string, salt, verifier []byte) (*models.User, error) {
	user := &models.User{UserName: username, Salt: salt, Verifier: verifier}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// GetSalt returns the stored salt, or a random one for unknown users so the
// answer does not reveal whether the account exists.
func (s *UserService) GetSalt(ctx context.Context, userName string) ([]byte, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.GenerateRandByteArray(saltSize), nil
		}
		return nil, common.ErrorInternal
	}
	return user.Salt, nil
}

// Login compares verifierCandidate with the stored verifier in constant time
// and issues a token pair on success. Expired refresh tokens of the user are
// dropped on the way.
func (s *UserService) Login(ctx context.Context, userName string, verifierCandidate []byte) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if subtle.ConstantTimeCompare(user.Verifier, verifierCandidate) != 1 {
		return nil, common.ErrorUnauthorized
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.RefreshTokens(tx).DeleteExpired(ctx, user.ID, s.now()); err != nil {
			return common.ErrorInternal
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user.ID, tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// UserIDFromAccessToken validates an access token issued by this service.
func (s *UserService) UserIDFromAccessToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	expires := s.now().Add(s.refreshTokenValidityDuration)
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, expires); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{UserID: userID, AccessToken: access, RefreshToken: refresh}, nil
}
