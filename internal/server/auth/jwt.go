// Package auth issues and verifies the HS256 access tokens handed out at login.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Issuer is written into every access token and checked on parse.
const Issuer = "gophnotes"

// Claims carries the owner id next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// GenerateToken signs a token for userID that expires validity after now.
func GenerateToken(userID string, secretKey []byte, validity time.Duration) (string, error) {
	return generateTokenAt(userID, secretKey, validity, time.Now())
}

func generateTokenAt(userID string, secretKey []byte, validity time.Duration, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID: userID,
	})
	return token.SignedString(secretKey)
}

// GetUserIDFromToken validates tokenString and returns its owner id. Expired
// tokens yield common.ErrTokenExpired; anything else that fails validation
// yields common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
