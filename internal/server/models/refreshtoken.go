package models

import "time"

type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is no longer valid at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.Expires)
}
