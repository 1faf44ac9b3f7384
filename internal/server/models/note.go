package models

import "time"

// Note is a stored note of one owner. Lock fields are nil for unlocked notes.
type Note struct {
	UserID       string
	ID           string
	Collection   string
	Heading      string
	Body         string
	LockSalt     []byte
	LockVerifier []byte
	LockSealed   []byte
	LockNonce    []byte
	CreatedAt    time.Time
	TrashedAt    *time.Time
	Position     int
	UpdatedAt    time.Time
}

// Locked reports whether the note carries a lock.
func (n *Note) Locked() bool {
	return len(n.LockVerifier) > 0
}
