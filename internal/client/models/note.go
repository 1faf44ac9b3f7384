// Package models defines the client-side note model, the note collections and
// the pending remote operations kept in the outbox.
package models

import (
	"slices"
	"time"
)

// Lock holds what is needed to verify a note password and to recover the
// note text. The plain text is never stored while a lock is present.
type Lock struct {
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
	Sealed   []byte `json:"sealed"`
	Nonce    []byte `json:"nonce"`
}

type Note struct {
	ID        string     `json:"id"`
	Heading   string     `json:"heading"`
	Text      string     `json:"text"`
	OwnerID   string     `json:"ownerId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	TrashedAt *time.Time `json:"trashedAt,omitempty"`
	Lock      *Lock      `json:"lock,omitempty"`
}

// Locked reports whether the note is password protected.
func (n Note) Locked() bool {
	return n.Lock != nil
}

// Clone returns a deep copy of n.
func (n Note) Clone() Note {
	c := n
	if n.TrashedAt != nil {
		t := *n.TrashedAt
		c.TrashedAt = &t
	}
	if n.Lock != nil {
		c.Lock = &Lock{
			Salt:     slices.Clone(n.Lock.Salt),
			Verifier: slices.Clone(n.Lock.Verifier),
			Sealed:   slices.Clone(n.Lock.Sealed),
			Nonce:    slices.Clone(n.Lock.Nonce),
		}
	}
	return c
}
