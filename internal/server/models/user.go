// Package models holds the rows stored by the server repositories.
package models

import "time"

type User struct {
	ID        string
	UserName  string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}
