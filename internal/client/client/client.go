package client

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// Client is the remote document store as seen by the note state container
// and the identity wrapper.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Register(ctx context.Context, username string, salt []byte, verifier []byte) error
	GetSalt(ctx context.Context, username string) ([]byte, error)
	// Login authenticates with a verifier candidate and returns the user id.
	Login(ctx context.Context, username string, verifier []byte) (string, error)
	// CheckAccess confirms the session is still accepted and returns the user id.
	CheckAccess(ctx context.Context) (string, error)

	PutNote(ctx context.Context, collection string, note models.Note) error
	DeleteNote(ctx context.Context, id string) error
	ClearCollection(ctx context.Context, collection string) error
	ReorderNotes(ctx context.Context, collection string, ids []string) error
	ListNotes(ctx context.Context, collection string) ([]models.Note, error)
	// ExportNotes uploads a snapshot of every collection and returns a
	// presigned download URL.
	ExportNotes(ctx context.Context) (string, error)
}
