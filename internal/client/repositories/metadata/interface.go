// Package metadata stores the client's local key/value state in SQLite: the
// JSON-encoded note collections, the local identity and the cached login
// material.
package metadata

import (
	"context"
)

// Keys of the metadata table.
const (
	KeyActiveNotes   = "notes"
	KeyArchivedNotes = "archiveNotes"
	KeyTrashedNotes  = "deletedNotes"

	KeyLocalUserID = "localUserId"

	KeyQuotaExceeded  = "quotaExceeded"
	KeyQuotaResetTime = "quotaResetTime"
	KeyAuthAttempts   = "authAttempts"

	KeyUsername     = "username"
	KeySalt         = "salt"
	KeyVerifier     = "verifier"
	KeyRemoteUserID = "remoteUserId"

	// KeyRevision counts note commits; any writer bumps it.
	KeyRevision = "revision"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// GetJSON decodes the value under key into v. It reports false when the
	// key is absent.
	GetJSON(ctx context.Context, key string, v any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
}
