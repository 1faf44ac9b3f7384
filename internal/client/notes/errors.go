package notes

import "errors"

var (
	ErrNotFound          = errors.New("note not found")
	ErrEmptyNote         = errors.New("note heading and text are both empty")
	ErrNoteLocked        = errors.New("note is locked")
	ErrNoteNotLocked     = errors.New("note is not locked")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrPasswordTooShort  = errors.New("password is too short")
	ErrIndexOutOfRange   = errors.New("index out of range")

	// ErrSyncUnavailable is returned by operations that need the server when
	// no remote identity is signed in or remote writes are disabled.
	ErrSyncUnavailable = errors.New("remote sync unavailable")
)

var errNoChange = errors.New("no change")
