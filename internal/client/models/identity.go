package models

// IdentityKind tells how the current user was established.
type IdentityKind string

const (
	IdentityRemote IdentityKind = "remote"
	IdentityLocal  IdentityKind = "local"
)

// Identity is the user the note state belongs to. The zero value means no
// identity has been established yet.
type Identity struct {
	Kind     IdentityKind
	UserID   string
	Username string
}

func (i Identity) IsRemote() bool { return i.Kind == IdentityRemote }

func (i Identity) String() string {
	switch i.Kind {
	case IdentityRemote:
		return i.Username
	case IdentityLocal:
		return "local"
	}
	return "anonymous"
}
