package models

import "time"

// ExportLock is the lock part of an exported note.
type ExportLock struct {
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
	Sealed   []byte `json:"sealed"`
	Nonce    []byte `json:"nonce"`
}

// ExportNote is a note as written into a snapshot file. The layout matches
// the client's local export so both can be read by the same tools.
type ExportNote struct {
	ID        string      `json:"id"`
	Heading   string      `json:"heading"`
	Text      string      `json:"text"`
	OwnerID   string      `json:"ownerId,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	TrashedAt *time.Time  `json:"trashedAt,omitempty"`
	Lock      *ExportLock `json:"lock,omitempty"`
}

// Snapshot is the JSON document uploaded by an export.
type Snapshot struct {
	ExportedAt time.Time    `json:"exported_at"`
	Active     []ExportNote `json:"active"`
	Archived   []ExportNote `json:"archived"`
	Trashed    []ExportNote `json:"trashed"`
}

// ToExport converts a stored note into its snapshot form.
func (n *Note) ToExport() ExportNote {
	out := ExportNote{
		ID:        n.ID,
		Heading:   n.Heading,
		Text:      n.Body,
		OwnerID:   n.UserID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		TrashedAt: n.TrashedAt,
	}
	if n.Locked() {
		out.Lock = &ExportLock{
			Salt:     n.LockSalt,
			Verifier: n.LockVerifier,
			Sealed:   n.LockSealed,
			Nonce:    n.LockNonce,
		}
	}
	return out
}
