package models

import "time"

// OpKind names a remote operation recorded in the outbox.
type OpKind string

const (
	OpPut     OpKind = "put"
	OpDelete  OpKind = "delete"
	OpClear   OpKind = "clear"
	OpReorder OpKind = "reorder"
)

// Op is one pending remote operation. Payload is the JSON note for OpPut and
// the JSON id list for OpReorder; it is empty otherwise.
type Op struct {
	Seq        int64
	Kind       OpKind
	Collection string
	NoteID     string
	Payload    []byte
	CreatedAt  time.Time
}
