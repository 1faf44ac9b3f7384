package notes

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// Change is the outcome of a reducer: the next state and the remote
// operations that mirror it.
type Change struct {
	State models.Collections
	Ops   []models.Op
}

// AddNote puts n at the front of the active collection.
func AddNote(s models.Collections, n models.Note) (Change, error) {
	if n.Heading == "" && n.Text == "" {
		return Change{}, ErrEmptyNote
	}
	next := s.Clone()
	next.Active = prepend(next.Active, n)
	return withOps(next, putOp(common.CollectionActive, n))
}

// UpdateNote replaces heading and text of an active or archived note in place.
func UpdateNote(s models.Collections, id, heading, text string, now time.Time) (Change, error) {
	if heading == "" && text == "" {
		return Change{}, ErrEmptyNote
	}
	coll, idx, ok := s.Find(id)
	if !ok || coll == common.CollectionTrashed {
		return Change{}, ErrNotFound
	}

	next := s.Clone()
	notes := next.Get(coll)
	n := notes[idx]
	if n.Locked() {
		return Change{}, ErrNoteLocked
	}
	n.Heading = heading
	n.Text = text
	n.UpdatedAt = now
	notes[idx] = n

	return withOps(next, putOp(coll, n))
}

// TrashNote moves an active or archived note to the front of the trash.
func TrashNote(s models.Collections, id string, now time.Time) (Change, error) {
	coll, _, ok := s.Find(id)
	if !ok || coll == common.CollectionTrashed {
		return Change{}, ErrNotFound
	}
	return move(s, id, coll, common.CollectionTrashed, func(n *models.Note) {
		t := now
		n.TrashedAt = &t
		n.UpdatedAt = now
	})
}

// ArchiveNote moves an active note to the front of the archive.
func ArchiveNote(s models.Collections, id string, now time.Time) (Change, error) {
	return move(s, id, common.CollectionActive, common.CollectionArchived, touch(now))
}

// UnarchiveNote moves an archived note to the front of the active collection.
func UnarchiveNote(s models.Collections, id string, now time.Time) (Change, error) {
	return move(s, id, common.CollectionArchived, common.CollectionActive, touch(now))
}

// RestoreNote moves a trashed note to the front of the active collection.
func RestoreNote(s models.Collections, id string, now time.Time) (Change, error) {
	return move(s, id, common.CollectionTrashed, common.CollectionActive, func(n *models.Note) {
		n.TrashedAt = nil
		n.UpdatedAt = now
	})
}

// PurgeNote deletes a trashed note permanently.
func PurgeNote(s models.Collections, id string) (Change, error) {
	idx := indexOf(s.Trashed, id)
	if idx < 0 {
		return Change{}, ErrNotFound
	}
	next := s.Clone()
	next.Trashed = slices.Delete(next.Trashed, idx, idx+1)
	return withOps(next, plainOp(models.Op{Kind: models.OpDelete, NoteID: id}))
}

// EmptyTrash drops every trashed note.
func EmptyTrash(s models.Collections) (Change, error) {
	next := s.Clone()
	next.Trashed = []models.Note{}
	return withOps(next, plainOp(models.Op{Kind: models.OpClear, Collection: common.CollectionTrashed}))
}

// MoveActive moves an active note to index, shifting the others.
func MoveActive(s models.Collections, id string, index int) (Change, error) {
	from := indexOf(s.Active, id)
	if from < 0 {
		return Change{}, ErrNotFound
	}
	if index < 0 || index >= len(s.Active) {
		return Change{}, ErrIndexOutOfRange
	}

	next := s.Clone()
	n := next.Active[from]
	next.Active = slices.Delete(next.Active, from, from+1)
	next.Active = slices.Insert(next.Active, index, n)

	return withOps(next, reorderOp(common.CollectionActive, next.Active))
}

// ReplaceNote swaps an active or archived note for n, keeping its position.
// It backs locking and unlocking, where the new note is computed outside.
func ReplaceNote(s models.Collections, n models.Note) (Change, error) {
	coll, idx, ok := s.Find(n.ID)
	if !ok || coll == common.CollectionTrashed {
		return Change{}, ErrNotFound
	}
	next := s.Clone()
	next.Get(coll)[idx] = n
	return withOps(next, putOp(coll, n))
}

// PurgeExpired drops trashed notes trashed before cutoff. Notes without a
// trash time are kept.
func PurgeExpired(s models.Collections, cutoff time.Time) (Change, []string) {
	next := s.Clone()
	var (
		kept   = make([]models.Note, 0, len(next.Trashed))
		purged []string
		ops    []models.Op
	)
	for _, n := range next.Trashed {
		if n.TrashedAt != nil && n.TrashedAt.Before(cutoff) {
			purged = append(purged, n.ID)
			ops = append(ops, models.Op{Kind: models.OpDelete, NoteID: n.ID})
			continue
		}
		kept = append(kept, n)
	}
	next.Trashed = kept
	return Change{State: next, Ops: ops}, purged
}

// SeedOps returns puts for every note of s. Each collection is emitted back
// to front because the server places new notes at the front.
func SeedOps(s models.Collections) ([]models.Op, error) {
	var ops []models.Op
	for _, coll := range common.Collections {
		notes := s.Get(coll)
		for i := len(notes) - 1; i >= 0; i-- {
			op, err := encodePut(coll, notes[i])
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
	}
	return ops, nil
}

// MergeRemote takes the server's collections as the base and keeps every
// local note the server does not know about, at the front of its local
// collection in local order. The ops push those notes to the server.
func MergeRemote(remote, local models.Collections) (Change, error) {
	next := remote.Clone()
	var ops []pendingOp
	for _, coll := range common.Collections {
		var missing []models.Note
		for _, n := range local.Get(coll) {
			if _, _, ok := remote.Find(n.ID); !ok {
				missing = append(missing, n.Clone())
			}
		}
		if len(missing) == 0 {
			continue
		}
		next = next.With(coll, append(missing, next.Get(coll)...))
		for i := len(missing) - 1; i >= 0; i-- {
			ops = append(ops, putOp(coll, missing[i]))
		}
	}
	return withOps(next, ops...)
}

func move(s models.Collections, id, from, to string, mutate func(*models.Note)) (Change, error) {
	src := s.Get(from)
	idx := indexOf(src, id)
	if idx < 0 {
		return Change{}, ErrNotFound
	}

	next := s.Clone()
	src = next.Get(from)
	n := src[idx]
	mutate(&n)

	next = next.With(from, slices.Delete(src, idx, idx+1))
	next = next.With(to, prepend(next.Get(to), n))

	return withOps(next, putOp(to, n))
}

func touch(now time.Time) func(*models.Note) {
	return func(n *models.Note) { n.UpdatedAt = now }
}

func prepend(notes []models.Note, n models.Note) []models.Note {
	out := make([]models.Note, 0, len(notes)+1)
	out = append(out, n)
	return append(out, notes...)
}

func indexOf(notes []models.Note, id string) int {
	return slices.IndexFunc(notes, func(n models.Note) bool { return n.ID == id })
}

// pendingOp is an op whose payload has not been encoded yet.
type pendingOp struct {
	op   models.Op
	note *models.Note
	ids  []string
}

func plainOp(op models.Op) pendingOp {
	return pendingOp{op: op}
}

func putOp(coll string, n models.Note) pendingOp {
	return pendingOp{op: models.Op{Kind: models.OpPut, Collection: coll, NoteID: n.ID}, note: &n}
}

func reorderOp(coll string, notes []models.Note) pendingOp {
	ids := make([]string, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	return pendingOp{op: models.Op{Kind: models.OpReorder, Collection: coll}, ids: ids}
}

func encodePut(coll string, n models.Note) (models.Op, error) {
	return putOp(coll, n).encode()
}

func (p pendingOp) encode() (models.Op, error) {
	var (
		b   []byte
		err error
	)
	switch {
	case p.note != nil:
		b, err = json.Marshal(p.note)
	case p.ids != nil:
		b, err = json.Marshal(p.ids)
	}
	if err != nil {
		return models.Op{}, err
	}
	op := p.op
	op.Payload = b
	return op, nil
}

func withOps(next models.Collections, ops ...pendingOp) (Change, error) {
	out := make([]models.Op, 0, len(ops))
	for _, p := range ops {
		op, err := p.encode()
		if err != nil {
			return Change{}, err
		}
		out = append(out, op)
	}
	return Change{State: next, Ops: out}, nil
}
