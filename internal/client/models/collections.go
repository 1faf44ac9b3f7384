package models

import "github.com/dmitrijs2005/gophnotes/internal/common"

// Collections is the full note state: three disjoint, ordered lists.
type Collections struct {
	Active   []Note `json:"active"`
	Archived []Note `json:"archived"`
	Trashed  []Note `json:"trashed"`
}

// Get returns the notes of the named collection, or nil for an unknown name.
func (c Collections) Get(name string) []Note {
	switch name {
	case common.CollectionActive:
		return c.Active
	case common.CollectionArchived:
		return c.Archived
	case common.CollectionTrashed:
		return c.Trashed
	}
	return nil
}

// With returns a copy of c where the named collection is replaced by notes.
func (c Collections) With(name string, notes []Note) Collections {
	switch name {
	case common.CollectionActive:
		c.Active = notes
	case common.CollectionArchived:
		c.Archived = notes
	case common.CollectionTrashed:
		c.Trashed = notes
	}
	return c
}

func (c Collections) Len() int {
	return len(c.Active) + len(c.Archived) + len(c.Trashed)
}

// Find locates a note by id across all collections.
func (c Collections) Find(id string) (collection string, index int, ok bool) {
	for _, name := range common.Collections {
		for i, n := range c.Get(name) {
			if n.ID == id {
				return name, i, true
			}
		}
	}
	return "", -1, false
}

// Clone deep-copies every collection.
func (c Collections) Clone() Collections {
	return Collections{
		Active:   cloneNotes(c.Active),
		Archived: cloneNotes(c.Archived),
		Trashed:  cloneNotes(c.Trashed),
	}
}

func cloneNotes(in []Note) []Note {
	out := make([]Note, len(in))
	for i, n := range in {
		out[i] = n.Clone()
	}
	return out
}
