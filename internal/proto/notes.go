package proto

// Note is the wire form of a note. Timestamps are Unix milliseconds; zero
// means unset.
type Note struct {
	Id           string
	Heading      string
	Text         string
	OwnerId      string
	CreatedAt    int64
	UpdatedAt    int64
	TrashedAt    int64
	LockSalt     []byte
	LockVerifier []byte
	Sealed       []byte
	Nonce        []byte
}

func (m *Note) GetId() string {
	if m == nil {
		return ""
	}
	return m.Id
}

func (m *Note) MarshalWire() ([]byte, error) {
	if m == nil {
		return nil, errNilMessage
	}
	var b []byte
	b = appendString(b, 1, m.Id)
	b = appendString(b, 2, m.Heading)
	b = appendString(b, 3, m.Text)
	b = appendString(b, 4, m.OwnerId)
	b = appendInt64(b, 5, m.CreatedAt)
	b = appendInt64(b, 6, m.UpdatedAt)
	b = appendInt64(b, 7, m.TrashedAt)
	b = appendBytes(b, 8, m.LockSalt)
	b = appendBytes(b, 9, m.LockVerifier)
	b = appendBytes(b, 10, m.Sealed)
	b = appendBytes(b, 11, m.Nonce)
	return b, nil
}

func (m *Note) UnmarshalWire(b []byte) error {
	*m = Note{}
	return walk(b, func(f field) error {
		switch {
		case f.num == 1 && f.isBytes():
			m.Id = f.str()
		case f.num == 2 && f.isBytes():
			m.Heading = f.str()
		case f.num == 3 && f.isBytes():
			m.Text = f.str()
		case f.num == 4 && f.isBytes():
			m.OwnerId = f.str()
		case f.num == 5 && f.isVarint():
			m.CreatedAt = f.int64()
		case f.num == 6 && f.isVarint():
			m.UpdatedAt = f.int64()
		case f.num == 7 && f.isVarint():
			m.TrashedAt = f.int64()
		case f.num == 8 && f.isBytes():
			m.LockSalt = f.blob()
		case f.num == 9 && f.isBytes():
			m.LockVerifier = f.blob()
		case f.num == 10 && f.isBytes():
			m.Sealed = f.blob()
		case f.num == 11 && f.isBytes():
			m.Nonce = f.blob()
		}
		return nil
	})
}

type CheckAccessRequest struct{}

func (m *CheckAccessRequest) MarshalWire() ([]byte, error) { return nil, nil }
func (m *CheckAccessRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(field) error { return nil })
}

type CheckAccessResponse struct {
	UserId string
}

func (m *CheckAccessResponse) GetUserId() string {
	if m == nil {
		return ""
	}
	return m.UserId
}

func (m *CheckAccessResponse) MarshalWire() ([]byte, error) {
	return appendString(nil, 1, m.UserId), nil
}

func (m *CheckAccessResponse) UnmarshalWire(b []byte) error {
	*m = CheckAccessResponse{}
	return walk(b, func(f field) error {
		if f.num == 1 && f.isBytes() {
			m.UserId = f.str()
		}
		return nil
	})
}

type PutNoteRequest struct {
	Collection string
	Note       *Note
}

func (m *PutNoteRequest) MarshalWire() ([]byte, error) {
	b := appendString(nil, 1, m.Collection)
	if m.Note != nil {
		return appendMessage(b, 2, m.Note)
	}
	return b, nil
}

func (m *PutNoteRequest) UnmarshalWire(b []byte) error {
	*m = PutNoteRequest{}
	return walk(b, func(f field) error {
		switch {
		case f.num == 1 && f.isBytes():
			m.Collection = f.str()
		case f.num == 2 && f.isBytes():
			m.Note = &Note{}
			return m.Note.UnmarshalWire(f.bytes)
		}
		return nil
	})
}

type PutNoteResponse struct {
	UpdatedAt int64
}

func (m *PutNoteResponse) MarshalWire() ([]byte, error) {
	return appendInt64(nil, 1, m.UpdatedAt), nil
}

func (m *PutNoteResponse) UnmarshalWire(b []byte) error {
	*m = PutNoteResponse{}
	return walk(b, func(f field) error {
		if f.num == 1 && f.isVarint() {
			m.UpdatedAt = f.int64()
		}
		return nil
	})
}

type DeleteNoteRequest struct {
	Id string
}

func (m *DeleteNoteRequest) MarshalWire() ([]byte, error) {
	return appendString(nil, 1, m.Id), nil
}

func (m *DeleteNoteRequest) UnmarshalWire(b []byte) error {
	*m = DeleteNoteRequest{}
	return walk(b, func(f field) error {
		if f.num == 1 && f.isBytes() {
			m.Id = f.str()
		}
		return nil
	})
}

type DeleteNoteResponse struct{}

func (m *DeleteNoteResponse) MarshalWire() ([]byte, error) { return nil, nil }
func (m *DeleteNoteResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(field) error { return nil })
}

type ClearCollectionRequest struct {
	Collection string
}

func (m *ClearCollectionRequest) MarshalWire() ([]byte, error) {
	return appendString(nil, 1, m.Collection), nil
}

func (m *ClearCollectionRequest) UnmarshalWire(b []byte) error {
	*m = ClearCollectionRequest{}
	return walk(b, func(f field) error {
		if f.num == 1 && f.isBytes() {
			m.Collection = f.str()
		}
		return nil
	})
}

type ClearCollectionResponse struct {
	Deleted int64
}

func (m *ClearCollectionResponse) MarshalWire() ([]byte, error) {
	return appendInt64(nil, 1, m.Deleted), nil
}

func (m *ClearCollectionResponse) UnmarshalWire(b []byte) error {
	*m = ClearCollectionResponse{}
	return walk(b, func(f field) error {
		if f.num == 1 && f.isVarint() {
			m.Deleted = f.int64()
		}
		return nil
	})
}

type ReorderNotesRequest struct {
	Collection string
	Ids        []string
}

func (m *ReorderNotesRequest) MarshalWire() ([]byte, error) {
	b := appendString(nil, 1, m.Collection)
	for _, id := range m.Ids {
		b = appendString(b, 2, id)
	}
	return b, nil
}

func (m *ReorderNotesRequest) UnmarshalWire(b []byte) error {
	*m = ReorderNotesRequest{}
	return walk(b, func(f field) error {
		switch {
		case f.num == 1 && f.isBytes():
			m.Collection = f.str()
		case f.num == 2 && f.isBytes():
			m.Ids = append(m.Ids, f.str())
		}
		return nil
	})
}

type ReorderNotesResponse struct{}

func (m *ReorderNotesResponse) MarshalWire() ([]byte, error) { return nil, nil }
func (m *ReorderNotesResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(field) error { return nil })
}

type ListNotesRequest struct {
	Collection string
}

func (m *ListNotesRequest) MarshalWire() ([]byte, error) {
	return appendString(nil, 1, m.Collection), nil
}

func (m *ListNotesRequest) UnmarshalWire(b []byte) error {
	*m = ListNotesRequest{}
	return walk(b, func(f field) error {
		if f.num == 1 && f.isBytes() {
			m.Collection = f.str()
		}
		return nil
	})
}

type ListNotesResponse struct {
	Notes []*Note
}

func (m *ListNotesResponse) GetNotes() []*Note {
	if m == nil {
		return nil
	}
	return m.Notes
}

func (m *ListNotesResponse) MarshalWire() ([]byte, error) {
	var (
		b   []byte
		err error
	)
	for _, n := range m.Notes {
		if n == nil {
			continue
		}
		if b, err = appendMessage(b, 1, n); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (m *ListNotesResponse) UnmarshalWire(b []byte) error {
	*m = ListNotesResponse{}
	return walk(b, func(f field) error {
		if f.num == 1 && f.isBytes() {
			n := &Note{}
			if err := n.UnmarshalWire(f.bytes); err != nil {
				return err
			}
			m.Notes = append(m.Notes, n)
		}
		return nil
	})
}

type ExportNotesRequest struct{}

func (m *ExportNotesRequest) MarshalWire() ([]byte, error) { return nil, nil }
func (m *ExportNotesRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(field) error { return nil })
}

type ExportNotesResponse struct {
	Key string
	Url string
}

func (m *ExportNotesResponse) GetUrl() string {
	if m == nil {
		return ""
	}
	return m.Url
}

func (m *ExportNotesResponse) MarshalWire() ([]byte, error) {
	b := appendString(nil, 1, m.Key)
	return appendString(b, 2, m.Url), nil
}

func (m *ExportNotesResponse) UnmarshalWire(b []byte) error {
	*m = ExportNotesResponse{}
	return walk(b, func(f field) error {
		switch {
		case f.num == 1 && f.isBytes():
			m.Key = f.str()
		case f.num == 2 && f.isBytes():
			m.Url = f.str()
		}
		return nil
	})
}
