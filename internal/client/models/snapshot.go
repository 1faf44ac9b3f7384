package models

import "time"

// Snapshot is the export document: every collection at one point in time.
// The server writes the same shape.
type Snapshot struct {
	ExportedAt time.Time `json:"exported_at"`
	Collections
}
