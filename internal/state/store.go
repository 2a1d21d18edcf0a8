// Package state persists documents between editing sessions using
// SQLite. Sheets are stored as JSON snapshots of the document model; the
// store knows nothing about engine history.
package state

import (
	"time"

	"github.com/gridforge-labs/gridforge/internal/document"
)

// DocumentInfo is the listing metadata for a stored document.
type DocumentInfo struct {
	ID        string
	Name      string
	Sheets    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store loads and saves documents at session boundaries.
type Store interface {
	// Open prepares the store at the given path (":memory:" for tests).
	Open(path string) error

	// InitSchema creates the tables when missing.
	InitSchema() error

	// SaveDocument upserts a document and its sheet snapshots.
	SaveDocument(id, name string, sheets []*document.Sheet) error

	// LoadDocument returns the sheets of a stored document in order.
	LoadDocument(id string) ([]*document.Sheet, error)

	// ListDocuments returns metadata for all stored documents.
	ListDocuments() ([]DocumentInfo, error)

	// DeleteDocument removes a document and its sheets.
	DeleteDocument(id string) error

	// Close releases the underlying database.
	Close() error
}
