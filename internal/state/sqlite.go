package state

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/gridforge-labs/gridforge/internal/document"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a document id is not in the store.
var ErrNotFound = errors.New("document not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a store instance. Open must be called before use.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens the SQLite database. Use ":memory:" for an in-memory store.
func (s *SQLiteStore) Open(path string) error {
	dsn := "file::memory:?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Each new pool connection to :memory: would get its own empty
		// database, so keep the store on a single connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("session store opened", "path", path)
	return nil
}

// InitSchema initializes the database schema.
func (s *SQLiteStore) InitSchema() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveDocument upserts the document row and replaces its sheet snapshots
// in one transaction.
func (s *SQLiteStore) SaveDocument(id, name string, sheets []*document.Sheet) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO documents (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
		id, name, now, now)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM sheets WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("clear sheets: %w", err)
	}

	for i, sheet := range sheets {
		snapshot, err := json.Marshal(sheet)
		if err != nil {
			return fmt.Errorf("marshal sheet %s: %w", sheet.ID, err)
		}
		_, err = tx.Exec(`INSERT INTO sheets (id, document_id, position, snapshot) VALUES (?, ?, ?, ?)`,
			sheet.ID, id, i, string(snapshot))
		if err != nil {
			return fmt.Errorf("insert sheet %s: %w", sheet.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	s.logger.Debug("document saved", "document_id", id, "sheets", len(sheets))
	return nil
}

// LoadDocument returns the document's sheets in stored order.
func (s *SQLiteStore) LoadDocument(id string) ([]*document.Sheet, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	var exists int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM documents WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("query document: %w", err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	rows, err := s.db.Query(`SELECT snapshot FROM sheets WHERE document_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query sheets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sheets []*document.Sheet
	for rows.Next() {
		var snapshot string
		if err := rows.Scan(&snapshot); err != nil {
			return nil, fmt.Errorf("scan sheet: %w", err)
		}
		var sheet document.Sheet
		if err := json.Unmarshal([]byte(snapshot), &sheet); err != nil {
			return nil, fmt.Errorf("unmarshal sheet: %w", err)
		}
		sheets = append(sheets, &sheet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sheets: %w", err)
	}
	return sheets, nil
}

// ListDocuments returns metadata for every stored document.
func (s *SQLiteStore) ListDocuments() ([]DocumentInfo, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	rows, err := s.db.Query(`
		SELECT d.id, d.name, d.created_at, d.updated_at, COUNT(s.id)
		FROM documents d
		LEFT JOIN sheets s ON s.document_id = d.id
		GROUP BY d.id
		ORDER BY d.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []DocumentInfo
	for rows.Next() {
		var info DocumentInfo
		var created, updated string
		if err := rows.Scan(&info.ID, &info.Name, &created, &updated, &info.Sheets); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339, created)
		info.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		docs = append(docs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document; sheets cascade.
func (s *SQLiteStore) DeleteDocument(id string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	res, err := s.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.logger.Debug("document deleted", "document_id", id)
	return nil
}
