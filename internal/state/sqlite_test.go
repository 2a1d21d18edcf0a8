package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridforge-labs/gridforge/internal/document"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.InitSchema())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleSheets(t *testing.T) []*document.Sheet {
	t.Helper()
	items := document.NewSheet("items")
	name := document.NewColumn("Name", document.TypeText)
	items.Columns = []*document.Column{name}
	items.ReindexColumns()
	row := document.NewRow(items.Columns)
	row.Cells[name.ID].Value = "Sword"
	items.Rows = []*document.Row{row}
	items.ReindexRows()

	enemies := document.NewSheet("enemies")
	return []*document.Sheet{items, enemies}
}

func TestSaveAndLoadDocument(t *testing.T) {
	store := openStore(t)
	sheets := sampleSheets(t)
	docID := document.NewID()

	require.NoError(t, store.SaveDocument(docID, "campaign", sheets))

	loaded, err := store.LoadDocument(docID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "items", loaded[0].Name)
	assert.Equal(t, "enemies", loaded[1].Name)
	assert.Equal(t, sheets[0].ID, loaded[0].ID)

	require.Len(t, loaded[0].Rows, 1)
	nameCol := loaded[0].Columns[0]
	assert.Equal(t, "Sword", loaded[0].Rows[0].Cells[nameCol.ID].Value)
}

func TestSaveReplacesSheets(t *testing.T) {
	store := openStore(t)
	sheets := sampleSheets(t)
	docID := document.NewID()

	require.NoError(t, store.SaveDocument(docID, "campaign", sheets))
	// A later save with fewer sheets fully replaces the snapshot set.
	require.NoError(t, store.SaveDocument(docID, "renamed", sheets[:1]))

	loaded, err := store.LoadDocument(docID)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "items", loaded[0].Name)

	docs, err := store.ListDocuments()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "renamed", docs[0].Name)
	assert.Equal(t, 1, docs[0].Sheets)
}

func TestLoadMissingDocument(t *testing.T) {
	store := openStore(t)
	_, err := store.LoadDocument("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListDocuments(t *testing.T) {
	store := openStore(t)

	docs, err := store.ListDocuments()
	require.NoError(t, err)
	assert.Empty(t, docs)

	require.NoError(t, store.SaveDocument(document.NewID(), "first", sampleSheets(t)))
	require.NoError(t, store.SaveDocument(document.NewID(), "second", nil))

	docs, err = store.ListDocuments()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, d := range docs {
		assert.False(t, d.CreatedAt.IsZero())
		assert.False(t, d.UpdatedAt.IsZero())
	}
}

func TestDeleteDocument(t *testing.T) {
	store := openStore(t)
	docID := document.NewID()
	require.NoError(t, store.SaveDocument(docID, "doomed", sampleSheets(t)))

	require.NoError(t, store.DeleteDocument(docID))
	_, err := store.LoadDocument(docID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.DeleteDocument(docID), ErrNotFound)
}

func TestDeleteDocumentCascadesSheets(t *testing.T) {
	store := openStore(t)
	sheets := sampleSheets(t)
	docID := document.NewID()
	require.NoError(t, store.SaveDocument(docID, "doomed", sheets))
	require.NoError(t, store.DeleteDocument(docID))

	// Deleting the document must cascade to its sheet rows; saving the
	// same sheets under a fresh document would otherwise collide on the
	// sheet primary key.
	freshID := document.NewID()
	require.NoError(t, store.SaveDocument(freshID, "reborn", sheets))

	loaded, err := store.LoadDocument(freshID)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestFileBackedStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(path))
	require.NoError(t, store.InitSchema())

	docID := document.NewID()
	require.NoError(t, store.SaveDocument(docID, "persisted", sampleSheets(t)))
	require.NoError(t, store.Close())

	// Reopen and verify the data survived.
	reopened := NewSQLiteStore(nil)
	require.NoError(t, reopened.Open(path))
	require.NoError(t, reopened.InitSchema())
	defer func() { _ = reopened.Close() }()

	loaded, err := reopened.LoadDocument(docID)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestUnopenedStore(t *testing.T) {
	store := NewSQLiteStore(nil)
	assert.Error(t, store.InitSchema())
	assert.Error(t, store.SaveDocument("id", "n", nil))
	_, err := store.LoadDocument("id")
	assert.Error(t, err)
	assert.NoError(t, store.Close())
}

// Compile-time check that SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
