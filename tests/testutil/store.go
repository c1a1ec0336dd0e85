package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/store"
)

// XLSXPath returns a workbook path inside a fresh temporary directory.
// The file itself does not exist yet.
func XLSXPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "Ordens_de_Servico.xlsx")
}

// NewXLSXBackend returns a spreadsheet backend on a temporary workbook.
func NewXLSXBackend(t *testing.T) *store.XLSXBackend {
	t.Helper()
	return store.NewXLSXBackend(XLSXPath(t), "Ordens")
}

// NewSQLiteBackend creates an in-memory SQLite backend with all
// migrations applied. It automatically closes the backend when the
// test completes.
func NewSQLiteBackend(t *testing.T) *store.SQLiteBackend {
	t.Helper()

	b, err := store.NewSQLiteBackend(":memory:")
	if err != nil {
		t.Fatalf("creating test backend: %v", err)
	}

	t.Cleanup(func() {
		if err := b.Close(); err != nil {
			t.Errorf("closing test backend: %v", err)
		}
	})

	return b
}

// OpenTable loads a Table from backend and fails the test on error.
func OpenTable(t *testing.T, backend store.Backend) *store.Table {
	t.Helper()

	tbl, err := store.Open(context.Background(), backend)
	if err != nil {
		t.Fatalf("opening table: %v", err)
	}
	return tbl
}
