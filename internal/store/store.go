package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no row has the requested identifier.
	ErrNotFound = errors.New("work order not found")

	// ErrTableChanged is returned by Save when the backing file was
	// modified by someone else since it was loaded.
	ErrTableChanged = errors.New("table changed on disk since it was loaded")

	// ErrNoTable is returned by a Backend when nothing has been persisted yet.
	ErrNoTable = errors.New("table does not exist")
)

// PersistenceError reports a failure to read or write the backing file.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Backend reads and writes the whole table in one go. Cells are read as
// text; written cells are string, int64, float64 or nil (absent).
type Backend interface {
	// Read returns the header and every data row. It returns ErrNoTable
	// when the backing storage has not been created yet.
	Read(ctx context.Context) (header []string, rows [][]string, err error)

	// Write replaces the whole table.
	Write(ctx context.Context, header []string, rows [][]any) error

	// Fingerprint identifies the current persisted state. It changes
	// whenever the table is rewritten, by this process or another one.
	Fingerprint(ctx context.Context) (string, error)

	// Location describes where the table lives, for messages.
	Location() string

	Close() error
}
