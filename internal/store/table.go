package store

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/orderid"
)

// Table is the whole work order table held in memory. Rows keep the
// order in which they were read or appended. A Table is not safe for
// concurrent use; the service serializes access to it.
type Table struct {
	backend     Backend
	records     []model.WorkOrder
	fingerprint string
	// synced is set once the rows match a successful read or write.
	synced bool
}

// Open loads the table from backend. A missing table is created with
// the header row only. When the stored table cannot be read, Open still
// returns an empty, usable Table together with a *PersistenceError.
func Open(ctx context.Context, backend Backend) (*Table, error) {
	t := &Table{backend: backend}
	return t, t.Load(ctx)
}

// Load replaces the in-memory rows with the persisted ones. If the read
// fails the rows are kept. A table that was never read successfully
// takes the fingerprint of the unreadable file, so its next Save
// replaces it; otherwise the fingerprint is kept too and Save keeps
// refusing to overwrite a table that changed.
func (t *Table) Load(ctx context.Context) error {
	header, rows, err := t.backend.Read(ctx)
	if errors.Is(err, ErrNoTable) {
		log.Printf("store: creating empty table at %s", t.backend.Location())
		if err := t.backend.Write(ctx, model.Columns, nil); err != nil {
			return &PersistenceError{Op: "create", Path: t.backend.Location(), Err: err}
		}
		t.records = nil
		t.synced = true
		return t.refreshFingerprint(ctx, "create")
	}
	if err != nil {
		if t.synced {
			log.Printf("store: reading %s failed, keeping %d rows in memory: %v", t.backend.Location(), len(t.records), err)
		} else {
			log.Printf("store: unreadable table %s, starting empty: %v", t.backend.Location(), err)
			if ferr := t.refreshFingerprint(ctx, "load"); ferr != nil {
				log.Printf("store: %v", ferr)
			}
		}
		return &PersistenceError{Op: "load", Path: t.backend.Location(), Err: err}
	}

	logUnknownColumns(header)
	var records []model.WorkOrder
	for _, row := range rows {
		c := newCells(header, row)
		if c.blank() {
			continue
		}
		w := recordFromCells(c)
		if w.HasOpaqueItems() {
			log.Printf("store: work order %s has items that could not be decoded", w.ID)
		}
		if w.HasTotalMismatch() {
			log.Printf("store: work order %s has item totals that did not match their prices; recomputed", w.ID)
		}
		records = append(records, w)
	}
	renumberDuplicates(records)

	t.records = records
	t.synced = true
	return t.refreshFingerprint(ctx, "load")
}

// renumberDuplicates gives every repeated identifier after the first a
// fresh one, so that "7" and "000007" both stay reachable.
func renumberDuplicates(records []model.WorkOrder) {
	ids := make([]string, len(records))
	for i, w := range records {
		ids[i] = w.ID
	}

	seen := make(map[string]bool, len(records))
	for i := range records {
		id := records[i].ID
		if !seen[id] {
			seen[id] = true
			continue
		}
		next := orderid.Next(ids)
		log.Printf("store: duplicate work order id %q, renumbered to %s", id, next)
		records[i].ID = next
		ids = append(ids, next)
		seen[next] = true
	}
}

func (t *Table) refreshFingerprint(ctx context.Context, op string) error {
	fp, err := t.backend.Fingerprint(ctx)
	if err != nil {
		return &PersistenceError{Op: op, Path: t.backend.Location(), Err: err}
	}
	t.fingerprint = fp
	return nil
}

func logUnknownColumns(header []string) {
	for _, col := range header {
		col = strings.TrimSpace(col)
		if col != "" && !isCanonical(col) {
			log.Printf("store: ignoring unknown column %q", col)
		}
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.records)
}

// IDs returns the identifiers of every row in table order.
func (t *Table) IDs() []string {
	ids := make([]string, len(t.records))
	for i, w := range t.records {
		ids[i] = w.ID
	}
	return ids
}

// All returns a copy of every row in table order.
func (t *Table) All() []model.WorkOrder {
	out := make([]model.WorkOrder, len(t.records))
	for i, w := range t.records {
		out[i] = clone(w)
	}
	return out
}

// FindByID returns a copy of the row with the given identifier.
func (t *Table) FindByID(id string) (model.WorkOrder, error) {
	i := t.indexOf(id)
	if i < 0 {
		return model.WorkOrder{}, ErrNotFound
	}
	return clone(t.records[i]), nil
}

// Upsert overwrites the row with the same identifier, or appends the
// record when there is none. It reports whether a row was appended.
func (t *Table) Upsert(w model.WorkOrder) bool {
	w = clone(w)
	w.ID = orderid.Pad(w.ID)
	if i := t.indexOf(w.ID); i >= 0 {
		t.records[i] = w
		return false
	}
	t.records = append(t.records, w)
	return true
}

// Delete removes the row with the given identifier.
func (t *Table) Delete(id string) error {
	i := t.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	t.records = append(t.records[:i:i], t.records[i+1:]...)
	return nil
}

// Save rewrites the whole backing table from memory in canonical
// column order. It fails with ErrTableChanged, leaving the stored table
// untouched, when someone else rewrote it since the last load or save.
func (t *Table) Save(ctx context.Context) error {
	current, err := t.backend.Fingerprint(ctx)
	if err != nil {
		return &PersistenceError{Op: "save", Path: t.backend.Location(), Err: err}
	}
	if current != t.fingerprint {
		return &PersistenceError{Op: "save", Path: t.backend.Location(), Err: ErrTableChanged}
	}

	rows := make([][]any, len(t.records))
	for i, w := range t.records {
		rows[i] = rowFromRecord(w)
	}
	if err := t.backend.Write(ctx, model.Columns, rows); err != nil {
		return &PersistenceError{Op: "save", Path: t.backend.Location(), Err: err}
	}
	t.synced = true

	return t.refreshFingerprint(ctx, "save")
}

// Changed reports whether the stored table differs from the one last
// loaded or saved, i.e. whether the next Save would fail with
// ErrTableChanged.
func (t *Table) Changed(ctx context.Context) (bool, error) {
	current, err := t.backend.Fingerprint(ctx)
	if err != nil {
		return false, &PersistenceError{Op: "check", Path: t.backend.Location(), Err: err}
	}
	return current != t.fingerprint, nil
}

// Snapshot captures the in-memory rows so that a failed operation can
// be rolled back with Restore.
type Snapshot struct {
	records []model.WorkOrder
}

// Snapshot returns the current rows.
func (t *Table) Snapshot() Snapshot {
	return Snapshot{records: t.All()}
}

// Restore puts back the rows captured by s.
func (t *Table) Restore(s Snapshot) {
	t.records = s.records
}

func (t *Table) indexOf(id string) int {
	id = orderid.Pad(id)
	for i, w := range t.records {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func clone(w model.WorkOrder) model.WorkOrder {
	if w.Items != nil {
		items := make([]model.LineItem, len(w.Items))
		copy(items, w.Items)
		w.Items = items
	}
	return w
}
