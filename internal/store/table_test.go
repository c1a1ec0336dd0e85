package store_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/store"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/tests/testutil"
)

var backends = []struct {
	name string
	new  func(t *testing.T) store.Backend
}{
	{"xlsx", func(t *testing.T) store.Backend { return testutil.NewXLSXBackend(t) }},
	{"sqlite", func(t *testing.T) store.Backend { return testutil.NewSQLiteBackend(t) }},
}

func eachBackend(t *testing.T, fn func(t *testing.T, b store.Backend)) {
	for _, bk := range backends {
		t.Run(bk.name, func(t *testing.T) {
			fn(t, bk.new(t))
		})
	}
}

func TestOpenCreatesMissingTable(t *testing.T) {
	ctx := context.Background()
	eachBackend(t, func(t *testing.T, b store.Backend) {
		tbl := testutil.OpenTable(t, b)
		if tbl.Len() != 0 {
			t.Fatalf("expected empty table, got %d rows", tbl.Len())
		}

		header, rows, err := b.Read(ctx)
		if err != nil {
			t.Fatalf("reading created table: %v", err)
		}
		if len(rows) != 0 {
			t.Fatalf("expected header only, got %d rows", len(rows))
		}
		if len(header) != len(model.Columns) {
			t.Fatalf("header has %d columns, want %d", len(header), len(model.Columns))
		}
		for i, col := range model.Columns {
			if header[i] != col {
				t.Fatalf("column %d = %q, want %q", i, header[i], col)
			}
		}
	})
}

func TestSaveAndReload(t *testing.T) {
	ctx := context.Background()
	eachBackend(t, func(t *testing.T, b store.Backend) {
		tbl := testutil.OpenTable(t, b)
		want := testutil.BrakeJob("000001")
		tbl.Upsert(want)
		if err := tbl.Save(ctx); err != nil {
			t.Fatalf("save: %v", err)
		}

		reloaded := testutil.OpenTable(t, b)
		got, err := reloaded.FindByID("000001")
		if err != nil {
			t.Fatalf("find: %v", err)
		}

		if got.Client.Name != want.Client.Name || got.Vehicle.Plate != want.Vehicle.Plate {
			t.Fatalf("text fields differ: %+v", got)
		}
		if got.Vehicle.Mileage != want.Vehicle.Mileage || got.Client.HouseNumber != want.Client.HouseNumber {
			t.Fatalf("fields differ: mileage %v, number %q", got.Vehicle.Mileage, got.Client.HouseNumber)
		}
		if got.Vehicle.Fuel != model.FuelFlex || got.Status != model.StatusInProgress || got.PaymentTerms != model.PaymentPix {
			t.Fatalf("enumerations differ: %+v", got)
		}
		if !got.Subtotal.Valid || !got.Subtotal.Decimal.Equal(decimal.NewFromInt(172)) {
			t.Fatalf("subtotal = %v", got.Subtotal)
		}
		if !got.Total.Valid || !got.Total.Decimal.Equal(decimal.NewFromInt(172)) {
			t.Fatalf("total = %v", got.Total)
		}
		if len(got.Items) != 2 {
			t.Fatalf("got %d items, want 2", len(got.Items))
		}
		for i, it := range got.Items {
			if it.Description != want.Items[i].Description || !it.LineTotal.Equal(want.Items[i].LineTotal) {
				t.Fatalf("item %d differs: %+v", i, it)
			}
		}
	})
}

func TestAbsentNumbersSurviveSave(t *testing.T) {
	ctx := context.Background()
	eachBackend(t, func(t *testing.T, b store.Backend) {
		tbl := testutil.OpenTable(t, b)
		w := testutil.BrakeJob("000002")
		w.Vehicle.Mileage.Valid = false
		w.TravelFee = decimal.NullDecimal{}
		tbl.Upsert(w)
		if err := tbl.Save(ctx); err != nil {
			t.Fatalf("save: %v", err)
		}

		got, err := testutil.OpenTable(t, b).FindByID("000002")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if got.Vehicle.Mileage.Valid || got.TravelFee.Valid {
			t.Fatalf("absent values came back present: %+v", got)
		}
	})
}

func TestUpsert(t *testing.T) {
	eachBackend(t, func(t *testing.T, b store.Backend) {
		tbl := testutil.OpenTable(t, b)
		if !tbl.Upsert(testutil.BrakeJob("000001")) {
			t.Fatalf("first upsert should append")
		}
		if !tbl.Upsert(testutil.BrakeJob("000002")) {
			t.Fatalf("new id should append")
		}
		if tbl.Len() != 2 {
			t.Fatalf("len = %d, want 2", tbl.Len())
		}

		changed := testutil.BrakeJob("000001")
		changed.Client.Name = "Outro Cliente"
		if tbl.Upsert(changed) {
			t.Fatalf("existing id should overwrite")
		}
		if tbl.Len() != 2 {
			t.Fatalf("overwrite changed length to %d", tbl.Len())
		}
		got, err := tbl.FindByID("1")
		if err != nil {
			t.Fatalf("find padded id: %v", err)
		}
		if got.Client.Name != "Outro Cliente" {
			t.Fatalf("row not overwritten: %q", got.Client.Name)
		}
		if ids := tbl.IDs(); ids[0] != "000001" || ids[1] != "000002" {
			t.Fatalf("row order changed: %v", ids)
		}
	})
}

func TestDeleteMissingLeavesFileUntouched(t *testing.T) {
	ctx := context.Background()
	b := testutil.NewXLSXBackend(t)
	tbl := testutil.OpenTable(t, b)
	tbl.Upsert(testutil.BrakeJob("000001"))
	if err := tbl.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	before, err := os.ReadFile(b.Location())
	if err != nil {
		t.Fatal(err)
	}

	if err := tbl.Delete("000099"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("table mutated: len %d", tbl.Len())
	}

	after, err := os.ReadFile(b.Location())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("file changed after failed delete")
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	eachBackend(t, func(t *testing.T, b store.Backend) {
		tbl := testutil.OpenTable(t, b)
		tbl.Upsert(testutil.BrakeJob("000001"))
		tbl.Upsert(testutil.BrakeJob("000002"))
		tbl.Upsert(testutil.BrakeJob("000003"))

		if err := tbl.Delete("2"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := tbl.Save(ctx); err != nil {
			t.Fatalf("save: %v", err)
		}

		ids := testutil.OpenTable(t, b).IDs()
		if len(ids) != 2 || ids[0] != "000001" || ids[1] != "000003" {
			t.Fatalf("unexpected ids after delete: %v", ids)
		}
	})
}

func TestCorruptFileDegradesToEmptyTable(t *testing.T) {
	path := testutil.XLSXPath(t)
	garbage := []byte("this is not a workbook")
	if err := os.WriteFile(path, garbage, 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := store.Open(context.Background(), store.NewXLSXBackend(path, "Ordens"))
	var perr *store.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if perr.Op != "load" || perr.Path != path {
		t.Fatalf("unexpected error details: %+v", perr)
	}
	if tbl == nil || tbl.Len() != 0 {
		t.Fatalf("expected an empty usable table")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, garbage) {
		t.Fatalf("unreadable file must not be overwritten on load")
	}
}

func TestSaveDetectsExternalChange(t *testing.T) {
	ctx := context.Background()
	eachBackend(t, func(t *testing.T, b store.Backend) {
		first := testutil.OpenTable(t, b)
		second := testutil.OpenTable(t, b)

		if changed, err := first.Changed(ctx); err != nil || changed {
			t.Fatalf("fresh table changed=%t err=%v", changed, err)
		}

		second.Upsert(testutil.BrakeJob("000001"))
		if err := second.Save(ctx); err != nil {
			t.Fatalf("save: %v", err)
		}
		if changed, err := first.Changed(ctx); err != nil || !changed {
			t.Fatalf("after external save changed=%t err=%v", changed, err)
		}
		if changed, _ := second.Changed(ctx); changed {
			t.Fatal("the writer must not see its own save as a change")
		}

		first.Upsert(testutil.BrakeJob("000002"))
		err := first.Save(ctx)
		if !errors.Is(err, store.ErrTableChanged) {
			t.Fatalf("expected ErrTableChanged, got %v", err)
		}
		if first.Len() != 1 {
			t.Fatalf("in-memory rows should be kept for retry")
		}

		ids := testutil.OpenTable(t, b).IDs()
		if len(ids) != 1 || ids[0] != "000001" {
			t.Fatalf("changed table was clobbered: %v", ids)
		}
	})
}

func TestSnapshotRestore(t *testing.T) {
	tbl := testutil.OpenTable(t, testutil.NewSQLiteBackend(t))
	tbl.Upsert(testutil.BrakeJob("000001"))

	snap := tbl.Snapshot()
	tbl.Upsert(testutil.BrakeJob("000002"))
	if err := tbl.Delete("000001"); err != nil {
		t.Fatal(err)
	}

	tbl.Restore(snap)
	if ids := tbl.IDs(); len(ids) != 1 || ids[0] != "000001" {
		t.Fatalf("restore gave %v", ids)
	}
}

func TestLoadCoercesLegacyCells(t *testing.T) {
	path := testutil.XLSXPath(t)

	header := []any{
		model.ColID, model.ColClientName, model.ColClientNumber, model.ColPlate, model.ColMileage,
		model.ColItems, model.ColSubtotal, model.ColTotal, "Observacoes",
	}
	row := []any{
		7, "Carlos", "120.0", "XYZ9A87", "12.345",
		"Tipo: Peça | Ref:  | Desc: Correia | Qtd: 1 | Val: 1.234,56 | Desc(%): 0 | Total: 1.234,56",
		"1.234,56", "R$ 1.234,56", "nota",
	}

	f := excelize.NewFile()
	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow("Sheet1", "A2", &row); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	// The configured sheet is missing, so the first sheet is read.
	b := store.NewXLSXBackend(path, "Ordens")
	tbl := testutil.OpenTable(t, b)

	got, err := tbl.FindByID("000007")
	if err != nil {
		t.Fatalf("legacy numeric id not padded: %v (ids %v)", err, tbl.IDs())
	}
	if !got.Vehicle.Mileage.Valid || got.Vehicle.Mileage.Int64 != 12345 {
		t.Fatalf("mileage = %v", got.Vehicle.Mileage)
	}
	if got.Client.HouseNumber != "120" {
		t.Fatalf("house number = %q, want 120", got.Client.HouseNumber)
	}
	want := decimal.RequireFromString("1234.56")
	if !got.Subtotal.Decimal.Equal(want) || !got.Total.Decimal.Equal(want) {
		t.Fatalf("money not coerced: subtotal %v total %v", got.Subtotal, got.Total)
	}
	if got.TravelFee.Valid {
		t.Fatalf("missing column should be absent")
	}
	if len(got.Items) != 1 || !got.Items[0].UnitPrice.Equal(want) {
		t.Fatalf("legacy items not decoded: %+v", got.Items)
	}

	if err := tbl.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	savedHeader, _, err := b.Read(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(savedHeader) != len(model.Columns) {
		t.Fatalf("saved header has %d columns: %v", len(savedHeader), savedHeader)
	}
	for _, col := range savedHeader {
		if col == "Observacoes" {
			t.Fatalf("unknown column was written back")
		}
	}
}

// flakyBackend fails every Read while readErr is set.
type flakyBackend struct {
	store.Backend
	readErr error
}

func (b *flakyBackend) Read(ctx context.Context) ([]string, [][]string, error) {
	if b.readErr != nil {
		return nil, nil, b.readErr
	}
	return b.Backend.Read(ctx)
}

func TestFailedReloadKeepsRows(t *testing.T) {
	ctx := context.Background()
	eachBackend(t, func(t *testing.T, b store.Backend) {
		seed := testutil.OpenTable(t, b)
		seed.Upsert(testutil.BrakeJob("000001"))
		seed.Upsert(testutil.BrakeJob("000002"))
		if err := seed.Save(ctx); err != nil {
			t.Fatalf("save: %v", err)
		}

		flaky := &flakyBackend{Backend: b}
		tbl := testutil.OpenTable(t, flaky)

		flaky.readErr = errors.New("file is locked")
		err := tbl.Load(ctx)
		var perr *store.PersistenceError
		if !errors.As(err, &perr) || perr.Op != "load" {
			t.Fatalf("expected load PersistenceError, got %v", err)
		}
		if tbl.Len() != 2 {
			t.Fatalf("failed reload left %d rows, want 2", tbl.Len())
		}

		flaky.readErr = nil
		tbl.Upsert(testutil.BrakeJob("000003"))
		if err := tbl.Save(ctx); err != nil {
			t.Fatalf("save after failed reload: %v", err)
		}
		ids := testutil.OpenTable(t, b).IDs()
		if len(ids) != 3 {
			t.Fatalf("stored ids = %v, want three rows", ids)
		}
	})
}

func TestFailedReloadStillDetectsChange(t *testing.T) {
	ctx := context.Background()
	eachBackend(t, func(t *testing.T, b store.Backend) {
		flaky := &flakyBackend{Backend: b}
		tbl := testutil.OpenTable(t, flaky)

		other := testutil.OpenTable(t, b)
		other.Upsert(testutil.BrakeJob("000001"))
		if err := other.Save(ctx); err != nil {
			t.Fatalf("save: %v", err)
		}

		flaky.readErr = errors.New("file is locked")
		if err := tbl.Load(ctx); err == nil {
			t.Fatal("expected the reload to fail")
		}

		tbl.Upsert(testutil.BrakeJob("000002"))
		if err := tbl.Save(ctx); !errors.Is(err, store.ErrTableChanged) {
			t.Fatalf("expected ErrTableChanged, got %v", err)
		}
		if ids := testutil.OpenTable(t, b).IDs(); len(ids) != 1 || ids[0] != "000001" {
			t.Fatalf("stored ids = %v", ids)
		}
	})
}

func TestLoadRenumbersDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	idCol, nameCol := -1, -1
	for i, col := range model.Columns {
		switch col {
		case model.ColID:
			idCol = i
		case model.ColClientName:
			nameCol = i
		}
	}
	row := func(id, name string) []any {
		r := make([]any, len(model.Columns))
		r[idCol], r[nameCol] = id, name
		return r
	}

	eachBackend(t, func(t *testing.T, b store.Backend) {
		rows := [][]any{row("7", "Ana"), row("000007", "Bruno"), row("3", "Carla")}
		if err := b.Write(ctx, model.Columns, rows); err != nil {
			t.Fatalf("write: %v", err)
		}

		tbl := testutil.OpenTable(t, b)
		ids := tbl.IDs()
		want := []string{"000007", "000008", "000003"}
		if len(ids) != len(want) {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Fatalf("ids = %v, want %v", ids, want)
			}
		}

		got, err := tbl.FindByID("000008")
		if err != nil || got.Client.Name != "Bruno" {
			t.Fatalf("renumbered row = %+v, %v", got, err)
		}
		if err := tbl.Delete("000007"); err != nil {
			t.Fatal(err)
		}
		if _, err := tbl.FindByID("000008"); err != nil {
			t.Fatalf("deleting the first row reached the duplicate: %v", err)
		}
	})
}
