package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// XLSXBackend keeps the table in one worksheet of a spreadsheet file.
// The first row is the header. Every write replaces the whole file.
type XLSXBackend struct {
	path  string
	sheet string
}

// NewXLSXBackend returns a backend for the workbook at path. The sheet
// is created on first write; when reading a workbook that lacks it, the
// first worksheet is used instead.
func NewXLSXBackend(path, sheet string) *XLSXBackend {
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &XLSXBackend{path: path, sheet: sheet}
}

// Location returns the workbook path.
func (b *XLSXBackend) Location() string {
	return b.path
}

// Close is a no-op; the workbook is only open during Read and Write.
func (b *XLSXBackend) Close() error {
	return nil
}

// Read returns the header row and the data rows as raw cell text, so
// numeric cells come back as plain numbers ("172.5") rather than in the
// cell's display format.
func (b *XLSXBackend) Read(ctx context.Context) ([]string, [][]string, error) {
	if _, err := os.Stat(b.path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil, ErrNoTable
	}

	f, err := excelize.OpenFile(b.path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := b.sheet
	if !hasSheet(f, sheet) {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, nil, fmt.Errorf("no worksheet found")
		}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	return rows[0], rows[1:], nil
}

// Write builds a fresh workbook and moves it over the old file, so a
// failed write never leaves a truncated table behind.
func (b *XLSXBackend) Write(ctx context.Context, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", b.sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(b.sheet, "A1", &headerCells); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := f.SetRowStyle(b.sheet, 1, 1, boldStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(b.sheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".oficina-*.xlsx")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("replacing %s: %w", b.path, err)
	}
	return nil
}

// Fingerprint hashes the file content. A missing file has an empty
// fingerprint.
func (b *XLSXBackend) Fingerprint(ctx context.Context) (string, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", b.path, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func hasSheet(f *excelize.File, name string) bool {
	for _, s := range f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}
