package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
)

// SQLiteBackend keeps the table in a local SQLite database. A revision
// counter is bumped on every write and serves as the fingerprint.
type SQLiteBackend struct {
	db   *sqlx.DB
	path string
}

// NewSQLiteBackend opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases alive and shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	b := &SQLiteBackend{db: db, path: dbPath}
	if err := b.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return b, nil
}

// Close closes the underlying database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

// Location returns the database path.
func (b *SQLiteBackend) Location() string {
	return b.path
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (b *SQLiteBackend) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := b.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = b.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := b.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

func (b *SQLiteBackend) revision(ctx context.Context) (int64, error) {
	var rev int64
	if err := b.db.GetContext(ctx, &rev, "SELECT revision FROM table_revision WHERE id = 1"); err != nil {
		return 0, fmt.Errorf("reading table revision: %w", err)
	}
	return rev, nil
}

// Fingerprint returns the revision counter.
func (b *SQLiteBackend) Fingerprint(ctx context.Context) (string, error) {
	rev, err := b.revision(ctx)
	if err != nil {
		return "", err
	}
	return "rev:" + strconv.FormatInt(rev, 10), nil
}

// Read returns every row in table order. A database that has never been
// written reports ErrNoTable.
func (b *SQLiteBackend) Read(ctx context.Context) ([]string, [][]string, error) {
	rev, err := b.revision(ctx)
	if err != nil {
		return nil, nil, err
	}
	if rev == 0 {
		return nil, nil, ErrNoTable
	}

	query := "SELECT " + quotedColumns(model.Columns) + " FROM work_orders ORDER BY position"
	rows, err := b.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("querying work orders: %w", err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(model.Columns))
		dest := make([]any, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("scanning work order: %w", err)
		}

		row := make([]string, len(cells))
		for i, c := range cells {
			if c.Valid {
				row[i] = c.String
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating work orders: %w", err)
	}

	header := make([]string, len(model.Columns))
	copy(header, model.Columns)
	return header, out, nil
}

// Write replaces every row inside one transaction and bumps the revision.
func (b *SQLiteBackend) Write(ctx context.Context, header []string, rows [][]any) error {
	for _, col := range header {
		if !isCanonical(col) {
			return fmt.Errorf("column %q is not part of the work order schema", col)
		}
	}

	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM work_orders"); err != nil {
		return fmt.Errorf("clearing work orders: %w", err)
	}

	if len(rows) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(header)+1), ", ")
		query := "INSERT INTO work_orders (position, " + quotedColumns(header) + ") VALUES (" + placeholders + ")"

		stmt, err := tx.PreparexContext(ctx, query)
		if err != nil {
			return fmt.Errorf("preparing insert statement: %w", err)
		}
		defer stmt.Close()

		for i, row := range rows {
			args := make([]any, 0, len(header)+1)
			args = append(args, i+1)
			args = append(args, row...)
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("inserting row %d: %w", i+1, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx, "UPDATE table_revision SET revision = revision + 1 WHERE id = 1"); err != nil {
		return fmt.Errorf("bumping table revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func quotedColumns(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = `"` + c + `"`
	}
	return strings.Join(quoted, ", ")
}

func isCanonical(col string) bool {
	for _, c := range model.Columns {
		if c == col {
			return true
		}
	}
	return false
}
