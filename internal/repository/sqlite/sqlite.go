package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"filefixtures/internal/domain"
	"filefixtures/internal/repository"

	_ "modernc.org/sqlite"
)

var _ repository.Store = (*Repository)(nil)

// Repository implements repository.Store using SQLite
type Repository struct {
	db      *sql.DB
	pending []domain.Model
}

// New opens (or creates) a SQLite database at dbPath
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Repository{db: db}, nil
}

func dsn(dbPath string) string {
	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if dbPath == ":memory:" {
		return dbPath + "?" + pragmas
	}
	return dbPath + "?" + pragmas + "&_pragma=journal_mode(WAL)"
}

// Add enqueues an instance; it must implement domain.Model
func (r *Repository) Add(instance any) error {
	m, ok := instance.(domain.Model)
	if !ok {
		return fmt.Errorf("cannot persist %T: it does not implement domain.Model", instance)
	}
	if len(m.Columns()) != len(m.Values()) {
		return fmt.Errorf("cannot persist %T: %d columns but %d values", instance, len(m.Columns()), len(m.Values()))
	}
	r.pending = append(r.pending, m)
	return nil
}

// Commit inserts all pending instances in one transaction and clears the queue
func (r *Repository) Commit(ctx context.Context) error {
	pending := r.pending
	r.pending = nil

	if err := r.insertAll(ctx, pending); err != nil {
		return &domain.PersistenceCommitError{Err: err}
	}
	return nil
}

// Discard drops the pending instances
func (r *Repository) Discard() {
	r.pending = nil
}

func (r *Repository) insertAll(ctx context.Context, models []domain.Model) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmts := make(map[string]*sql.Stmt)
	defer func() {
		for _, stmt := range stmts {
			stmt.Close()
		}
	}()

	for i, m := range models {
		query := insertQuery(m.TableName(), m.Columns())
		stmt, ok := stmts[query]
		if !ok {
			stmt, err = tx.PrepareContext(ctx, query)
			if err != nil {
				return fmt.Errorf("failed to prepare insert into %s: %w", m.TableName(), err)
			}
			stmts[query] = stmt
		}

		if _, err := stmt.ExecContext(ctx, m.Values()...); err != nil {
			return fmt.Errorf("failed to insert instance %d into %s: %w", i, m.TableName(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Reset drops the given tables and recreates them from their DDL.
// Tables are dropped in reverse order so dependents go first.
func (r *Repository) Reset(ctx context.Context, tables []domain.Table) error {
	r.pending = nil

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(tables[i].Name)); err != nil {
			return fmt.Errorf("failed to drop %s: %w", tables[i].Name, err)
		}
	}
	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, t.DDL); err != nil {
			return fmt.Errorf("failed to create %s: %w", t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Tables returns the names of all user tables, sorted
func (r *Repository) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// List returns all rows of a table in insertion order
func (r *Repository) List(ctx context.Context, table string) ([]map[string]any, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?
	`, table).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%s: %w", table, repository.ErrTableNotFound)
	}

	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table)+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	result := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = normalizeValue(values[i])
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table, err)
	}
	return result, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

func insertQuery(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")

	if len(columns) == 0 {
		return "INSERT INTO " + quoteIdent(table) + " DEFAULT VALUES"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), placeholders)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// normalizeValue turns driver byte slices into strings for JSON output
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
