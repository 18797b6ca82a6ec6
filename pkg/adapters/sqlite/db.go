// Package sqlite provides SQLite-backed result and spec stores.
//
// A single database file holds both tables. The migrator only reads from
// them; the Put methods exist for the host that produces results and edits
// the spec.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=ON",
}

// DB wraps a SQLite connection.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the database at path. Use ":memory:" for tests.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		conn.SetMaxOpenConns(1)
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Result implements ports.ResultStore.
func (db *DB) Result(ctx context.Context, resultID string) (ports.ResultRef, error) {
	ref := ports.ResultRef{ID: resultID}
	err := db.conn.QueryRowContext(ctx, `SELECT strategy_id FROM results WHERE id = ?`, resultID).Scan(&ref.StrategyID)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.ResultRef{}, domain.ErrResultNotFound
	}
	if err != nil {
		return ports.ResultRef{}, fmt.Errorf("querying result %s: %w", resultID, err)
	}
	return ref, nil
}

// Results implements ports.ResultStore.
func (db *DB) Results(ctx context.Context) ([]ports.ResultRef, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, strategy_id FROM results ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var out []ports.ResultRef
	for rows.Next() {
		var ref ports.ResultRef
		if err := rows.Scan(&ref.ID, &ref.StrategyID); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// PutResult records or replaces a result.
func (db *DB) PutResult(ctx context.Context, ref ports.ResultRef) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO results (id, strategy_id) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET strategy_id = excluded.strategy_id`,
		ref.ID, ref.StrategyID)
	if err != nil {
		return fmt.Errorf("storing result %s: %w", ref.ID, err)
	}
	return nil
}

// Section implements ports.SpecStore.
func (db *DB) Section(ctx context.Context, sectionID string) (string, error) {
	var content string
	err := db.conn.QueryRowContext(ctx, `SELECT content FROM spec_sections WHERE section_id = ?`, sectionID).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrSectionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying section %s: %w", sectionID, err)
	}
	return content, nil
}

// PutSection records or replaces the content of a section.
func (db *DB) PutSection(ctx context.Context, sectionID, content string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO spec_sections (section_id, content) VALUES (?, ?)
		 ON CONFLICT(section_id) DO UPDATE SET content = excluded.content`,
		sectionID, content)
	if err != nil {
		return fmt.Errorf("storing section %s: %w", sectionID, err)
	}
	return nil
}
