package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const createDocumentsTable = `CREATE TABLE IF NOT EXISTS documents (
	name TEXT PRIMARY KEY,
	body TEXT NOT NULL
)`

// SQLite stores the document as a single row of a documents table.
type SQLite struct {
	db   *sql.DB
	name string
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if _, err := db.Exec(createDocumentsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}
	return &SQLite{db: db, name: DocumentName}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Exists reports whether the document row is present.
func (s *SQLite) Exists(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE name = ?`, s.name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query document: %w", err)
	}
	return n > 0, nil
}

// ReadText returns the stored document body.
func (s *SQLite) ReadText(ctx context.Context) (string, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, s.name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return body, nil
}

// WriteText upserts the document body.
func (s *SQLite) WriteText(ctx context.Context, text string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (name, body) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET body = excluded.body`,
		s.name, text)
	if err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
