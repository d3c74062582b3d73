// Copyright (c) 2025 Plancore Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package budget

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS holder_budgets (
	holder_id TEXT PRIMARY KEY,
	committed REAL NOT NULL DEFAULT 0
);
`

// SQLiteStore implements Store on a SQLite database, one row per holder.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the committed-amount database at
// the given path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open budget database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping budget database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize budget schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetCommitted returns the holder's committed amount, zero if absent.
func (s *SQLiteStore) GetCommitted(ctx context.Context, holderID string) (float64, error) {
	var amount float64
	err := s.db.QueryRowContext(ctx,
		`SELECT committed FROM holder_budgets WHERE holder_id = ?`, holderID,
	).Scan(&amount)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// SetCommitted records the holder's committed amount, replacing any previous
// row.
func (s *SQLiteStore) SetCommitted(ctx context.Context, holderID string, amount float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO holder_budgets (holder_id, committed) VALUES (?, ?)
		 ON CONFLICT(holder_id) DO UPDATE SET committed = excluded.committed`,
		holderID, amount,
	)
	return err
}
