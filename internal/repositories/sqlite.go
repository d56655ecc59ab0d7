package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// dbtx is the subset of [sql.DB] and [sql.Tx] the queries need.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStorage implements [Storage] on a SQLite database.
type SQLStorage struct {
	db *sql.DB
	q  dbtx
}

// NewSQLStorage creates a SQLStorage backed by the given open database.
// The caller is responsible for running migrations first.
func NewSQLStorage(db *sql.DB) *SQLStorage {
	return &SQLStorage{db: db, q: db}
}

// Transact runs fn inside a single database transaction. Nested calls reuse
// the outer transaction.
func (s *SQLStorage) Transact(ctx context.Context, fn func(Storage) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&SQLStorage{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
