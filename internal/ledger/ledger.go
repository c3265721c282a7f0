// Package ledger keeps the local import ledger: which statement files
// have been ingested and which transaction hashes have already been sent
// to the spreadsheet. It exists so that re-running an import is always
// safe.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
)

// Ledger is the SQLite-backed import ledger.
type Ledger struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the ledger database at the given path.
func New(path string) (*Ledger, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path", ErrEmptyString)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping ledger database: %w", err)
	}

	return &Ledger{db: db, path: path}, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}
