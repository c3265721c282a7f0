package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a
// fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS imports (
					id TEXT PRIMARY KEY,
					file_hash TEXT UNIQUE NOT NULL,
					file_name TEXT NOT NULL,
					source TEXT NOT NULL,
					transactions INTEGER NOT NULL DEFAULT 0,
					imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_imports_source ON imports(source)`,

				`CREATE TABLE IF NOT EXISTS seen_transactions (
					hash TEXT PRIMARY KEY,
					import_id TEXT NOT NULL,
					date DATETIME NOT NULL,
					description TEXT NOT NULL,
					amount TEXT NOT NULL,
					source TEXT NOT NULL,
					imported_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (import_id) REFERENCES imports(id)
				)`,
				`CREATE INDEX idx_seen_transactions_date ON seen_transactions(date)`,
				`CREATE INDEX idx_seen_transactions_import_id ON seen_transactions(import_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Track how many rows each import actually added",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`ALTER TABLE imports ADD COLUMN new_transactions INTEGER NOT NULL DEFAULT 0`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (l *Ledger) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := l.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := l.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied ledger migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = l.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("ledger schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
