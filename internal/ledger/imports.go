package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/centavo-dev/centavo/internal/model"
)

// ImportRecord describes one ingested statement file.
type ImportRecord struct {
	ImportedAt      time.Time
	ID              string
	FileHash        string
	FileName        string
	Source          string
	Transactions    int
	NewTransactions int
}

// WasImported reports whether a statement file with this hash has been
// ingested before.
func (l *Ledger) WasImported(ctx context.Context, fileHash string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if fileHash == "" {
		return false, fmt.Errorf("%w: fileHash", ErrEmptyString)
	}

	var count int
	err := l.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM imports WHERE file_hash = ?", fileHash).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to look up import: %w", err)
	}
	return count > 0, nil
}

// FilterNew returns the transactions whose hashes the ledger has never
// seen, preserving input order.
func (l *Ledger) FilterNew(ctx context.Context, txns []model.Transaction) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, nil
	}

	stmt, err := l.db.PrepareContext(ctx,
		"SELECT COUNT(*) FROM seen_transactions WHERE hash = ?")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare lookup: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	fresh := make([]model.Transaction, 0, len(txns))
	seenInBatch := make(map[string]bool, len(txns))
	for _, txn := range txns {
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}
		if seenInBatch[txn.Hash] {
			continue
		}
		seenInBatch[txn.Hash] = true

		var count int
		if err := stmt.QueryRowContext(ctx, txn.Hash).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to check transaction hash: %w", err)
		}
		if count == 0 {
			fresh = append(fresh, txn)
		}
	}

	return fresh, nil
}

// MarkImported records a statement file and its transactions as ingested.
// Everything lands in one database transaction so a crash cannot leave a
// file half-recorded.
func (l *Ledger) MarkImported(ctx context.Context, record ImportRecord, txns []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if record.FileHash == "" {
		return fmt.Errorf("%w: record.FileHash", ErrEmptyString)
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO imports (id, file_hash, file_name, source, transactions, new_transactions)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.ID, record.FileHash, record.FileName, record.Source, record.Transactions, record.NewTransactions)
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}

	// Re-marking an already recorded file must attach its rows to the
	// original import, not the id we just generated.
	var importID string
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM imports WHERE file_hash = ?", record.FileHash).Scan(&importID)
	if err != nil {
		return fmt.Errorf("failed to resolve import id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO seen_transactions (hash, import_id, date, description, amount, source)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range txns {
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}
		_, err = stmt.ExecContext(ctx,
			txn.Hash,
			importID,
			txn.Date,
			txn.Description,
			txn.Amount.StringFixed(2),
			txn.Source,
		)
		if err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}
	}

	return tx.Commit()
}

// ListImports returns every recorded import, most recent first.
func (l *Ledger) ListImports(ctx context.Context) ([]ImportRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, file_hash, file_name, source, transactions, new_transactions, imported_at
		FROM imports
		ORDER BY imported_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []ImportRecord
	for rows.Next() {
		var r ImportRecord
		if err := rows.Scan(&r.ID, &r.FileHash, &r.FileName, &r.Source, &r.Transactions, &r.NewTransactions, &r.ImportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate imports: %w", err)
	}

	return records, nil
}

// SeenCount returns how many distinct transaction hashes the ledger holds.
func (l *Ledger) SeenCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM seen_transactions").Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to count seen transactions: %w", err)
	}
	return count, nil
}
