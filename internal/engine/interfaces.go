package engine

import (
	"context"

	"github.com/centavo-dev/centavo/internal/ledger"
	"github.com/centavo-dev/centavo/internal/model"
)

// Store is the spreadsheet of record. Failures here are fatal to a run.
type Store interface {
	ReadHistory(ctx context.Context) ([]model.Transaction, error)
	AppendTransactions(ctx context.Context, txns []model.Transaction) error
	SyncRules(ctx context.Context, rules []model.CategoryRule) error
	UpdateCategories(ctx context.Context, updates []model.CategoryUpdate) error
}

// ImportLedger tracks which files and transaction hashes have already been
// ingested, making repeat imports no-ops.
type ImportLedger interface {
	WasImported(ctx context.Context, fileHash string) (bool, error)
	FilterNew(ctx context.Context, txns []model.Transaction) ([]model.Transaction, error)
	MarkImported(ctx context.Context, record ledger.ImportRecord, txns []model.Transaction) error
	ListImports(ctx context.Context) ([]ledger.ImportRecord, error)
}
