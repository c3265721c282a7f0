// Package engine orchestrates statement ingestion: parse, reconcile,
// normalize, deduplicate against the ledger, categorize from history, and
// append to the store.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/centavo-dev/centavo/internal/categorize"
	"github.com/centavo-dev/centavo/internal/common"
	"github.com/centavo-dev/centavo/internal/ledger"
	"github.com/centavo-dev/centavo/internal/model"
	"github.com/centavo-dev/centavo/internal/normalize"
	"github.com/centavo-dev/centavo/internal/parser"
)

// reconcileTolerance is the largest difference between a statement's
// declared total and the sum of its parsed amounts that still reconciles.
var reconcileTolerance = decimal.RequireFromString("0.01")

// Engine runs the import pipeline.
type Engine struct {
	store    Store
	ledger   ImportLedger
	registry *parser.Registry
}

// New creates an engine. store may be nil for offline runs (check), in
// which case nothing is read from or written to the spreadsheet; ledger
// may be nil, which only disables dedup.
func New(store Store, importLedger ImportLedger, registry *parser.Registry) *Engine {
	return &Engine{
		store:    store,
		ledger:   importLedger,
		registry: registry,
	}
}

// ImportOptions control one import run.
type ImportOptions struct {
	// Source forces a specific parser instead of content detection.
	Source string
	// Who is stamped on every imported transaction.
	Who string
	// Threshold overrides the fuzzy match threshold; zero means default.
	Threshold float64
	// Progress, when set, is called after each file finishes.
	Progress ProgressFunc
	// SkipReconcile disables checking parsed sums against declared totals.
	SkipReconcile bool
	// UseSourceHints falls back to the statement's own category column
	// for transactions the rule set leaves uncategorized.
	UseSourceHints bool
	// DryRun goes through the whole pipeline but writes nothing.
	DryRun bool
	// Force processes files the ledger has already seen.
	Force bool
}

// ProgressFunc is called with each file's result as the run advances.
type ProgressFunc func(FileResult)

// Import runs the pipeline over the given paths (files, directories or
// globs). Per-file problems fail that file and the run continues; store
// failures abort the run with the summary built so far.
func (e *Engine) Import(ctx context.Context, paths []string, opts ImportOptions) (*RunSummary, error) {
	files, err := ExpandPaths(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no statement files found")
	}

	slog.Info("Starting import",
		"files", len(files),
		"dry_run", opts.DryRun)

	rules, err := e.loadRules(ctx, opts.Threshold)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{DryRun: opts.DryRun}
	normalizer := &normalize.Normalizer{Who: opts.Who}

	for _, path := range files {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		result, fatal := e.importFile(ctx, path, opts, rules, normalizer)
		summary.add(result)
		if opts.Progress != nil {
			opts.Progress(result)
		}
		if fatal != nil {
			return summary, fatal
		}
	}

	slog.Info("Import complete",
		"files", len(summary.Files),
		"imported", summary.Imported,
		"duplicates", summary.Duplicates,
		"failed", summary.Failed)

	return summary, nil
}

// Check validates statement files without writing anything: parse,
// reconcile, normalize, and preview categorization when history is
// available.
func (e *Engine) Check(ctx context.Context, paths []string, opts ImportOptions) (*RunSummary, error) {
	opts.DryRun = true
	return e.Import(ctx, paths, opts)
}

// importFile runs the pipeline for one file. The returned error is
// non-nil only for failures that must abort the whole run.
func (e *Engine) importFile(ctx context.Context, path string, opts ImportOptions, rules *categorize.RuleSet, normalizer *normalize.Normalizer) (FileResult, error) {
	result := FileResult{Path: path, Status: StatusFailed}

	stmt, p, err := e.registry.ParseFile(ctx, path, opts.Source)
	if err != nil {
		result.Err = err
		slog.Error("Failed to parse statement", "path", path, "error", err)
		return result, nil
	}
	result.Source = stmt.Source
	result.Parsed = len(stmt.Records)

	if e.ledger != nil && !opts.Force {
		seen, seenErr := e.ledger.WasImported(ctx, stmt.FileHash)
		if seenErr != nil {
			result.Err = seenErr
			return result, fmt.Errorf("failed to consult import ledger: %w", seenErr)
		}
		if seen {
			result.Status = StatusSkipped
			result.Reason = "already imported"
			slog.Info("Skipping statement", "path", path, "reason", result.Reason)
			return result, nil
		}
	}

	if !opts.SkipReconcile {
		if err := reconcile(stmt); err != nil {
			result.Err = err
			slog.Error("Statement failed reconciliation", "path", path, "error", err)
			return result, nil
		}
	}

	txns, err := normalizer.Normalize(ctx, stmt, p.Profile())
	if err != nil {
		if common.IsFileError(err) {
			result.Err = err
			slog.Error("Failed to normalize statement", "path", path, "error", err)
			return result, nil
		}
		result.Err = err
		return result, err
	}

	fresh := txns
	if e.ledger != nil {
		fresh, err = e.ledger.FilterNew(ctx, txns)
		if err != nil {
			result.Err = err
			return result, fmt.Errorf("failed to consult import ledger: %w", err)
		}
	}
	result.New = len(fresh)
	result.Duplicates = len(txns) - len(fresh)

	for i := range fresh {
		switch {
		case applyRule(rules, &fresh[i]):
			result.Categorized++
		case opts.UseSourceHints && fresh[i].CategoryHint != "":
			fresh[i].Category = fresh[i].CategoryHint
			result.Categorized++
		default:
			result.Uncategorized++
		}
	}

	if opts.DryRun {
		result.Status = StatusImported
		slog.Info("Checked statement",
			"path", path,
			"source", result.Source,
			"parsed", result.Parsed,
			"new", result.New,
			"categorized", result.Categorized)
		return result, nil
	}

	if len(fresh) > 0 {
		if err := e.store.AppendTransactions(ctx, fresh); err != nil {
			result.Err = err
			return result, fmt.Errorf("failed to store transactions: %w", err)
		}
	}

	if e.ledger != nil {
		record := ledger.ImportRecord{
			FileHash:        stmt.FileHash,
			FileName:        filepath.Base(path),
			Source:          stmt.Source,
			Transactions:    len(txns),
			NewTransactions: len(fresh),
		}
		if err := e.ledger.MarkImported(ctx, record, txns); err != nil {
			// The rows are already in the store; aborting here keeps the
			// ledger honest instead of silently re-importing next run.
			result.Err = err
			return result, fmt.Errorf("failed to record import in ledger: %w", err)
		}
	}

	result.Status = StatusImported
	slog.Info("Imported statement",
		"path", path,
		"source", result.Source,
		"new", result.New,
		"duplicates", result.Duplicates,
		"categorized", result.Categorized)

	return result, nil
}

// applyRule categorizes one transaction from the rule set.
func applyRule(rules *categorize.RuleSet, txn *model.Transaction) bool {
	if rules == nil {
		return false
	}
	category, ok := rules.Categorize(txn.Description)
	if !ok {
		return false
	}
	txn.Category = category
	return true
}

// reconcile compares the sum of parsed amounts against the statement's
// declared total. Statements without a declared total always reconcile.
func reconcile(stmt *model.Statement) error {
	if stmt.DeclaredTotal == nil {
		return nil
	}

	sum, err := stmt.RawSum()
	if err != nil {
		return fmt.Errorf("failed to reconcile statement: %w", err)
	}

	diff := sum.Abs().Sub(stmt.DeclaredTotal.Abs()).Abs()
	if diff.GreaterThan(reconcileTolerance) {
		return &ReconciliationError{
			Declared: *stmt.DeclaredTotal,
			Computed: sum,
		}
	}
	return nil
}

// loadRules derives the rule set from store history. Without a store the
// rule set is empty and everything stays uncategorized.
func (e *Engine) loadRules(ctx context.Context, threshold float64) (*categorize.RuleSet, error) {
	if threshold == 0 {
		threshold = categorize.DefaultThreshold
	}

	if e.store == nil {
		rules, _ := categorize.BuildRuleSet(nil, threshold)
		return rules, nil
	}

	history, err := e.store.ReadHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction history: %w", err)
	}

	rules, conflicts := categorize.BuildRuleSet(history, threshold)
	for _, conflict := range conflicts {
		slog.Warn("Category history disagrees",
			"key", conflict.Key,
			"winner", conflict.Winner,
			"others", conflict.Others)
	}

	slog.Info("Derived category rules",
		"rules", rules.Len(),
		"history", len(history),
		"conflicts", len(conflicts))

	return rules, nil
}

// DeriveRules builds the category rule set from store history.
func (e *Engine) DeriveRules(ctx context.Context) ([]model.CategoryRule, []model.RuleConflict, error) {
	if e.store == nil {
		return nil, nil, fmt.Errorf("no store configured")
	}

	history, err := e.store.ReadHistory(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read transaction history: %w", err)
	}

	ruleSet, conflicts := categorize.BuildRuleSet(history, categorize.DefaultThreshold)
	return ruleSet.Rules(), conflicts, nil
}

// SyncRules derives the rule set and writes it to the reference worksheet.
// Returns the number of rules written.
func (e *Engine) SyncRules(ctx context.Context) (int, error) {
	rules, conflicts, err := e.DeriveRules(ctx)
	if err != nil {
		return 0, err
	}

	for _, conflict := range conflicts {
		slog.Warn("Category history disagrees",
			"key", conflict.Key,
			"winner", conflict.Winner,
			"others", conflict.Others)
	}

	if err := e.store.SyncRules(ctx, rules); err != nil {
		return 0, fmt.Errorf("failed to sync rules: %w", err)
	}
	return len(rules), nil
}

// History reads the full transaction history from the store.
func (e *Engine) History(ctx context.Context) ([]model.Transaction, error) {
	if e.store == nil {
		return nil, fmt.Errorf("no store configured")
	}
	return e.store.ReadHistory(ctx)
}

// Uncategorized returns stored transactions that still lack a category.
func (e *Engine) Uncategorized(ctx context.Context) ([]model.Transaction, error) {
	history, err := e.History(ctx)
	if err != nil {
		return nil, err
	}

	var out []model.Transaction
	for _, txn := range history {
		if !txn.IsCategorized() {
			out = append(out, txn)
		}
	}
	return out, nil
}

// ApplyCategories writes reviewed category assignments back to the store.
func (e *Engine) ApplyCategories(ctx context.Context, updates []model.CategoryUpdate) error {
	if e.store == nil {
		return fmt.Errorf("no store configured")
	}
	if len(updates) == 0 {
		return nil
	}
	return e.store.UpdateCategories(ctx, updates)
}

// ListImports returns the ledger's import history, most recent first.
func (e *Engine) ListImports(ctx context.Context) ([]ledger.ImportRecord, error) {
	if e.ledger == nil {
		return nil, fmt.Errorf("no import ledger configured")
	}
	return e.ledger.ListImports(ctx)
}

// statementExtensions are the file types picked up when a directory is
// given instead of explicit files.
var statementExtensions = map[string]bool{
	".csv": true,
	".txt": true,
	".ofx": true,
	".qfx": true,
}

// ExpandPaths resolves files, directories and glob patterns into a sorted,
// deduplicated file list.
func ExpandPaths(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			entries, readErr := os.ReadDir(arg)
			if readErr != nil {
				return nil, fmt.Errorf("failed to read directory %q: %w", arg, readErr)
			}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				if statementExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
					files = append(files, filepath.Join(arg, entry.Name()))
				}
			}
		case err == nil:
			files = append(files, arg)
		default:
			matches, globErr := filepath.Glob(arg)
			if globErr != nil {
				return nil, fmt.Errorf("bad file pattern %q: %w", arg, globErr)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %q", arg)
			}
			files = append(files, matches...)
		}
	}

	sort.Strings(files)
	deduped := files[:0]
	for i, f := range files {
		if i == 0 || files[i-1] != f {
			deduped = append(deduped, f)
		}
	}
	return deduped, nil
}
