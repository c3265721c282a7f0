package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FileStatus is the outcome of one file in a run.
type FileStatus string

const (
	// StatusImported means the file went through the whole pipeline.
	StatusImported FileStatus = "imported"
	// StatusSkipped means the ledger had already seen the file.
	StatusSkipped FileStatus = "skipped"
	// StatusFailed means a per-file error stopped this file.
	StatusFailed FileStatus = "failed"
)

// FileResult is one file's outcome within a run.
type FileResult struct {
	Err           error
	Path          string
	Source        string
	Status        FileStatus
	Reason        string
	Parsed        int
	New           int
	Duplicates    int
	Categorized   int
	Uncategorized int
}

// RunSummary aggregates a whole run.
type RunSummary struct {
	Files         []FileResult
	Parsed        int
	Imported      int
	Duplicates    int
	Categorized   int
	Uncategorized int
	Skipped       int
	Failed        int
	DryRun        bool
}

func (s *RunSummary) add(result FileResult) {
	s.Files = append(s.Files, result)
	switch result.Status {
	case StatusImported:
		s.Parsed += result.Parsed
		s.Imported += result.New
		s.Duplicates += result.Duplicates
		s.Categorized += result.Categorized
		s.Uncategorized += result.Uncategorized
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

// HasFailures reports whether any file failed.
func (s *RunSummary) HasFailures() bool {
	return s.Failed > 0
}

// ReconciliationError means a statement's parsed amounts do not add up to
// the total the statement itself declares.
type ReconciliationError struct {
	Declared decimal.Decimal
	Computed decimal.Decimal
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("statement does not reconcile: declared total %s, parsed sum %s",
		e.Declared.StringFixed(2), e.Computed.StringFixed(2))
}
