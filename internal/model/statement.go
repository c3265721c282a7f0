package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SignConvention describes how a source encodes the direction of money
// movement in its raw amounts.
type SignConvention string

const (
	// SignSigned means amounts are already signed (negative = expense).
	SignSigned SignConvention = "signed"
	// SignPositiveExpense means positive amounts are expenses, the usual
	// card statement convention.
	SignPositiveExpense SignConvention = "positive-expense"
	// SignTypeColumn means an unsigned amount plus a Debit/Credit type
	// column decides the direction.
	SignTypeColumn SignConvention = "type-column"
)

// SourceProfile carries the conventions a source uses so the normalizer
// can convert its raw records without source-specific code paths.
type SourceProfile struct {
	DateLayout     string
	Sign           SignConvention
	Currency       string
	DefaultAccount string
}

// RawRecord is one transaction line as a parser read it, before any
// normalization. Every value is carried as the string the file contained.
type RawRecord struct {
	Date         string
	Description  string
	Amount       string
	TxnType      string // Debit/Credit flag for type-column sources
	Account      string
	CategoryHint string
	Country      string // Two-letter country code when the statement prints one
	Currency     string
	Source       string
	Line         int // 1-based line number in the statement file
}

// Statement is the result of parsing one statement file.
type Statement struct {
	Source        string
	Account       string
	FileHash      string
	Records       []RawRecord
	DeclaredTotal *decimal.Decimal // Total printed on the statement, if the format carries one
}

// RawSum adds up the record amounts in the source's own sign convention.
// Statements that declare a total are reconciled against this sum.
func (s *Statement) RawSum() (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, rec := range s.Records {
		d, err := ParseMoney(rec.Amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to sum record at line %d: %w", rec.Line, err)
		}
		sum = sum.Add(d)
	}
	return sum, nil
}
