// Package model defines the canonical types shared by every stage of the
// pipeline: raw records as parsers emit them, normalized transactions, and
// the category rules derived from history.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single normalized financial transaction. Amounts are
// signed: expenses are strictly negative, income and refunds positive,
// regardless of the convention of the source that produced them.
type Transaction struct {
	Date           time.Time
	ID             string
	Description    string // Cleaned description
	RawDescription string // Description exactly as parsed
	Account        string
	Source         string
	Category       string // Empty means uncategorized; that is a normal state
	CategoryHint   string // Category suggested by the statement itself, if any
	Who            string // Optional spender attribution
	Country        string
	Currency       string
	Hash           string
	Amount         decimal.Decimal
}

// GenerateHash creates a stable hash for duplicate detection. Two
// transactions with the same date, amount, description, and account are
// considered the same transaction.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		t.RawDescription,
		t.Account)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// IsExpense reports whether the transaction is an outflow.
func (t *Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// IsCategorized reports whether a category has been assigned.
func (t *Transaction) IsCategorized() bool {
	return t.Category != ""
}
