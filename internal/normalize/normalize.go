// Package normalize converts parsed raw records into canonical
// transactions: dates become time.Time, amounts become signed decimals with
// expenses negative, and every transaction gets its dedup hash.
package normalize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centavo-dev/centavo/internal/common"
	"github.com/centavo-dev/centavo/internal/model"
)

// Normalizer converts statements into transactions. The zero value is
// usable; Who, when set, is stamped on every transaction of the run.
type Normalizer struct {
	Who string
}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize converts every record of a statement. A statement normalizes
// only if all of its records do; the first bad record fails the statement
// with a *common.NormalizationError.
func (n *Normalizer) Normalize(ctx context.Context, stmt *model.Statement, profile model.SourceProfile) ([]model.Transaction, error) {
	txns := make([]model.Transaction, 0, len(stmt.Records))

	for _, rec := range stmt.Records {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		txn, err := n.normalizeRecord(stmt, rec, profile)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, nil
}

func (n *Normalizer) normalizeRecord(stmt *model.Statement, rec model.RawRecord, profile model.SourceProfile) (model.Transaction, error) {
	date, err := time.Parse(profile.DateLayout, strings.TrimSpace(rec.Date))
	if err != nil {
		return model.Transaction{}, &common.NormalizationError{
			Source: stmt.Source,
			Line:   rec.Line,
			Field:  "date",
			Reason: fmt.Sprintf("%q does not match layout %s", rec.Date, profile.DateLayout),
		}
	}

	amount, err := model.ParseMoney(rec.Amount)
	if err != nil {
		return model.Transaction{}, &common.NormalizationError{
			Source: stmt.Source,
			Line:   rec.Line,
			Field:  "amount",
			Reason: err.Error(),
		}
	}

	amount, err = applySign(amount, rec, profile)
	if err != nil {
		return model.Transaction{}, &common.NormalizationError{
			Source: stmt.Source,
			Line:   rec.Line,
			Field:  "type",
			Reason: err.Error(),
		}
	}

	account := firstNonEmpty(rec.Account, stmt.Account, profile.DefaultAccount)
	if account == "" {
		return model.Transaction{}, &common.NormalizationError{
			Source: stmt.Source,
			Line:   rec.Line,
			Field:  "account",
			Reason: "no account label available",
		}
	}

	txn := model.Transaction{
		ID:             uuid.NewString(),
		Date:           date,
		Description:    CleanDescription(rec.Description),
		RawDescription: rec.Description,
		Amount:         amount,
		Account:        account,
		Source:         stmt.Source,
		CategoryHint:   rec.CategoryHint,
		Who:            n.Who,
		Country:        rec.Country,
		Currency:       firstNonEmpty(rec.Currency, profile.Currency),
	}
	txn.Hash = txn.GenerateHash()

	return txn, nil
}

// applySign converts a raw amount into the canonical sign: expenses
// strictly negative.
func applySign(amount decimal.Decimal, rec model.RawRecord, profile model.SourceProfile) (decimal.Decimal, error) {
	switch profile.Sign {
	case model.SignSigned:
		return amount, nil
	case model.SignPositiveExpense:
		return amount.Neg(), nil
	case model.SignTypeColumn:
		switch {
		case strings.EqualFold(rec.TxnType, "Debit"):
			return amount.Abs().Neg(), nil
		case strings.EqualFold(rec.TxnType, "Credit"):
			return amount.Abs(), nil
		default:
			return decimal.Zero, fmt.Errorf("unknown transaction type %q", rec.TxnType)
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown sign convention %q", profile.Sign)
	}
}

// CleanDescription collapses runs of whitespace. Raw statement text often
// carries column padding.
func CleanDescription(desc string) string {
	return strings.Join(strings.Fields(desc), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
