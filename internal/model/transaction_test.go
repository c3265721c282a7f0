package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleTransaction() Transaction {
	return Transaction{
		Date:           time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
		RawDescription: "PADARIA CENTRAL  SAO PAULO",
		Description:    "PADARIA CENTRAL SAO PAULO",
		Amount:         decimal.RequireFromString("-56.90"),
		Account:        "Cartão de Crédito",
		Source:         "fatura",
	}
}

func TestGenerateHashStable(t *testing.T) {
	a := sampleTransaction()
	b := sampleTransaction()

	assert.Equal(t, a.GenerateHash(), b.GenerateHash())
	assert.Len(t, a.GenerateHash(), 64)
}

func TestGenerateHashIgnoresVolatileFields(t *testing.T) {
	a := sampleTransaction()
	b := sampleTransaction()
	b.ID = "some-uuid"
	b.Category = "Groceries"
	b.Who = "alice"

	assert.Equal(t, a.GenerateHash(), b.GenerateHash(),
		"category, attribution, and id must not change identity")
}

func TestGenerateHashDiffersPerField(t *testing.T) {
	base := sampleTransaction()

	changed := sampleTransaction()
	changed.Date = changed.Date.AddDate(0, 0, 1)
	assert.NotEqual(t, base.GenerateHash(), changed.GenerateHash())

	changed = sampleTransaction()
	changed.Amount = decimal.RequireFromString("-56.91")
	assert.NotEqual(t, base.GenerateHash(), changed.GenerateHash())

	changed = sampleTransaction()
	changed.RawDescription = "PADARIA CENTRAL  RIO"
	assert.NotEqual(t, base.GenerateHash(), changed.GenerateHash())

	changed = sampleTransaction()
	changed.Account = "Conta Corrente"
	assert.NotEqual(t, base.GenerateHash(), changed.GenerateHash())
}

func TestIsExpense(t *testing.T) {
	txn := sampleTransaction()
	assert.True(t, txn.IsExpense())

	txn.Amount = decimal.RequireFromString("2500.00")
	assert.False(t, txn.IsExpense())

	txn.Amount = decimal.Zero
	assert.False(t, txn.IsExpense(), "zero is not an outflow")
}

func TestIsCategorized(t *testing.T) {
	txn := sampleTransaction()
	assert.False(t, txn.IsCategorized())

	txn.Category = "Groceries"
	assert.True(t, txn.IsCategorized())
}
