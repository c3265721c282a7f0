package sheets

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-dev/centavo/internal/model"
)

func TestTransactionRowRoundTrip(t *testing.T) {
	txn := model.Transaction{
		Date:           time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description:    "PADARIA DO ZE",
		RawDescription: "PADARIA DO ZE",
		Amount:         decimal.RequireFromString("-42.50"),
		Category:       "Restaurants",
		Account:        "nubank",
		Source:         "nubank",
		Who:            "ana",
		Country:        "BR",
		Currency:       "BRL",
	}
	txn.Hash = txn.GenerateHash()

	row := transactionToRow(txn)
	idx := headerIndex(transactionHeader())

	decoded, ok := rowToTransaction(row, idx)
	require.True(t, ok)

	assert.Equal(t, txn.Date, decoded.Date)
	assert.Equal(t, txn.Description, decoded.Description)
	assert.True(t, txn.Amount.Equal(decoded.Amount))
	assert.Equal(t, txn.Category, decoded.Category)
	assert.Equal(t, txn.Account, decoded.Account)
	assert.Equal(t, txn.Source, decoded.Source)
	assert.Equal(t, txn.Who, decoded.Who)
	assert.Equal(t, txn.Country, decoded.Country)
	assert.Equal(t, txn.Currency, decoded.Currency)
	assert.Equal(t, txn.Hash, decoded.Hash)
}

func TestRowToTransactionSkipsNonRows(t *testing.T) {
	idx := headerIndex(transactionHeader())

	tests := []struct {
		name string
		row  []any
	}{
		{name: "empty row", row: []any{}},
		{name: "blank cells", row: []any{"", "", "", "", "", "", "", "", "", ""}},
		{name: "total row without date", row: []any{"TOTAL", "", "1234.56"}},
		{name: "note row without amount", row: []any{"2024-03-15", "remember to check this", ""}},
		{name: "unparseable date", row: []any{"March 15th", "COFFEE", "-4.50"}},
		{name: "unparseable amount", row: []any{"2024-03-15", "COFFEE", "four fifty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := rowToTransaction(tt.row, idx)
			assert.False(t, ok)
		})
	}
}

func TestRowToTransactionHeaderDriven(t *testing.T) {
	// Columns reordered and renamed in case; decoding must follow the
	// header, not the canonical layout.
	header := []any{"Amount", "DATE", "description", "Extra"}
	idx := headerIndex(header)

	txn, ok := rowToTransaction([]any{"-10.00", "2024-01-02", "LUNCH", "ignored"}, idx)
	require.True(t, ok)

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), txn.Date)
	assert.Equal(t, "LUNCH", txn.Description)
	assert.True(t, decimal.RequireFromString("-10.00").Equal(txn.Amount))
}

func TestRowToTransactionHandTypedRows(t *testing.T) {
	idx := headerIndex(transactionHeader())

	// Day-first date and Brazilian decimal separators, as typed by the
	// spreadsheet's owner.
	row := []any{"15/03/2024", "MERCADO LIVRE", "-1.234,56", "Shopping", "itau", "itau", "ana", "BR", "BRL", ""}

	txn, ok := rowToTransaction(row, idx)
	require.True(t, ok)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), txn.Date)
	assert.True(t, decimal.RequireFromString("-1234.56").Equal(txn.Amount))
	assert.NotEmpty(t, txn.Hash, "hash should be generated when the cell is blank")
	assert.Equal(t, "MERCADO LIVRE", txn.RawDescription)
}

func TestRuleRow(t *testing.T) {
	rule := model.CategoryRule{
		Key:      "padaria do ze",
		Category: "Restaurants",
		Count:    7,
		LastSeen: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	row := ruleToRow(rule)
	require.Len(t, row, len(ruleColumns))

	assert.Equal(t, "padaria do ze", row[0])
	assert.Equal(t, "Restaurants", row[1])
	assert.Equal(t, 7, row[2])
	assert.Equal(t, "2024-03-15", row[3])
}

func TestColumnLetter(t *testing.T) {
	tests := []struct {
		want  string
		index int
	}{
		{want: "A", index: 0},
		{want: "D", index: 3},
		{want: "Z", index: 25},
		{want: "AA", index: 26},
		{want: "AB", index: 27},
		{want: "AZ", index: 51},
		{want: "BA", index: 52},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, columnLetter(tt.index))
	}
}
