package engine

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-dev/centavo/internal/model"
	"github.com/centavo-dev/centavo/internal/parser"
	"github.com/centavo-dev/centavo/internal/sheets"
)

func exportTxn(date, desc, amount, category, who string) model.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	txn := model.Transaction{
		Date:           d,
		Description:    desc,
		RawDescription: desc,
		Amount:         decimal.RequireFromString(amount),
		Account:        "acc",
		Source:         "nubank",
		Category:       category,
		Who:            who,
	}
	txn.Hash = txn.GenerateHash()
	return txn
}

func TestExport(t *testing.T) {
	ctx := context.Background()

	store := sheets.NewMockStore()
	store.History = []model.Transaction{
		exportTxn("2024-02-10", "MERCADO CENTRAL", "-1234.56", "Groceries", "ana"),
		exportTxn("2024-01-05", "PADARIA DO ZE", "-56.90", "Restaurants", "ana"),
		exportTxn("2024-03-01", "REEMBOLSO", "100.00", "Refunds", "bruno"),
	}

	eng := New(store, nil, parser.DefaultRegistry())

	var buf strings.Builder
	n, err := eng.Export(ctx, &buf, ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5, "header + 3 transactions + total")

	assert.Equal(t, exportColumns, rows[0])

	// Sorted by date ascending.
	assert.Equal(t, "2024-01-05", rows[1][0])
	assert.Equal(t, "PADARIA DO ZE", rows[1][1])
	assert.Equal(t, "-56,90", rows[1][2])
	assert.Equal(t, "ana", rows[1][6])

	assert.Equal(t, "-1.234,56", rows[2][2], "Brazilian money formatting")

	total := rows[4]
	assert.Equal(t, "TOTAL", total[1])
	assert.Equal(t, "-1.191,46", total[2])
}

func TestExportFilters(t *testing.T) {
	ctx := context.Background()

	store := sheets.NewMockStore()
	store.History = []model.Transaction{
		exportTxn("2024-01-05", "PADARIA DO ZE", "-56.90", "Restaurants", "ana"),
		exportTxn("2024-02-10", "MERCADO CENTRAL", "-1234.56", "Groceries", "ana"),
		exportTxn("2024-03-01", "REEMBOLSO", "100.00", "Refunds", "bruno"),
	}

	eng := New(store, nil, parser.DefaultRegistry())

	t.Run("by category", func(t *testing.T) {
		var buf strings.Builder
		n, err := eng.Export(ctx, &buf, ExportOptions{Category: "Groceries"})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("by date range", func(t *testing.T) {
		var buf strings.Builder
		n, err := eng.Export(ctx, &buf, ExportOptions{
			From: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("empty result still writes header and total", func(t *testing.T) {
		var buf strings.Builder
		n, err := eng.Export(ctx, &buf, ExportOptions{Category: "Nothing"})
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "0,00", rows[1][2])
	})
}
