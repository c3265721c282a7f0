package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-dev/centavo/internal/common"
	"github.com/centavo-dev/centavo/internal/model"
)

func TestNubankParse(t *testing.T) {
	const data = `date,category,title,amount
2024-01-05,restaurante,Padaria do Ze,56.90
2024-01-08,transporte,Uber *Trip,23.40
2024-01-10,eletrônicos,Amzn Mktplace,412.00
`

	p := NewNubankParser()
	stmt, err := p.Parse(context.Background(), strings.NewReader(data))
	require.NoError(t, err)

	require.Len(t, stmt.Records, 3)
	assert.Equal(t, "nubank", stmt.Source)
	assert.Equal(t, "Nubank Card", stmt.Account)

	first := stmt.Records[0]
	assert.Equal(t, "2024-01-05", first.Date)
	assert.Equal(t, "Padaria do Ze", first.Description)
	assert.Equal(t, "56.90", first.Amount)
	assert.Equal(t, "restaurante", first.CategoryHint)
	assert.Equal(t, 2, first.Line)
}

func TestNubankParseMissingHeader(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty file", data: ""},
		{name: "wrong header", data: "data,categoria,titulo,valor\n"},
		{name: "data without header", data: "2024-01-05,restaurante,Padaria,56.90\n"},
	}

	p := NewNubankParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(context.Background(), strings.NewReader(tt.data))
			require.Error(t, err)

			var malformed *common.MalformedStatementError
			assert.True(t, errors.As(err, &malformed))
		})
	}
}

func TestChaseParse(t *testing.T) {
	const data = `Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #
DEBIT,01/16/2024,COFFEE SHOP NYC,-4.50,ACH_DEBIT,1995.50,
CREDIT,01/31/2024,PAYROLL ACME CORP,2500.00,ACH_CREDIT,4495.50,
DEBIT,02/02/2024,AMZN MKTPLACE,-89.99,DEBIT_CARD,4405.51,
`

	p := NewChaseParser()
	stmt, err := p.Parse(context.Background(), strings.NewReader(data))
	require.NoError(t, err)

	require.Len(t, stmt.Records, 3)
	assert.Equal(t, "chase", stmt.Source)

	assert.Equal(t, "01/16/2024", stmt.Records[0].Date)
	assert.Equal(t, "COFFEE SHOP NYC", stmt.Records[0].Description)
	assert.Equal(t, "-4.50", stmt.Records[0].Amount)
	assert.Equal(t, "2500.00", stmt.Records[1].Amount)
}

func TestChaseParseRejectsOtherCSV(t *testing.T) {
	p := NewChaseParser()
	_, err := p.Parse(context.Background(), strings.NewReader("Date,Description,Amount,Type\n"))
	require.Error(t, err)

	var malformed *common.MalformedStatementError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 1, malformed.Line)
}

func TestGenericParse(t *testing.T) {
	const data = `Date,Description,Amount,Type
01/02/2024,Coffee Shop,4.50,Debit
01/03/2024,Refund Store,12.00,Credit
`

	p := NewGenericCSVParser()
	stmt, err := p.Parse(context.Background(), strings.NewReader(data))
	require.NoError(t, err)

	require.Len(t, stmt.Records, 2)
	assert.Equal(t, model.RawRecord{
		Date:        "01/02/2024",
		Description: "Coffee Shop",
		Amount:      "4.50",
		TxnType:     "Debit",
		Source:      "generic",
		Line:        2,
	}, stmt.Records[0])
	assert.Equal(t, "Credit", stmt.Records[1].TxnType)
}

func TestGenericParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "missing header", data: "01/02/2024,Coffee Shop,4.50,Debit\n"},
		{name: "empty file", data: ""},
		{name: "bad type column", data: "Date,Description,Amount,Type\n01/02/2024,Coffee Shop,4.50,Maybe\n"},
		{name: "too few columns", data: "Date,Description,Amount,Type\n01/02/2024,Coffee Shop\n"},
	}

	p := NewGenericCSVParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(context.Background(), strings.NewReader(tt.data))
			require.Error(t, err)

			var malformed *common.MalformedStatementError
			assert.True(t, errors.As(err, &malformed), "want MalformedStatementError, got %T", err)
		})
	}
}

func TestItauParse(t *testing.T) {
	const data = `05/01/2024;PIX TRANSF JOAO;-150,00
08/01/2024;TED RECEBIDA MARIA;1.200,00
10/01/2024;SALDO DO DIA;1.050,00
12/01/2024;COMPRA CARTAO PADARIA;-35,50
`

	p := NewItauParser()
	stmt, err := p.Parse(context.Background(), strings.NewReader(data))
	require.NoError(t, err)

	// The SALDO line is a balance, not a transaction.
	require.Len(t, stmt.Records, 3)
	assert.Equal(t, "05/01/2024", stmt.Records[0].Date)
	assert.Equal(t, "-150,00", stmt.Records[0].Amount)
	assert.Equal(t, "TED RECEBIDA MARIA", stmt.Records[1].Description)
	assert.Equal(t, "1.200,00", stmt.Records[1].Amount)
}

func TestItauParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty file", data: ""},
		{name: "not semicolon separated", data: "05/01/2024 PIX TRANSF -150,00\n"},
		{name: "missing amount", data: "05/01/2024;PIX TRANSF\n"},
	}

	p := NewItauParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(context.Background(), strings.NewReader(tt.data))
			require.Error(t, err)

			var malformed *common.MalformedStatementError
			assert.True(t, errors.As(err, &malformed))
		})
	}
}
