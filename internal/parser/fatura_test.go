package parser

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-dev/centavo/internal/common"
)

const sampleFatura = `Página 1 de 2
DATA DESCRIÇÃO PAÍS VALOR
SALDO FATURA ANTERIOR R$ 1.500,00
10/01 PGTO DEBITO CONTA 1234 R$ -1.500,00
Restaurantes
07/01 PADARIA DO ZE BR R$ 56,90
09/01 IFOOD *IFOOD BR R$ 42,10
Serviços
15/01 NETFLIX.COM R$ 39,90
PAGAMENTOS/CRÉDITOS
18/01 ESTORNO COMPRA BR R$ -42,10
SUBTOTAL R$ 96,80
Total da Fatura R$ 96,80
`

func fixedNow() time.Time {
	return time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC)
}

func TestFaturaParse(t *testing.T) {
	p := NewFaturaParser()
	p.Now = fixedNow

	stmt, err := p.Parse(context.Background(), strings.NewReader(sampleFatura))
	require.NoError(t, err)

	// The previous balance and its payment are not transactions.
	require.Len(t, stmt.Records, 4)

	first := stmt.Records[0]
	assert.Equal(t, "07/01/2024", first.Date)
	assert.Equal(t, "PADARIA DO ZE", first.Description)
	assert.Equal(t, "56,90", first.Amount)
	assert.Equal(t, "Restaurantes", first.CategoryHint)
	assert.Equal(t, "BR", first.Country)

	netflix := stmt.Records[2]
	assert.Equal(t, "NETFLIX.COM", netflix.Description)
	assert.Equal(t, "Serviços", netflix.CategoryHint)
	assert.Equal(t, "BR", netflix.Country, "country defaults to BR when the line has none")

	refund := stmt.Records[3]
	assert.Equal(t, "ESTORNO COMPRA", refund.Description)
	assert.Equal(t, "Refunds", refund.CategoryHint)
	assert.Equal(t, "-42,10", refund.Amount)

	require.NotNil(t, stmt.DeclaredTotal)
	assert.Equal(t, "96.8", stmt.DeclaredTotal.String())
}

func TestFaturaYearRollsBack(t *testing.T) {
	const data = `Restaurantes
07/11 CHURRASCARIA BOI FELIZ BR R$ 120,00
Total da Fatura R$ 120,00
`

	p := NewFaturaParser()
	p.Now = fixedNow // February 2024

	stmt, err := p.Parse(context.Background(), strings.NewReader(data))
	require.NoError(t, err)

	// November is after February, so the purchase was last year.
	require.Len(t, stmt.Records, 1)
	assert.Equal(t, "07/11/2023", stmt.Records[0].Date)
}

func TestFaturaRequiresTotal(t *testing.T) {
	const data = `Restaurantes
07/01 PADARIA DO ZE BR R$ 56,90
`

	p := NewFaturaParser()
	p.Now = fixedNow

	_, err := p.Parse(context.Background(), strings.NewReader(data))
	require.Error(t, err)

	var malformed *common.MalformedStatementError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, malformed.Reason, "Total da Fatura")
}

func TestFaturaDetect(t *testing.T) {
	p := NewFaturaParser()
	assert.True(t, p.Detect([]byte(sampleFatura)))
	assert.False(t, p.Detect([]byte("Date,Description,Amount,Type\n")))
}
