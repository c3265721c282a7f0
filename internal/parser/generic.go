package parser

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/centavo-dev/centavo/internal/common"
	"github.com/centavo-dev/centavo/internal/model"
)

const genericHeader = "Date,Description,Amount,Type"

// GenericCSVParser reads the plain Date,Description,Amount,Type layout many
// banks offer as a download option. Amounts are unsigned; the Type column
// (Debit or Credit) decides the direction.
type GenericCSVParser struct{}

// NewGenericCSVParser creates a parser for the generic CSV layout.
func NewGenericCSVParser() *GenericCSVParser {
	return &GenericCSVParser{}
}

// Source returns the source id.
func (p *GenericCSVParser) Source() string { return "generic" }

// Profile returns the source conventions.
func (p *GenericCSVParser) Profile() model.SourceProfile {
	return model.SourceProfile{
		DateLayout:     "01/02/2006",
		Sign:           model.SignTypeColumn,
		Currency:       "USD",
		DefaultAccount: "Card",
	}
}

// Detect reports whether data starts with the generic CSV header.
func (p *GenericCSVParser) Detect(data []byte) bool {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	return strings.TrimSpace(string(line)) == genericHeader
}

// Parse reads a generic CSV statement.
func (p *GenericCSVParser) Parse(_ context.Context, r io.Reader) (*model.Statement, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4

	header, err := reader.Read()
	if err != nil {
		return nil, &common.MalformedStatementError{
			Source: p.Source(),
			Line:   1,
			Reason: "missing header",
		}
	}
	if strings.Join(header, ",") != genericHeader {
		return nil, &common.MalformedStatementError{
			Source: p.Source(),
			Line:   1,
			Reason: fmt.Sprintf("expected header %q", genericHeader),
		}
	}

	stmt := &model.Statement{
		Source:  p.Source(),
		Account: p.Profile().DefaultAccount,
	}

	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &common.MalformedStatementError{
				Source: p.Source(),
				Line:   line,
				Reason: err.Error(),
			}
		}

		txnType := strings.TrimSpace(row[3])
		if !strings.EqualFold(txnType, "Debit") && !strings.EqualFold(txnType, "Credit") {
			return nil, &common.MalformedStatementError{
				Source: p.Source(),
				Line:   line,
				Reason: fmt.Sprintf("unknown transaction type %q", row[3]),
			}
		}

		stmt.Records = append(stmt.Records, model.RawRecord{
			Date:        row[0],
			Description: row[1],
			Amount:      row[2],
			TxnType:     txnType,
			Source:      p.Source(),
			Line:        line,
		})
	}

	return stmt, nil
}
