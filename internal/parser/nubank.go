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

const nubankHeader = "date,category,title,amount"

// NubankParser reads Nubank credit card CSV exports. The export has an ISO
// date, the card's own category, the merchant title, and a positive amount
// for purchases.
type NubankParser struct{}

// NewNubankParser creates a parser for Nubank card CSV exports.
func NewNubankParser() *NubankParser {
	return &NubankParser{}
}

// Source returns the source id.
func (p *NubankParser) Source() string { return "nubank" }

// Profile returns the source conventions.
func (p *NubankParser) Profile() model.SourceProfile {
	return model.SourceProfile{
		DateLayout:     "2006-01-02",
		Sign:           model.SignPositiveExpense,
		Currency:       "BRL",
		DefaultAccount: "Nubank Card",
	}
}

// Detect reports whether data starts with the Nubank CSV header.
func (p *NubankParser) Detect(data []byte) bool {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	return strings.TrimSpace(string(line)) == nubankHeader
}

// Parse reads a Nubank CSV export.
func (p *NubankParser) Parse(_ context.Context, r io.Reader) (*model.Statement, error) {
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
	if strings.Join(header, ",") != nubankHeader {
		return nil, &common.MalformedStatementError{
			Source: p.Source(),
			Line:   1,
			Reason: fmt.Sprintf("unexpected header %q", strings.Join(header, ",")),
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

		stmt.Records = append(stmt.Records, model.RawRecord{
			Date:         row[0],
			CategoryHint: row[1],
			Description:  row[2],
			Amount:       row[3],
			Source:       p.Source(),
			Line:         line,
		})
	}

	return stmt, nil
}
