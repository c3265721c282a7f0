package parser

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/centavo-dev/centavo/internal/common"
	"github.com/centavo-dev/centavo/internal/model"
)

// ChaseParser reads Chase checking account CSV exports. Amounts are already
// signed: debits negative, credits positive.
type ChaseParser struct{}

// NewChaseParser creates a parser for Chase account activity CSVs.
func NewChaseParser() *ChaseParser {
	return &ChaseParser{}
}

// Source returns the source id.
func (p *ChaseParser) Source() string { return "chase" }

// Profile returns the source conventions.
func (p *ChaseParser) Profile() model.SourceProfile {
	return model.SourceProfile{
		DateLayout:     "01/02/2006",
		Sign:           model.SignSigned,
		Currency:       "USD",
		DefaultAccount: "Chase Checking",
	}
}

// Detect reports whether data starts with the Chase activity header.
func (p *ChaseParser) Detect(data []byte) bool {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	return strings.HasPrefix(strings.TrimSpace(string(line)), "Details,Posting Date,Description,Amount")
}

// Parse reads a Chase account activity CSV.
func (p *ChaseParser) Parse(_ context.Context, r io.Reader) (*model.Statement, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &common.MalformedStatementError{
			Source: p.Source(),
			Line:   1,
			Reason: "missing header",
		}
	}
	if len(header) < 5 || header[0] != "Details" || header[1] != "Posting Date" {
		return nil, &common.MalformedStatementError{
			Source: p.Source(),
			Line:   1,
			Reason: "not a Chase activity export",
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
		if len(row) < 5 {
			return nil, &common.MalformedStatementError{
				Source: p.Source(),
				Line:   line,
				Reason: "too few columns",
			}
		}

		stmt.Records = append(stmt.Records, model.RawRecord{
			Date:        row[1],
			Description: row[2],
			Amount:      row[3],
			TxnType:     row[4],
			Source:      p.Source(),
			Line:        line,
		})
	}

	return stmt, nil
}
