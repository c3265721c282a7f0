package parser

import (
	"bufio"
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/centavo-dev/centavo/internal/common"
	"github.com/centavo-dev/centavo/internal/model"
)

var itauLineRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4};`)

// ItauParser reads Itaú checking account TXT exports: one transaction per
// line, fields separated by semicolons, decimal comma, signed amounts.
type ItauParser struct{}

// NewItauParser creates a parser for Itaú extrato TXT files.
func NewItauParser() *ItauParser {
	return &ItauParser{}
}

// Source returns the source id.
func (p *ItauParser) Source() string { return "itau" }

// Profile returns the source conventions.
func (p *ItauParser) Profile() model.SourceProfile {
	return model.SourceProfile{
		DateLayout:     "02/01/2006",
		Sign:           model.SignSigned,
		Currency:       "BRL",
		DefaultAccount: "Itaú Conta Corrente",
	}
}

// Detect reports whether the first non-empty line looks like an Itaú
// extrato line.
func (p *ItauParser) Detect(data []byte) bool {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return itauLineRe.MatchString(line)
	}
	return false
}

// Parse reads an Itaú extrato TXT file. Balance lines (SALDO) are not
// transactions and are skipped.
func (p *ItauParser) Parse(_ context.Context, r io.Reader) (*model.Statement, error) {
	stmt := &model.Statement{
		Source:  p.Source(),
		Account: p.Profile().DefaultAccount,
	}

	scanner := bufio.NewScanner(r)
	line := 0
	seen := false
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if !itauLineRe.MatchString(text) {
			return nil, &common.MalformedStatementError{
				Source: p.Source(),
				Line:   line,
				Reason: "line does not start with dd/mm/yyyy;",
			}
		}

		parts := strings.Split(text, ";")
		if len(parts) < 3 {
			return nil, &common.MalformedStatementError{
				Source: p.Source(),
				Line:   line,
				Reason: "expected date;description;amount",
			}
		}
		seen = true

		desc := strings.TrimSpace(parts[1])
		if strings.Contains(strings.ToUpper(desc), "SALDO") {
			continue
		}

		stmt.Records = append(stmt.Records, model.RawRecord{
			Date:        strings.TrimSpace(parts[0]),
			Description: desc,
			Amount:      strings.TrimSpace(parts[2]),
			Source:      p.Source(),
			Line:        line,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, &common.MalformedStatementError{
			Source: p.Source(),
			Line:   line,
			Reason: err.Error(),
		}
	}
	if !seen {
		return nil, &common.MalformedStatementError{
			Source: p.Source(),
			Reason: "no transaction lines found",
		}
	}

	return stmt, nil
}
