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

var (
	bbTxnRe = regexp.MustCompile(
		`^(?P<date>\d{2}\.\d{2}\.\d{4})(?P<description>.+?)\s*(?P<country>[A-Z]{2})\s+(?P<value>-?[\d.,]+)\s+[\d.,]+$`)
	bbTotalRe  = regexp.MustCompile(`^\s*Total\s+[\d\s]+\s+([\d.,]+)\s+[\d.,]+$`)
	bbDigitRe  = regexp.MustCompile(`\d`)
	bbHeaderRe = regexp.MustCompile(`^[A-Za-zÀ-ÿ][A-Za-zÀ-ÿ\s]*[A-Za-zÀ-ÿ]$`)
)

var bbIgnore = []string{
	"DATA     TRANSAÇÕES",
	"SALDO FATURA ANTERIOR",
	"SUBTOTAL",
	"TOTAL",
	"----",
}

// BBCardParser reads Banco do Brasil credit card statements as dumped by
// SISBB. Transactions live in the DEMONSTRATIVO section as DD.MM.YYYY lines
// with a country code, the BRL value, and a USD column that is ignored.
type BBCardParser struct{}

// NewBBCardParser creates a parser for Banco do Brasil SISBB card statements.
func NewBBCardParser() *BBCardParser {
	return &BBCardParser{}
}

// Source returns the source id.
func (p *BBCardParser) Source() string { return "bbcard" }

// Profile returns the source conventions.
func (p *BBCardParser) Profile() model.SourceProfile {
	return model.SourceProfile{
		DateLayout:     "02.01.2006",
		Sign:           model.SignPositiveExpense,
		Currency:       "BRL",
		DefaultAccount: "BB Cartão de Crédito",
	}
}

// Detect reports whether data carries the SISBB statement markers.
func (p *BBCardParser) Detect(data []byte) bool {
	text := string(data)
	return strings.Contains(text, "SISBB - Sistema de Informações Banco do Brasil") &&
		strings.Contains(text, "Fatura do Cartão de Crédito")
}

// Parse reads a SISBB card statement. Only the DEMONSTRATIVO section holds
// transactions; RESUMO EM REAL ends it.
func (p *BBCardParser) Parse(_ context.Context, r io.Reader) (*model.Statement, error) {
	stmt := &model.Statement{
		Source:  p.Source(),
		Account: p.Profile().DefaultAccount,
	}

	scanner := bufio.NewScanner(r)
	line := 0
	inSection := false
	sectionSeen := false
	section := ""
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		// The statement total sits outside the transaction section.
		if m := bbTotalRe.FindStringSubmatch(scanner.Text()); m != nil {
			if total, err := model.ParseMoney(m[1]); err == nil {
				stmt.DeclaredTotal = &total
			}
		}

		if strings.Contains(text, "DEMONSTRATIVO") {
			inSection = true
			sectionSeen = true
			continue
		}
		if strings.Contains(text, "RESUMO EM REAL") {
			inSection = false
			continue
		}
		if !inSection {
			continue
		}

		upper := strings.ToUpper(text)
		if containsAny(upper, bbIgnore) {
			continue
		}
		if strings.Contains(upper, "PAGAMENTOS/CRÉDITOS") {
			section = "Refunds"
			continue
		}
		if bbHeaderRe.MatchString(text) && !bbDigitRe.MatchString(text) {
			section = text
			continue
		}

		groups := common.NamedGroups(bbTxnRe, text)
		if groups == nil {
			continue
		}

		stmt.Records = append(stmt.Records, model.RawRecord{
			Date:         groups["date"],
			Description:  strings.TrimSpace(groups["description"]),
			Amount:       groups["value"],
			CategoryHint: section,
			Country:      groups["country"],
			Source:       p.Source(),
			Line:         line,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, &common.MalformedStatementError{
			Source: p.Source(),
			Line:   line,
			Reason: err.Error(),
		}
	}

	if !sectionSeen {
		return nil, &common.MalformedStatementError{
			Source: p.Source(),
			Reason: "statement has no DEMONSTRATIVO section",
		}
	}

	return stmt, nil
}
