package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/centavo-dev/centavo/internal/common"
	"github.com/centavo-dev/centavo/internal/model"
)

var (
	faturaTxnRe = regexp.MustCompile(
		`^(?P<date>\d{2}/\d{2})\s+(?P<description>.+?)(?:\s+(?P<country>[A-Z]{2})\s+)?\s*R\$\s*(?P<value>-?[\d.,]+)$`)
	faturaTotalRe   = regexp.MustCompile(`Total da Fatura\s+R\$\s*([\d.,]+)`)
	faturaSectionRe = regexp.MustCompile(`^[A-Za-zÀ-ÿ][A-Za-zÀ-ÿ\s]*[A-Za-zÀ-ÿ]$`)
)

// Lines that carry no transaction and must be skipped.
var faturaIgnore = []string{
	"DATA DESCRIÇÃO PAÍS VALOR",
	"SALDO FATURA ANTERIOR",
	"SUBTOTAL",
	"TOTAL DA FATURA",
	"PGTO DEBITO CONTA",
}

// FaturaParser reads Brazilian credit card invoice text (the copy-pasteable
// body of a PDF fatura). Transactions are DD/MM lines with an R$ value;
// headings between them name the card's own spending sections and are
// carried as category hints. Purchases are positive, refunds negative.
type FaturaParser struct {
	// Now is the clock used to resolve the missing year on DD/MM dates.
	// Overridable for tests.
	Now func() time.Time
}

// NewFaturaParser creates a parser for Brazilian card invoice text.
func NewFaturaParser() *FaturaParser {
	return &FaturaParser{Now: time.Now}
}

// Source returns the source id.
func (p *FaturaParser) Source() string { return "fatura" }

// Profile returns the source conventions.
func (p *FaturaParser) Profile() model.SourceProfile {
	return model.SourceProfile{
		DateLayout:     "02/01/2006",
		Sign:           model.SignPositiveExpense,
		Currency:       "BRL",
		DefaultAccount: "Cartão de Crédito",
	}
}

// Detect reports whether data looks like a fatura body: it must carry the
// statement's own total line.
func (p *FaturaParser) Detect(data []byte) bool {
	return faturaTotalRe.Match(data)
}

// Parse reads a fatura text statement. Only current-period transactions are
// captured; the previous balance and its payment are not transactions.
func (p *FaturaParser) Parse(_ context.Context, r io.Reader) (*model.Statement, error) {
	stmt := &model.Statement{
		Source:  p.Source(),
		Account: p.Profile().DefaultAccount,
	}

	scanner := bufio.NewScanner(r)
	line := 0
	section := ""
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "Página") {
			continue
		}

		upper := strings.ToUpper(text)

		if m := faturaTotalRe.FindStringSubmatch(text); m != nil {
			total, err := model.ParseMoney(m[1])
			if err != nil {
				return nil, &common.MalformedStatementError{
					Source: p.Source(),
					Line:   line,
					Reason: fmt.Sprintf("bad statement total: %v", err),
				}
			}
			stmt.DeclaredTotal = &total
			continue
		}

		if containsAny(upper, faturaIgnore) {
			continue
		}

		if strings.Contains(upper, "PAGAMENTOS/CRÉDITOS") {
			section = "Refunds"
			continue
		}

		// Section headings are bare words with no R$ value and no date.
		if faturaSectionRe.MatchString(text) && !strings.Contains(text, "R$") && !strings.Contains(text, "/") {
			section = text
			continue
		}

		groups := common.NamedGroups(faturaTxnRe, text)
		if groups == nil {
			continue
		}

		country := strings.TrimSpace(groups["country"])
		if country == "" {
			country = "BR"
		}

		stmt.Records = append(stmt.Records, model.RawRecord{
			Date:         p.resolveYear(groups["date"]),
			Description:  strings.TrimSpace(groups["description"]),
			Amount:       groups["value"],
			CategoryHint: section,
			Country:      country,
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

	if stmt.DeclaredTotal == nil {
		return nil, &common.MalformedStatementError{
			Source: p.Source(),
			Reason: "statement has no Total da Fatura line",
		}
	}

	return stmt, nil
}

// resolveYear turns a DD/MM date into DD/MM/YYYY. A month later than the
// current one belongs to the previous year.
func (p *FaturaParser) resolveYear(ddmm string) string {
	now := p.Now()
	year := now.Year()

	parts := strings.Split(ddmm, "/")
	if len(parts) == 2 {
		var month int
		if _, err := fmt.Sscanf(parts[1], "%d", &month); err == nil {
			if month > int(now.Month()) {
				year--
			}
		}
	}
	return fmt.Sprintf("%s/%d", ddmm, year)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
