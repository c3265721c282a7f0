package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/centavo-dev/centavo/internal/common"
	"github.com/centavo-dev/centavo/internal/model"
)

// OFXParser reads OFX/QFX downloads, both bank and credit card statements.
// OFX amounts are already signed: debits negative.
type OFXParser struct{}

// NewOFXParser creates a parser for OFX/QFX files.
func NewOFXParser() *OFXParser {
	return &OFXParser{}
}

// Source returns the source id.
func (p *OFXParser) Source() string { return "ofx" }

// Profile returns the source conventions. Dates are re-emitted in ISO form
// during parsing.
func (p *OFXParser) Profile() model.SourceProfile {
	return model.SourceProfile{
		DateLayout:     "2006-01-02",
		Sign:           model.SignSigned,
		Currency:       "USD",
		DefaultAccount: "OFX Account",
	}
}

// Detect reports whether data looks like an OFX document.
func (p *OFXParser) Detect(data []byte) bool {
	head := strings.ToUpper(string(data[:min(len(data), 512)]))
	return strings.Contains(head, "OFXHEADER") || strings.Contains(head, "<OFX>")
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *OFXParser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, func(match string) string {
		return strings.ToUpper(match)
	})

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// Parse reads an OFX/QFX statement.
func (p *OFXParser) Parse(_ context.Context, r io.Reader) (*model.Statement, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, &common.MalformedStatementError{
			Source: p.Source(),
			Reason: err.Error(),
		}
	}

	stmt := &model.Statement{
		Source:  p.Source(),
		Account: p.Profile().DefaultAccount,
	}

	var bankStmts, ccStmts int
	for _, msg := range resp.Bank {
		if bank, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if bank.BankTranList == nil {
				continue
			}
			account := string(bank.BankAcctFrom.AcctID)
			currency := bank.CurDef.String()
			for _, tx := range bank.BankTranList.Transactions {
				stmt.Records = append(stmt.Records, p.convertTransaction(tx, account, currency))
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if cc, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if cc.BankTranList == nil {
				continue
			}
			account := string(cc.CCAcctFrom.AcctID)
			currency := cc.CurDef.String()
			for _, tx := range cc.BankTranList.Transactions {
				stmt.Records = append(stmt.Records, p.convertTransaction(tx, account, currency))
			}
		}
	}

	slog.Debug("Parsed OFX file",
		"records", len(stmt.Records),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return stmt, nil
}

// convertTransaction converts an OFX transaction into a raw record.
func (p *OFXParser) convertTransaction(tx ofxgo.Transaction, account, currency string) model.RawRecord {
	rec := model.RawRecord{
		Date:        tx.DtPosted.Time.Format("2006-01-02"),
		Description: p.extractMerchantName(tx),
		Amount:      decimal.NewFromBigRat(&tx.TrnAmt.Rat, 2).StringFixed(2),
		TxnType:     fmt.Sprintf("%v", tx.TrnType),
		Account:     account,
		Currency:    currency,
		Source:      p.Source(),
	}

	// OFX carries no categories, but some transaction types imply one.
	switch rec.TxnType {
	case "INT":
		rec.CategoryHint = "Interest"
	case "FEE":
		rec.CategoryHint = "Bank Fees"
	case "ATM":
		rec.CategoryHint = "Cash & ATM"
	}

	return rec
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *OFXParser) extractMerchantName(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	// Fall back to NAME field
	name := string(tx.Name)

	// Use MEMO field if NAME is generic
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	// Remove common processor prefixes
	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Clean up date patterns like "MM/DD" at the beginning
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}
