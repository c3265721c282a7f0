package sheets

import (
	"fmt"
	"strings"
	"time"

	"github.com/centavo-dev/centavo/internal/model"
)

// Column layout of the transactions worksheet. Reading is header-driven,
// so a spreadsheet with reordered or extra columns still round-trips.
var transactionColumns = []string{
	"Date",
	"Description",
	"Amount",
	"Category",
	"Account",
	"Source",
	"Who",
	"Country",
	"Currency",
	"Hash",
}

// Column layout of the reference (rules) worksheet.
var ruleColumns = []string{
	"Descrição",
	"Categoria",
	"Ocorrências",
	"Última vez",
}

// Date layouts accepted when reading rows back. The client always writes
// ISO; hand-typed rows tend to use the Brazilian day-first form.
var rowDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
}

func transactionHeader() []any {
	header := make([]any, len(transactionColumns))
	for i, col := range transactionColumns {
		header[i] = col
	}
	return header
}

func transactionToRow(txn model.Transaction) []any {
	return []any{
		txn.Date.Format("2006-01-02"),
		txn.Description,
		txn.Amount.StringFixed(2),
		txn.Category,
		txn.Account,
		txn.Source,
		txn.Who,
		txn.Country,
		txn.Currency,
		txn.Hash,
	}
}

func ruleHeader() []any {
	header := make([]any, len(ruleColumns))
	for i, col := range ruleColumns {
		header[i] = col
	}
	return header
}

func ruleToRow(rule model.CategoryRule) []any {
	return []any{
		rule.Key,
		rule.Category,
		rule.Count,
		rule.LastSeen.Format("2006-01-02"),
	}
}

// headerIndex maps lowercased column names to their positions.
func headerIndex(row []any) map[string]int {
	idx := make(map[string]int, len(row))
	for i, cell := range row {
		name := strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", cell)))
		if name != "" {
			idx[name] = i
		}
	}
	return idx
}

func cellString(row []any, idx map[string]int, column string) string {
	i, ok := idx[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[i]))
}

// rowToTransaction decodes one sheet row. Rows without a date and an
// amount (blanks, totals, notes) are reported as not-a-transaction rather
// than errors: the sheet belongs to its owner, not to us.
func rowToTransaction(row []any, idx map[string]int) (model.Transaction, bool) {
	dateText := cellString(row, idx, "date")
	amountText := cellString(row, idx, "amount")
	if dateText == "" || amountText == "" {
		return model.Transaction{}, false
	}

	var date time.Time
	var err error
	for _, layout := range rowDateLayouts {
		date, err = time.Parse(layout, dateText)
		if err == nil {
			break
		}
	}
	if err != nil {
		return model.Transaction{}, false
	}

	amount, err := model.ParseMoney(amountText)
	if err != nil {
		return model.Transaction{}, false
	}

	txn := model.Transaction{
		Date:        date,
		Description: cellString(row, idx, "description"),
		Amount:      amount,
		Category:    cellString(row, idx, "category"),
		Account:     cellString(row, idx, "account"),
		Source:      cellString(row, idx, "source"),
		Who:         cellString(row, idx, "who"),
		Country:     cellString(row, idx, "country"),
		Currency:    cellString(row, idx, "currency"),
		Hash:        cellString(row, idx, "hash"),
	}
	if txn.RawDescription == "" {
		txn.RawDescription = txn.Description
	}
	if txn.Hash == "" {
		txn.Hash = txn.GenerateHash()
	}

	return txn, true
}

// columnLetter converts a zero-based column index to its A1 letter.
func columnLetter(index int) string {
	letters := ""
	for index >= 0 {
		letters = string(rune('A'+index%26)) + letters
		index = index/26 - 1
	}
	return letters
}
