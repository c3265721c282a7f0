package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/centavo-dev/centavo/internal/common"
	"github.com/centavo-dev/centavo/internal/model"
)

// Client reads and writes the spreadsheet of record.
type Client struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewClient creates a Google Sheets client.
func NewClient(ctx context.Context, config Config, logger *slog.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		config:  config,
		service: service,
		logger:  logger,
	}, nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		// Use service account authentication
		jsonKey, err := os.ReadFile(config.ServiceAccountPath) // #nosec G304 -- path comes from the user's config
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		// Use OAuth2 authentication
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

func (c *Client) retryOpts() common.RetryOptions {
	return common.RetryOptions{
		MaxAttempts:  c.config.RetryAttempts,
		InitialDelay: c.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// getOrCreateSpreadsheet gets the configured spreadsheet or creates a new
// one with the transactions worksheet in place.
func (c *Client) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if c.config.SpreadsheetID != "" {
		_, err := c.service.Spreadsheets.Get(c.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", c.config.SpreadsheetID, err)
		}
		return c.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    c.config.SpreadsheetName,
			TimeZone: c.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: c.config.TransactionsSheet,
				},
			},
		},
	}

	created, err := c.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	c.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	c.config.SpreadsheetID = created.SpreadsheetId
	return created.SpreadsheetId, nil
}

// ReadHistory reads every transaction from the transactions worksheet.
// Rows that do not decode as transactions (blanks, totals, stray notes)
// are skipped.
func (c *Client) ReadHistory(ctx context.Context) ([]model.Transaction, error) {
	spreadsheetID, err := c.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return nil, err
	}

	readRange := fmt.Sprintf("%s!A:Z", c.config.TransactionsSheet)
	var resp *sheets.ValueRange
	err = common.WithRetry(ctx, func() error {
		var getErr error
		resp, getErr = c.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
		return getErr
	}, c.retryOpts())
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction history: %w", err)
	}

	if len(resp.Values) == 0 {
		return nil, nil
	}

	idx := headerIndex(resp.Values[0])
	history := make([]model.Transaction, 0, len(resp.Values)-1)
	skipped := 0
	for _, row := range resp.Values[1:] {
		txn, ok := rowToTransaction(row, idx)
		if !ok {
			skipped++
			continue
		}
		history = append(history, txn)
	}

	c.logger.Debug("read transaction history",
		"rows", len(resp.Values)-1,
		"transactions", len(history),
		"skipped", skipped)

	return history, nil
}

// AppendTransactions writes transactions after the current end of the
// transactions worksheet, creating the header when the sheet is empty.
// Writes go out in batches; any failure is fatal to the caller's run.
func (c *Client) AppendTransactions(ctx context.Context, txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	spreadsheetID, err := c.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return err
	}
	if err := c.ensureWorksheet(ctx, spreadsheetID, c.config.TransactionsSheet); err != nil {
		return err
	}

	// Find where the data ends.
	probe := fmt.Sprintf("%s!A:A", c.config.TransactionsSheet)
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, probe).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to size worksheet: %w", err)
	}

	values := make([][]any, 0, len(txns)+1)
	startRow := len(resp.Values) + 1
	if len(resp.Values) == 0 {
		values = append(values, transactionHeader())
	}
	for _, txn := range txns {
		values = append(values, transactionToRow(txn))
	}

	if err := c.writeData(ctx, spreadsheetID, c.config.TransactionsSheet, startRow, values); err != nil {
		return fmt.Errorf("failed to append transactions: %w", err)
	}

	if c.config.EnableFormatting {
		if fmtErr := c.applyFormatting(ctx, spreadsheetID); fmtErr != nil {
			// Formatting is cosmetic; the data is in.
			c.logger.Warn("failed to apply formatting", "error", fmtErr)
		}
	}

	c.logger.Info("appended transactions to sheet",
		"count", len(txns),
		"start_row", startRow)

	return nil
}

// EnsureWorksheet creates the named worksheet when missing.
func (c *Client) EnsureWorksheet(ctx context.Context, title string) error {
	spreadsheetID, err := c.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return err
	}
	return c.ensureWorksheet(ctx, spreadsheetID, title)
}

func (c *Client) ensureWorksheet(ctx context.Context, spreadsheetID, title string) error {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to inspect spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return nil
		}
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: title,
						GridProperties: &sheets.GridProperties{
							RowCount:    100,
							ColumnCount: 20,
						},
					},
				},
			},
		},
	}

	if _, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to create worksheet %q: %w", title, err)
	}

	c.logger.Info("created worksheet", "title", title)
	return nil
}

// SyncRules clears the reference worksheet and writes the rule table.
func (c *Client) SyncRules(ctx context.Context, rules []model.CategoryRule) error {
	spreadsheetID, err := c.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return err
	}
	if err := c.ensureWorksheet(ctx, spreadsheetID, c.config.RulesSheet); err != nil {
		return err
	}

	clearRange := fmt.Sprintf("%s!A:Z", c.config.RulesSheet)
	_, err = c.service.Spreadsheets.Values.Clear(spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear rules worksheet: %w", err)
	}

	values := make([][]any, 0, len(rules)+1)
	values = append(values, ruleHeader())
	for _, rule := range rules {
		values = append(values, ruleToRow(rule))
	}

	if err := c.writeData(ctx, spreadsheetID, c.config.RulesSheet, 1, values); err != nil {
		return fmt.Errorf("failed to write rules: %w", err)
	}

	c.logger.Info("synced category rules to sheet", "rules", len(rules))
	return nil
}

// UpdateCategories writes categories into the rows whose hash matches.
// Used by the review flow after the user confirms assignments.
func (c *Client) UpdateCategories(ctx context.Context, updates []model.CategoryUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	spreadsheetID, err := c.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return err
	}

	readRange := fmt.Sprintf("%s!A:Z", c.config.TransactionsSheet)
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read transactions for update: %w", err)
	}
	if len(resp.Values) == 0 {
		return fmt.Errorf("transactions worksheet is empty")
	}

	idx := headerIndex(resp.Values[0])
	hashCol, ok := idx["hash"]
	if !ok {
		return fmt.Errorf("transactions worksheet has no hash column")
	}
	categoryCol, ok := idx["category"]
	if !ok {
		return fmt.Errorf("transactions worksheet has no category column")
	}

	byHash := make(map[string]string, len(updates))
	for _, u := range updates {
		byHash[u.Hash] = u.Category
	}

	var data []*sheets.ValueRange
	for i, row := range resp.Values[1:] {
		if hashCol >= len(row) {
			continue
		}
		hash := fmt.Sprintf("%v", row[hashCol])
		category, wanted := byHash[hash]
		if !wanted {
			continue
		}
		// Sheet rows are 1-based and row 1 is the header.
		cell := fmt.Sprintf("%s!%s%d", c.config.TransactionsSheet, columnLetter(categoryCol), i+2)
		data = append(data, &sheets.ValueRange{
			Range:  cell,
			Values: [][]any{{category}},
		})
	}

	if len(data) == 0 {
		return fmt.Errorf("none of the %d updates matched a stored transaction", len(updates))
	}

	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}

	err = common.WithRetry(ctx, func() error {
		_, updateErr := c.service.Spreadsheets.Values.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
		return updateErr
	}, c.retryOpts())
	if err != nil {
		return fmt.Errorf("failed to update categories: %w", err)
	}

	c.logger.Info("updated categories in sheet", "cells", len(data))
	return nil
}

// writeData writes rows starting at startRow in batches with retry.
func (c *Client) writeData(ctx context.Context, spreadsheetID, sheet string, startRow int, values [][]any) error {
	for i := 0; i < len(values); i += c.config.BatchSize {
		end := i + c.config.BatchSize
		if end > len(values) {
			end = len(values)
		}

		batch := values[i:end]
		valueRange := &sheets.ValueRange{Values: batch}
		rangeStr := fmt.Sprintf("%s!A%d", sheet, startRow+i)

		err := common.WithRetry(ctx, func() error {
			_, writeErr := c.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, valueRange).
				ValueInputOption("USER_ENTERED").
				Context(ctx).
				Do()
			return writeErr
		}, c.retryOpts())
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", startRow+i, err)
		}

		c.logger.Debug("wrote batch", "sheet", sheet, "start_row", startRow+i, "rows", len(batch))
	}

	return nil
}

// applyFormatting bolds the header, formats the amount column, and
// freezes the header row of the transactions worksheet.
func (c *Client) applyFormatting(ctx context.Context, spreadsheetID string) error {
	sheetID, err := c.sheetID(ctx, spreadsheetID, c.config.TransactionsSheet)
	if err != nil {
		return err
	}

	amountCol := int64(2) // Amount column in transactionColumns

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(len(transactionColumns)),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold: true,
						},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    1,
					StartColumnIndex: amountCol,
					EndColumnIndex:   amountCol + 1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{
							Type:    "NUMBER",
							Pattern: "#,##0.00",
						},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   int64(len(transactionColumns)),
				},
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	batchUpdate := &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}
	_, err = c.service.Spreadsheets.BatchUpdate(spreadsheetID, batchUpdate).Context(ctx).Do()
	return err
}

// sheetID resolves a worksheet title to its sheet id.
func (c *Client) sheetID(ctx context.Context, spreadsheetID, title string) (int64, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to inspect spreadsheet: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("worksheet %q not found", title)
}
