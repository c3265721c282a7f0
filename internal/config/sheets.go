// Package config provides configuration utilities for the application.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/centavo-dev/centavo/internal/sheets"
)

// LoadSheetsConfig assembles the Google Sheets configuration. Precedence:
// 1. Viper configuration (config file or CENTAVO_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Defaults
// A local .env file, if present, is loaded first so it can feed either
// layer.
func LoadSheetsConfig() (sheets.Config, error) {
	_ = godotenv.Load()

	config := sheets.DefaultConfig()

	if v := viper.GetString("sheets.service_account_path"); v != "" {
		config.ServiceAccountPath = ExpandPath(v)
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		config.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		config.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		config.RefreshToken = v
	}
	if v := viper.GetString("sheets.spreadsheet_id"); v != "" {
		config.SpreadsheetID = v
	}
	if v := viper.GetString("sheets.spreadsheet_name"); v != "" {
		config.SpreadsheetName = v
	}
	if v := viper.GetString("sheets.transactions_sheet"); v != "" {
		config.TransactionsSheet = v
	}
	if v := viper.GetString("sheets.rules_sheet"); v != "" {
		config.RulesSheet = v
	}
	if v := viper.GetInt("sheets.batch_size"); v > 0 {
		config.BatchSize = v
	}

	if config.ServiceAccountPath == "" {
		if v := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
			config.ServiceAccountPath = ExpandPath(v)
		}
	}
	if config.ClientID == "" {
		config.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if config.ClientSecret == "" {
		config.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if config.RefreshToken == "" {
		config.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if config.SpreadsheetID == "" {
		config.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	}
	if config.SpreadsheetName == "" {
		config.SpreadsheetName = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME")
	}
	if config.SpreadsheetName == "" {
		config.SpreadsheetName = "Centavo Ledger"
	}

	if err := config.Validate(); err != nil {
		return sheets.Config{}, err
	}

	return config, nil
}
