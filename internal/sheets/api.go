package sheets

import (
	"context"

	"workspace_gateway/internal/app"
)

// SheetsAPI defines the interface for interacting with Google Sheets.
// This separates infrastructure concerns from the gateway's rules.
//
// Note on interface{} usage:
// The Google Sheets API (google.golang.org/api/sheets/v4) uses [][]interface{}
// for cell values. Keep interface{} constrained to this boundary and wrap
// values with NewCell for typed access everywhere else.
type SheetsAPI interface {
	// ListSheets returns every tab of the spreadsheet in display order
	ListSheets(ctx context.Context, spreadsheetID string) ([]app.SheetInfo, error)

	// ReadSheet reads values from a sheet range.
	// Returns [][]interface{} as required by Google Sheets API.
	ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error)

	// UpdateRange writes values starting at a sheet range
	UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error

	// AppendRows appends rows after the last row of the table found at range_
	AppendRows(ctx context.Context, spreadsheetID, range_ string, rows [][]interface{}) (*app.AppendResult, error)

	// DeleteRows removes rows [startIndex, endIndex) (zero-based, half-open) from a sheet
	DeleteRows(ctx context.Context, spreadsheetID string, sheetID, startIndex, endIndex int64) error
}
