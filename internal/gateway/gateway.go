// Package gateway mediates every read and write against the configured
// spreadsheet. Each operation validates its input, sanitizes the sheet name,
// confirms the sheet exists in a fresh listing and only then calls the API.
package gateway

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"workspace_gateway/internal/apierr"
	"workspace_gateway/internal/app"
	"workspace_gateway/internal/sheets"
)

const (
	// HeaderRow is the 1-based row holding column names
	HeaderRow = 1
	// FirstDataRow is the lowest row that may be deleted
	FirstDataRow = 2

	timestampLayout = "2006-01-02T15:04:05.000Z"
)

// Gateway exposes sheet-level operations over a SheetsAPI
type Gateway struct {
	api           sheets.SheetsAPI
	spreadsheetID string
	now           func() time.Time
}

// Option configures a Gateway
type Option func(*Gateway)

// WithClock overrides the clock used for record timestamps
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

// New creates a Gateway for one spreadsheet
func New(api sheets.SheetsAPI, spreadsheetID string, opts ...Option) *Gateway {
	g := &Gateway{
		api:           api,
		spreadsheetID: spreadsheetID,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ListSheets returns every sheet of the spreadsheet
func (g *Gateway) ListSheets(ctx context.Context) ([]app.SheetInfo, error) {
	return g.api.ListSheets(ctx, g.spreadsheetID)
}

// GetHeaders returns row 1 of a sheet, or an empty slice when it is blank
func (g *Gateway) GetHeaders(ctx context.Context, sheetName string) ([]string, error) {
	sheet, err := g.requireSheet(ctx, "get headers", sheetName)
	if err != nil {
		return nil, err
	}

	row, err := g.readHeaderRow(ctx, sheet.Title)
	if err != nil {
		return nil, err
	}
	return sheets.RowToStrings(row), nil
}

// SetHeadersIfMissing writes headers to row 1 unless it already has a value.
// The read and the write are separate calls; a concurrent writer may win.
func (g *Gateway) SetHeadersIfMissing(ctx context.Context, sheetName string, headers []string) (*app.HeaderResult, error) {
	const op = "set headers"
	if len(headers) == 0 {
		return nil, apierr.Validation(op, "headers must be a non-empty list")
	}

	sheet, err := g.requireSheet(ctx, op, sheetName)
	if err != nil {
		return nil, err
	}

	existing, err := g.readHeaderRow(ctx, sheet.Title)
	if err != nil {
		return nil, err
	}
	if sheets.HasNonEmptyCell(existing) {
		log.Debug().
			Str("operation", op).
			Str("sheet_name", sheet.Title).
			Msg("Headers already present")
		return &app.HeaderResult{AlreadyExists: true, Headers: sheets.RowToStrings(existing)}, nil
	}

	values := [][]interface{}{sheets.StringsToRow(headers)}
	if err := g.api.UpdateRange(ctx, g.spreadsheetID, sheets.RowRange(sheet.Title, HeaderRow), values); err != nil {
		return nil, err
	}

	log.Info().
		Str("operation", op).
		Str("sheet_name", sheet.Title).
		Int("columns", len(headers)).
		Msg("Created sheet headers")

	return &app.HeaderResult{Created: true, Headers: headers}, nil
}

// AppendRecord appends [timestamp, nombre, correo, mensaje] as a new row
func (g *Gateway) AppendRecord(ctx context.Context, sheetName string, record app.Record) (*app.AppendResult, error) {
	const op = "append record"
	if missing := missingRecordFields(record); len(missing) > 0 {
		return nil, apierr.Validation(op, "missing required fields: %s", strings.Join(missing, ", "))
	}

	sheet, err := g.requireSheet(ctx, op, sheetName)
	if err != nil {
		return nil, err
	}

	row := []interface{}{
		g.now().UTC().Format(timestampLayout),
		record.Nombre,
		record.Correo,
		record.Mensaje,
	}

	result, err := g.api.AppendRows(ctx, g.spreadsheetID, sheets.RowRange(sheet.Title, HeaderRow), [][]interface{}{row})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("operation", op).
		Str("sheet_name", sheet.Title).
		Str("updated_range", result.UpdatedRange).
		Msg("Appended record")

	return result, nil
}

// GetRows returns every populated row of a sheet, header included
func (g *Gateway) GetRows(ctx context.Context, sheetName string) ([][]string, error) {
	sheet, err := g.requireSheet(ctx, "get rows", sheetName)
	if err != nil {
		return nil, err
	}
	return g.readAll(ctx, sheet.Title)
}

// UpdateRow overwrites a 1-based row starting at column A
func (g *Gateway) UpdateRow(ctx context.Context, sheetName string, rowIndex int, values []string) error {
	const op = "update row"
	if values == nil {
		return apierr.Validation(op, "values must be a list")
	}
	if rowIndex < HeaderRow {
		return apierr.Validation(op, "row index %d is invalid (minimum %d)", rowIndex, HeaderRow)
	}

	sheet, err := g.requireSheet(ctx, op, sheetName)
	if err != nil {
		return err
	}

	values2D := [][]interface{}{sheets.StringsToRow(values)}
	if err := g.api.UpdateRange(ctx, g.spreadsheetID, sheets.RowRange(sheet.Title, rowIndex), values2D); err != nil {
		return err
	}

	log.Debug().
		Str("operation", op).
		Str("sheet_name", sheet.Title).
		Int("row", rowIndex).
		Msg("Updated row")

	return nil
}

// DeleteRow removes one 1-based data row. The header row cannot be deleted.
func (g *Gateway) DeleteRow(ctx context.Context, sheetName string, rowIndex int) error {
	const op = "delete row"
	if rowIndex < FirstDataRow {
		return apierr.Validation(op, "row index %d is invalid (minimum %d)", rowIndex, FirstDataRow)
	}

	sheet, err := g.requireSheet(ctx, op, sheetName)
	if err != nil {
		return err
	}

	// 1-based row n is the zero-based half-open span [n-1, n)
	start := int64(rowIndex - 1)
	if err := g.api.DeleteRows(ctx, g.spreadsheetID, sheet.SheetID, start, start+1); err != nil {
		return err
	}

	log.Info().
		Str("operation", op).
		Str("sheet_name", sheet.Title).
		Int("row", rowIndex).
		Msg("Deleted row")

	return nil
}

// FindByField returns the data rows whose column named field equals value.
// The header row is never a candidate.
func (g *Gateway) FindByField(ctx context.Context, sheetName, field, value string) ([]app.FindResult, error) {
	const op = "find rows"
	if value == "" {
		return nil, apierr.Validation(op, "a value for %q is required", field)
	}

	sheet, err := g.requireSheet(ctx, op, sheetName)
	if err != nil {
		return nil, err
	}

	rows, err := g.readAll(ctx, sheet.Title)
	if err != nil {
		return nil, err
	}

	results := []app.FindResult{}
	if len(rows) < 2 {
		return results, nil
	}

	column := slices.Index(rows[0], field)
	if column < 0 {
		return nil, apierr.Validation(op, "column %q not found", field)
	}

	for i, row := range rows[1:] {
		if column < len(row) && row[column] == value {
			// rows[0] is spreadsheet row 1, so rows[1:][i] is row i+2
			results = append(results, app.FindResult{RowNumber: i + FirstDataRow, Row: row})
		}
	}

	return results, nil
}

// requireSheet sanitizes a name and confirms it exists in a fresh listing
func (g *Gateway) requireSheet(ctx context.Context, op, sheetName string) (app.SheetInfo, error) {
	name, err := SanitizeSheetName(sheetName)
	if err != nil {
		return app.SheetInfo{}, err
	}

	all, err := g.api.ListSheets(ctx, g.spreadsheetID)
	if err != nil {
		return app.SheetInfo{}, err
	}

	for _, sheet := range all {
		if sheet.Title == name {
			return sheet, nil
		}
	}

	log.Debug().
		Str("operation", op).
		Str("sheet_name", name).
		Int("sheet_count", len(all)).
		Msg("Sheet not found")

	return app.SheetInfo{}, apierr.NotFound(op, "sheet '%s' does not exist", name)
}

func (g *Gateway) readHeaderRow(ctx context.Context, sheetName string) ([]interface{}, error) {
	values, err := g.api.ReadSheet(ctx, g.spreadsheetID, sheets.HeaderRange(sheetName))
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return []interface{}{}, nil
	}
	return values[0], nil
}

func (g *Gateway) readAll(ctx context.Context, sheetName string) ([][]string, error) {
	values, err := g.api.ReadSheet(ctx, g.spreadsheetID, sheets.WholeSheetRange(sheetName))
	if err != nil {
		return nil, err
	}
	return sheets.RowsToStrings(values), nil
}

func missingRecordFields(record app.Record) []string {
	var missing []string
	if strings.TrimSpace(record.Nombre) == "" {
		missing = append(missing, "nombre")
	}
	if strings.TrimSpace(record.Correo) == "" {
		missing = append(missing, "correo")
	}
	if strings.TrimSpace(record.Mensaje) == "" {
		missing = append(missing, "mensaje")
	}
	return missing
}
