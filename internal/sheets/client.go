package sheets

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"workspace_gateway/internal/apierr"
	"workspace_gateway/internal/app"
	"workspace_gateway/internal/auth"
	"workspace_gateway/internal/config"
)

const (
	valueInputRaw  = "RAW"
	insertRowsMode = "INSERT_ROWS"
	dimensionRows  = "ROWS"
)

// ServiceFactory builds the underlying Sheets service on first use
type ServiceFactory func(ctx context.Context) (*sheets.Service, error)

// ProviderFactory builds the Sheets service from the shared credential provider
func ProviderFactory(p *auth.Provider) ServiceFactory {
	return func(ctx context.Context) (*sheets.Service, error) {
		httpClient, err := p.Client(config.ServiceSheets)
		if err != nil {
			return nil, err
		}
		return sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	}
}

// Client implements the SheetsAPI interface using Google Sheets API.
//
// Note: This client uses [][]interface{} as required by the Google Sheets API.
// This is the only layer where interface{} should appear. All other code should
// use the Cell type wrapper for type-safe access to cell values.
type Client struct {
	service func() (*sheets.Service, error)
}

// NewClient creates a Google Sheets client. The service is built lazily
// and shared by every call afterwards.
func NewClient(factory ServiceFactory) *Client {
	return &Client{
		service: sync.OnceValues(func() (*sheets.Service, error) {
			return factory(context.Background())
		}),
	}
}

func (c *Client) svc(op string) (*sheets.Service, error) {
	service, err := c.service()
	if err != nil {
		return nil, apierr.FromGoogle(op, err)
	}
	return service, nil
}

// ListSheets returns the title and numeric id of every sheet
func (c *Client) ListSheets(ctx context.Context, spreadsheetID string) ([]app.SheetInfo, error) {
	const op = "list sheets"
	service, err := c.svc(op)
	if err != nil {
		return nil, err
	}

	spreadsheet, err := service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties(sheetId,title)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, apierr.FromGoogle(op, fmt.Errorf("failed to get spreadsheet: %w", err))
	}

	result := make([]app.SheetInfo, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties == nil {
			continue
		}
		result = append(result, app.SheetInfo{
			Title:   sheet.Properties.Title,
			SheetID: sheet.Properties.SheetId,
		})
	}

	return result, nil
}

// ReadSheet reads values from the specified sheet range.
// Returns [][]interface{} as mandated by Google Sheets API.
// Wrap returned values with NewCell() for type-safe access.
func (c *Client) ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error) {
	const op = "read sheet"
	service, err := c.svc(op)
	if err != nil {
		return nil, err
	}

	resp, err := service.Spreadsheets.Values.Get(spreadsheetID, range_).Context(ctx).Do()
	if err != nil {
		return nil, apierr.FromGoogle(op, fmt.Errorf("failed to read sheet: %w", err))
	}

	return resp.Values, nil
}

// UpdateRange updates the specified sheet range with the provided values.
// Accepts [][]interface{} as mandated by Google Sheets API.
func (c *Client) UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	const op = "update range"
	service, err := c.svc(op)
	if err != nil {
		return err
	}

	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err = service.Spreadsheets.Values.Update(spreadsheetID, range_, valueRange).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return apierr.FromGoogle(op, fmt.Errorf("failed to update range: %w", err))
	}

	return nil
}

// AppendRows appends rows to the specified sheet range.
// Accepts [][]interface{} as mandated by Google Sheets API.
func (c *Client) AppendRows(ctx context.Context, spreadsheetID, range_ string, rows [][]interface{}) (*app.AppendResult, error) {
	const op = "append rows"
	service, err := c.svc(op)
	if err != nil {
		return nil, err
	}

	valueRange := &sheets.ValueRange{
		Values: rows,
	}

	resp, err := service.Spreadsheets.Values.Append(spreadsheetID, range_, valueRange).
		ValueInputOption(valueInputRaw).
		InsertDataOption(insertRowsMode).
		Context(ctx).
		Do()
	if err != nil {
		return nil, apierr.FromGoogle(op, fmt.Errorf("failed to append rows: %w", err))
	}

	result := &app.AppendResult{
		SpreadsheetID: resp.SpreadsheetId,
		TableRange:    resp.TableRange,
	}
	if resp.Updates != nil {
		result.UpdatedRange = resp.Updates.UpdatedRange
		result.UpdatedRows = resp.Updates.UpdatedRows
		result.UpdatedColumns = resp.Updates.UpdatedColumns
		result.UpdatedCells = resp.Updates.UpdatedCells
	}

	return result, nil
}

// DeleteRows removes a zero-based, half-open span of rows from a sheet
func (c *Client) DeleteRows(ctx context.Context, spreadsheetID string, sheetID, startIndex, endIndex int64) error {
	const op = "delete rows"
	service, err := c.svc(op)
	if err != nil {
		return err
	}

	req := &sheets.Request{
		DeleteDimension: &sheets.DeleteDimensionRequest{
			Range: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  dimensionRows,
				StartIndex: startIndex,
				EndIndex:   endIndex,
				// SheetId 0 and StartIndex 0 are legitimate values
				ForceSendFields: []string{"SheetId", "StartIndex"},
			},
		},
	}

	batchUpdate := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{req},
	}

	_, err = service.Spreadsheets.BatchUpdate(spreadsheetID, batchUpdate).
		Context(ctx).
		Do()
	if err != nil {
		return apierr.FromGoogle(op, fmt.Errorf("failed to delete rows: %w", err))
	}

	log.Debug().
		Int64("sheet_id", sheetID).
		Int64("start_index", startIndex).
		Int64("end_index", endIndex).
		Msg("Deleted sheet rows")

	return nil
}
