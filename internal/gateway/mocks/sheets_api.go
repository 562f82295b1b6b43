// Package mocks provides an in-memory stand-in for the Google Sheets API
// that records every call, for tests of the gateway and the HTTP layer.
package mocks

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"workspace_gateway/internal/apierr"
	"workspace_gateway/internal/app"
)

// FakeSheet is one tab of the in-memory spreadsheet
type FakeSheet struct {
	Title   string
	SheetID int64
	Rows    [][]interface{}
}

// FakeSheetsAPI is a concurrency-safe in-memory implementation of sheets.SheetsAPI
type FakeSheetsAPI struct {
	mu     sync.Mutex
	sheets []*FakeSheet

	// Errors to return
	ListSheetsError  error
	ReadSheetError   error
	UpdateRangeError error
	AppendRowsError  error
	DeleteRowsError  error

	// Call tracking
	ListSheetsCalls  int
	ReadSheetCalls   int
	UpdateRangeCalls int
	AppendRowsCalls  int
	DeleteRowsCalls  int

	// Call parameters tracking
	UpdateRangeCalledWith struct {
		Range  string
		Values [][]interface{}
	}
	AppendRowsCalledWith struct {
		Range string
		Rows  [][]interface{}
	}
	DeleteRowsCalledWith struct {
		SheetID    int64
		StartIndex int64
		EndIndex   int64
	}
}

// NewFakeSheetsAPI creates a fake holding the given sheets in order
func NewFakeSheetsAPI(sheets ...FakeSheet) *FakeSheetsAPI {
	f := &FakeSheetsAPI{}
	for i := range sheets {
		s := sheets[i]
		f.sheets = append(f.sheets, &s)
	}
	return f
}

// TotalCalls returns the number of API calls of any kind
func (f *FakeSheetsAPI) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ListSheetsCalls + f.ReadSheetCalls + f.UpdateRangeCalls + f.AppendRowsCalls + f.DeleteRowsCalls
}

// Rows returns a copy of a sheet's rows
func (f *FakeSheetsAPI) Rows(title string) [][]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	sheet := f.byTitle(title)
	if sheet == nil {
		return nil
	}
	return copyRows(sheet.Rows)
}

func (f *FakeSheetsAPI) ListSheets(ctx context.Context, spreadsheetID string) ([]app.SheetInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListSheetsCalls++

	if f.ListSheetsError != nil {
		return nil, f.ListSheetsError
	}

	result := make([]app.SheetInfo, 0, len(f.sheets))
	for _, sheet := range f.sheets {
		result = append(result, app.SheetInfo{Title: sheet.Title, SheetID: sheet.SheetID})
	}
	return result, nil
}

func (f *FakeSheetsAPI) ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReadSheetCalls++

	if f.ReadSheetError != nil {
		return nil, f.ReadSheetError
	}

	sheet, suffix, err := f.resolve("read sheet", range_)
	if err != nil {
		return nil, err
	}

	switch suffix {
	case "":
		return trimTrailingEmpty(copyRows(sheet.Rows)), nil
	case "1:1":
		if len(sheet.Rows) == 0 || len(sheet.Rows[0]) == 0 {
			return nil, nil
		}
		return copyRows(sheet.Rows[:1]), nil
	default:
		return nil, fmt.Errorf("fake does not support range %q", range_)
	}
}

func (f *FakeSheetsAPI) UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateRangeCalls++
	f.UpdateRangeCalledWith.Range = range_
	f.UpdateRangeCalledWith.Values = copyRows(values)

	if f.UpdateRangeError != nil {
		return f.UpdateRangeError
	}

	sheet, suffix, err := f.resolve("update range", range_)
	if err != nil {
		return err
	}

	anchor, err := parseRowAnchor(suffix)
	if err != nil {
		return err
	}

	for i, row := range values {
		idx := anchor - 1 + i
		for len(sheet.Rows) <= idx {
			sheet.Rows = append(sheet.Rows, []interface{}{})
		}
		sheet.Rows[idx] = append([]interface{}{}, row...)
	}
	return nil
}

func (f *FakeSheetsAPI) AppendRows(ctx context.Context, spreadsheetID, range_ string, rows [][]interface{}) (*app.AppendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AppendRowsCalls++
	f.AppendRowsCalledWith.Range = range_
	f.AppendRowsCalledWith.Rows = copyRows(rows)

	if f.AppendRowsError != nil {
		return nil, f.AppendRowsError
	}

	sheet, _, err := f.resolve("append rows", range_)
	if err != nil {
		return nil, err
	}

	sheet.Rows = trimTrailingEmpty(sheet.Rows)
	first := len(sheet.Rows) + 1
	width := 0
	for _, row := range rows {
		sheet.Rows = append(sheet.Rows, append([]interface{}{}, row...))
		if len(row) > width {
			width = len(row)
		}
	}

	return &app.AppendResult{
		SpreadsheetID:  spreadsheetID,
		UpdatedRange:   fmt.Sprintf("'%s'!A%d", sheet.Title, first),
		UpdatedRows:    int64(len(rows)),
		UpdatedColumns: int64(width),
		UpdatedCells:   int64(len(rows) * width),
	}, nil
}

func (f *FakeSheetsAPI) DeleteRows(ctx context.Context, spreadsheetID string, sheetID, startIndex, endIndex int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteRowsCalls++
	f.DeleteRowsCalledWith.SheetID = sheetID
	f.DeleteRowsCalledWith.StartIndex = startIndex
	f.DeleteRowsCalledWith.EndIndex = endIndex

	if f.DeleteRowsError != nil {
		return f.DeleteRowsError
	}

	var sheet *FakeSheet
	for _, s := range f.sheets {
		if s.SheetID == sheetID {
			sheet = s
		}
	}
	if sheet == nil {
		return apierr.Validation("delete rows", "No grid with id: %d", sheetID)
	}

	if startIndex < int64(len(sheet.Rows)) {
		end := min(endIndex, int64(len(sheet.Rows)))
		sheet.Rows = append(sheet.Rows[:startIndex], sheet.Rows[end:]...)
	}
	return nil
}

// resolve splits an A1 range into its sheet and the part after '!'
func (f *FakeSheetsAPI) resolve(op, range_ string) (*FakeSheet, string, error) {
	title, suffix := range_, ""
	if strings.HasPrefix(range_, "'") {
		end := strings.LastIndex(range_, "'")
		title = strings.ReplaceAll(range_[1:end], "''", "'")
		suffix = strings.TrimPrefix(range_[end+1:], "!")
	} else if i := strings.Index(range_, "!"); i >= 0 {
		title, suffix = range_[:i], range_[i+1:]
	}

	sheet := f.byTitle(title)
	if sheet == nil {
		return nil, "", apierr.Validation(op, "Unable to parse range: %s", range_)
	}
	return sheet, suffix, nil
}

func (f *FakeSheetsAPI) byTitle(title string) *FakeSheet {
	for _, s := range f.sheets {
		if s.Title == title {
			return s
		}
	}
	return nil
}

func parseRowAnchor(suffix string) (int, error) {
	if !strings.HasPrefix(suffix, "A") {
		return 0, fmt.Errorf("fake does not support anchor %q", suffix)
	}
	row, err := strconv.Atoi(suffix[1:])
	if err != nil || row < 1 {
		return 0, fmt.Errorf("fake does not support anchor %q", suffix)
	}
	return row, nil
}

func copyRows(rows [][]interface{}) [][]interface{} {
	if rows == nil {
		return nil
	}
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		out[i] = append([]interface{}{}, row...)
	}
	return out
}

// trimTrailingEmpty mirrors the API, which omits trailing blank rows
func trimTrailingEmpty(rows [][]interface{}) [][]interface{} {
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows
}
