package sheets

import (
	"fmt"
	"strings"
)

// Helpers for building A1 ranges and converting between the API's
// [][]interface{} values and plain string rows.

// QuoteSheetName quotes a sheet name for use in an A1 range
func QuoteSheetName(sheetName string) string {
	return "'" + strings.ReplaceAll(sheetName, "'", "''") + "'"
}

// HeaderRange is the whole first row of a sheet
func HeaderRange(sheetName string) string {
	return QuoteSheetName(sheetName) + "!1:1"
}

// WholeSheetRange covers every populated cell of a sheet
func WholeSheetRange(sheetName string) string {
	return QuoteSheetName(sheetName)
}

// RowRange anchors a write at column A of a 1-based row
func RowRange(sheetName string, rowIndex int) string {
	return fmt.Sprintf("%s!A%d", QuoteSheetName(sheetName), rowIndex)
}

// RowToStrings converts one API row to strings
func RowToStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = NewCell(v).String()
	}
	return out
}

// RowsToStrings converts API rows to strings, preserving ragged lengths
func RowsToStrings(rows [][]interface{}) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = RowToStrings(row)
	}
	return out
}

// StringsToRow converts a string row into the API representation
func StringsToRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

// HasNonEmptyCell reports whether any cell of the row holds a value
func HasNonEmptyCell(row []interface{}) bool {
	for _, v := range row {
		if !NewCell(v).IsEmpty() {
			return true
		}
	}
	return false
}
