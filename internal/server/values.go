package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"workspace_gateway/internal/sheets"
)

// CellValues decodes a JSON array of scalars into cell strings. Numbers keep
// their literal text and null becomes an empty cell.
type CellValues []string

func (v *CellValues) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		*v = nil
		return nil
	}

	values := make(CellValues, len(raw))
	for i, item := range raw {
		switch item.(type) {
		case map[string]interface{}, []interface{}:
			return &cellValueError{position: i}
		}
		values[i] = sheets.NewCell(item).String()
	}
	*v = values
	return nil
}

// cellValueError rejects an array element that cannot live in a single cell.
type cellValueError struct {
	position int
}

func (e *cellValueError) Error() string {
	return fmt.Sprintf("value at position %d must be a string, number or boolean", e.position)
}

type headersRequest struct {
	Headers CellValues `json:"headers"`
}

type updateRequest struct {
	Values CellValues `json:"values"`
}

type messageResponse struct {
	Message string `json:"message"`
	Result  any    `json:"result,omitempty"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
