package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"workspace_gateway/internal/apierr"
)

const testSpreadsheetID = "sheet123"

// newTestClient points a Client at an httptest server standing in for the Sheets API
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(func(ctx context.Context) (*sheets.Service, error) {
		return sheets.NewService(ctx,
			option.WithoutAuthentication(),
			option.WithHTTPClient(srv.Client()),
			option.WithEndpoint(srv.URL+"/"),
		)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeGoogleError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}

func TestListSheets(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v4/spreadsheets/"+testSpreadsheetID {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, map[string]any{
			"sheets": []map[string]any{
				{"properties": map[string]any{"title": "Contacts", "sheetId": 0}},
				{"properties": map[string]any{"title": "Leads", "sheetId": 1234}},
			},
		})
	})

	result, err := client.ListSheets(context.Background(), testSpreadsheetID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("Expected 2 sheets, got %d", len(result))
	}
	if result[0].Title != "Contacts" || result[0].SheetID != 0 {
		t.Errorf("Unexpected first sheet %+v", result[0])
	}
	if result[1].Title != "Leads" || result[1].SheetID != 1234 {
		t.Errorf("Unexpected second sheet %+v", result[1])
	}
}

func TestListSheetsSpreadsheetNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeGoogleError(w, http.StatusNotFound, "Requested entity was not found.")
	})

	_, err := client.ListSheets(context.Background(), "missing")
	if !apierr.Is(err, apierr.KindNotFound) {
		t.Fatalf("Expected not found error, got %v", err)
	}
}

func TestListSheetsPermissionDenied(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeGoogleError(w, http.StatusForbidden, "The caller does not have permission")
	})

	_, err := client.ListSheets(context.Background(), testSpreadsheetID)
	if !apierr.Is(err, apierr.KindAuth) {
		t.Fatalf("Expected auth error, got %v", err)
	}
}

func TestReadSheet(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, map[string]any{
			"range":  "'Contacts'!A1:D2",
			"values": [][]any{{"timestamp", "nombre", "correo", "mensaje"}, {"t1", "Ana", "a@b.com", "hola"}},
		})
	})

	values, err := client.ReadSheet(context.Background(), testSpreadsheetID, HeaderRange("Contacts"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if gotPath != "/v4/spreadsheets/sheet123/values/'Contacts'!1:1" {
		t.Errorf("Unexpected request path %q", gotPath)
	}
	if len(values) != 2 || NewCell(values[1][2]).String() != "a@b.com" {
		t.Errorf("Unexpected values %v", values)
	}
}

func TestUpdateRange(t *testing.T) {
	var gotMethod, gotOption string
	var gotBody sheets.ValueRange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotOption = r.URL.Query().Get("valueInputOption")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, map[string]any{"updatedRows": 1})
	})

	err := client.UpdateRange(context.Background(), testSpreadsheetID, RowRange("Contacts", 3), [][]interface{}{{"a", "b"}})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("Expected PUT, got %s", gotMethod)
	}
	if gotOption != "RAW" {
		t.Errorf("Expected RAW value input, got %q", gotOption)
	}
	if len(gotBody.Values) != 1 || len(gotBody.Values[0]) != 2 {
		t.Errorf("Unexpected body %+v", gotBody)
	}
}

func TestAppendRows(t *testing.T) {
	var gotPath, gotInsert string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInsert = r.URL.Query().Get("insertDataOption")
		writeJSON(w, map[string]any{
			"spreadsheetId": testSpreadsheetID,
			"tableRange":    "'Contacts'!A1:D4",
			"updates": map[string]any{
				"updatedRange":   "'Contacts'!A5:D5",
				"updatedRows":    1,
				"updatedColumns": 4,
				"updatedCells":   4,
			},
		})
	})

	result, err := client.AppendRows(context.Background(), testSpreadsheetID, RowRange("Contacts", 1), [][]interface{}{{"t", "Ana", "a@b.com", "hola"}})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.HasSuffix(gotPath, ":append") {
		t.Errorf("Expected append endpoint, got %q", gotPath)
	}
	if gotInsert != "INSERT_ROWS" {
		t.Errorf("Expected INSERT_ROWS, got %q", gotInsert)
	}
	if result.UpdatedRange != "'Contacts'!A5:D5" || result.UpdatedCells != 4 {
		t.Errorf("Unexpected result %+v", result)
	}
}

func TestDeleteRows(t *testing.T) {
	var body []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, ":batchUpdate") {
			http.NotFound(w, r)
			return
		}
		body, _ = io.ReadAll(r.Body)
		writeJSON(w, map[string]any{"spreadsheetId": testSpreadsheetID})
	})

	if err := client.DeleteRows(context.Background(), testSpreadsheetID, 0, 4, 5); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var req sheets.BatchUpdateSpreadsheetRequest
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("invalid request body: %v", err)
	}
	if len(req.Requests) != 1 || req.Requests[0].DeleteDimension == nil {
		t.Fatalf("Expected one deleteDimension request, got %s", body)
	}
	rng := req.Requests[0].DeleteDimension.Range
	if rng.Dimension != "ROWS" || rng.StartIndex != 4 || rng.EndIndex != 5 || rng.SheetId != 0 {
		t.Errorf("Unexpected range %+v", rng)
	}
	if !strings.Contains(string(body), `"sheetId":0`) {
		t.Errorf("Expected sheetId 0 to be sent explicitly, got %s", body)
	}
}

func TestServiceFactoryFailure(t *testing.T) {
	calls := 0
	client := NewClient(func(ctx context.Context) (*sheets.Service, error) {
		calls++
		return nil, apierr.Auth("obtain client", errors.New("no key"))
	})

	for i := 0; i < 2; i++ {
		_, err := client.ListSheets(context.Background(), testSpreadsheetID)
		if !apierr.Is(err, apierr.KindAuth) {
			t.Fatalf("Expected auth error, got %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("Expected factory to run once, ran %d times", calls)
	}
}
