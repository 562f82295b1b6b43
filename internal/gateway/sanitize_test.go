package gateway

import (
	"testing"

	"workspace_gateway/internal/apierr"
)

func TestSanitizeSheetName(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Contacts", "Contacts"},
		{"  Contacts  ", "Contacts"},
		{"Sales 2024", "Sales 2024"},
		{"my_sheet-v2", "my_sheet-v2"},
		{"Hoja!@#1", "Hoja1"},
		{"'Contacts'!A1", "ContactsA1"},
		{"Niño", "Nio"},
		{"  !abc", "abc"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := SanitizeSheetName(tc.input)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestSanitizeSheetNameEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "!!!", "'*'", "ñ"} {
		if _, err := SanitizeSheetName(input); !apierr.Is(err, apierr.KindValidation) {
			t.Errorf("SanitizeSheetName(%q): expected validation error, got %v", input, err)
		}
	}
}

func TestParseRowIndex(t *testing.T) {
	testCases := []struct {
		raw     string
		min     int
		want    int
		wantErr bool
	}{
		{"2", 2, 2, false},
		{" 15 ", 2, 15, false},
		{"1", 1, 1, false},
		{"1", 2, 0, true},
		{"0", 2, 0, true},
		{"-1", 2, 0, true},
		{"abc", 2, 0, true},
		{"2abc", 2, 0, true},
		{"", 2, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseRowIndex(tc.raw, tc.min)
			if tc.wantErr {
				if !apierr.Is(err, apierr.KindValidation) {
					t.Errorf("Expected validation error, got %v", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("Expected %d, got %d (err %v)", tc.want, got, err)
			}
		})
	}
}
