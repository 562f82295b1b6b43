package app

// SheetInfo identifies one tab of the spreadsheet
type SheetInfo struct {
	Title   string `json:"title"`
	SheetID int64  `json:"sheetId"`
}

// Record is the contact row appended by the primary write path.
// The timestamp column is generated at write time.
type Record struct {
	Nombre  string `json:"nombre"`
	Correo  string `json:"correo"`
	Mensaje string `json:"mensaje"`
}

// HeaderResult reports the outcome of an idempotent header write
type HeaderResult struct {
	Created       bool     `json:"created,omitempty"`
	AlreadyExists bool     `json:"alreadyExists,omitempty"`
	Headers       []string `json:"headers"`
}

// AppendResult is the remote acknowledgment of an appended row
type AppendResult struct {
	SpreadsheetID  string `json:"spreadsheetId"`
	TableRange     string `json:"tableRange,omitempty"`
	UpdatedRange   string `json:"updatedRange,omitempty"`
	UpdatedRows    int64  `json:"updatedRows"`
	UpdatedColumns int64  `json:"updatedColumns"`
	UpdatedCells   int64  `json:"updatedCells"`
}

// FindResult is one row matching a field lookup. RowNumber is the
// 1-based spreadsheet row, so the first data row is 2.
type FindResult struct {
	RowNumber int      `json:"rowNumber"`
	Row       []string `json:"row"`
}

// EventRequest describes a calendar event to create.
// Start and End are RFC 3339 date-times.
type EventRequest struct {
	Summary     string `json:"summary"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description,omitempty"`
}

// EmailRequest describes a plain-text message to send
type EmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// SendResult is the remote acknowledgment of a sent message
type SendResult struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"threadId"`
	LabelIDs []string `json:"labelIds,omitempty"`
}
