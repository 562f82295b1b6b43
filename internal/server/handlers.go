package server

import (
	"net/http"

	"workspace_gateway/internal/app"
	"workspace_gateway/internal/gateway"
)

const (
	bannerMessage = "Google Workspace API: Calendar, Gmail, Sheets"
	findField     = "correo"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": bannerMessage})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
}

func (s *Server) handleListSheets(w http.ResponseWriter, r *http.Request) {
	result, err := s.gateway.ListSheets(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sheets": result})
}

func (s *Server) handleGetHeaders(w http.ResponseWriter, r *http.Request) {
	headers, err := s.gateway.GetHeaders(r.Context(), r.PathValue("sheetName"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"headers": headers})
}

func (s *Server) handleSetHeaders(w http.ResponseWriter, r *http.Request) {
	var req headersRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.gateway.SetHeadersIfMissing(r.Context(), r.PathValue("sheetName"), req.Headers)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAppendRecord(w http.ResponseWriter, r *http.Request) {
	var record app.Record
	if err := s.decodeJSON(w, r, &record); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.gateway.AppendRecord(r.Context(), r.PathValue("sheetName"), record)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Data sent successfully", Result: result})
}

func (s *Server) handleGetRows(w http.ResponseWriter, r *http.Request) {
	rows, err := s.gateway.GetRows(r.Context(), r.PathValue("sheetName"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rows})
}

func (s *Server) handleUpdateRow(w http.ResponseWriter, r *http.Request) {
	rowIndex, err := gateway.ParseRowIndex(r.PathValue("rowIndex"), gateway.HeaderRow)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req updateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.gateway.UpdateRow(r.Context(), r.PathValue("sheetName"), rowIndex, req.Values); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Row updated successfully"})
}

func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	rowIndex, err := gateway.ParseRowIndex(r.PathValue("rowIndex"), gateway.FirstDataRow)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.gateway.DeleteRow(r.Context(), r.PathValue("sheetName"), rowIndex); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Row deleted successfully"})
}

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	results, err := s.gateway.FindByField(r.Context(), r.PathValue("sheetName"), findField, r.URL.Query().Get(findField))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req app.EventRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	event, err := s.events.CreateEvent(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Event created successfully", "event": event})
}

func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	var req app.EmailRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.mail.Send(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Email sent successfully", Result: result})
}
