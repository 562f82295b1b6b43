package server

import "net/http"

// Route describes one public endpoint
type Route struct {
	Method      string
	Path        string
	Description string
}

// Pattern returns the ServeMux pattern for the route
func (r Route) Pattern() string {
	return r.Method + " " + r.Path
}

// Routes lists the public API in registration order
var Routes = []Route{
	{http.MethodGet, "/sheets", "List sheets"},
	{http.MethodGet, "/headers/{sheetName}", "Get the header row"},
	{http.MethodPost, "/headers/{sheetName}", "Write the header row if it is empty"},
	{http.MethodPost, "/send/{sheetName}", "Append a contact record"},
	{http.MethodGet, "/data/{sheetName}", "Get every row"},
	{http.MethodPut, "/update/{sheetName}/{rowIndex}", "Overwrite a row"},
	{http.MethodDelete, "/delete/{sheetName}/{rowIndex}", "Delete a data row"},
	{http.MethodGet, "/find/{sheetName}", "Find rows by correo (?correo=)"},
	{http.MethodPost, "/calendar/events", "Create a calendar event"},
	{http.MethodPost, "/gmail/send", "Send an email"},
}

// OperationalRoutes are served alongside the API but not part of it
var OperationalRoutes = []Route{
	{http.MethodGet, "/", "Service banner"},
	{http.MethodGet, "/healthz", "Liveness probe"},
	{http.MethodGet, "/readyz", "Readiness probe"},
	{http.MethodGet, "/metrics", "Prometheus metrics"},
}
