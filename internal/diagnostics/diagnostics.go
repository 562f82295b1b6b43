// Package diagnostics checks that configuration, credentials and each Google
// API are usable before the server is put in front of traffic.
package diagnostics

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	gcal "google.golang.org/api/calendar/v3"

	"workspace_gateway/internal/app"
	"workspace_gateway/internal/config"
)

// Check names, in report order
const (
	CheckEnv         = "env"
	CheckCredentials = "credentials"
	CheckSheets      = "sheets"
	CheckCalendar    = "calendar"
	CheckGmail       = "gmail"
)

// AllChecks lists every check in report order
var AllChecks = []string{CheckEnv, CheckCredentials, CheckSheets, CheckCalendar, CheckGmail}

const checkTimeout = 20 * time.Second

// Status is the outcome of one check
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result is the outcome of one check
type Result struct {
	Name     string
	Status   Status
	Detail   string
	Err      error
	Duration time.Duration
}

// Report collects results in check order
type Report struct {
	Results []Result
}

// OK reports whether no check failed. Skipped checks do not count as failures.
func (r Report) OK() bool {
	for _, result := range r.Results {
		if result.Status == StatusFailed {
			return false
		}
	}
	return true
}

// CredentialProvider is the subset of auth.Provider diagnostics needs
type CredentialProvider interface {
	ServiceAccountEmail() (string, error)
	Verify(ctx context.Context, service config.Service) error
}

// SheetLister lists the sheets of a spreadsheet
type SheetLister interface {
	ListSheets(ctx context.Context, spreadsheetID string) ([]app.SheetInfo, error)
}

// CalendarGetter fetches the configured calendar
type CalendarGetter interface {
	Calendar(ctx context.Context) (*gcal.Calendar, error)
}

// Dependencies are the clients the remote checks exercise
type Dependencies struct {
	Provider CredentialProvider
	Sheets   SheetLister
	Calendar CalendarGetter
}

// Runner executes checks against one configuration
type Runner struct {
	cfg  *app.Config
	deps Dependencies
}

// NewRunner creates a Runner
func NewRunner(cfg *app.Config, deps Dependencies) *Runner {
	return &Runner{cfg: cfg, deps: deps}
}

// Run executes the named checks, or all of them when only is empty. Local
// checks run first; remote checks run concurrently and are skipped when
// the credentials cannot be loaded.
func (r *Runner) Run(ctx context.Context, only []string) (Report, error) {
	selected, err := selectChecks(only)
	if err != nil {
		return Report{}, err
	}

	results := make([]Result, len(selected))
	credentialsOK := true
	for i, name := range selected {
		switch name {
		case CheckEnv:
			results[i] = timed(name, r.checkEnv)
		case CheckCredentials:
			results[i] = timed(name, r.checkCredentials)
			credentialsOK = results[i].Status == StatusOK
		}
	}
	if !slices.Contains(selected, CheckCredentials) && slices.ContainsFunc(selected, r.isRemote) {
		_, err := r.deps.Provider.ServiceAccountEmail()
		credentialsOK = err == nil
	}

	var g errgroup.Group
	for i, name := range selected {
		remote := r.remoteCheck(name)
		if remote == nil {
			continue
		}
		if !credentialsOK {
			results[i] = Result{Name: name, Status: StatusSkipped, Detail: "credentials unavailable"}
			continue
		}
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()
			results[i] = timed(name, func() (string, error) { return remote(checkCtx) })
			return nil
		})
	}
	// Failures live in results; a failed check never cancels its siblings.
	g.Wait()

	for _, result := range results {
		event := log.Debug()
		if result.Status == StatusFailed {
			event = log.Warn().Err(result.Err)
		}
		event.
			Str("check", result.Name).
			Str("status", string(result.Status)).
			Dur("duration", result.Duration).
			Msg("Diagnostic check finished")
	}

	return Report{Results: results}, nil
}

func (r *Runner) isRemote(name string) bool {
	return r.remoteCheck(name) != nil
}

func (r *Runner) remoteCheck(name string) func(ctx context.Context) (string, error) {
	switch name {
	case CheckSheets:
		return r.checkSheets
	case CheckCalendar:
		return r.checkCalendar
	case CheckGmail:
		return r.checkGmail
	}
	return nil
}

// errSkipped marks a check that could not apply to this configuration
type errSkipped struct {
	reason string
}

func (e errSkipped) Error() string {
	return e.reason
}

func timed(name string, check func() (string, error)) Result {
	start := time.Now()
	detail, err := check()
	result := Result{Name: name, Detail: detail, Duration: time.Since(start)}

	switch e := err.(type) {
	case nil:
		result.Status = StatusOK
	case errSkipped:
		result.Status = StatusSkipped
		result.Detail = e.reason
	default:
		result.Status = StatusFailed
		result.Err = err
		if result.Detail == "" {
			result.Detail = err.Error()
		}
	}
	return result
}

func (r *Runner) checkEnv() (string, error) {
	if r.cfg.SpreadsheetID == "" {
		return "", fmt.Errorf("GOOGLE_SHEET_ID is not set")
	}

	var missing []string
	if r.cfg.CalendarID == "" {
		missing = append(missing, "GOOGLE_CALENDAR_ID")
	}
	if r.cfg.GmailUser == "" {
		missing = append(missing, "GMAIL_USER")
	}
	if len(missing) > 0 {
		return "spreadsheet configured; optional variables not set: " + strings.Join(missing, ", "), nil
	}
	return "all variables set", nil
}

func (r *Runner) checkCredentials() (string, error) {
	if err := r.cfg.CheckCredentialsFile(); err != nil {
		return "", err
	}
	email, err := r.deps.Provider.ServiceAccountEmail()
	if err != nil {
		return "", err
	}
	return "service account " + email, nil
}

func (r *Runner) checkSheets(ctx context.Context) (string, error) {
	sheets, err := r.deps.Sheets.ListSheets(ctx, r.cfg.SpreadsheetID)
	if err != nil {
		return "", err
	}

	titles := make([]string, len(sheets))
	for i, sheet := range sheets {
		titles[i] = sheet.Title
	}
	return fmt.Sprintf("%d sheets: %s", len(sheets), strings.Join(titles, ", ")), nil
}

func (r *Runner) checkCalendar(ctx context.Context) (string, error) {
	if r.cfg.CalendarID == "" {
		return "", errSkipped{reason: "GOOGLE_CALENDAR_ID is not set"}
	}
	cal, err := r.deps.Calendar.Calendar(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("calendar %q (%s)", cal.Summary, cal.TimeZone), nil
}

// checkGmail only confirms the delegated token exchange; the send scope
// grants no read access to probe the mailbox with.
func (r *Runner) checkGmail(ctx context.Context) (string, error) {
	if r.cfg.GmailUser == "" {
		return "", errSkipped{reason: "GMAIL_USER is not set"}
	}
	if err := r.deps.Provider.Verify(ctx, config.ServiceGmail); err != nil {
		return "", err
	}
	return "delegated token issued for " + r.cfg.GmailUser, nil
}

func selectChecks(only []string) ([]string, error) {
	if len(only) == 0 {
		return AllChecks, nil
	}

	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		if !slices.Contains(AllChecks, name) {
			return nil, fmt.Errorf("unknown check %q (valid: %s)", name, strings.Join(AllChecks, ", "))
		}
		wanted[name] = true
	}

	var selected []string
	for _, name := range AllChecks {
		if wanted[name] {
			selected = append(selected, name)
		}
	}
	return selected, nil
}
