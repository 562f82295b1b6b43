// Package calendar creates events on the configured Google Calendar.
package calendar

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"workspace_gateway/internal/apierr"
	"workspace_gateway/internal/app"
	"workspace_gateway/internal/auth"
	"workspace_gateway/internal/config"
)

const (
	opCreateEvent       = "create event"
	localDateTimeLayout = "2006-01-02T15:04:05"
)

// ServiceFactory builds the underlying Calendar service on first use
type ServiceFactory func(ctx context.Context) (*gcal.Service, error)

// ProviderFactory builds the Calendar service from the shared credential provider
func ProviderFactory(p *auth.Provider) ServiceFactory {
	return func(ctx context.Context) (*gcal.Service, error) {
		httpClient, err := p.Client(config.ServiceCalendar)
		if err != nil {
			return nil, err
		}
		return gcal.NewService(ctx, option.WithHTTPClient(httpClient))
	}
}

// Service inserts events into one calendar
type Service struct {
	service    func() (*gcal.Service, error)
	calendarID string
	timeZone   string
}

// NewService creates a calendar Service. An empty calendarID is reported
// when an operation is attempted, not here, so the rest of the API can
// still be served.
func NewService(factory ServiceFactory, calendarID, timeZone string) *Service {
	return &Service{
		service: sync.OnceValues(func() (*gcal.Service, error) {
			return factory(context.Background())
		}),
		calendarID: calendarID,
		timeZone:   timeZone,
	}
}

func (s *Service) svc(op string) (*gcal.Service, error) {
	if s.calendarID == "" {
		return nil, apierr.Configuration(op, "GOOGLE_CALENDAR_ID environment variable is required")
	}
	service, err := s.service()
	if err != nil {
		return nil, apierr.FromGoogle(op, err)
	}
	return service, nil
}

// CreateEvent inserts a timed event. Summary, start and end are required;
// start and end are stamped with the configured time zone.
func (s *Service) CreateEvent(ctx context.Context, req app.EventRequest) (*gcal.Event, error) {
	if err := validateEvent(req); err != nil {
		return nil, err
	}

	service, err := s.svc(opCreateEvent)
	if err != nil {
		return nil, err
	}

	event := &gcal.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start: &gcal.EventDateTime{
			DateTime: req.Start,
			TimeZone: s.timeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: req.End,
			TimeZone: s.timeZone,
		},
	}

	log.Debug().
		Str("operation", opCreateEvent).
		Str("calendar_id", s.calendarID).
		Str("summary", req.Summary).
		Msg("Inserting calendar event")

	created, err := service.Events.Insert(s.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, apierr.FromGoogle(opCreateEvent, fmt.Errorf("failed to insert event: %w", err))
	}

	log.Info().
		Str("operation", opCreateEvent).
		Str("event_id", created.Id).
		Msg("Calendar event created")

	return created, nil
}

// Calendar fetches the configured calendar's metadata
func (s *Service) Calendar(ctx context.Context) (*gcal.Calendar, error) {
	const op = "get calendar"
	service, err := s.svc(op)
	if err != nil {
		return nil, err
	}

	cal, err := service.Calendars.Get(s.calendarID).Context(ctx).Do()
	if err != nil {
		return nil, apierr.FromGoogle(op, fmt.Errorf("failed to get calendar: %w", err))
	}
	return cal, nil
}

func validateEvent(req app.EventRequest) error {
	var missing []string
	if strings.TrimSpace(req.Summary) == "" {
		missing = append(missing, "summary")
	}
	if strings.TrimSpace(req.Start) == "" {
		missing = append(missing, "start")
	}
	if strings.TrimSpace(req.End) == "" {
		missing = append(missing, "end")
	}
	if len(missing) > 0 {
		return apierr.Validation(opCreateEvent, "missing required event fields: %s", strings.Join(missing, ", "))
	}

	if !isDateTime(req.Start) {
		return apierr.Validation(opCreateEvent, "start %q is not a date-time", req.Start)
	}
	if !isDateTime(req.End) {
		return apierr.Validation(opCreateEvent, "end %q is not a date-time", req.End)
	}
	return nil
}

// isDateTime accepts RFC 3339 with or without an offset. A missing offset
// is resolved by the calendar using the event's time zone.
func isDateTime(value string) bool {
	for _, layout := range []string{time.RFC3339, localDateTimeLayout} {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
