// Package gcal mirrors confirmed bookings into a Google Calendar. It is
// entirely optional: without credentials the rest of the client runs as-is.
package gcal

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/AnandhuAsokan/salon-frontend/internal/models"
)

// Publisher inserts booking events into one calendar.
type Publisher struct {
	svc        *calendar.Service
	calendarID string
	logger     zerolog.Logger
}

// NewPublisher builds a publisher from a service-account credentials file.
func NewPublisher(ctx context.Context, credentialsFile, calendarID string, logger zerolog.Logger) (*Publisher, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &Publisher{
		svc:        svc,
		calendarID: calendarID,
		logger:     logger.With().Str("component", "gcal").Logger(),
	}, nil
}

// PublishBooking inserts the booking as a calendar event. Failures are
// reported but never block the booking flow; the backend record is the
// source of truth.
func (p *Publisher) PublishBooking(ctx context.Context, b *models.Booking) error {
	start, err := parseScheduled(b.Date, b.StartTime)
	if err != nil {
		return fmt.Errorf("parse booking start: %w", err)
	}
	end, err := parseScheduled(b.Date, b.EndTime)
	if err != nil {
		return fmt.Errorf("parse booking end: %w", err)
	}

	event := &calendar.Event{
		Summary:     fmt.Sprintf("%s with %s", b.Service.Name, b.Staff.Name),
		Description: fmt.Sprintf("Booking %s, status %s, amount $%.2f", b.ID, b.Status, b.Amount),
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}

	if _, err := p.svc.Events.Insert(p.calendarID, event).Context(ctx).Do(); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	p.logger.Info().Str("booking", b.ID).Msg("booking published to calendar")
	return nil
}

func parseScheduled(date, clock string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.Local)
}
