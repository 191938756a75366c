package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleSource fetches events from one Google Calendar.
type GoogleSource struct {
	srv        *calendar.Service
	calendarID string
}

// NewGoogleSource builds a source over an authenticated HTTP client. An
// empty calendarID means the account's primary calendar.
func NewGoogleSource(ctx context.Context, client *http.Client, calendarID string) (*GoogleSource, error) {
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar client: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleSource{srv: srv, calendarID: calendarID}, nil
}

// Events fetches the day's events, recurring ones expanded, ordered by start.
func (g *GoogleSource) Events(ctx context.Context, day time.Time) ([]RawEvent, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24*time.Hour - time.Second)

	events, err := g.srv.Events.List(g.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}

	out := make([]RawEvent, 0, len(events.Items))
	for _, item := range events.Items {
		ev := RawEvent{
			ID:          item.Id,
			Summary:     item.Summary,
			Description: item.Description,
		}
		if item.Start != nil {
			ev.Start = RawTime{DateTime: item.Start.DateTime, Date: item.Start.Date}
		}
		if item.End != nil {
			ev.End = RawTime{DateTime: item.End.DateTime, Date: item.End.Date}
		}
		out = append(out, ev)
	}
	return out, nil
}
