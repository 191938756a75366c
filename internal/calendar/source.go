// Package calendar folds externally fetched calendar events into the task
// list for a day, without ever persisting them as tasks. Upstream payloads
// name the same concepts in several ways; normalization happens here, at the
// boundary, so the rest of the system only sees models.CalendarEvent.
package calendar

import (
	"context"
	"time"

	"github.com/sokawa/dayboard/internal/models"
)

// RawTime is an upstream event time: either a date-time instant or a
// date-only (all-day) value.
type RawTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

// RawEvent is an event as upstream sources deliver it. The same concept may
// arrive under different keys (Summary vs Title, Start.DateTime vs
// Start.Date vs StartTime); Normalize picks the first present, in priority
// order.
type RawEvent struct {
	ID          string   `json:"id"`
	Summary     string   `json:"summary"`
	Title       string   `json:"title"`
	Start       RawTime  `json:"start"`
	End         RawTime  `json:"end"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// EventSource fetches raw events for one local day window,
// [startOfDay, endOfDay] inclusive.
type EventSource interface {
	Events(ctx context.Context, day time.Time) ([]RawEvent, error)
}

// Normalize converts raw events for the given day into the internal
// representation. Date-time values become local "HH:MM" strings; date-only
// values mark an all-day event and leave the time empty.
func Normalize(events []RawEvent, day time.Time) []models.CalendarEvent {
	out := make([]models.CalendarEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, models.CalendarEvent{
			ID:          ev.ID,
			Title:       firstNonEmpty(ev.Summary, ev.Title),
			Date:        models.DateString(day),
			StartTime:   normalizeTime(ev.Start, ev.StartTime),
			EndTime:     normalizeTime(ev.End, ev.EndTime),
			Description: ev.Description,
			Tags:        append([]string(nil), ev.Tags...),
		})
	}
	return out
}

// normalizeTime applies the extraction priority: nested date-time, nested
// date (all-day, no time of day), then the flat field.
func normalizeTime(nested RawTime, flat string) string {
	if nested.DateTime != "" {
		return toClock(nested.DateTime)
	}
	if nested.Date != "" {
		return "" // all-day
	}
	if flat != "" {
		return toClock(flat)
	}
	return ""
}

// toClock reduces an instant or time-of-day string to local "HH:MM".
func toClock(s string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return models.ClockTime(t.Local())
		}
	}
	if t, err := time.Parse("15:04", s); err == nil {
		return models.ClockTime(t)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
