package models

import (
	"time"
)

// CalendarTag marks tasks that were merged in from an external calendar.
// Tasks carrying this tag live only in memory and are never written to the
// remote store.
const CalendarTag = "Google Calendar"

// Task is the central entity: a unit of work on a single calendar date.
type Task struct {
	ID        string    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PrincipalID string `gorm:"index;not null" json:"principal_id"`

	Title        string `gorm:"not null" json:"title"`
	CustomerName string `json:"customer_name"`
	ProjectName  string `json:"project_name"`
	Details      string `json:"details"`

	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`

	// Time accounting, in seconds.
	TimeSpent     int `gorm:"default:0" json:"time_spent"`
	EstimatedTime int `gorm:"default:3600" json:"estimated_time"`

	// Local time-of-day strings ("HH:MM"); empty when unset.
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	Tags []string `gorm:"serializer:json" json:"tags"`

	ProjectID string `gorm:"default:p1" json:"project_id"`
	Date      string `gorm:"index" json:"date"` // YYYY-MM-DD

	IsRoutine     bool   `gorm:"default:false" json:"is_routine"`
	SourceEmailID string `json:"source_email_id"`

	// Informational timer labels, independent of TimeSpent.
	TimerStartedAt string `json:"timer_started_at"`
	TimerStoppedAt string `json:"timer_stopped_at"`
}

// IsCalendarEvent reports whether the task was merged from an external
// calendar rather than created by the user.
func (t *Task) IsCalendarEvent() bool {
	for _, tag := range t.Tags {
		if tag == CalendarTag {
			return true
		}
	}
	return false
}

// HasTag reports whether the task carries the given tag.
func (t *Task) HasTag(name string) bool {
	for _, tag := range t.Tags {
		if tag == name {
			return true
		}
	}
	return false
}

// ClockTime formats a wall-clock instant as a local "HH:MM" time-of-day string.
func ClockTime(t time.Time) string {
	return t.Format("15:04")
}

// DateString formats a wall-clock instant as a local "YYYY-MM-DD" date string.
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}
