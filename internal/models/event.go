package models

// CalendarEvent is the normalized internal representation of an externally
// fetched calendar event, independent of any specific provider.
type CalendarEvent struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`       // YYYY-MM-DD
	StartTime   string   `json:"start_time"` // "HH:MM" local, empty for all-day
	EndTime     string   `json:"end_time"`   // "HH:MM" local, empty for all-day
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// TaskDraft is a parsed, not-yet-committed task description produced by the
// bulk importer. Drafts are consumed into task-creation calls and never
// stored.
type TaskDraft struct {
	Title         string `json:"title"`
	Details       string `json:"details"`
	Date          string `json:"date"`       // YYYY-MM-DD
	StartTime     string `json:"start_time"` // "HH:MM", empty when unknown
	EstimatedTime int    `json:"estimated_time"`
	CustomerName  string `json:"customer_name"`
}
