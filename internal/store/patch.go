package store

import (
	"time"

	"github.com/sokawa/dayboard/internal/models"
)

// TaskPatch is a sparse partial update. Nil fields are left untouched both
// locally and remotely.
type TaskPatch struct {
	Title          *string
	CustomerName   *string
	ProjectName    *string
	Details        *string
	Completed      *bool
	CompletedAt    *time.Time
	TimeSpent      *int
	EstimatedTime  *int
	StartTime      *string
	EndTime        *string
	Tags           *[]string
	ProjectID      *string
	Date           *string
	IsRoutine      *bool
	TimerStartedAt *string
	TimerStoppedAt *string
}

// fields converts the patch into the column map sent to the remote store.
func (p TaskPatch) fields() map[string]any {
	out := map[string]any{}
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.CustomerName != nil {
		out["customer_name"] = *p.CustomerName
	}
	if p.ProjectName != nil {
		out["project_name"] = *p.ProjectName
	}
	if p.Details != nil {
		out["details"] = *p.Details
	}
	if p.Completed != nil {
		out["completed"] = *p.Completed
	}
	if p.CompletedAt != nil {
		out["completed_at"] = *p.CompletedAt
	}
	if p.TimeSpent != nil {
		out["time_spent"] = *p.TimeSpent
	}
	if p.EstimatedTime != nil {
		out["estimated_time"] = *p.EstimatedTime
	}
	if p.StartTime != nil {
		out["start_time"] = *p.StartTime
	}
	if p.EndTime != nil {
		out["end_time"] = *p.EndTime
	}
	if p.Tags != nil {
		out["tags"] = *p.Tags
	}
	if p.ProjectID != nil {
		out["project_id"] = *p.ProjectID
	}
	if p.Date != nil {
		out["date"] = *p.Date
	}
	if p.IsRoutine != nil {
		out["is_routine"] = *p.IsRoutine
	}
	if p.TimerStartedAt != nil {
		out["timer_started_at"] = *p.TimerStartedAt
	}
	if p.TimerStoppedAt != nil {
		out["timer_stopped_at"] = *p.TimerStoppedAt
	}
	return out
}

// applyTo applies the patch to an in-memory task.
func (p TaskPatch) applyTo(t *models.Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.CustomerName != nil {
		t.CustomerName = *p.CustomerName
	}
	if p.ProjectName != nil {
		t.ProjectName = *p.ProjectName
	}
	if p.Details != nil {
		t.Details = *p.Details
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.CompletedAt != nil {
		at := *p.CompletedAt
		t.CompletedAt = &at
	}
	if p.TimeSpent != nil {
		t.TimeSpent = *p.TimeSpent
	}
	if p.EstimatedTime != nil {
		t.EstimatedTime = *p.EstimatedTime
	}
	if p.StartTime != nil {
		t.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		t.EndTime = *p.EndTime
	}
	if p.Tags != nil {
		t.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.ProjectID != nil {
		t.ProjectID = *p.ProjectID
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.IsRoutine != nil {
		t.IsRoutine = *p.IsRoutine
	}
	if p.TimerStartedAt != nil {
		t.TimerStartedAt = *p.TimerStartedAt
	}
	if p.TimerStoppedAt != nil {
		t.TimerStoppedAt = *p.TimerStoppedAt
	}
}

// helpers for building patches inline

// String returns a pointer to s.
func String(s string) *string { return &s }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Time returns a pointer to t.
func Time(t time.Time) *time.Time { return &t }

// Tags returns a pointer to a copy of tags.
func Tags(tags []string) *[]string {
	c := append([]string(nil), tags...)
	return &c
}
