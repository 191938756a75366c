// Package report drafts end-of-day report text from the day's tasks using a
// generative-text collaborator. The task lifecycle never depends on the
// output; callers append it verbatim to a task's details.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/sokawa/dayboard/internal/models"
)

// Drafter turns a day's tasks into a report draft.
type Drafter struct {
	llm llms.Model
}

// NewDrafter creates a drafter over any langchaingo model.
func NewDrafter(llm llms.Model) *Drafter {
	return &Drafter{llm: llm}
}

// NewOpenAIDrafter creates a drafter backed by an OpenAI-compatible endpoint.
func NewOpenAIDrafter(model string) (*Drafter, error) {
	opts := []openai.Option{}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating model client: %w", err)
	}
	return NewDrafter(llm), nil
}

// Draft generates report text for the date from its tasks. Failures are
// returned as-is; there is no retry.
func (d *Drafter) Draft(ctx context.Context, date string, tasks []models.Task) (string, error) {
	prompt := BuildPrompt(date, tasks)
	out, err := llms.GenerateFromSinglePrompt(ctx, d.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to draft report: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// BuildPrompt renders the day's work into the drafting prompt. Completed
// tasks carry their logged time; open tasks are listed as carry-over.
func BuildPrompt(date string, tasks []models.Task) string {
	var done, open []string
	for _, t := range tasks {
		if t.IsCalendarEvent() {
			continue
		}
		line := "- " + t.Title
		if t.CustomerName != "" {
			line += " (" + t.CustomerName + ")"
		}
		if t.Completed {
			if t.TimeSpent > 0 {
				line += fmt.Sprintf(" [%dm]", t.TimeSpent/60)
			}
			done = append(done, line)
		} else {
			open = append(open, line)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a concise daily work report for %s.\n\n", date)
	b.WriteString("Completed:\n")
	if len(done) == 0 {
		b.WriteString("- (none)\n")
	} else {
		b.WriteString(strings.Join(done, "\n") + "\n")
	}
	if len(open) > 0 {
		b.WriteString("\nCarry over:\n")
		b.WriteString(strings.Join(open, "\n") + "\n")
	}
	b.WriteString("\nKeep it factual and under 120 words.")
	return b.String()
}
