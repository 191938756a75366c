package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/sokawa/dayboard/internal/models"
)

// fakeModel echoes a canned completion and records the prompt.
type fakeModel struct {
	prompt string
	out    string
	err    error
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, m := range messages {
		for _, part := range m.Parts {
			if text, ok := part.(llms.TextContent); ok {
				f.prompt = text.Text
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.out}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	f.prompt = prompt
	return f.out, f.err
}

func TestDraft_UsesCompletionVerbatim(t *testing.T) {
	llm := &fakeModel{out: "  Shipped the importer.  "}
	d := NewDrafter(llm)

	out, err := d.Draft(context.Background(), "2026-08-31", []models.Task{
		{Title: "importer", Completed: true, TimeSpent: 5400, CustomerName: "Acme"},
		{Title: "follow-ups"},
		{Title: "standup", Tags: []string{models.CalendarTag}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Shipped the importer.", out)

	// The prompt carries the day's work but never calendar entries.
	assert.Contains(t, llm.prompt, "importer (Acme) [90m]")
	assert.Contains(t, llm.prompt, "Carry over:")
	assert.Contains(t, llm.prompt, "follow-ups")
	assert.NotContains(t, llm.prompt, "standup")
}

func TestDraft_PropagatesFailure(t *testing.T) {
	d := NewDrafter(&fakeModel{err: errors.New("rate limited")})

	_, err := d.Draft(context.Background(), "2026-08-31", nil)
	assert.Error(t, err)
}

func TestBuildPrompt_EmptyDay(t *testing.T) {
	prompt := BuildPrompt("2026-08-31", nil)
	assert.Contains(t, prompt, "Completed:\n- (none)")
	assert.NotContains(t, prompt, "Carry over:")
}
