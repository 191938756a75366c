package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sokawa/dayboard/internal/calendar"
	"github.com/sokawa/dayboard/internal/models"
	"github.com/sokawa/dayboard/internal/store"
	"github.com/sokawa/dayboard/internal/timer"
)

// RunDayTUI starts the interactive day view
func RunDayTUI(s *store.Store, engine *timer.Engine, syncer *calendar.Syncer) error {
	model := NewDayModel(s, engine, syncer)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RunTimerTUI starts the focused tracking view for a task whose timer is
// already running. The final elapsed time is flushed when the view closes.
func RunTimerTUI(task models.Task, engine *timer.Engine) error {
	model := NewTimerModel(task, engine)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := finalModel.(TimerModel); ok {
		if m.err != nil {
			return m.err
		}
		if m.stopping {
			fmt.Printf("⏹  Timer stopped for \"%s\"\n", task.Title)
		} else {
			fmt.Printf("⏱  Timer still running for \"%s\" (stop with: dayboard stop)\n", task.Title)
		}
	}

	return nil
}
