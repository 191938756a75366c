package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokawa/dayboard/internal/models"
	"github.com/sokawa/dayboard/internal/timer"
)

// TimerModel is the focused tracking view shown by `dayboard start`: a large
// running clock for a single task. S stops the timer; q leaves it running.
type TimerModel struct {
	width  int
	height int

	task   models.Task
	engine *timer.Engine

	stopping bool
	exiting  bool
	err      error
}

// timerTickMsg is sent every second to update the clock
type timerTickMsg struct{}

// NewTimerModel creates the tracking view for an already-started task
func NewTimerModel(task models.Task, engine *timer.Engine) TimerModel {
	return TimerModel{task: task, engine: engine}
}

// Init starts the ticker
func (m TimerModel) Init() tea.Cmd {
	return timerTick()
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg{}
	})
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		// Re-render only; the engine's run loop pushes elapsed time
		if m.stopping || m.exiting {
			return m, nil
		}
		return m, timerTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s", "S":
			m.stopping = true
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			m.err = m.engine.Stop(ctx, m.task.ID)
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			// Leave the timer running in the background
			m.exiting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the tracking screen
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true)
	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)
	metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText))

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.task.Title))
	sb.WriteString("\n\n")
	sb.WriteString(clockStyle.Render("⏱  " + formatClock(m.engine.Elapsed())))
	sb.WriteString("\n\n")
	if m.task.CustomerName != "" {
		sb.WriteString(metaStyle.Render(fmt.Sprintf("Customer: %s\n", m.task.CustomerName)))
	}
	if m.task.EstimatedTime > 0 {
		sb.WriteString(metaStyle.Render(fmt.Sprintf("Estimate: %s\n", formatElapsed(m.task.EstimatedTime))))
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("S stop • q detach (keeps running)"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 3).
		Render(sb.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func formatClock(seconds int) string {
	h := seconds / 3600
	mins := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, mins, secs)
}
