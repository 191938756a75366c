package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokawa/dayboard/internal/calendar"
	"github.com/sokawa/dayboard/internal/models"
	"github.com/sokawa/dayboard/internal/schedule"
	"github.com/sokawa/dayboard/internal/store"
	"github.com/sokawa/dayboard/internal/timer"
)

// DayModel renders a single day: the schedule grid on the left and the task
// list on the right, with a quick-add input at the bottom.
type DayModel struct {
	width  int
	height int

	date   time.Time
	store  *store.Store
	engine *timer.Engine
	syncer *calendar.Syncer // nil when no calendar is configured

	selected int
	adding   bool
	input    textinput.Model

	fetchErr error
	status   string
}

// dayTickMsg is sent every second to refresh the active timer display
type dayTickMsg struct{}

// fetchDoneMsg reports the result of a calendar fetch for a date
type fetchDoneMsg struct {
	err error
}

// NewDayModel creates the day view for today. The syncer may be nil.
func NewDayModel(s *store.Store, engine *timer.Engine, syncer *calendar.Syncer) DayModel {
	input := textinput.New()
	input.Placeholder = "Task title..."
	input.CharLimit = 120
	input.Width = 40

	return DayModel{
		date:   time.Now(),
		store:  s,
		engine: engine,
		syncer: syncer,
		input:  input,
	}
}

// Init starts the per-second tick and the initial calendar fetch
func (m DayModel) Init() tea.Cmd {
	return tea.Batch(dayTick(), m.fetchCmd())
}

func dayTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return dayTickMsg{}
	})
}

// fetchCmd pulls the current date's calendar events in the background
func (m DayModel) fetchCmd() tea.Cmd {
	if m.syncer == nil {
		return nil
	}
	sy, day := m.syncer, m.date
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return fetchDoneMsg{err: sy.Fetch(ctx, day)}
	}
}

// Update handles messages
func (m DayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dayTickMsg:
		// Re-render only; the engine's run loop pushes elapsed time
		return m, dayTick()

	case fetchDoneMsg:
		m.fetchErr = msg.err
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m DayModel) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.input.Reset()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Reset()
		if title == "" {
			return m, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := m.store.Add(ctx, store.AddRequest{
			Title: title,
			Date:  models.DateString(m.date),
		}); err != nil {
			m.status = fmt.Sprintf("add failed: %v", err)
		} else {
			m.status = fmt.Sprintf("added %q", title)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m DayModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.dayTasks()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "left", "h":
		m.date = m.date.AddDate(0, 0, -1)
		m.selected = 0
		m.fetchErr = nil
		return m, m.fetchCmd()

	case "right", "l":
		m.date = m.date.AddDate(0, 0, 1)
		m.selected = 0
		m.fetchErr = nil
		return m, m.fetchCmd()

	case "t":
		m.date = time.Now()
		m.selected = 0
		m.fetchErr = nil
		return m, m.fetchCmd()

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "down", "j":
		if m.selected < len(tasks)-1 {
			m.selected++
		}
		return m, nil

	case "a":
		m.adding = true
		m.input.Focus()
		return m, textinput.Blink

	case " ", "space":
		if task, ok := m.selectedTask(tasks); ok {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := m.store.ToggleCompletion(ctx, task.ID); err != nil {
				m.status = fmt.Sprintf("toggle failed: %v", err)
			}
		}
		return m, nil

	case "s":
		if task, ok := m.selectedTask(tasks); ok {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := m.engine.Start(ctx, task.ID); err != nil {
				m.status = fmt.Sprintf("start failed: %v", err)
			} else {
				m.status = fmt.Sprintf("timer started for %q", task.Title)
			}
		}
		return m, nil

	case "S":
		if active := m.engine.Active(); active != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := m.engine.Stop(ctx, active); err != nil {
				m.status = fmt.Sprintf("stop failed: %v", err)
			} else {
				m.status = "timer stopped"
			}
		}
		return m, nil

	case "d":
		if task, ok := m.selectedTask(tasks); ok {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := m.store.Delete(ctx, task.ID); err != nil {
				m.status = fmt.Sprintf("delete failed: %v", err)
			}
			if m.selected > 0 {
				m.selected--
			}
		}
		return m, nil
	}

	return m, nil
}

func (m DayModel) dayTasks() []models.Task {
	return m.store.TasksForDate(models.DateString(m.date))
}

func (m DayModel) selectedTask(tasks []models.Task) (models.Task, bool) {
	if m.selected < 0 || m.selected >= len(tasks) {
		return models.Task{}, false
	}
	return tasks[m.selected], true
}

// View renders the day view
func (m DayModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	tasks := m.dayTasks()

	header := m.renderHeader()
	grid := m.renderGrid(tasks)
	list := m.renderList(tasks)
	footer := m.renderFooter()

	body := lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", list)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m DayModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))

	line := titleStyle.Render(m.date.Format("Mon, Jan 2 2006"))

	if m.syncer != nil && m.syncer.NeedsReauth() {
		line += "  " + warnStyle.Render("⚠ calendar needs re-authentication (run: dayboard connect)")
	} else if m.fetchErr != nil {
		line += "  " + errStyle.Render(fmt.Sprintf("calendar: %v", m.fetchErr))
	}
	return line + "\n"
}

// renderGrid draws the 06:00-23:00 window at two lines per hour, placing each
// block's title on the line of its start slot.
func (m DayModel) renderGrid(tasks []models.Task) string {
	blocks := schedule.Layout(tasks)

	hourStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
	calStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorCalendar))
	taskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	doneStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDisabledText)).
		Strikethrough(true)
	activeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)

	// One entry per half-hour row
	rows := make([][]string, (schedule.EndHour-schedule.StartHour)*2)
	for _, b := range blocks {
		row := int(b.Top / schedule.HourHeight * 2)
		if row < 0 || row >= len(rows) {
			continue
		}
		label := truncate(b.Task.Title, 24)
		switch {
		case b.Task.ID == m.engine.Active():
			label = activeStyle.Render("▶ " + label)
		case b.Task.IsCalendarEvent():
			label = calStyle.Render("◆ " + label)
		case b.Task.Completed:
			label = doneStyle.Render("✓ " + label)
		default:
			label = taskStyle.Render("· " + label)
		}
		rows[row] = append(rows[row], label)
	}

	var sb strings.Builder
	for i, entries := range rows {
		if i%2 == 0 {
			sb.WriteString(hourStyle.Render(fmt.Sprintf("%02d:00 │ ", schedule.StartHour+i/2)))
		} else {
			sb.WriteString(hourStyle.Render("      │ "))
		}
		sb.WriteString(strings.Join(entries, "  "))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m DayModel) renderList(tasks []models.Task) string {
	selStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Background(lipgloss.Color(ColorAccentMain))
	rowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	var sb strings.Builder
	for i, task := range tasks {
		marker := "[ ]"
		if task.Completed {
			marker = doneStyle.Render("[✓]")
		}

		line := fmt.Sprintf("%s %s", marker, truncate(task.Title, 32))
		if task.ID == m.engine.Active() {
			line += activeStyle.Render(fmt.Sprintf("  ⏱ %s", formatElapsed(m.engine.Elapsed())))
		} else if task.TimeSpent > 0 {
			line += fmt.Sprintf("  %s", formatElapsed(task.TimeSpent))
		}

		if i == m.selected && !m.adding {
			sb.WriteString(selStyle.Render(line))
		} else {
			sb.WriteString(rowStyle.Render(line))
		}
		sb.WriteString("\n")
	}

	if len(tasks) == 0 {
		sb.WriteString(rowStyle.Render("No tasks for this day. Press 'a' to add one."))
		sb.WriteString("\n")
	}

	if m.adding {
		sb.WriteString("\n  " + m.input.View() + "\n")
	}

	return sb.String()
}

func (m DayModel) renderFooter() string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText))
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))

	help := "←/→ day • ↑/↓ select • space done • s start • S stop • a add • d delete • q quit"
	if m.adding {
		help = "enter save • esc cancel"
	}

	line := "\n" + helpStyle.Render(help)
	if m.status != "" {
		line += "\n" + statusStyle.Render(m.status)
	}
	return line
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func formatElapsed(seconds int) string {
	h := seconds / 3600
	mins := (seconds % 3600) / 60
	secs := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, mins)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm %02ds", mins, secs)
	}
	return fmt.Sprintf("%ds", secs)
}
