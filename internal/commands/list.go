package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sokawa/dayboard/internal/models"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks for a day, newest first.

Examples:
  dayboard list                   # today's tasks
  dayboard list --date 2026-09-01 # a specific day
  dayboard list --all             # every task in the store`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.Close()

		all, _ := cmd.Flags().GetBool("all")
		dateStr, _ := cmd.Flags().GetString("date")
		if dateStr == "" {
			dateStr = today()
		}

		var tasks []models.Task
		if all {
			tasks = a.store.Tasks()
		} else {
			tasks = a.store.TasksForDate(dateStr)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return
		}

		doneStyle := lipgloss.NewStyle().Faint(true).Strikethrough(true)
		for _, task := range tasks {
			fmt.Println(renderListRow(task, doneStyle))
		}
	},
}

func renderListRow(task models.Task, doneStyle lipgloss.Style) string {
	marker := "[ ]"
	if task.Completed {
		marker = "[✓]"
	}

	title := task.Title
	if task.CustomerName != "" {
		title = fmt.Sprintf("%s様 %s", task.CustomerName, title)
	}
	if task.Completed {
		title = doneStyle.Render(title)
	}

	row := fmt.Sprintf("%s %s  %s", shortID(task.ID), marker, title)
	if task.StartTime != "" {
		row += fmt.Sprintf("  @%s", task.StartTime)
	}
	if task.TimeSpent > 0 {
		row += fmt.Sprintf("  spent %s", formatTime(task.TimeSpent))
	} else if task.EstimatedTime > 0 {
		row += fmt.Sprintf("  est %s", formatTime(task.EstimatedTime))
	}
	if task.IsCalendarEvent() {
		row += "  ◆ calendar"
	}
	return row
}

func init() {
	listCmd.Flags().StringP("date", "d", "", "date to list (YYYY-MM-DD, default today)")
	listCmd.Flags().BoolP("all", "a", false, "list all tasks regardless of date")
}
