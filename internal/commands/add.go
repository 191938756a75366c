package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sokawa/dayboard/internal/models"
	"github.com/sokawa/dayboard/internal/store"
)

var addCmd = &cobra.Command{
	Use:   "add [task title]",
	Short: "Add a new task",
	Long: `Add a new task for today or a given date.

Examples:
  dayboard add "Review dashboard PR"
  dayboard add "Acme weekly sync" --customer Acme --start 14:00 --estimate 30m
  dayboard add "Standup" --date 2026-09-01 --routine`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.Close()

		title := strings.Join(args, " ")
		req := store.AddRequest{Title: title}

		req.ProjectID, _ = cmd.Flags().GetString("project")
		req.CustomerName, _ = cmd.Flags().GetString("customer")
		req.Details, _ = cmd.Flags().GetString("details")
		req.Date, _ = cmd.Flags().GetString("date")
		req.StartTime, _ = cmd.Flags().GetString("start")
		req.Tags, _ = cmd.Flags().GetStringSlice("tags")
		req.IsRoutine, _ = cmd.Flags().GetBool("routine")

		if estimate, _ := cmd.Flags().GetString("estimate"); estimate != "" {
			d, err := time.ParseDuration(estimate)
			if err != nil {
				fmt.Printf("Error: invalid estimate '%s' (use forms like 30m, 1h30m)\n", estimate)
				return
			}
			req.EstimatedTime = int(d.Seconds())
		}

		task, err := a.store.Add(ctx, req)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("✅ Added \"%s\" on %s - ID: %s\n", task.Title, task.Date, shortID(task.ID))
	},
}

// shortID abbreviates a task id for display
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatTime renders seconds as a compact h/m string
func formatTime(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

// today returns the current date in store format
func today() string {
	return models.DateString(time.Now())
}

func init() {
	addCmd.Flags().StringP("project", "p", "", "project id")
	addCmd.Flags().StringP("customer", "c", "", "customer name")
	addCmd.Flags().String("details", "", "free-form notes")
	addCmd.Flags().StringP("date", "d", "", "date (YYYY-MM-DD, default today)")
	addCmd.Flags().StringP("start", "s", "", "start time (HH:MM)")
	addCmd.Flags().StringSliceP("tags", "t", nil, "tags")
	addCmd.Flags().StringP("estimate", "e", "", "estimated time (e.g. 30m, 1h)")
	addCmd.Flags().Bool("routine", false, "mark as a recurring routine task")
}
