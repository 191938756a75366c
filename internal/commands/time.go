package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sokawa/dayboard/internal/models"
	"github.com/sokawa/dayboard/internal/schedule"
	"github.com/sokawa/dayboard/internal/store"
	"github.com/sokawa/dayboard/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [task-id or title]",
	Short: "Start tracking time on a task",
	Long: `Start the timer for a task. Opens the interactive tracking view by
default; while it is open the elapsed time is synced continuously, so the
recorded time survives even if the process dies.

Examples:
  dayboard start 3f2a       # start with interactive view
  dayboard start 3f2a --no-ui`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.Close()

		task, err := a.resolveTask(args[0], today())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if err := a.engine.Start(ctx, task.ID); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI {
			fmt.Printf("⏱️  Started tracking \"%s\" at %s\n", task.Title, models.ClockTime(time.Now()))
			fmt.Println("Stop later with: dayboard stop")
			return
		}

		// The run loops sync elapsed time and fold in feed events while
		// the tracking view is open.
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go a.store.Run(runCtx)
		go a.engine.Run(runCtx)

		if err := tui.RunTimerTUI(task, a.engine); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running timer",
	Long: `Stop the task whose timer is marked as running. The span since the
start mark is added to the task's tracked time.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.Close()

		running := runningTasks(a.store.Tasks())
		if len(running) == 0 {
			fmt.Println("No timer is running.")
			return
		}

		now := time.Now()
		for _, task := range running {
			total := task.TimeSpent
			if span, ok := clockSpanSeconds(task.TimerStartedAt, models.ClockTime(now)); ok && span > total {
				total = span
			}
			patch := store.TaskPatch{
				TimeSpent:      store.Int(total),
				TimerStoppedAt: store.String(models.ClockTime(now)),
			}
			if err := a.store.Update(ctx, task.ID, patch); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("⏹  Stopped \"%s\" - %s tracked\n", task.Title, formatTime(total))
		}
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.Close()

		running := runningTasks(a.store.Tasks())
		if len(running) == 0 {
			fmt.Println("No timer is running.")
			return
		}
		for _, task := range running {
			fmt.Printf("⏱️  \"%s\" tracking since %s (%s recorded)\n",
				task.Title, task.TimerStartedAt, formatTime(task.TimeSpent))
		}
	},
}

// runningTasks returns tasks whose timer mark is open: started but not
// stopped since.
func runningTasks(tasks []models.Task) []models.Task {
	var running []models.Task
	for _, task := range tasks {
		if task.TimerStartedAt != "" && task.TimerStoppedAt == "" {
			running = append(running, task)
		}
	}
	return running
}

// clockSpanSeconds computes the seconds between two HH:MM marks on the same
// day. Spans crossing midnight wrap forward.
func clockSpanSeconds(start, end string) (int, bool) {
	sh, sm, ok := schedule.ParseStartTime(start)
	if !ok {
		return 0, false
	}
	eh, em, ok := schedule.ParseStartTime(end)
	if !ok {
		return 0, false
	}
	span := (eh*60 + em) - (sh*60 + sm)
	if span < 0 {
		span += 24 * 60
	}
	return span * 60, true
}

func init() {
	startCmd.Flags().Bool("no-ui", false, "start without the interactive view")
}
