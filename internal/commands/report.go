package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sokawa/dayboard/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Draft a daily report from the day's tasks",
	Long: `Draft a short end-of-day report from the day's completed and remaining
tasks. Requires an OpenAI API key in the environment; use --prompt to print
the prompt instead of calling the model.

Examples:
  dayboard report
  dayboard report --date 2026-08-28
  dayboard report --prompt`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.Close()

		dateStr, _ := cmd.Flags().GetString("date")
		if dateStr == "" {
			dateStr = today()
		}
		tasks := a.store.TasksForDate(dateStr)

		if promptOnly, _ := cmd.Flags().GetBool("prompt"); promptOnly {
			fmt.Println(report.BuildPrompt(dateStr, tasks))
			return
		}

		drafter, err := report.NewOpenAIDrafter(a.cfg.Report.Model)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		draft, err := drafter.Draft(ctx, dateStr, tasks)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Println(draft)
	},
}

func init() {
	reportCmd.Flags().StringP("date", "d", "", "date to report on (YYYY-MM-DD, default today)")
	reportCmd.Flags().Bool("prompt", false, "print the drafting prompt instead of calling the model")
}
