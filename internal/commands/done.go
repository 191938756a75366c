package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [task-id or title]",
	Short: "Toggle a task's completion",
	Long: `Toggle completion for a task. Completing a task stamps the completion
time and stops its timer if one is running; completing it again undoes the
completion but keeps the recorded times.`,
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

		if err := a.store.ToggleCompletion(ctx, task.ID); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		updated, _ := a.store.Get(task.ID)
		if updated.Completed {
			fmt.Printf("✅ Completed \"%s\"\n", updated.Title)
		} else {
			fmt.Printf("↩️  Reopened \"%s\"\n", updated.Title)
		}
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [task-id or title]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
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

		if err := a.store.Delete(ctx, task.ID); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("🗑️  Deleted \"%s\"\n", task.Title)
	},
}
