package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sokawa/dayboard/internal/tui"
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Open the interactive day view",
	Long: `Open the full-screen day view: the schedule grid on the left, the task
list on the right. Calendar events are fetched when the view opens and on
every date change.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.Close()

		// A missing or unauthorized calendar never blocks the view; the
		// banner inside the view reports reauth state instead.
		sy, err := a.syncer(ctx)
		if err != nil {
			a.log.Warn("calendar unavailable", zap.Error(err))
			sy = nil
		}

		// Change-feed reconciliation and the background tick run for the
		// lifetime of the view.
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go a.store.Run(runCtx)
		go a.engine.Run(runCtx)

		if err := tui.RunDayTUI(a.store, a.engine, sy); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dayboard %s (commit %s, built %s)\n", version, commit, date)
	},
}
