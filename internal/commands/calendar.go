package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sokawa/dayboard/internal/calendar"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull calendar events into the day",
	Long: `Fetch the day's events from the connected calendar and merge them into
the task list. Calendar entries stay local: completing or deleting them never
writes back to the calendar or the task store.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.Close()

		sy, err := a.syncer(ctx)
		if err != nil {
			if errors.Is(err, calendar.ErrReauthRequired) {
				fmt.Println("⚠️  Calendar needs authorization. Run: dayboard connect")
				return
			}
			fmt.Printf("Error: %v\n", err)
			return
		}
		if sy == nil {
			fmt.Println("No calendar configured. Set calendar.credentials_file in the config.")
			return
		}

		dateStr, _ := cmd.Flags().GetString("date")
		day := time.Now()
		if dateStr != "" {
			day, err = time.ParseInLocation("2006-01-02", dateStr, time.Local)
			if err != nil {
				fmt.Printf("Error: invalid date '%s'\n", dateStr)
				return
			}
		}

		if err := sy.Fetch(ctx, day); err != nil {
			if errors.Is(err, calendar.ErrReauthRequired) {
				fmt.Println("⚠️  Calendar authorization expired. Run: dayboard connect")
				return
			}
			fmt.Printf("Error: %v\n", err)
			return
		}

		count := 0
		for _, task := range a.store.TasksForDate(day.Format("2006-01-02")) {
			if task.IsCalendarEvent() {
				count++
			}
		}
		fmt.Printf("📅 %d calendar event(s) merged for %s\n", count, day.Format("2006-01-02"))
	},
}

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Authorize calendar access",
	Long: `Run the calendar authorization flow and save the token. Use this for the
initial setup and again whenever pull reports an expired authorization.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.Close()

		if a.cfg.Calendar.CredentialsFile == "" {
			fmt.Println("No calendar configured. Set calendar.credentials_file in the config.")
			return
		}

		if err := calendar.Connect(ctx, a.cfg.Calendar.CredentialsFile, a.cfg.Calendar.TokenFile); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Println("✅ Calendar connected.")
	},
}

func init() {
	pullCmd.Flags().StringP("date", "d", "", "date to pull (YYYY-MM-DD, default today)")
}
