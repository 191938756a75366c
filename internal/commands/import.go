package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sokawa/dayboard/internal/importer"
	"github.com/sokawa/dayboard/internal/models"
	"github.com/sokawa/dayboard/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import tasks from pasted notes or a schedule table",
	Long: `Parse tasks out of free-form bulleted notes or a tab-separated weekly
schedule table and add them in bulk. Reads from a file or from stdin.

Line mode (default) understands ■HH:MM-HH:MM time markers, bullet lines and
Customer様 prefixes. Grid mode (--grid) parses a week table with M/D date
headers and 朝/AM/PM bands.

Examples:
  pbpaste | dayboard import
  dayboard import notes.txt --date 2026-09-01
  dayboard import week.tsv --grid --yes`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		text, err := readImportInput(args)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		grid, _ := cmd.Flags().GetBool("grid")
		dateStr, _ := cmd.Flags().GetString("date")
		if dateStr == "" {
			dateStr = today()
		}
		year, _ := cmd.Flags().GetInt("year")
		if year == 0 {
			year = time.Now().Year()
		}

		var drafts []models.TaskDraft
		if grid {
			drafts = importer.ParseGrid(text, year)
		} else {
			drafts = importer.ParseLines(text, dateStr)
		}

		if len(drafts) == 0 {
			fmt.Println("Nothing to import.")
			return
		}

		fmt.Printf("Found %d task(s):\n", len(drafts))
		for _, draft := range drafts {
			line := fmt.Sprintf("  • %s", draft.Title)
			if draft.CustomerName != "" {
				line = fmt.Sprintf("  • %s様 %s", draft.CustomerName, draft.Title)
			}
			if draft.StartTime != "" {
				line += fmt.Sprintf("  %s @%s", draft.Date, draft.StartTime)
			} else {
				line += fmt.Sprintf("  %s", draft.Date)
			}
			if draft.EstimatedTime > 0 {
				line += fmt.Sprintf("  est %s", formatTime(draft.EstimatedTime))
			}
			fmt.Println(line)
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Println("\nRe-run with --yes to add them.")
			return
		}

		a, err := newApp(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.Close()

		added := 0
		for _, draft := range drafts {
			_, err := a.store.Add(ctx, store.AddRequest{
				Title:         draft.Title,
				Details:       draft.Details,
				Date:          draft.Date,
				StartTime:     draft.StartTime,
				EstimatedTime: draft.EstimatedTime,
				CustomerName:  draft.CustomerName,
			})
			if err != nil {
				fmt.Printf("Error adding \"%s\": %v\n", draft.Title, err)
				continue
			}
			added++
		}
		fmt.Printf("✅ Imported %d task(s)\n", added)
	},
}

func readImportInput(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func init() {
	importCmd.Flags().Bool("grid", false, "parse a tab-separated weekly schedule table")
	importCmd.Flags().StringP("date", "d", "", "date for line-mode tasks (YYYY-MM-DD, default today)")
	importCmd.Flags().Int("year", 0, "year for grid-mode M/D headers (default current year)")
	importCmd.Flags().BoolP("yes", "y", false, "add the parsed tasks instead of previewing")
}
