package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DanielCarreno95/R3ACT/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List analyzed matches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		matches, err := db.ListMatches()
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Fprintln(os.Stdout, "No analyzed matches. Run `r3act analyze <data-dir>` first.")
			return nil
		}
		for _, m := range matches {
			fmt.Fprintf(os.Stdout, "%-12s  %-40s  window=%-6s  events=%-4d  %s\n",
				m.MatchID, m.MatchName, m.TimeWindow, m.Events, m.AnalyzedAt)
		}
		return nil
	},
}
