package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DanielCarreno95/R3ACT/internal/report"
	"github.com/DanielCarreno95/R3ACT/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <match-id>",
	Short: "Show per-event metrics for one match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matchID := args[0]

		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		exists, err := db.MatchExists(matchID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("match not found: %s", matchID)
		}

		rows, err := db.GetResults(matchID)
		if err != nil {
			return err
		}
		report.PrintEventTable(os.Stdout, rows, nil)
		return nil
	},
}
