package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/DanielCarreno95/R3ACT/internal/aggregator"
	"github.com/DanielCarreno95/R3ACT/internal/config"
	"github.com/DanielCarreno95/R3ACT/internal/report"
	"github.com/DanielCarreno95/R3ACT/internal/storage"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Aggregate all stored results into match, team, and player tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		rows, err := db.GetAllResults()
		if err != nil {
			return err
		}

		recs, err := db.ListMatches()
		if err != nil {
			return err
		}
		names := aggregator.Names{Matches: make(map[string]string, len(recs))}
		for _, rec := range recs {
			names.Matches[rec.MatchID] = rec.MatchName
		}

		tables := aggregator.Aggregate(rows, config.Default().WeightTable(), names)
		report.PrintCategoryBreakdown(os.Stdout, tables.Overall.ByCategory)
		report.PrintMatchTable(os.Stdout, tables.Matches)
		report.PrintTeamTable(os.Stdout, tables.Teams)
		report.PrintPlayerTable(os.Stdout, tables.Players)
		return nil
	},
}
