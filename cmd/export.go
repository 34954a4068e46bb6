package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/DanielCarreno95/R3ACT/internal/storage"
)

var exportCmd = &cobra.Command{
	Use:   "export <out.csv>",
	Short: "Export all stored per-event results as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := args[0]

		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		rows, err := db.GetAllResults()
		if err != nil {
			return err
		}

		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()

		w := csv.NewWriter(f)
		header := []string{
			"match_id", "event_id", "timestamp", "category", "weight",
			"player_id", "team_id",
			"crt", "crt_censored",
			"tsi", "tsi_proximity", "tsi_possession", "tsi_structure",
			"giri", "giri_block_height", "giri_team_speed",
			"giri_pass_sequence", "giri_press_intensity", "giri_compactness",
			"note",
		}
		if err := w.Write(header); err != nil {
			return err
		}
		for _, r := range rows {
			rec := []string{
				r.MatchID,
				r.EventID,
				strconv.FormatFloat(r.Timestamp, 'f', 2, 64),
				r.Category.String(),
				strconv.FormatFloat(r.Weight, 'f', -1, 64),
				strconv.FormatInt(r.PlayerID, 10),
				strconv.FormatInt(r.TeamID, 10),
				csvOpt(r.CRT),
				strconv.FormatBool(r.CRTCensored),
				csvOpt(r.TSI),
				csvOpt(r.TSIComponents.Proximity),
				csvOpt(r.TSIComponents.Possession),
				csvOpt(r.TSIComponents.Structure),
				csvOpt(r.GIRI),
				csvOpt(r.GIRIComponents.BlockHeight),
				csvOpt(r.GIRIComponents.TeamSpeed),
				csvOpt(r.GIRIComponents.PassSequence),
				csvOpt(r.GIRIComponents.PressIntensity),
				csvOpt(r.GIRIComponents.Compactness),
				r.Note,
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(rows), outPath)
		return nil
	},
}

// csvOpt renders an optional metric, leaving the cell empty when missing.
func csvOpt(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}
