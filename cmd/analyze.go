package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DanielCarreno95/R3ACT/internal/config"
	"github.com/DanielCarreno95/R3ACT/internal/loader"
	"github.com/DanielCarreno95/R3ACT/internal/model"
	"github.com/DanielCarreno95/R3ACT/internal/pipeline"
	"github.com/DanielCarreno95/R3ACT/internal/report"
	"github.com/DanielCarreno95/R3ACT/internal/storage"
)

var (
	configPath     string
	analyzeWindow  string
	analyzeWorkers int
	analyzeVerbose bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <data-dir>",
	Short: "Run the full recovery analysis over a match corpus",
	Long: `Loads every match under <data-dir>, computes the whole-corpus baseline,
detects critical events, computes CRT/TSI/GIRI per event, stores the
results, and prints the aggregate tables.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&configPath, "config", "", "path to YAML configuration")
	analyzeCmd.Flags().StringVar(&analyzeWindow, "window", "", "temporal window: short, medium, or long")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "parallel match workers (default: CPU count)")
	analyzeCmd.Flags().BoolVar(&analyzeVerbose, "verbose", false, "log per-event diagnostics")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	dataDir := args[0]

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if analyzeWindow != "" {
		cfg.Window = analyzeWindow
	}
	if analyzeWorkers > 0 {
		cfg.Workers = analyzeWorkers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelWarn
	if analyzeVerbose {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ids, err := loader.MatchIDs(dataDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Loading %d matches from %s...\n", len(ids), dataDir)

	var matches []*model.Match
	for _, id := range ids {
		m, diags, err := loader.LoadMatch(dataDir, id)
		if err != nil {
			return fmt.Errorf("load match %s: %w", id, err)
		}
		for _, d := range diags {
			log.Warn("skipped input row", "diag", d.String())
		}
		matches = append(matches, m)
	}

	res, err := pipeline.Run(cmd.Context(), matches, cfg, log)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	perMatch := make(map[string]int)
	for _, r := range res.Rows {
		perMatch[r.MatchID]++
	}
	for _, m := range matches {
		rec := storage.MatchRecord{
			MatchID:    m.MatchID,
			MatchName:  m.Name,
			HomeTeamID: m.HomeTeamID,
			AwayTeamID: m.AwayTeamID,
			TimeWindow: cfg.Window,
			Events:     perMatch[m.MatchID],
		}
		if err := db.InsertMatch(rec); err != nil {
			return fmt.Errorf("insert match %s: %w", m.MatchID, err)
		}
	}
	if err := db.InsertResults(res.Rows); err != nil {
		return fmt.Errorf("insert results: %w", err)
	}

	report.PrintRunSummary(os.Stdout, len(matches), len(res.Rows),
		res.PlayersWithBaseline, res.TeamsWithBaseline, cfg.Window)
	report.PrintCategoryBreakdown(os.Stdout, res.Tables.Overall.ByCategory)
	report.PrintMatchTable(os.Stdout, res.Tables.Matches)
	report.PrintTeamTable(os.Stdout, res.Tables.Teams)
	report.PrintPlayerTable(os.Stdout, res.Tables.Players)
	return nil
}
