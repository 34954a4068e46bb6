// Package report renders result rows and aggregate tables for the terminal.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/DanielCarreno95/R3ACT/internal/aggregator"
	"github.com/DanielCarreno95/R3ACT/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// fmtOpt renders an optional metric, em-dash when missing.
func fmtOpt(v *float64, format string) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf(format, *v)
}

// PrintRunSummary prints the one-line header for an analysis run.
func PrintRunSummary(w io.Writer, matches, events, playersWithBaseline, teamsWithBaseline int, windowName string) {
	fmt.Fprintf(w, "\nMatches: %d  |  Critical events: %d  |  Window: %s  |  Baselines: %d players, %d teams\n\n",
		matches, events, windowName, playersWithBaseline, teamsWithBaseline)
}

// PrintEventTable prints one row per critical event. Censored CRTs render
// with a trailing "+" on the window bound; missing metrics render as "—".
func PrintEventTable(w io.Writer, rows []model.MetricResult, playerNames map[int64]string) {
	table := newTable(w)
	table.Header("MATCH", "TIME", "CATEGORY", "PLAYER", "WEIGHT", "CRT", "TSI", "PROX", "POSS", "STRUCT", "GIRI", "NOTE")

	for _, r := range rows {
		crt := "—"
		if r.CRT != nil {
			if r.CRTCensored {
				crt = fmt.Sprintf("%.0fs+", *r.CRT)
			} else {
				crt = fmt.Sprintf("%.1fs", *r.CRT)
			}
		}
		player := "—"
		if r.PlayerID != 0 {
			player = playerNames[r.PlayerID]
			if player == "" {
				player = fmt.Sprintf("%d", r.PlayerID)
			}
		}
		table.Append(
			r.MatchID,
			fmt.Sprintf("%.0fs", r.Timestamp),
			r.Category.String(),
			player,
			fmt.Sprintf("%.3f", r.Weight),
			crt,
			fmtOpt(r.TSI, "%.3f"),
			fmtOpt(r.TSIComponents.Proximity, "%.3f"),
			fmtOpt(r.TSIComponents.Possession, "%.3f"),
			fmtOpt(r.TSIComponents.Structure, "%.3f"),
			fmtOpt(r.GIRI, "%.3f"),
			r.Note,
		)
	}
	table.Render()
}

// PrintMatchTable prints the per-match aggregates.
func PrintMatchTable(w io.Writer, matches []aggregator.MatchAggregate) {
	table := newTable(w)
	table.Header("MATCH", "NAME", "EVENTS", "MEAN_CRT", "CENSORED", "MEAN_TSI", "MEAN_GIRI")
	for _, m := range matches {
		table.Append(
			m.MatchID,
			m.MatchName,
			fmt.Sprintf("%d", m.Events),
			fmtOpt(m.MeanCRT, "%.1fs"),
			fmt.Sprintf("%d", m.CensoredCRT),
			fmtOpt(m.MeanTSI, "%.3f"),
			fmtOpt(m.MeanGIRI, "%.3f"),
		)
	}
	table.Render()
}

// PrintTeamTable prints the per-team aggregates.
func PrintTeamTable(w io.Writer, teams []aggregator.TeamAggregate) {
	table := newTable(w)
	table.Header("TEAM", "EVENTS", "MEAN_CRT", "CENSORED", "MEAN_TSI", "MEAN_GIRI")
	for _, t := range teams {
		name := t.Name
		if name == "" {
			name = fmt.Sprintf("%d", t.TeamID)
		}
		table.Append(
			name,
			fmt.Sprintf("%d", t.Events),
			fmtOpt(t.MeanCRT, "%.1fs"),
			fmt.Sprintf("%d", t.CensoredCRT),
			fmtOpt(t.MeanTSI, "%.3f"),
			fmtOpt(t.MeanGIRI, "%.3f"),
		)
	}
	table.Render()
}

// PrintPlayerTable prints the per-player aggregates, busiest players first.
func PrintPlayerTable(w io.Writer, players []aggregator.PlayerAggregate) {
	table := newTable(w)
	table.Header("PLAYER", "EVENTS", "MEAN_CRT", "CENSORED", "MEAN_TSI")
	for _, p := range players {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("%d", p.PlayerID)
		}
		table.Append(
			name,
			fmt.Sprintf("%d", p.Events),
			fmtOpt(p.MeanCRT, "%.1fs"),
			fmt.Sprintf("%d", p.CensoredCRT),
			fmtOpt(p.MeanTSI, "%.3f"),
		)
	}
	table.Render()
}

// PrintCategoryBreakdown prints event counts per category in taxonomy order.
func PrintCategoryBreakdown(w io.Writer, byCategory map[model.Category]int) {
	table := newTable(w)
	table.Header("CATEGORY", "EVENTS")

	cats := make([]model.Category, 0, len(byCategory))
	for c := range byCategory {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	for _, c := range cats {
		table.Append(c.String(), fmt.Sprintf("%d", byCategory[c]))
	}
	table.Render()
}
