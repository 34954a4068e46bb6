// Package pipeline orchestrates a full analysis run: event detection, the
// whole-corpus baseline build, per-event window extraction and metric
// computation, and the final aggregation. The baseline build is a hard
// ordering barrier: CRT and TSI are defined against whole-corpus averages,
// so no metric is computed until every match has been folded in. After the
// barrier, matches are independent and processed in parallel.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/DanielCarreno95/R3ACT/internal/aggregator"
	"github.com/DanielCarreno95/R3ACT/internal/baseline"
	"github.com/DanielCarreno95/R3ACT/internal/config"
	"github.com/DanielCarreno95/R3ACT/internal/detector"
	"github.com/DanielCarreno95/R3ACT/internal/metrics"
	"github.com/DanielCarreno95/R3ACT/internal/model"
	"github.com/DanielCarreno95/R3ACT/internal/window"
)

// Result is the output of one pipeline run: one row per detected critical
// event, plus the aggregate tables.
type Result struct {
	Rows   []model.MetricResult
	Tables aggregator.Tables

	PlayersWithBaseline int
	TeamsWithBaseline   int
}

// Run executes the full pipeline over the loaded corpus. Configuration
// problems abort before any computation; per-event failures degrade single
// rows to missing and never stop the batch.
func Run(ctx context.Context, matches []*model.Match, cfg *config.Config, log *slog.Logger) (*Result, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	det := detector.New(cfg.WeightTable())

	log.Info("computing whole-corpus baseline", "matches", len(matches))
	base := baseline.Compute(matches)
	log.Info("baseline ready", "players", base.PlayerCount(), "teams", base.TeamCount())

	rowsByMatch := make([][]model.MetricResult, len(matches))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, m := range matches {
		i, m := i, m
		g.Go(func() error {
			rowsByMatch[i] = processMatch(m, det, base, cfg, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var rows []model.MetricResult
	for _, mr := range rowsByMatch {
		rows = append(rows, mr...)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].MatchID != rows[j].MatchID {
			return rows[i].MatchID < rows[j].MatchID
		}
		if rows[i].Timestamp != rows[j].Timestamp {
			return rows[i].Timestamp < rows[j].Timestamp
		}
		return rows[i].EventID < rows[j].EventID
	})

	names := aggregator.Names{
		Matches: make(map[string]string),
		Teams:   make(map[int64]string),
		Players: make(map[int64]string),
	}
	for _, m := range matches {
		names.Matches[m.MatchID] = m.Name
		for id, n := range m.TeamNames {
			names.Teams[id] = n
		}
		for id, n := range m.PlayerNames {
			names.Players[id] = n
		}
	}

	return &Result{
		Rows:                rows,
		Tables:              aggregator.Aggregate(rows, cfg.WeightTable(), names),
		PlayersWithBaseline: base.PlayerCount(),
		TeamsWithBaseline:   base.TeamCount(),
	}, nil
}

// processMatch detects a match's critical events and computes the metrics
// each category calls for. Every detected event yields exactly one row.
func processMatch(m *model.Match, det *detector.Detector, base *model.BaselineState, cfg *config.Config, log *slog.Logger) []model.MetricResult {
	events := det.Detect(m)
	log.Info("critical events detected", "match", m.MatchID, "events", len(events))

	rows := make([]model.MetricResult, 0, len(events))
	for _, ce := range events {
		row := model.MetricResult{
			MatchID:   ce.Event.MatchID,
			EventID:   ce.Event.EventID,
			Category:  ce.Category,
			Weight:    ce.Weight,
			Timestamp: ce.Event.Timestamp,
			PlayerID:  ce.Event.PlayerID,
			TeamID:    ce.Event.TeamID,
		}

		w, err := window.Extract(m.Frames, ce.Event, cfg.HalfWindowSeconds())
		if err != nil {
			row.Note = noteFor(err)
			log.Warn("window unavailable", "match", m.MatchID, "event", ce.Event.EventID, "err", err)
			rows = append(rows, row)
			continue
		}

		if ce.Category.IsGoal() {
			computeGIRI(&row, ce, w, m, cfg, log)
		} else {
			computeCRT(&row, ce, w, base, cfg, log)
			computeTSI(&row, ce, w, m, cfg, log)
		}
		rows = append(rows, row)
	}
	return rows
}

func computeCRT(row *model.MetricResult, ce model.CriticalEvent, w model.TemporalWindow, base *model.BaselineState, cfg *config.Config, log *slog.Logger) {
	res, err := metrics.CRT(ce, w, base, cfg)
	if err != nil {
		row.Note = noteFor(err)
		log.Warn("CRT unavailable", "event", ce.Event.EventID, "err", err)
		return
	}
	row.CRT = &res.Seconds
	row.CRTCensored = res.Censored
}

func computeTSI(row *model.MetricResult, ce model.CriticalEvent, w model.TemporalWindow, m *model.Match, cfg *config.Config, log *slog.Logger) {
	res, err := metrics.TSI(ce, w, m, cfg)
	if err != nil {
		if row.Note == "" {
			row.Note = noteFor(err)
		}
		log.Warn("TSI unavailable", "event", ce.Event.EventID, "err", err)
		return
	}
	row.TSI = res.Value
	row.TSIComponents = res.Components
}

func computeGIRI(row *model.MetricResult, ce model.CriticalEvent, w model.TemporalWindow, m *model.Match, cfg *config.Config, log *slog.Logger) {
	res, err := metrics.GIRI(ce, w, m, cfg)
	if err != nil {
		row.Note = noteFor(err)
		log.Warn("GIRI unavailable", "event", ce.Event.EventID, "err", err)
		return
	}
	row.GIRI = res.Value
	row.GIRIComponents = res.Components
}

// noteFor turns a local failure into the row's diagnostic note.
func noteFor(err error) string {
	switch {
	case errors.Is(err, model.ErrBaselineInsufficient):
		return "baseline_insufficient"
	case errors.Is(err, model.ErrInsufficientWindow):
		return "insufficient_window"
	case errors.Is(err, model.ErrMalformedEvent):
		return "malformed_event"
	default:
		return err.Error()
	}
}
