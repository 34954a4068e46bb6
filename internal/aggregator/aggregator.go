// Package aggregator rolls per-event metric rows up into match, team,
// player, and overall tables. Missing and censored values are excluded from
// the weighted means, never coerced to zero, and the reduction is a plain
// associative weighted sum so parallel and sequential runs agree.
package aggregator

import (
	"sort"

	"github.com/DanielCarreno95/R3ACT/internal/config"
	"github.com/DanielCarreno95/R3ACT/internal/model"
)

// MatchAggregate summarizes one match's critical events.
type MatchAggregate struct {
	MatchID   string
	MatchName string
	Events    int

	MeanCRT     *float64
	CensoredCRT int
	MeanTSI     *float64
	MeanGIRI    *float64
}

// TeamAggregate summarizes one team across the run.
type TeamAggregate struct {
	TeamID int64
	Name   string
	Events int

	MeanCRT     *float64
	CensoredCRT int
	MeanTSI     *float64
	MeanGIRI    *float64
}

// PlayerAggregate summarizes one player across the run. Players only appear
// on events attributable to them, so GIRI never contributes here.
type PlayerAggregate struct {
	PlayerID int64
	Name     string
	Events   int

	MeanCRT     *float64
	CensoredCRT int
	MeanTSI     *float64
}

// Overall summarizes the whole run.
type Overall struct {
	Events     int
	ByCategory map[model.Category]int

	MeanCRT     *float64
	CensoredCRT int
	MeanTSI     *float64
	MeanGIRI    *float64
}

// Tables is the full aggregate output.
type Tables struct {
	Matches []MatchAggregate
	Teams   []TeamAggregate
	Players []PlayerAggregate
	Overall Overall
}

// Names resolves ids to display names for the aggregate tables.
type Names struct {
	Matches map[string]string
	Teams   map[int64]string
	Players map[int64]string
}

// wmean is an associative weighted accumulator. Missing values are simply
// never added, which keeps them out of the mean without sentinel values.
type wmean struct {
	sum, weight float64
}

func (a *wmean) add(w, v float64) {
	a.sum += w * v
	a.weight += w
}

func (a *wmean) value() *float64 {
	if a.weight == 0 {
		return nil
	}
	v := a.sum / a.weight
	return &v
}

// Aggregate builds the aggregate tables from per-event rows. The configured
// weight table is renormalized to sum 1.0 over the categories actually
// present in the run before weighting the means. Censored CRTs count in a
// separate column rather than dragging the mean to the window bound.
func Aggregate(results []model.MetricResult, weightTable map[model.Category]float64, names Names) Tables {
	present := make(map[model.Category]float64)
	for _, r := range results {
		present[r.Category] = weightTable[r.Category]
	}
	weights := config.NormalizeWeights(present)

	type accum struct {
		events   int
		crt      wmean
		censored int
		tsi      wmean
		giri     wmean
	}

	byMatch := make(map[string]*accum)
	byTeam := make(map[int64]*accum)
	byPlayer := make(map[int64]*accum)
	overall := &accum{}
	byCategory := make(map[model.Category]int)

	targets := func(r model.MetricResult) []*accum {
		accs := []*accum{overall}
		if byMatch[r.MatchID] == nil {
			byMatch[r.MatchID] = &accum{}
		}
		accs = append(accs, byMatch[r.MatchID])
		if r.TeamID != 0 {
			if byTeam[r.TeamID] == nil {
				byTeam[r.TeamID] = &accum{}
			}
			accs = append(accs, byTeam[r.TeamID])
		}
		if r.PlayerID != 0 && !r.Category.IsGoal() {
			if byPlayer[r.PlayerID] == nil {
				byPlayer[r.PlayerID] = &accum{}
			}
			accs = append(accs, byPlayer[r.PlayerID])
		}
		return accs
	}

	for _, r := range results {
		w := weights[r.Category]
		byCategory[r.Category]++
		for _, acc := range targets(r) {
			acc.events++
			if r.CRT != nil {
				if r.CRTCensored {
					acc.censored++
				} else {
					acc.crt.add(w, *r.CRT)
				}
			}
			if r.TSI != nil {
				acc.tsi.add(w, *r.TSI)
			}
			if r.GIRI != nil {
				acc.giri.add(w, *r.GIRI)
			}
		}
	}

	var t Tables
	t.Overall = Overall{
		Events:      overall.events,
		ByCategory:  byCategory,
		MeanCRT:     overall.crt.value(),
		CensoredCRT: overall.censored,
		MeanTSI:     overall.tsi.value(),
		MeanGIRI:    overall.giri.value(),
	}

	for id, acc := range byMatch {
		t.Matches = append(t.Matches, MatchAggregate{
			MatchID:     id,
			MatchName:   names.Matches[id],
			Events:      acc.events,
			MeanCRT:     acc.crt.value(),
			CensoredCRT: acc.censored,
			MeanTSI:     acc.tsi.value(),
			MeanGIRI:    acc.giri.value(),
		})
	}
	sort.Slice(t.Matches, func(i, j int) bool { return t.Matches[i].MatchID < t.Matches[j].MatchID })

	for id, acc := range byTeam {
		t.Teams = append(t.Teams, TeamAggregate{
			TeamID:      id,
			Name:        names.Teams[id],
			Events:      acc.events,
			MeanCRT:     acc.crt.value(),
			CensoredCRT: acc.censored,
			MeanTSI:     acc.tsi.value(),
			MeanGIRI:    acc.giri.value(),
		})
	}
	sort.Slice(t.Teams, func(i, j int) bool { return t.Teams[i].TeamID < t.Teams[j].TeamID })

	for id, acc := range byPlayer {
		t.Players = append(t.Players, PlayerAggregate{
			PlayerID:    id,
			Name:        names.Players[id],
			Events:      acc.events,
			MeanCRT:     acc.crt.value(),
			CensoredCRT: acc.censored,
			MeanTSI:     acc.tsi.value(),
		})
	}
	sort.Slice(t.Players, func(i, j int) bool {
		if t.Players[i].Events != t.Players[j].Events {
			return t.Players[i].Events > t.Players[j].Events
		}
		return t.Players[i].PlayerID < t.Players[j].PlayerID
	})

	return t
}
