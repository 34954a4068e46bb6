package metrics

import (
	"fmt"
	"math"

	"github.com/DanielCarreno95/R3ACT/internal/config"
	"github.com/DanielCarreno95/R3ACT/internal/model"
)

// GIRIResult is the outcome of a goal-impact computation. Value is nil when
// no component had a defined pre-value.
type GIRIResult struct {
	Value      *float64
	Components model.GIRIComponents
}

// GIRI measures a team's tactical shift around a goal: ratio-normalized
// pre/post changes in block height, team speed, possession-sequence length,
// pressing intensity, and compactness, averaged with equal weight over the
// components whose pre-value is defined. Only goal-category events are
// accepted; anything else is a contract violation.
func GIRI(ev model.CriticalEvent, w model.TemporalWindow, m *model.Match, cfg *config.Config) (GIRIResult, error) {
	if !ev.Category.IsGoal() {
		return GIRIResult{}, fmt.Errorf("%w: GIRI on %s event", model.ErrCategoryMismatch, ev.Category)
	}
	if len(w.Pre) == 0 || len(w.Post) == 0 {
		return GIRIResult{}, fmt.Errorf("%w: event %s needs frames on both sides",
			model.ErrInsufficientWindow, ev.Event.EventID)
	}

	teamID := ev.Event.TeamID
	t := ev.Event.Timestamp
	half := cfg.HalfWindowSeconds()

	res := GIRIResult{
		Components: model.GIRIComponents{
			BlockHeight:    ratioChange(blockHeight(teamID, m, w.Pre), blockHeight(teamID, m, w.Post)),
			TeamSpeed:      ratioChange(teamSpeed(teamID, m, w.Pre), teamSpeed(teamID, m, w.Post)),
			PassSequence:   ratioChange(possessionRunLength(teamID, w.Pre), possessionRunLength(teamID, w.Post)),
			PressIntensity: ratioChange(pressingRate(teamID, m, t-half, t), pressingRate(teamID, m, t, t+half)),
			Compactness:    ratioChange(meanCompactness(teamID, m, w.Pre), meanCompactness(teamID, m, w.Post)),
		},
	}

	sum, n := 0.0, 0
	for _, v := range []*float64{
		res.Components.BlockHeight,
		res.Components.TeamSpeed,
		res.Components.PassSequence,
		res.Components.PressIntensity,
		res.Components.Compactness,
	} {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return res, nil
	}
	giri := sum / float64(n)
	res.Value = &giri
	return res, nil
}

// ratioChange is (post − pre) / |pre|, the shared normalization convention.
// An undefined (zero) pre-value excludes the component.
func ratioChange(pre, post float64) *float64 {
	if pre == 0 {
		return nil
	}
	v := (post - pre) / math.Abs(pre)
	return &v
}

// blockHeight is the mean longitudinal position of the team's players.
func blockHeight(teamID int64, m *model.Match, frames []model.TrackingFrame) float64 {
	sum, n := 0.0, 0
	for _, f := range frames {
		for _, p := range f.TeamPlayers(teamID, m.TeamOf) {
			sum += p.X
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// teamSpeed is the mean per-player speed across consecutive frame pairs.
func teamSpeed(teamID int64, m *model.Match, frames []model.TrackingFrame) float64 {
	sum, n := 0.0, 0
	for i := 1; i < len(frames); i++ {
		prev, curr := &frames[i-1], &frames[i]
		dt := curr.Timestamp - prev.Timestamp
		if dt <= 0 || prev.Period != curr.Period {
			continue
		}
		for _, p := range curr.TeamPlayers(teamID, m.TeamOf) {
			pp, ok := prev.Player(p.PlayerID)
			if !ok {
				continue
			}
			sum += math.Hypot(p.X-pp.X, p.Y-pp.Y) / dt
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// possessionRunLength is the mean duration, in seconds, of the team's
// uninterrupted possession spells within the segment.
func possessionRunLength(teamID int64, frames []model.TrackingFrame) float64 {
	var (
		runs     []float64
		runStart float64
		inRun    bool
		lastTs   float64
	)
	for _, f := range frames {
		if f.Possession == teamID {
			if !inRun {
				runStart = f.Timestamp
				inRun = true
			}
			lastTs = f.Timestamp
			continue
		}
		if inRun {
			runs = append(runs, lastTs-runStart)
			inRun = false
		}
	}
	if inRun {
		runs = append(runs, lastTs-runStart)
	}
	if len(runs) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range runs {
		sum += r
	}
	return sum / float64(len(runs))
}

// pressingRate counts the team's defensive engagements (interceptions and
// clearances in the event log) per minute over [from, to).
func pressingRate(teamID int64, m *model.Match, from, to float64) float64 {
	if to <= from {
		return 0
	}
	engagements := 0
	for _, ev := range m.Events {
		if ev.TeamID != teamID || ev.Timestamp < from || ev.Timestamp >= to {
			continue
		}
		if ev.StartType == "pass_interception" || ev.EndType == "clearance" {
			engagements++
		}
	}
	return float64(engagements) / ((to - from) / 60)
}

// meanCompactness is the mean block width × length across the segment.
func meanCompactness(teamID int64, m *model.Match, frames []model.TrackingFrame) float64 {
	sum, n := 0.0, 0
	for _, f := range frames {
		squad := f.TeamPlayers(teamID, m.TeamOf)
		if len(squad) < 3 {
			continue
		}
		length, width := model.BlockExtent(squad)
		sum += width * length
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
