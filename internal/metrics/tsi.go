package metrics

import (
	"fmt"

	"github.com/DanielCarreno95/R3ACT/internal/config"
	"github.com/DanielCarreno95/R3ACT/internal/model"
)

// TSIResult is the outcome of a team-support-index computation. Value is nil
// when every component was inapplicable.
type TSIResult struct {
	Value      *float64
	Components model.TSIComponents
}

// TSI measures how the team collectively reacted to a teammate's error, as a
// weighted mean of three normalized components: proximity to the erring
// player, possession share, and defending-phase compactness. Components with
// a zero pre-value, or with no applicable frames, are excluded and the
// remaining weights renormalize to sum 1.0. Values are reported as-is, with
// no hard clamping.
func TSI(ev model.CriticalEvent, w model.TemporalWindow, m *model.Match, cfg *config.Config) (TSIResult, error) {
	if ev.Category.IsGoal() {
		return TSIResult{}, fmt.Errorf("%w: TSI on %s event", model.ErrCategoryMismatch, ev.Category)
	}
	if len(w.Pre) == 0 || len(w.Post) == 0 {
		return TSIResult{}, fmt.Errorf("%w: event %s needs frames on both sides",
			model.ErrInsufficientWindow, ev.Event.EventID)
	}

	teamID := ev.Event.TeamID
	res := TSIResult{
		Components: model.TSIComponents{
			Proximity:  proximityComponent(ev.Event.PlayerID, w),
			Possession: possessionComponent(teamID, w),
			Structure:  structureComponent(teamID, m, w),
		},
	}

	tw := cfg.TSIWeights
	sum, weightTotal := 0.0, 0.0
	if v := res.Components.Proximity; v != nil {
		sum += *v * tw.Proximity
		weightTotal += tw.Proximity
	}
	if v := res.Components.Possession; v != nil {
		sum += *v * tw.Possession
		weightTotal += tw.Possession
	}
	if v := res.Components.Structure; v != nil {
		sum += *v * tw.Structure
		weightTotal += tw.Structure
	}
	if weightTotal == 0 {
		return res, nil
	}
	tsi := sum / weightTotal
	res.Value = &tsi
	return res, nil
}

// proximityComponent is (pre − post) / pre over the mean distance of every
// other player (teammates and opponents) to the erring player: positive
// means the surroundings tightened around them.
func proximityComponent(playerID int64, w model.TemporalWindow) *float64 {
	if playerID == 0 {
		return nil
	}
	meanDist := func(frames []model.TrackingFrame) (float64, bool) {
		sum, n := 0.0, 0
		for _, f := range frames {
			center, ok := f.Player(playerID)
			if !ok {
				continue
			}
			for _, p := range f.Players {
				if p.PlayerID == playerID {
					continue
				}
				sum += model.Dist(center, p)
				n++
			}
		}
		if n == 0 {
			return 0, false
		}
		return sum / float64(n), true
	}

	pre, okPre := meanDist(w.Pre)
	post, okPost := meanDist(w.Post)
	if !okPre || !okPost || pre == 0 {
		return nil
	}
	v := (pre - post) / pre
	return &v
}

// possessionComponent is (post − pre) / pre over the team's share of frames
// in possession. A zero pre-share yields a missing component, never a
// division error.
func possessionComponent(teamID int64, w model.TemporalWindow) *float64 {
	share := func(frames []model.TrackingFrame) float64 {
		if len(frames) == 0 {
			return 0
		}
		held := 0
		for _, f := range frames {
			if f.Possession == teamID {
				held++
			}
		}
		return float64(held) / float64(len(frames))
	}

	pre := share(w.Pre)
	if pre == 0 {
		return nil
	}
	post := share(w.Post)
	v := (post - pre) / pre
	return &v
}

// structureComponent is (pre − post) / pre over the team's defensive
// compactness (block width × length), measured only on frames where the team
// is defending (the opponent holds possession). Positive means a tighter
// block. Inapplicable when the team never defends in either segment.
func structureComponent(teamID int64, m *model.Match, w model.TemporalWindow) *float64 {
	opponent := m.OpponentOf(teamID)
	compactness := func(frames []model.TrackingFrame) (float64, bool) {
		sum, n := 0.0, 0
		for _, f := range frames {
			if f.Possession != opponent {
				continue
			}
			squad := f.TeamPlayers(teamID, m.TeamOf)
			if len(squad) < 3 {
				continue
			}
			length, width := model.BlockExtent(squad)
			sum += width * length
			n++
		}
		if n == 0 {
			return 0, false
		}
		return sum / float64(n), true
	}

	pre, okPre := compactness(w.Pre)
	post, okPost := compactness(w.Post)
	if !okPre || !okPost || pre == 0 {
		return nil
	}
	v := (pre - post) / pre
	return &v
}
