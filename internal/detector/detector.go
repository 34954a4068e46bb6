// Package detector classifies raw match events into the closed critical-event
// taxonomy. Classification is a pure function of the event log: deterministic,
// idempotent, and ordered by source timestamp within a match.
package detector

import (
	"github.com/DanielCarreno95/R3ACT/internal/config"
	"github.com/DanielCarreno95/R3ACT/internal/model"
)

// Detector tags qualifying events with a category and its normalized weight.
type Detector struct {
	weights map[model.Category]float64 // normalized over the full table
}

// New builds a Detector from a raw (un-normalized) category weight table.
func New(table map[model.Category]float64) *Detector {
	return &Detector{weights: config.NormalizeWeights(table)}
}

// Detect scans a match's event log and returns the critical events in source
// timestamp order. Events matching no rule are discarded.
func (d *Detector) Detect(m *model.Match) []model.CriticalEvent {
	var out []model.CriticalEvent
	for _, ev := range m.Events {
		cat, ok := Classify(ev)
		if !ok {
			continue
		}
		out = append(out, model.CriticalEvent{
			Category: cat,
			Weight:   d.weights[cat],
			Event:    ev,
		})
	}
	return out
}

// Classify applies the ordered rule set and returns the first matching
// category. The ordering is the tie-break policy: an event that satisfies
// several rules gets the earliest one. ok=false means not critical.
func Classify(ev model.Event) (model.Category, bool) {
	// Rule 1: goal for the acting team.
	if ev.GameInterruptionAfter == "goal_for" || ev.LeadToGoal {
		return model.GoalScored, true
	}

	// Rule 2: goal against the acting team.
	if ev.GameInterruptionAfter == "goal_against" {
		return model.GoalConceded, true
	}

	// Rule 3: possession loss, zoned. Penalty area beats the third zones.
	if ev.EndType == "possession_loss" {
		if ev.PenaltyAreaStart {
			return model.PossessionLossPenaltyArea, true
		}
		switch ev.ThirdStart {
		case "defensive_third":
			return model.PossessionLossDefensiveThird, true
		case "middle_third":
			return model.PossessionLossMiddleThird, true
		default:
			return model.PossessionLossAttackingThird, true
		}
	}

	// Rule 4: failed pass, most severe applicable qualifier first.
	if ev.PassOutcome == "unsuccessful" || ev.PassOutcome == "offside" {
		switch {
		case ev.LeadToShot:
			return model.FailedPassLeadToShot, true
		case ev.Dangerous:
			return model.FailedPassDangerous, true
		case ev.PassOutcome == "offside":
			return model.FailedPassOffside, true
		default:
			return model.FailedPassPlain, true
		}
	}

	// Rule 5: defensive error, a clearance that hands the opponent a shot.
	// A clearance followed by a plain possession loss surfaces on the later
	// possession-loss row via rule 3.
	if ev.EndType == "clearance" && ev.LeadToShot {
		return model.DefensiveError, true
	}

	// Rule 6: pass intercepted by the opponent, qualified by zone danger.
	if ev.StartType == "pass_interception" {
		switch {
		case ev.Dangerous:
			return model.InterceptionConcededDangerous, true
		case ev.ThirdStart == "defensive_third":
			return model.InterceptionConcededDefensiveThird, true
		default:
			return model.InterceptionConcededPlain, true
		}
	}

	return model.CategoryUnknown, false
}
