package detector

import (
	"reflect"
	"testing"

	"github.com/DanielCarreno95/R3ACT/internal/config"
	"github.com/DanielCarreno95/R3ACT/internal/model"
)

// makeMatch wraps events in a minimal two-team match.
func makeMatch(events ...model.Event) *model.Match {
	return &model.Match{
		MatchID:    "m1",
		HomeTeamID: 10,
		AwayTeamID: 20,
		Events:     events,
	}
}

// ---- Classification rule tests ----

func TestClassify_GoalFor(t *testing.T) {
	ev := model.Event{GameInterruptionAfter: "goal_for"}
	cat, ok := Classify(ev)
	if !ok || cat != model.GoalScored {
		t.Errorf("expected goal_scored, got %v ok=%v", cat, ok)
	}
}

func TestClassify_LeadToGoalBeatsEverything(t *testing.T) {
	// A possession loss that led to a goal is a goal event, not a loss.
	ev := model.Event{
		EndType:    "possession_loss",
		ThirdStart: "defensive_third",
		LeadToGoal: true,
	}
	cat, ok := Classify(ev)
	if !ok || cat != model.GoalScored {
		t.Errorf("expected goal_scored via lead_to_goal, got %v ok=%v", cat, ok)
	}
}

func TestClassify_GoalAgainst(t *testing.T) {
	ev := model.Event{GameInterruptionAfter: "goal_against"}
	cat, ok := Classify(ev)
	if !ok || cat != model.GoalConceded {
		t.Errorf("expected goal_conceded, got %v ok=%v", cat, ok)
	}
}

func TestClassify_PossessionLossZones(t *testing.T) {
	cases := []struct {
		name string
		ev   model.Event
		want model.Category
	}{
		{"defensive third", model.Event{EndType: "possession_loss", ThirdStart: "defensive_third"}, model.PossessionLossDefensiveThird},
		{"middle third", model.Event{EndType: "possession_loss", ThirdStart: "middle_third"}, model.PossessionLossMiddleThird},
		{"attacking third", model.Event{EndType: "possession_loss", ThirdStart: "attacking_third"}, model.PossessionLossAttackingThird},
		{"missing third defaults attacking", model.Event{EndType: "possession_loss"}, model.PossessionLossAttackingThird},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cat, ok := Classify(tc.ev)
			if !ok || cat != tc.want {
				t.Errorf("got %v ok=%v, want %v", cat, ok, tc.want)
			}
		})
	}
}

// TestClassify_PenaltyAreaBeatsThird: a loss flagged as penalty-area must win
// even when a third zone is also present on the row.
func TestClassify_PenaltyAreaBeatsThird(t *testing.T) {
	ev := model.Event{
		EndType:          "possession_loss",
		ThirdStart:       "attacking_third",
		PenaltyAreaStart: true,
	}
	cat, ok := Classify(ev)
	if !ok || cat != model.PossessionLossPenaltyArea {
		t.Errorf("expected penalty-area loss, got %v ok=%v", cat, ok)
	}
}

func TestClassify_FailedPassSeverity(t *testing.T) {
	cases := []struct {
		name string
		ev   model.Event
		want model.Category
	}{
		{"shot beats dangerous", model.Event{PassOutcome: "unsuccessful", LeadToShot: true, Dangerous: true}, model.FailedPassLeadToShot},
		{"shot beats offside", model.Event{PassOutcome: "offside", LeadToShot: true}, model.FailedPassLeadToShot},
		{"dangerous beats offside", model.Event{PassOutcome: "offside", Dangerous: true}, model.FailedPassDangerous},
		{"offside alone", model.Event{PassOutcome: "offside"}, model.FailedPassOffside},
		{"plain", model.Event{PassOutcome: "unsuccessful"}, model.FailedPassPlain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cat, ok := Classify(tc.ev)
			if !ok || cat != tc.want {
				t.Errorf("got %v ok=%v, want %v", cat, ok, tc.want)
			}
		})
	}
}

func TestClassify_DefensiveError(t *testing.T) {
	cat, ok := Classify(model.Event{EndType: "clearance", LeadToShot: true})
	if !ok || cat != model.DefensiveError {
		t.Errorf("expected defensive_error, got %v ok=%v", cat, ok)
	}
	// A clearance without a resulting shot is not critical by itself.
	if _, ok := Classify(model.Event{EndType: "clearance"}); ok {
		t.Error("plain clearance should not classify")
	}
}

func TestClassify_Interception(t *testing.T) {
	cases := []struct {
		name string
		ev   model.Event
		want model.Category
	}{
		{"dangerous beats zone", model.Event{StartType: "pass_interception", Dangerous: true, ThirdStart: "defensive_third"}, model.InterceptionConcededDangerous},
		{"defensive third", model.Event{StartType: "pass_interception", ThirdStart: "defensive_third"}, model.InterceptionConcededDefensiveThird},
		{"plain", model.Event{StartType: "pass_interception", ThirdStart: "middle_third"}, model.InterceptionConcededPlain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cat, ok := Classify(tc.ev)
			if !ok || cat != tc.want {
				t.Errorf("got %v ok=%v, want %v", cat, ok, tc.want)
			}
		})
	}
}

func TestClassify_NonCritical(t *testing.T) {
	cases := []model.Event{
		{},
		{PassOutcome: "successful"},
		{EndType: "shot"},
		{StartType: "throw_in"},
	}
	for _, ev := range cases {
		if cat, ok := Classify(ev); ok {
			t.Errorf("event %+v should not classify, got %v", ev, cat)
		}
	}
}

// ---- Detect tests ----

func TestDetect_OrderedAndWeighted(t *testing.T) {
	d := New(config.Default().WeightTable())
	m := makeMatch(
		model.Event{EventID: "e1", Timestamp: 10, PassOutcome: "successful"},
		model.Event{EventID: "e2", Timestamp: 30, EndType: "possession_loss", ThirdStart: "middle_third"},
		model.Event{EventID: "e3", Timestamp: 95, GameInterruptionAfter: "goal_against"},
	)

	out := d.Detect(m)
	if len(out) != 2 {
		t.Fatalf("expected 2 critical events, got %d", len(out))
	}
	if out[0].Event.EventID != "e2" || out[1].Event.EventID != "e3" {
		t.Errorf("events out of source order: %s, %s", out[0].Event.EventID, out[1].Event.EventID)
	}
	for _, ce := range out {
		if ce.Weight <= 0 || ce.Weight >= 1 {
			t.Errorf("%s: normalized weight %.4f outside (0,1)", ce.Category, ce.Weight)
		}
	}
	// goal_conceded carries the largest raw weight so its normalized share
	// must exceed the middle-third loss share.
	if out[1].Weight <= out[0].Weight {
		t.Errorf("goal weight %.4f should exceed loss weight %.4f", out[1].Weight, out[0].Weight)
	}
}

// TestDetect_Deterministic: the same match must classify identically run
// over run.
func TestDetect_Deterministic(t *testing.T) {
	d := New(config.Default().WeightTable())
	m := makeMatch(
		model.Event{EventID: "e1", Timestamp: 5, EndType: "possession_loss", PenaltyAreaStart: true},
		model.Event{EventID: "e2", Timestamp: 6, PassOutcome: "unsuccessful", Dangerous: true},
		model.Event{EventID: "e3", Timestamp: 7, StartType: "pass_interception"},
	)
	first := d.Detect(m)
	for i := 0; i < 5; i++ {
		if got := d.Detect(m); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged from first run", i)
		}
	}
}
