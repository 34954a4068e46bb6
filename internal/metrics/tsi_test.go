package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/DanielCarreno95/R3ACT/internal/model"
)

// makeSquadMatch builds a two-team match with three players per side.
func makeSquadMatch() *model.Match {
	return &model.Match{
		MatchID:    "m1",
		HomeTeamID: homeTeam,
		AwayTeamID: awayTeam,
		PlayerTeam: map[int64]int64{
			playerA: homeTeam, playerB: homeTeam, playerC: homeTeam,
			17: awayTeam, 18: awayTeam, 19: awayTeam,
		},
	}
}

// squadFrame places the home trio around playerA with the given spread and
// the away trio far upfield. Possession names the owning team.
func squadFrame(ts float64, possession int64, spread float64) model.TrackingFrame {
	return model.TrackingFrame{
		Timestamp:  ts,
		Period:     1,
		Possession: possession,
		Players: []model.PlayerPosition{
			{PlayerID: playerA, X: 0, Y: 0},
			{PlayerID: playerB, X: spread, Y: 0},
			{PlayerID: playerC, X: 0, Y: spread},
			{PlayerID: 17, X: 40, Y: 0},
			{PlayerID: 18, X: 45, Y: 5},
			{PlayerID: 19, X: 50, Y: -5},
		},
	}
}

func TestTSI_AllComponents(t *testing.T) {
	m := makeSquadMatch()
	cfg := testConfig()

	// Pre: spread block, possession split home/away. Post: teammates close
	// in, possession fully home, block tighter when defending.
	w := model.TemporalWindow{
		Pre: []model.TrackingFrame{
			squadFrame(90, homeTeam, 20),
			squadFrame(91, awayTeam, 20),
		},
		Post: []model.TrackingFrame{
			squadFrame(100, homeTeam, 10),
			squadFrame(101, awayTeam, 10),
		},
	}

	res, err := TSI(lossEvent(100), w, m, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := res.Components
	if c.Proximity == nil || c.Possession == nil || c.Structure == nil {
		t.Fatalf("all components should apply, got %+v", c)
	}
	if *c.Proximity <= 0 {
		t.Errorf("teammates closed in, proximity %.4f should be positive", *c.Proximity)
	}
	if *c.Possession != 0 {
		t.Errorf("possession share unchanged, got %.4f", *c.Possession)
	}
	if *c.Structure <= 0 {
		t.Errorf("block tightened while defending, structure %.4f should be positive", *c.Structure)
	}
	if res.Value == nil {
		t.Fatal("value must be set when components apply")
	}
	want := (0.4**c.Proximity + 0.3**c.Possession + 0.3**c.Structure)
	if math.Abs(*res.Value-want) > 1e-12 {
		t.Errorf("TSI %.6f, want weighted mean %.6f", *res.Value, want)
	}
}

// TestTSI_MissingPossessionRenormalizes: a zero pre-possession share drops
// the component and the remaining weights renormalize.
func TestTSI_MissingPossessionRenormalizes(t *testing.T) {
	m := makeSquadMatch()
	w := model.TemporalWindow{
		Pre: []model.TrackingFrame{
			squadFrame(90, awayTeam, 20), // home never holds the ball pre
			squadFrame(91, awayTeam, 20),
		},
		Post: []model.TrackingFrame{
			squadFrame(100, homeTeam, 10),
			squadFrame(101, awayTeam, 10),
		},
	}

	res, err := TSI(lossEvent(100), w, m, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Components.Possession != nil {
		t.Fatal("zero pre-possession must yield a missing component, not a value")
	}
	if res.Components.Proximity == nil || res.Components.Structure == nil {
		t.Fatal("remaining components should still apply")
	}
	want := (0.4**res.Components.Proximity + 0.3**res.Components.Structure) / 0.7
	if res.Value == nil || math.Abs(*res.Value-want) > 1e-12 {
		t.Errorf("TSI %v, want renormalized mean %.6f", res.Value, want)
	}
}

// TestTSI_NoComponents: when nothing applies the value is missing, not an
// error and not zero.
func TestTSI_NoComponents(t *testing.T) {
	m := makeSquadMatch()
	ev := lossEvent(100)
	ev.Event.PlayerID = 0 // no proximity

	// Empty-player frames: no possession pre, no defending squad either.
	bare := func(ts float64) model.TrackingFrame {
		return model.TrackingFrame{Timestamp: ts, Period: 1}
	}
	w := model.TemporalWindow{
		Pre:  []model.TrackingFrame{bare(90)},
		Post: []model.TrackingFrame{bare(100)},
	}

	res, err := TSI(ev, w, m, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value != nil {
		t.Errorf("expected missing value, got %.4f", *res.Value)
	}
}

func TestTSI_GoalRejected(t *testing.T) {
	ev := lossEvent(100)
	ev.Category = model.GoalConceded
	_, err := TSI(ev, model.TemporalWindow{}, makeSquadMatch(), testConfig())
	if !errors.Is(err, model.ErrCategoryMismatch) {
		t.Fatalf("expected ErrCategoryMismatch, got %v", err)
	}
}

func TestTSI_EmptySegment(t *testing.T) {
	w := model.TemporalWindow{Pre: []model.TrackingFrame{squadFrame(90, homeTeam, 20)}}
	_, err := TSI(lossEvent(100), w, makeSquadMatch(), testConfig())
	if !errors.Is(err, model.ErrInsufficientWindow) {
		t.Fatalf("expected ErrInsufficientWindow, got %v", err)
	}
}
