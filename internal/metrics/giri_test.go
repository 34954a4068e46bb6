package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/DanielCarreno95/R3ACT/internal/model"
)

// goalEvent builds a conceded-goal critical event for the home team at t.
func goalEvent(t float64) model.CriticalEvent {
	return model.CriticalEvent{
		Category: model.GoalConceded,
		Weight:   0.2,
		Event: model.Event{
			EventID:   "g1",
			Timestamp: t,
			Period:    1,
			TeamID:    homeTeam,
		},
	}
}

// advanceFrame shifts the home trio upfield by offset, keeping possession
// with the home team so the pass-sequence component has a defined pre-value.
func advanceFrame(ts, offset float64) model.TrackingFrame {
	return model.TrackingFrame{
		Timestamp:  ts,
		Period:     1,
		Possession: homeTeam,
		Players: []model.PlayerPosition{
			{PlayerID: playerA, X: offset, Y: 0},
			{PlayerID: playerB, X: offset + 10, Y: 5},
			{PlayerID: playerC, X: offset + 5, Y: -5},
		},
	}
}

func TestGIRI_NonGoalRejected(t *testing.T) {
	_, err := GIRI(lossEvent(100), model.TemporalWindow{}, makeSquadMatch(), testConfig())
	if !errors.Is(err, model.ErrCategoryMismatch) {
		t.Fatalf("expected ErrCategoryMismatch, got %v", err)
	}
}

func TestGIRI_EmptySegment(t *testing.T) {
	w := model.TemporalWindow{Post: []model.TrackingFrame{advanceFrame(100, 0)}}
	_, err := GIRI(goalEvent(100), w, makeSquadMatch(), testConfig())
	if !errors.Is(err, model.ErrInsufficientWindow) {
		t.Fatalf("expected ErrInsufficientWindow, got %v", err)
	}
}

// TestGIRI_PushForward: after conceding, the team pushes its block upfield
// and speeds up; block height and team speed deltas must come out positive.
func TestGIRI_PushForward(t *testing.T) {
	m := makeSquadMatch()
	m.Events = []model.Event{
		// One defensive engagement per side of the goal keeps the pressing
		// component defined.
		{EventID: "p1", Timestamp: 70, TeamID: homeTeam, StartType: "pass_interception"},
		{EventID: "p2", Timestamp: 110, TeamID: homeTeam, EndType: "clearance"},
		{EventID: "p3", Timestamp: 130, TeamID: homeTeam, StartType: "pass_interception"},
	}

	var w model.TemporalWindow
	for ts := 40.0; ts < 100; ts++ {
		w.Pre = append(w.Pre, advanceFrame(ts, -20+(ts-40)*0.05)) // slow deep block
	}
	for ts := 100.0; ts <= 160; ts++ {
		w.Post = append(w.Post, advanceFrame(ts, -20+(ts-100)*0.5)) // advancing fast
	}

	res, err := GIRI(goalEvent(100), w, m, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := res.Components
	if c.BlockHeight == nil || *c.BlockHeight <= 0 {
		t.Errorf("block pushed upfield, BlockHeight = %v", c.BlockHeight)
	}
	if c.TeamSpeed == nil || *c.TeamSpeed <= 0 {
		t.Errorf("block sped up, TeamSpeed = %v", c.TeamSpeed)
	}
	if c.PressIntensity == nil {
		t.Error("engagements on both sides, PressIntensity should apply")
	}
	if res.Value == nil {
		t.Fatal("value must be set when components apply")
	}

	// The value is the equal-weight mean of the defined components.
	sum, n := 0.0, 0
	for _, v := range []*float64{c.BlockHeight, c.TeamSpeed, c.PassSequence, c.PressIntensity, c.Compactness} {
		if v != nil {
			sum += *v
			n++
		}
	}
	if math.Abs(*res.Value-sum/float64(n)) > 1e-12 {
		t.Errorf("GIRI %.6f, want component mean %.6f", *res.Value, sum/float64(n))
	}
}

// TestGIRI_UndefinedPreExcludesComponent: no pre-goal engagements means
// pressing has a zero pre-rate and must drop out instead of exploding.
func TestGIRI_UndefinedPreExcludesComponent(t *testing.T) {
	m := makeSquadMatch()
	m.Events = []model.Event{
		{EventID: "p1", Timestamp: 110, TeamID: homeTeam, EndType: "clearance"},
	}

	var w model.TemporalWindow
	for ts := 40.0; ts < 100; ts++ {
		w.Pre = append(w.Pre, advanceFrame(ts, -20))
	}
	for ts := 100.0; ts <= 160; ts++ {
		w.Post = append(w.Post, advanceFrame(ts, -10))
	}

	res, err := GIRI(goalEvent(100), w, m, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Components.PressIntensity != nil {
		t.Errorf("zero pre-rate must exclude pressing, got %.4f", *res.Components.PressIntensity)
	}
	if res.Value == nil {
		t.Error("other components still apply, value must be set")
	}
}

// TestGIRI_AsymmetricWindow: a goal near kickoff leaves a thin pre segment;
// the computation degrades components, never errors.
func TestGIRI_AsymmetricWindow(t *testing.T) {
	m := makeSquadMatch()
	w := model.TemporalWindow{
		Pre: []model.TrackingFrame{advanceFrame(8, -20), advanceFrame(9, -20)},
	}
	for ts := 10.0; ts <= 70; ts++ {
		w.Post = append(w.Post, advanceFrame(ts, -10))
	}

	res, err := GIRI(goalEvent(10), w, m, testConfig())
	if err != nil {
		t.Fatalf("truncated pre segment must not fail: %v", err)
	}
	if res.Components.BlockHeight == nil {
		t.Error("block height has a defined pre-value even on two frames")
	}
}
