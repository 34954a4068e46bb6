package aggregator

import (
	"math"
	"testing"

	"github.com/DanielCarreno95/R3ACT/internal/config"
	"github.com/DanielCarreno95/R3ACT/internal/model"
)

func fp(v float64) *float64 { return &v }

// row builds a metric result with the fields the aggregator reads.
func row(matchID string, cat model.Category, playerID, teamID int64, crt, tsi *float64) model.MetricResult {
	return model.MetricResult{
		MatchID:  matchID,
		Category: cat,
		PlayerID: playerID,
		TeamID:   teamID,
		CRT:      crt,
		TSI:      tsi,
	}
}

func TestAggregate_MissingValuesExcluded(t *testing.T) {
	// Two rows of the same category: one with metrics, one degraded to
	// missing. The mean must come from the measured row alone.
	results := []model.MetricResult{
		row("m1", model.FailedPassPlain, 7, 10, fp(12), fp(0.5)),
		row("m1", model.FailedPassPlain, 8, 10, nil, nil),
	}

	tables := Aggregate(results, config.Default().WeightTable(), Names{})
	o := tables.Overall
	if o.Events != 2 {
		t.Errorf("events %d, want 2", o.Events)
	}
	if o.MeanCRT == nil || *o.MeanCRT != 12 {
		t.Errorf("mean CRT %v, want 12 from the single measured row", o.MeanCRT)
	}
	if o.MeanTSI == nil || *o.MeanTSI != 0.5 {
		t.Errorf("mean TSI %v, want 0.5", o.MeanTSI)
	}
}

func TestAggregate_CensoredCRTCountedNotAveraged(t *testing.T) {
	censored := row("m1", model.DefensiveError, 7, 10, fp(150), nil)
	censored.CRTCensored = true
	results := []model.MetricResult{
		row("m1", model.DefensiveError, 8, 10, fp(20), nil),
		censored,
	}

	tables := Aggregate(results, config.Default().WeightTable(), Names{})
	o := tables.Overall
	if o.MeanCRT == nil || *o.MeanCRT != 20 {
		t.Errorf("mean CRT %v, want 20 (censored bound must not drag the mean)", o.MeanCRT)
	}
	if o.CensoredCRT != 1 {
		t.Errorf("censored count %d, want 1", o.CensoredCRT)
	}
}

// TestAggregate_PresentCategoryRenormalization: weights renormalize over the
// categories in the run, so two categories with raw weights 2.0 and 0.5
// contribute 0.8 and 0.2 of the mean.
func TestAggregate_PresentCategoryRenormalization(t *testing.T) {
	table := map[model.Category]float64{
		model.GoalScored:      2.0, // absent from the run, must not dilute
		model.DefensiveError:  2.0,
		model.FailedPassPlain: 0.5,
	}
	results := []model.MetricResult{
		row("m1", model.DefensiveError, 7, 10, fp(10), nil),
		row("m1", model.FailedPassPlain, 8, 10, fp(40), nil),
	}

	tables := Aggregate(results, table, Names{})
	want := 0.8*10 + 0.2*40
	if got := tables.Overall.MeanCRT; got == nil || math.Abs(*got-want) > 1e-12 {
		t.Errorf("mean CRT %v, want %.2f", got, want)
	}
}

func TestAggregate_PlayerRows(t *testing.T) {
	giriRow := model.MetricResult{
		MatchID: "m1", Category: model.GoalConceded, TeamID: 10, GIRI: fp(0.3),
	}
	results := []model.MetricResult{
		row("m1", model.FailedPassPlain, 7, 10, fp(10), fp(0.1)),
		row("m1", model.FailedPassPlain, 7, 10, fp(20), fp(0.2)),
		row("m1", model.DefensiveError, 8, 10, fp(30), fp(0.3)),
		giriRow,
	}

	tables := Aggregate(results, config.Default().WeightTable(), Names{Players: map[int64]string{7: "Seven"}})
	if len(tables.Players) != 2 {
		t.Fatalf("%d player rows, want 2 (goal rows carry no player)", len(tables.Players))
	}
	// Player 7 leads with more events.
	if tables.Players[0].PlayerID != 7 || tables.Players[0].Events != 2 {
		t.Errorf("first player row %+v, want player 7 with 2 events", tables.Players[0])
	}
	if tables.Players[0].Name != "Seven" {
		t.Errorf("player name %q, want Seven", tables.Players[0].Name)
	}

	// The team table still sees the goal row.
	if len(tables.Teams) != 1 || tables.Teams[0].Events != 4 {
		t.Errorf("team rows %+v, want one team with 4 events", tables.Teams)
	}
	if tables.Teams[0].MeanGIRI == nil || *tables.Teams[0].MeanGIRI != 0.3 {
		t.Errorf("team GIRI %v, want 0.3", tables.Teams[0].MeanGIRI)
	}
}

func TestAggregate_MatchOrdering(t *testing.T) {
	results := []model.MetricResult{
		row("m2", model.FailedPassPlain, 7, 10, nil, nil),
		row("m1", model.FailedPassPlain, 7, 10, nil, nil),
	}
	tables := Aggregate(results, config.Default().WeightTable(), Names{})
	if len(tables.Matches) != 2 || tables.Matches[0].MatchID != "m1" {
		t.Errorf("matches not sorted by id: %+v", tables.Matches)
	}
}

func TestAggregate_Empty(t *testing.T) {
	tables := Aggregate(nil, config.Default().WeightTable(), Names{})
	if tables.Overall.Events != 0 || tables.Overall.MeanCRT != nil {
		t.Errorf("empty run must aggregate to nothing, got %+v", tables.Overall)
	}
}
