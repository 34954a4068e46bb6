// Package baseline computes the whole-corpus reference state: the long-run
// average physical profile of every player and the collective profile of
// every team, pooled over all frames of all matches. The result is built
// exactly once per run and shared read-only with the metric calculators.
package baseline

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/DanielCarreno95/R3ACT/internal/model"
)

// Heading reversals sharper than this count as a direction change.
const directionChangeRad = 45 * math.Pi / 180

type playerAccum struct {
	samples []float64 // row-major [speed x y distCenter] rows
	rows    int

	sumAccel    float64
	accelCount  int
	distance    float64 // meters covered
	seconds     float64 // observed moving time
	dirChanges  int
	prevSpeed   float64
	prevHeading float64
	hasSpeed    bool
	hasHeading  bool
}

type teamAccum struct {
	frames      int
	compactness float64
	spacing     float64
	width       float64
	length      float64

	blockDist    float64
	blockSeconds float64
	prevCX       float64
	prevCY       float64
	hasCentroid  bool
}

// Compute pools every tracking frame of every match into per-player and
// per-team baselines. Matches may arrive in any order: the pooled averages
// differ only by floating accumulation order.
func Compute(matches []*model.Match) *model.BaselineState {
	players := make(map[int64]*playerAccum)
	teams := make(map[int64]*teamAccum)

	for _, m := range matches {
		accumulateMatch(m, players, teams)
		// Per-frame walking state must not leak across matches.
		for _, acc := range players {
			acc.hasSpeed, acc.hasHeading = false, false
		}
		for _, acc := range teams {
			acc.hasCentroid = false
		}
	}

	playerBaselines := make(map[int64]model.PlayerBaseline, len(players))
	for id, acc := range players {
		playerBaselines[id] = finalizePlayer(acc)
	}
	teamBaselines := make(map[int64]model.TeamBaseline, len(teams))
	for id, acc := range teams {
		teamBaselines[id] = finalizeTeam(acc)
	}
	return model.NewBaselineState(playerBaselines, teamBaselines)
}

func accumulateMatch(m *model.Match, players map[int64]*playerAccum, teams map[int64]*teamAccum) {
	frames := m.Frames
	for i := 1; i < len(frames); i++ {
		prev, curr := &frames[i-1], &frames[i]
		if prev.Period != curr.Period {
			// Velocity across the half-time break is meaningless.
			for _, acc := range players {
				acc.hasSpeed, acc.hasHeading = false, false
			}
			for _, acc := range teams {
				acc.hasCentroid = false
			}
			continue
		}
		dt := curr.Timestamp - prev.Timestamp
		if dt <= 0 {
			continue
		}

		for _, p := range curr.Players {
			pp, ok := prev.Player(p.PlayerID)
			if !ok {
				continue
			}
			acc := players[p.PlayerID]
			if acc == nil {
				acc = &playerAccum{}
				players[p.PlayerID] = acc
			}
			dx, dy := p.X-pp.X, p.Y-pp.Y
			step := math.Hypot(dx, dy)
			speed := step / dt

			acc.samples = append(acc.samples, speed, p.X, p.Y, math.Hypot(p.X, p.Y))
			acc.rows++
			acc.distance += step
			acc.seconds += dt

			if acc.hasSpeed {
				acc.sumAccel += (speed - acc.prevSpeed) / dt
				acc.accelCount++
			}
			acc.prevSpeed = speed
			acc.hasSpeed = true

			if step > 0.1 { // stationary jitter carries no heading
				heading := math.Atan2(dy, dx)
				if acc.hasHeading && math.Abs(angleDiff(heading, acc.prevHeading)) > directionChangeRad {
					acc.dirChanges++
				}
				acc.prevHeading = heading
				acc.hasHeading = true
			}
		}

		for _, teamID := range []int64{m.HomeTeamID, m.AwayTeamID} {
			squad := curr.TeamPlayers(teamID, m.TeamOf)
			if len(squad) < 3 {
				continue
			}
			acc := teams[teamID]
			if acc == nil {
				acc = &teamAccum{}
				teams[teamID] = acc
			}
			length, width := model.BlockExtent(squad)
			acc.frames++
			acc.compactness += model.ConvexHullArea(squad)
			acc.spacing += model.MeanSpacing(squad)
			acc.width += width
			acc.length += length

			cx, cy := model.Centroid(squad)
			if acc.hasCentroid {
				acc.blockDist += math.Hypot(cx-acc.prevCX, cy-acc.prevCY)
				acc.blockSeconds += dt
			}
			acc.prevCX, acc.prevCY = cx, cy
			acc.hasCentroid = true
		}
	}
}

func finalizePlayer(acc *playerAccum) model.PlayerBaseline {
	b := model.PlayerBaseline{Frames: acc.rows}
	if acc.rows == 0 {
		return b
	}

	data := mat.NewDense(acc.rows, 4, acc.samples)
	for col := 0; col < 4; col++ {
		mean := stat.Mean(mat.Col(nil, col, data), nil)
		switch col {
		case 0:
			b.MeanSpeed = mean
		case 1:
			b.MeanX = mean
		case 2:
			b.MeanY = mean
		case 3:
			b.MeanDistToCenter = mean
		}
	}

	if acc.accelCount > 0 {
		b.MeanAccel = acc.sumAccel / float64(acc.accelCount)
	}
	if acc.seconds > 0 {
		minutes := acc.seconds / 60
		b.DistancePerMinute = acc.distance / minutes
		b.DirectionChangeRate = float64(acc.dirChanges) / minutes
	}

	if acc.rows >= 2 {
		var cov mat.SymDense
		stat.CovarianceMatrix(&cov, data, nil)
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				b.Covariance[i][j] = cov.At(i, j)
			}
		}
	}
	return b
}

func finalizeTeam(acc *teamAccum) model.TeamBaseline {
	b := model.TeamBaseline{Frames: acc.frames}
	if acc.frames == 0 {
		return b
	}
	n := float64(acc.frames)
	b.MeanCompactness = acc.compactness / n
	b.MeanSpacing = acc.spacing / n
	b.MeanBlockWidth = acc.width / n
	b.MeanBlockLength = acc.length / n
	if acc.blockSeconds > 0 {
		b.MeanBlockSpeed = acc.blockDist / acc.blockSeconds
	}
	return b
}

// angleDiff wraps the difference of two angles into (-π, π].
func angleDiff(a, b float64) float64 {
	d := a - b
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
