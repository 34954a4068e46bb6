// Package metrics implements the three recovery metrics: cognitive reset
// time (CRT), team support index (TSI), and goal impact response index
// (GIRI). All three are pure functions of a critical event, its temporal
// window, and the shared read-only baseline state.
package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/DanielCarreno95/R3ACT/internal/config"
	"github.com/DanielCarreno95/R3ACT/internal/model"
)

// Ridge added to the covariance diagonal before inversion, guarding against
// near-singular baselines.
const covarianceRidge = 0.01

// CRTResult is the outcome of a cognitive-reset-time computation. A censored
// result means the player did not return to baseline inside the post window:
// Seconds then reports the window bound, not a recovery.
type CRTResult struct {
	Seconds  float64
	Censored bool
}

// CRT estimates how long after the event the erring player's physical state
// returned to their personal baseline. The distance series is Mahalanobis
// distance to the baseline mean under the baseline covariance, smoothed with
// an EWMA; recovery is the first sample below the configured threshold that
// stays below it for the dwell duration. The result is bounded to
// [0, half-window] and censored at the bound when recovery never happens.
func CRT(ev model.CriticalEvent, w model.TemporalWindow, base *model.BaselineState, cfg *config.Config) (CRTResult, error) {
	if ev.Category.IsGoal() {
		return CRTResult{}, fmt.Errorf("%w: CRT on %s event", model.ErrCategoryMismatch, ev.Category)
	}
	playerID := ev.Event.PlayerID
	if playerID == 0 {
		return CRTResult{}, fmt.Errorf("%w: event %s has no acting player", model.ErrMalformedEvent, ev.Event.EventID)
	}

	pb, ok := base.Player(playerID)
	if !ok {
		return CRTResult{}, fmt.Errorf("%w: player %d never observed", model.ErrBaselineInsufficient, playerID)
	}
	if pb.Frames < cfg.MinBaselineFrames {
		return CRTResult{}, fmt.Errorf("%w: player %d has %d baseline frames, need %d",
			model.ErrBaselineInsufficient, playerID, pb.Frames, cfg.MinBaselineFrames)
	}

	invCov, err := invertCovariance(pb.Covariance)
	if err != nil {
		return CRTResult{}, fmt.Errorf("%w: player %d: %v", model.ErrBaselineInsufficient, playerID, err)
	}

	times, distances := distanceSeries(playerID, w, pb.MeanVector(), invCov)
	if len(distances) < 2 {
		return CRTResult{}, fmt.Errorf("%w: %d usable post-event samples for player %d",
			model.ErrInsufficientWindow, len(distances), playerID)
	}

	smoothed := ewma(distances, cfg.EWMAAlpha)
	half := cfg.HalfWindowSeconds()

	for i, v := range smoothed {
		if v >= cfg.RecoveryThreshold {
			continue
		}
		if !staysBelow(times, smoothed, i, cfg.RecoveryThreshold, cfg.RecoveryDwell) {
			continue
		}
		crt := times[i] - ev.Event.Timestamp
		if crt < 0 {
			crt = 0
		}
		if crt > half {
			crt = half
		}
		return CRTResult{Seconds: crt}, nil
	}
	return CRTResult{Seconds: half, Censored: true}, nil
}

// distanceSeries walks the post segment and computes the smoothing inputs:
// the player's [speed x y distCenter] vector per frame, against the baseline
// mean under the inverted covariance. Speed seeds from the last pre frame
// when available; the first sample otherwise carries zero speed.
func distanceSeries(playerID int64, w model.TemporalWindow, mean [4]float64, invCov *mat.Dense) (times, distances []float64) {
	var (
		prevX, prevY, prevTs float64
		havePrev             bool
	)
	for i := len(w.Pre) - 1; i >= 0; i-- {
		if p, ok := w.Pre[i].Player(playerID); ok {
			prevX, prevY, prevTs = p.X, p.Y, w.Pre[i].Timestamp
			havePrev = true
			break
		}
	}

	for _, f := range w.Post {
		p, ok := f.Player(playerID)
		if !ok {
			continue
		}
		speed := 0.0
		if havePrev {
			if dt := f.Timestamp - prevTs; dt > 0 {
				speed = math.Hypot(p.X-prevX, p.Y-prevY) / dt
			}
		}
		v := [4]float64{speed, p.X, p.Y, math.Hypot(p.X, p.Y)}
		times = append(times, f.Timestamp)
		distances = append(distances, mahalanobis(v, mean, invCov))

		prevX, prevY, prevTs = p.X, p.Y, f.Timestamp
		havePrev = true
	}
	return times, distances
}

// staysBelow reports whether every sample within the dwell span after index
// i remains under the threshold.
func staysBelow(times, values []float64, i int, threshold, dwell float64) bool {
	for j := i + 1; j < len(values); j++ {
		if times[j]-times[i] > dwell {
			break
		}
		if values[j] >= threshold {
			return false
		}
	}
	return true
}

// ewma smooths a series with exponential weighting: recent samples count
// more, suppressing frame noise before the threshold test.
func ewma(series []float64, alpha float64) []float64 {
	out := make([]float64, len(series))
	out[0] = series[0]
	for i := 1; i < len(series); i++ {
		out[i] = alpha*series[i] + (1-alpha)*out[i-1]
	}
	return out
}

func invertCovariance(cov [4][4]float64) (*mat.Dense, error) {
	ridged := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			v := cov[i][j]
			if i == j {
				v += covarianceRidge
			}
			ridged.Set(i, j, v)
		}
	}
	var inv mat.Dense
	if err := inv.Inverse(ridged); err != nil {
		return nil, err
	}
	return &inv, nil
}

// mahalanobis computes sqrt((v-mean)ᵀ Σ⁻¹ (v-mean)).
func mahalanobis(v, mean [4]float64, invCov *mat.Dense) float64 {
	diff := mat.NewVecDense(4, []float64{
		v[0] - mean[0], v[1] - mean[1], v[2] - mean[2], v[3] - mean[3],
	})
	var tmp mat.VecDense
	tmp.MulVec(invCov, diff)
	d2 := mat.Dot(diff, &tmp)
	if d2 < 0 { // numeric noise on a near-singular inverse
		d2 = 0
	}
	return math.Sqrt(d2)
}
