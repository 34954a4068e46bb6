// Package config holds the run configuration for the analysis pipeline:
// temporal window selection, event and TSI weight tables, and the CRT
// recovery parameters. Values layer defaults, an optional YAML file, and
// R3ACT_-prefixed environment variables.
package config

import (
	"fmt"
	"runtime"

	"github.com/DanielCarreno95/R3ACT/internal/model"
)

// Window lengths, total seconds. Segments around an event span half each way.
const (
	WindowShort  = "short"  // 120s total, ±60s
	WindowMedium = "medium" // 300s total, ±150s
	WindowLong   = "long"   // 600s total, ±300s
)

var windowSeconds = map[string]float64{
	WindowShort:  120,
	WindowMedium: 300,
	WindowLong:   600,
}

// TSIWeights weighs the three support-index components. Stored raw;
// normalization happens explicitly via Normalized.
type TSIWeights struct {
	Proximity  float64 `koanf:"proximity"`
	Possession float64 `koanf:"possession"`
	Structure  float64 `koanf:"structure"`
}

// Config is the full configuration surface of a pipeline run.
type Config struct {
	Window string `koanf:"window"`

	// EventWeights maps category name → non-negative weight. Missing
	// categories fall back to the default table entry.
	EventWeights map[string]float64 `koanf:"event_weights"`

	TSIWeights TSIWeights `koanf:"tsi_weights"`

	EWMAAlpha         float64 `koanf:"ewma_alpha"`
	RecoveryThreshold float64 `koanf:"recovery_threshold"`
	RecoveryDwell     float64 `koanf:"recovery_dwell_seconds"`

	MinBaselineFrames int `koanf:"min_baseline_frames"`
	Workers           int `koanf:"workers"`
}

// Default returns the configuration used when nothing is overridden.
// The event weight table mirrors the reference weighting scheme.
func Default() *Config {
	return &Config{
		Window: WindowMedium,
		EventWeights: map[string]float64{
			model.GoalScored.String():                         2.0,
			model.GoalConceded.String():                       2.0,
			model.PossessionLossDefensiveThird.String():       1.0,
			model.PossessionLossMiddleThird.String():          0.7,
			model.PossessionLossAttackingThird.String():       0.5,
			model.PossessionLossPenaltyArea.String():          1.5,
			model.FailedPassDangerous.String():                1.2,
			model.FailedPassLeadToShot.String():               1.5,
			model.FailedPassOffside.String():                  0.8,
			model.FailedPassPlain.String():                    0.5,
			model.DefensiveError.String():                     1.3,
			model.InterceptionConcededDangerous.String():      0.8,
			model.InterceptionConcededDefensiveThird.String(): 1.0,
			model.InterceptionConcededPlain.String():          0.5,
		},
		TSIWeights:        TSIWeights{Proximity: 0.40, Possession: 0.30, Structure: 0.30},
		EWMAAlpha:         0.3,
		RecoveryThreshold: 1.0,
		RecoveryDwell:     3.0,
		MinBaselineFrames: 10,
		Workers:           runtime.NumCPU(),
	}
}

// WindowSeconds returns the total window length for the configured selector.
func (c *Config) WindowSeconds() float64 {
	return windowSeconds[c.Window]
}

// HalfWindowSeconds returns the per-segment span (pre or post).
func (c *Config) HalfWindowSeconds() float64 {
	return c.WindowSeconds() / 2
}

// Validate rejects configuration that would invalidate every result.
// It runs before any computation; failures abort the run.
func (c *Config) Validate() error {
	if _, ok := windowSeconds[c.Window]; !ok {
		return fmt.Errorf("%w: unknown window %q", model.ErrConfigInvalid, c.Window)
	}
	total := 0.0
	for name, w := range c.EventWeights {
		if model.ParseCategory(name) == model.CategoryUnknown {
			return fmt.Errorf("%w: unknown event category %q", model.ErrConfigInvalid, name)
		}
		if w < 0 {
			return fmt.Errorf("%w: negative weight %.3f for %s", model.ErrConfigInvalid, w, name)
		}
		total += w
	}
	if total == 0 {
		return fmt.Errorf("%w: event weights sum to zero", model.ErrConfigInvalid)
	}
	tw := c.TSIWeights
	if tw.Proximity < 0 || tw.Possession < 0 || tw.Structure < 0 {
		return fmt.Errorf("%w: negative TSI component weight", model.ErrConfigInvalid)
	}
	if tw.Proximity+tw.Possession+tw.Structure == 0 {
		return fmt.Errorf("%w: TSI weights sum to zero", model.ErrConfigInvalid)
	}
	if c.EWMAAlpha <= 0 || c.EWMAAlpha > 1 {
		return fmt.Errorf("%w: EWMA alpha %.3f outside (0,1]", model.ErrConfigInvalid, c.EWMAAlpha)
	}
	if c.RecoveryThreshold <= 0 {
		return fmt.Errorf("%w: recovery threshold must be positive", model.ErrConfigInvalid)
	}
	if c.RecoveryDwell < 0 {
		return fmt.Errorf("%w: recovery dwell must be non-negative", model.ErrConfigInvalid)
	}
	if c.MinBaselineFrames < 2 {
		return fmt.Errorf("%w: min baseline frames must be at least 2", model.ErrConfigInvalid)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", model.ErrConfigInvalid)
	}
	return nil
}

// WeightTable resolves the configured event weights into a typed table over
// the closed category set, falling back to defaults for unnamed categories.
func (c *Config) WeightTable() map[model.Category]float64 {
	defaults := Default().EventWeights
	table := make(map[model.Category]float64, len(model.AllCategories))
	for _, cat := range model.AllCategories {
		if w, ok := c.EventWeights[cat.String()]; ok {
			table[cat] = w
		} else {
			table[cat] = defaults[cat.String()]
		}
	}
	return table
}

// NormalizeWeights scales a weight table so its values sum to 1.0 while
// preserving relative order. The input is never mutated.
func NormalizeWeights(table map[model.Category]float64) map[model.Category]float64 {
	total := 0.0
	for _, w := range table {
		total += w
	}
	out := make(map[model.Category]float64, len(table))
	if total == 0 {
		return out
	}
	for cat, w := range table {
		out[cat] = w / total
	}
	return out
}

// Normalized returns the TSI weights scaled to sum to 1.0.
func (w TSIWeights) Normalized() TSIWeights {
	total := w.Proximity + w.Possession + w.Structure
	if total == 0 {
		return TSIWeights{}
	}
	return TSIWeights{
		Proximity:  w.Proximity / total,
		Possession: w.Possession / total,
		Structure:  w.Structure / total,
	}
}
