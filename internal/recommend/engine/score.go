// Package engine implements the recommendation engine: multi-factor
// project scoring against a consumer's consumption, and the iterative
// share-sizing procedure. Everything in this package is pure and
// synchronous; it performs no I/O and touches no shared mutable state,
// so concurrent calls over the same table snapshot are safe.
package engine

import (
	"math"

	"vespera_backend/internal/dataset"
)

// Weights combines the four per-project scores into the final score.
// They must sum to 1.
type Weights struct {
	Generation float64
	Efficiency float64
	Stability  float64
	ROI        float64
}

// DefaultWeights returns the production scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Generation: 0.30,
		Efficiency: 0.20,
		Stability:  0.20,
		ROI:        0.30,
	}
}

// ScoreVector holds the four per-project scores and their weighted sum.
// Each component is normalized to a comparable 0..1-ish range.
type ScoreVector struct {
	Generation float64 `json:"generation"`
	Efficiency float64 `json:"efficiency"`
	Stability  float64 `json:"stability"`
	ROI        float64 `json:"roi"`
	Final      float64 `json:"final"`
}

// Score computes the score vector of one project against an annual
// consumption. The caller must have excluded projects with non-positive
// annual energy.
func Score(rec *dataset.ProjectRecord, annualConsumptionKWh float64, w Weights) ScoreVector {
	coverageRatio := rec.TotalAnnualEnergyKWh / annualConsumptionKWh

	sv := ScoreVector{
		// Peaks at exact consumption match, symmetric penalty either side.
		Generation: 1 / (1 + math.Abs(coverageRatio-1)),
		Efficiency: (rec.PanelEfficiencyPct + rec.InverterEfficiencyPct) / 200,
		// Lower relative variance scores higher.
		Stability: 1 / (1 + rec.GenerationVariance/rec.TotalAnnualEnergyKWh),
		ROI:       rec.ROIPct / 100,
	}

	sv.Final = w.Generation*sv.Generation +
		w.Efficiency*sv.Efficiency +
		w.Stability*sv.Stability +
		w.ROI*sv.ROI

	return sv
}

// Select scores every scorable project and returns the one with the
// maximum final score. Projects with non-positive annual energy are
// excluded (the stability score would divide by zero). Ties resolve to
// the first-encountered row, so selection is deterministic for a given
// table.
func Select(table *dataset.Table, annualConsumptionKWh float64, w Weights) (*dataset.ProjectRecord, ScoreVector, error) {
	var (
		best      *dataset.ProjectRecord
		bestScore ScoreVector
	)

	for i := range table.Projects {
		rec := &table.Projects[i]
		if rec.TotalAnnualEnergyKWh <= 0 {
			continue
		}

		sv := Score(rec, annualConsumptionKWh, w)
		if best == nil || sv.Final > bestScore.Final {
			best = rec
			bestScore = sv
		}
	}

	if best == nil {
		return nil, ScoreVector{}, ErrNoCandidates
	}

	return best, bestScore, nil
}
