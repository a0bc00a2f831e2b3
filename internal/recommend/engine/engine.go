package engine

import (
	"errors"

	"vespera_backend/internal/dataset"
)

// Engine error taxonomy. Services map these to transport errors; the
// engine itself never retries and never returns partial results.
var (
	// ErrInvalidConsumption rejects non-positive consumption before any
	// computation happens.
	ErrInvalidConsumption = errors.New("monthly consumption must be a positive number")
	// ErrNoCandidates means every project was excluded or the table is empty.
	ErrNoCandidates = errors.New("no scorable projects in dataset")
	// ErrAllocationInfeasible means the selected project has no annual output.
	ErrAllocationInfeasible = errors.New("selected project has no annual generation")
)

// ProjectDetails identifies the recommended project.
type ProjectDetails struct {
	Company         string  `json:"company"`
	Location        string  `json:"location"`
	PanelCapacityKW float64 `json:"panelCapacityKW"`
	CostPerKW       float64 `json:"costPerKW"`
	EnergySaleRate  float64 `json:"energySaleRate"`
}

// GenerationDetails describes the recommended project's output.
type GenerationDetails struct {
	AnnualGenerationKWh  float64                        `json:"annualGenerationKWh"`
	MonthlyGenerationKWh [dataset.MonthsPerYear]float64 `json:"monthlyGenerationKWh"`
}

// FinancialDetails summarizes the project's economics.
type FinancialDetails struct {
	ExpectedROIPct float64 `json:"expectedROIPct"`
	PaybackYears   float64 `json:"paybackYears"`
}

// Recommendation is the full engine result: the winning project, its
// generation profile, the share allocation sized to the consumer, and
// the financial summary.
type Recommendation struct {
	Project    ProjectDetails    `json:"project"`
	Generation GenerationDetails `json:"generation"`
	Allocation AllocationPlan    `json:"allocation"`
	Financial  FinancialDetails  `json:"financial"`
	Score      ScoreVector       `json:"score"`
}

// Recommend validates the consumption, selects the best-scoring project
// from the table and sizes a share allocation for it. Running it twice
// on an unchanged table with the same consumption yields an identical
// result.
func Recommend(table *dataset.Table, monthlyConsumptionKWh float64, w Weights) (Recommendation, error) {
	if monthlyConsumptionKWh <= 0 {
		return Recommendation{}, ErrInvalidConsumption
	}

	annualConsumptionKWh := monthlyConsumptionKWh * 12

	best, score, err := Select(table, annualConsumptionKWh, w)
	if err != nil {
		return Recommendation{}, err
	}

	plan, err := Allocate(best, annualConsumptionKWh, monthlyConsumptionKWh)
	if err != nil {
		return Recommendation{}, err
	}

	return Recommendation{
		Project: ProjectDetails{
			Company:         best.Company,
			Location:        best.Location,
			PanelCapacityKW: best.PanelCapacityKW,
			CostPerKW:       best.CostPerKW,
			EnergySaleRate:  best.EnergySaleRate,
		},
		Generation: GenerationDetails{
			AnnualGenerationKWh:  best.TotalAnnualEnergyKWh,
			MonthlyGenerationKWh: best.MonthlyEnergyKWh,
		},
		Allocation: plan,
		Financial: FinancialDetails{
			ExpectedROIPct: best.ROIPct,
			PaybackYears:   best.TotalCost / best.AnnualRevenue,
		},
		Score: score,
	}, nil
}
