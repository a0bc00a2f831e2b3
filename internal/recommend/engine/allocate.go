package engine

import (
	"math"

	"vespera_backend/internal/dataset"
)

// Share sizing constants.
const (
	// sharesPerFullOutputUnit sizes the naive first estimate: one full
	// output unit of a project is split into this many shares.
	sharesPerFullOutputUnit = 1000
	// sharesPerKW is the capacity-driven floor on issuance granularity.
	sharesPerKW = 2000
	// consumptionHeadroom leaves 50% headroom over the bare minimum.
	consumptionHeadroom = 1.5
	// MinEnergyPerShareKWh is the floor on per-share annual energy.
	// Shares below it are too granular to price sensibly.
	MinEnergyPerShareKWh = 0.5
	// surplusFactor guarantees at least 30% of issuance remains
	// purchasable after the requesting consumer's allocation.
	surplusFactor = 1.3
)

// AllocationPlan is the result of sizing a project's share issuance
// against one consumer's consumption.
type AllocationPlan struct {
	TotalShares       int64   `json:"totalShares"`
	EnergyPerShareKWh float64 `json:"energyPerShareKWh"`
	RequiredShares    int64   `json:"requiredShares"`
	ShareCost         float64 `json:"shareCost"`
	// SharesAvailable may be negative: the project cannot cover this
	// consumer. That is an undersupply signal, not an error, and is
	// deliberately never clamped.
	SharesAvailable          int64                          `json:"sharesAvailable"`
	Undersupplied            bool                           `json:"undersupplied"`
	MonthlyEnergyPerShareKWh [dataset.MonthsPerYear]float64 `json:"monthlyEnergyPerShareKWh"`
	MonthlySavings           [dataset.MonthsPerYear]float64 `json:"monthlySavings"`
}

// Allocate runs the share-sizing procedure for the selected project:
// an initial sizing from consumption and capacity, then an ordered pair
// of guarded corrections (per-share energy floor, surplus inflation).
// The chain is monotonic and terminates after those fixed passes.
func Allocate(rec *dataset.ProjectRecord, annualConsumptionKWh, monthlyConsumptionKWh float64) (AllocationPlan, error) {
	annualEnergy := rec.TotalAnnualEnergyKWh
	if annualEnergy <= 0 {
		// Selection already excludes these rows; re-checked here so the
		// allocator is safe to call directly.
		return AllocationPlan{}, ErrAllocationInfeasible
	}

	totalShares := initialShares(rec.PanelCapacityKW, annualConsumptionKWh, annualEnergy)
	totalShares = applyEnergyFloor(totalShares, annualEnergy)

	energyPerShare := annualEnergy / totalShares
	requiredShares := math.Ceil(annualConsumptionKWh / energyPerShare)

	totalShares = applySurplusInflation(totalShares, requiredShares)

	plan := AllocationPlan{
		TotalShares:    int64(totalShares),
		RequiredShares: int64(requiredShares),
	}
	if plan.TotalShares < 1 {
		plan.TotalShares = 1
	}

	// Derived per-share figures always reflect the final issuance size.
	plan.EnergyPerShareKWh = annualEnergy / float64(plan.TotalShares)
	plan.ShareCost = rec.TotalCost / float64(plan.TotalShares)
	plan.SharesAvailable = plan.TotalShares - plan.RequiredShares
	plan.Undersupplied = plan.SharesAvailable < 0

	for i, monthGen := range rec.MonthlyEnergyKWh {
		plan.MonthlyEnergyPerShareKWh[i] = monthGen / float64(plan.TotalShares)
		// Savings never credit more than the consumer's actual usage.
		plan.MonthlySavings[i] = math.Min(monthGen, monthlyConsumptionKWh) * rec.EnergySaleRate
	}

	return plan, nil
}

// ProjectShareSupply is the capacity-driven number of shares a project
// is divided into for trading, independent of any one consumer's plan.
func ProjectShareSupply(rec *dataset.ProjectRecord) int64 {
	return int64(math.Ceil(rec.PanelCapacityKW * sharesPerKW))
}

// SharePrice is the cost of a single tradeable share.
func SharePrice(rec *dataset.ProjectRecord) float64 {
	supply := ProjectShareSupply(rec)
	if supply < 1 {
		return 0
	}
	return rec.TotalCost / float64(supply)
}

// MonthlyRevenuePerShare is the generation revenue one share earns per month.
func MonthlyRevenuePerShare(rec *dataset.ProjectRecord) float64 {
	supply := ProjectShareSupply(rec)
	if supply < 1 {
		return 0
	}
	return rec.AnnualRevenue / float64(supply) / dataset.MonthsPerYear
}

// initialShares combines the naive consumption-driven sizing with the
// capacity-driven granularity floor.
func initialShares(capacityKW, annualConsumptionKWh, annualEnergyKWh float64) float64 {
	minNeeded := math.Ceil(annualConsumptionKWh / (annualEnergyKWh / sharesPerFullOutputUnit))
	consumptionBased := minNeeded * consumptionHeadroom
	base := math.Ceil(capacityKW * sharesPerKW)
	return math.Max(base, consumptionBased)
}

// applyEnergyFloor shrinks the issuance when per-share energy would fall
// below the minimum viable share size.
func applyEnergyFloor(totalShares, annualEnergyKWh float64) float64 {
	if annualEnergyKWh/totalShares < MinEnergyPerShareKWh {
		return annualEnergyKWh / MinEnergyPerShareKWh
	}
	return totalShares
}

// applySurplusInflation grows the issuance when the consumer would
// absorb all of it, keeping at least 30% sellable to others.
func applySurplusInflation(totalShares, requiredShares float64) float64 {
	if totalShares <= requiredShares {
		return requiredShares * surplusFactor
	}
	return totalShares
}
