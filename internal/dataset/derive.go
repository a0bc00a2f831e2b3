package dataset

import "math"

// Cost model baselines. Efficiency above or below the panel baseline
// linearly adjusts the per-kW cost; installation size earns a per-kW
// discount that diminishes logarithmically and never exceeds 10%.
const (
	panelEfficiencyBaselinePct = 15.0
	sizeDiscountCeiling        = 0.1
	sizeDiscountReferenceKW    = 100.0
)

// Seasonal aggregation windows (1-based months, northern hemisphere).
var (
	summerMonths = [4]int{5, 6, 7, 8}
	winterMonths = [4]int{11, 12, 1, 2}
)

// derive computes all derived fields of a record in place. It runs
// exactly once per record, at load time, and is a pure function of the
// record and the tariff table.
func derive(rec *ProjectRecord, tariffs *Tariffs) {
	rec.SummerGenerationKWh = seasonMean(rec.MonthlyEnergyKWh, summerMonths)
	rec.WinterGenerationKWh = seasonMean(rec.MonthlyEnergyKWh, winterMonths)
	rec.GenerationVariance = sampleVariance(rec.MonthlyEnergyKWh[:])

	rec.EnergySaleRate = tariffs.SaleRate(rec.Location)
	rec.BaseCostPerKW = tariffs.BaseCost(rec.Location)

	rec.SizeFactor = sizeFactor(rec.PanelCapacityKW)
	rec.EfficiencyFactor = efficiencyFactor(rec.PanelEfficiencyPct)

	rec.CostPerKW = rec.BaseCostPerKW * rec.SizeFactor * rec.EfficiencyFactor * tariffs.CostJitter(rec.Key())
	rec.TotalCost = rec.PanelCapacityKW * rec.CostPerKW
	rec.AnnualRevenue = rec.TotalAnnualEnergyKWh * rec.EnergySaleRate

	if rec.TotalCost > 0 {
		rec.ROIPct = rec.AnnualRevenue / rec.TotalCost * 100
	}
}

func seasonMean(monthly [MonthsPerYear]float64, months [4]int) float64 {
	var sum float64
	for _, m := range months {
		sum += monthly[m-1]
	}
	return sum / float64(len(months))
}

// sampleVariance computes the n-1 variance across the monthly series.
func sampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	return sqDiff / float64(len(values)-1)
}

func sizeFactor(capacityKW float64) float64 {
	return 1 - sizeDiscountCeiling*math.Log1p(capacityKW)/math.Log1p(sizeDiscountReferenceKW)
}

func efficiencyFactor(panelEfficiencyPct float64) float64 {
	return 1 + (panelEfficiencyPct-panelEfficiencyBaselinePct)/100
}
