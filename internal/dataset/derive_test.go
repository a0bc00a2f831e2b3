package dataset

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDerive_SeasonalMeans(t *testing.T) {
	rec := ProjectRecord{
		Company:  "SunCo",
		Location: "Gujarat",
		MonthlyEnergyKWh: [MonthsPerYear]float64{
			100, 200, 300, 400, 500, 600, 700, 800, 900, 1000, 1100, 1200,
		},
		TotalAnnualEnergyKWh: 7800,
	}

	derive(&rec, DefaultTariffs())

	// Months 5..8 -> 500, 600, 700, 800
	if !almostEqual(rec.SummerGenerationKWh, 650) {
		t.Fatalf("expected summer mean 650, got %v", rec.SummerGenerationKWh)
	}
	// Months 11, 12, 1, 2 -> 1100, 1200, 100, 200
	if !almostEqual(rec.WinterGenerationKWh, 650) {
		t.Fatalf("expected winter mean 650, got %v", rec.WinterGenerationKWh)
	}
}

func TestDerive_SampleVariance(t *testing.T) {
	rec := ProjectRecord{
		MonthlyEnergyKWh: [MonthsPerYear]float64{
			2, 4, 4, 4, 5, 5, 7, 9, 2, 4, 6, 8,
		},
	}

	derive(&rec, DefaultTariffs())

	// mean 5, squared deviations sum to 52, n-1 variance = 52/11
	want := 52.0 / 11.0
	if math.Abs(rec.GenerationVariance-want) > 1e-9 {
		t.Fatalf("expected variance %v, got %v", want, rec.GenerationVariance)
	}
}

func TestDerive_ConstantSeriesHasZeroVariance(t *testing.T) {
	rec := ProjectRecord{}
	for i := range rec.MonthlyEnergyKWh {
		rec.MonthlyEnergyKWh[i] = 1000
	}

	derive(&rec, DefaultTariffs())

	if rec.GenerationVariance != 0 {
		t.Fatalf("expected zero variance for constant series, got %v", rec.GenerationVariance)
	}
}

func TestSizeFactor_DiscountBounds(t *testing.T) {
	if got := sizeFactor(0); !almostEqual(got, 1.0) {
		t.Fatalf("expected no discount for 0 kW, got %v", got)
	}
	if got := sizeFactor(100); !almostEqual(got, 0.9) {
		t.Fatalf("expected full 10%% discount at reference capacity, got %v", got)
	}

	// Discount grows with capacity but stays modest around the reference size.
	small := sizeFactor(5)
	large := sizeFactor(80)
	if large >= small {
		t.Fatalf("expected larger installations to get bigger discounts: %v vs %v", small, large)
	}
	if small >= 1.0 || large <= 0.89 {
		t.Fatalf("size factors out of range: small=%v large=%v", small, large)
	}
}

func TestEfficiencyFactor_Baseline(t *testing.T) {
	if got := efficiencyFactor(15); !almostEqual(got, 1.0) {
		t.Fatalf("expected neutral factor at baseline, got %v", got)
	}
	if got := efficiencyFactor(20); !almostEqual(got, 1.05) {
		t.Fatalf("expected 1.05 at 20%% efficiency, got %v", got)
	}
	if got := efficiencyFactor(10); !almostEqual(got, 0.95) {
		t.Fatalf("expected 0.95 at 10%% efficiency, got %v", got)
	}
}

func TestDerive_CostAndROIConsistency(t *testing.T) {
	rec := ProjectRecord{
		Company:              "SunCo",
		Location:             "Delhi",
		PanelCapacityKW:      10,
		PanelEfficiencyPct:   18,
		TotalAnnualEnergyKWh: 15000,
	}

	derive(&rec, DefaultTariffs())

	wantCost := rec.PanelCapacityKW * rec.CostPerKW
	if !almostEqual(rec.TotalCost, wantCost) {
		t.Fatalf("total cost inconsistent: got %v want %v", rec.TotalCost, wantCost)
	}

	wantRevenue := rec.TotalAnnualEnergyKWh * rec.EnergySaleRate
	if !almostEqual(rec.AnnualRevenue, wantRevenue) {
		t.Fatalf("annual revenue inconsistent: got %v want %v", rec.AnnualRevenue, wantRevenue)
	}

	wantROI := rec.AnnualRevenue / rec.TotalCost * 100
	if !almostEqual(rec.ROIPct, wantROI) {
		t.Fatalf("ROI inconsistent: got %v want %v", rec.ROIPct, wantROI)
	}
}

func TestDerive_Deterministic(t *testing.T) {
	make_ := func() ProjectRecord {
		return ProjectRecord{
			Company:              "SunCo",
			Location:             "Mumbai",
			PanelCapacityKW:      25,
			PanelEfficiencyPct:   19,
			TotalAnnualEnergyKWh: 40000,
			MonthlyEnergyKWh: [MonthsPerYear]float64{
				3000, 3100, 3400, 3600, 3700, 3500, 3200, 3300, 3400, 3300, 3200, 3300,
			},
		}
	}

	a := make_()
	b := make_()
	derive(&a, DefaultTariffs())
	derive(&b, DefaultTariffs())

	if a != b {
		t.Fatalf("derivation not deterministic:\n%+v\n%+v", a, b)
	}
}
