package service

import (
	"math"
	"testing"

	"vespera_backend/internal/consumption/transport"
)

func TestEstimate(t *testing.T) {
	svc := New()

	tests := []struct {
		name      string
		req       transport.EstimateRequest
		wantDaily float64
	}{
		{
			name:      "small studio",
			req:       transport.EstimateRequest{Rooms: 1, Bulbs: 3, Fans: 1, Ovens: 1, WashingMachines: 1, ACs: 1},
			wantDaily: 0.8 + 1.1 + 0.9 + 0.6 + 1.2 + 0.5 + 6.0,
		},
		{
			name:      "medium apartment",
			req:       transport.EstimateRequest{Rooms: 2, Bulbs: 5, Fans: 2, Ovens: 1, WashingMachines: 1, ACs: 1},
			wantDaily: 0.8 + 2.2 + 1.5 + 1.2 + 1.2 + 0.5 + 6.0,
		},
		{
			name:      "large house",
			req:       transport.EstimateRequest{Rooms: 4, Bulbs: 10, Fans: 4, Ovens: 1, WashingMachines: 1, ACs: 3},
			wantDaily: 0.8 + 4.4 + 3.0 + 2.4 + 1.2 + 0.5 + 18.0,
		},
		{
			name:      "bare room",
			req:       transport.EstimateRequest{Rooms: 1},
			wantDaily: 0.8 + 1.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Estimate(tt.req)
			if math.Abs(got.DailyKWh-tt.wantDaily) > 1e-9 {
				t.Fatalf("daily: expected %v, got %v", tt.wantDaily, got.DailyKWh)
			}
			if math.Abs(got.MonthlyKWh-tt.wantDaily*30) > 1e-9 {
				t.Fatalf("monthly: expected %v, got %v", tt.wantDaily*30, got.MonthlyKWh)
			}
			if math.Abs(got.MonthlyCostUSD-got.MonthlyKWh*0.12) > 1e-9 {
				t.Fatalf("cost: expected %v, got %v", got.MonthlyKWh*0.12, got.MonthlyCostUSD)
			}
		})
	}
}
