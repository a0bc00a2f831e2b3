// Package service estimates household energy consumption from device
// counts. The model is a fitted linear regression: each device class
// contributes a fixed daily kWh coefficient.
package service

import (
	"vespera_backend/internal/consumption/transport"
)

// Per-device daily kWh coefficients and the regression intercept.
const (
	interceptKWh      = 0.8
	perRoomKWh        = 1.1
	perBulbKWh        = 0.3
	perFanKWh         = 0.6
	perOvenKWh        = 1.2
	perWashingMachKWh = 0.5
	perACKWh          = 6.0

	daysPerMonth = 30
	costPerKWh   = 0.12
)

type Service struct{}

func New() *Service {
	return &Service{}
}

// Estimate computes daily and monthly consumption plus the estimated
// monthly cost for the given device counts.
func (s *Service) Estimate(req transport.EstimateRequest) transport.EstimateResponse {
	daily := interceptKWh +
		perRoomKWh*float64(req.Rooms) +
		perBulbKWh*float64(req.Bulbs) +
		perFanKWh*float64(req.Fans) +
		perOvenKWh*float64(req.Ovens) +
		perWashingMachKWh*float64(req.WashingMachines) +
		perACKWh*float64(req.ACs)

	monthly := daily * daysPerMonth
	return transport.EstimateResponse{
		DailyKWh:       daily,
		MonthlyKWh:     monthly,
		MonthlyCostUSD: monthly * costPerKWh,
	}
}
