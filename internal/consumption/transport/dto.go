package transport

type EstimateRequest struct {
	Rooms           int `json:"rooms" validate:"required,gte=1,lte=50"`
	Bulbs           int `json:"bulbs" validate:"gte=0,lte=500"`
	Fans            int `json:"fans" validate:"gte=0,lte=100"`
	Ovens           int `json:"ovens" validate:"gte=0,lte=20"`
	WashingMachines int `json:"washingMachines" validate:"gte=0,lte=20"`
	ACs             int `json:"acs" validate:"gte=0,lte=50"`
}

type EstimateResponse struct {
	DailyKWh       float64 `json:"dailyKWh"`
	MonthlyKWh     float64 `json:"monthlyKWh"`
	MonthlyCostUSD float64 `json:"monthlyCostUSD"`
}
