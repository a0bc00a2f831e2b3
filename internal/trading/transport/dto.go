package transport

import "time"

type TradeRequest struct {
	ProjectKey string `json:"projectKey" validate:"required"`
	Shares     int64  `json:"shares" validate:"required,gt=0"`
}

type TradeResponse struct {
	ProjectKey    string  `json:"projectKey"`
	Shares        int64   `json:"shares"`
	PricePerShare float64 `json:"pricePerShare"`
	Amount        float64 `json:"amount"`
	BalanceINR    float64 `json:"balanceINR"`
}

type HoldingResponse struct {
	ProjectKey      string    `json:"projectKey"`
	Shares          int64     `json:"shares"`
	InvestedINR     float64   `json:"investedINR"`
	CurrentValueINR float64   `json:"currentValueINR"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type HoldingListResponse struct {
	Items []HoldingResponse `json:"items"`
	Total int               `json:"total"`
}
