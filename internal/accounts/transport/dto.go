package transport

import "time"

type RegisterRequest struct {
	Phone                 string  `json:"phone" validate:"required"`
	Name                  string  `json:"name" validate:"required,min=2,max=120"`
	Password              string  `json:"password" validate:"required,min=8"`
	MonthlyConsumptionKWh float64 `json:"monthlyConsumptionKWh" validate:"required,gt=0"`
}

type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"accessToken"`
}

type AddFundsRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type BalanceResponse struct {
	BalanceINR float64 `json:"balanceINR"`
}

type UpdateConsumptionRequest struct {
	MonthlyConsumptionKWh float64 `json:"monthlyConsumptionKWh" validate:"required,gt=0"`
}

type ProfileResponse struct {
	ID                    string    `json:"id"`
	Phone                 string    `json:"phone"`
	Name                  string    `json:"name"`
	MonthlyConsumptionKWh float64   `json:"monthlyConsumptionKWh"`
	BalanceINR            float64   `json:"balanceINR"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}
