package transport

// RecommendationRequest carries the consumer's monthly consumption.
type RecommendationRequest struct {
	MonthlyConsumptionKWh float64 `json:"monthlyConsumptionKWh" validate:"required,gt=0"`
}

// ProjectResponse is one derived project row as exposed over the API.
type ProjectResponse struct {
	Company               string      `json:"company"`
	Location              string      `json:"location"`
	PanelCapacityKW       float64     `json:"panelCapacityKW"`
	PanelEfficiencyPct    float64     `json:"panelEfficiencyPct"`
	InverterEfficiencyPct float64     `json:"inverterEfficiencyPct"`
	TotalAnnualEnergyKWh  float64     `json:"totalAnnualEnergyKWh"`
	MonthlyEnergyKWh      [12]float64 `json:"monthlyEnergyKWh"`
	SummerGenerationKWh   float64     `json:"summerGenerationKWh"`
	WinterGenerationKWh   float64     `json:"winterGenerationKWh"`
	GenerationVariance    float64     `json:"generationVariance"`
	EnergySaleRate        float64     `json:"energySaleRate"`
	CostPerKW             float64     `json:"costPerKW"`
	TotalCost             float64     `json:"totalCost"`
	AnnualRevenue         float64     `json:"annualRevenue"`
	ROIPct                float64     `json:"roiPct"`
}

// ProjectListResponse wraps the derived project table.
type ProjectListResponse struct {
	Items    []ProjectResponse `json:"items"`
	Total    int               `json:"total"`
	LoadedAt string            `json:"loadedAt"`
}

// ReloadResponse reports the outcome of a dataset reload.
type ReloadResponse struct {
	Projects int    `json:"projects"`
	LoadedAt string `json:"loadedAt"`
}
