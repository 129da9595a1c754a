package domain

type TenurePoint struct {
	TenureMonths   int     `json:"tenureMonths"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalInterest  float64 `json:"totalInterest"`
	Affordable     bool    `json:"affordable"`
}

type TenurePlan struct {
	Rate              float64       `json:"rate"`
	AffordableEMI     float64       `json:"affordableEmi"`
	RecommendedTenure int           `json:"recommendedTenure,omitempty"`
	Points            []TenurePoint `json:"points"`
}
