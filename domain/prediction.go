package domain

type PredictionInput struct {
	Age           float64 `json:"age"`
	Income        float64 `json:"income"`
	CreditScore   float64 `json:"creditScore"`
	MaritalStatus string  `json:"maritalStatus"`
	Purpose       string  `json:"purpose"`
}

type PredictionResult struct {
	PredictedLoanAmount float64 `json:"predictedLoanAmount"`
}
