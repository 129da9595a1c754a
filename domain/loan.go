package domain

type LoanType string

const (
	LoanTypePersonal  LoanType = "PERSONAL"
	LoanTypeHome      LoanType = "HOME"
	LoanTypeAuto      LoanType = "AUTO"
	LoanTypeEducation LoanType = "EDUCATION"
)

// LoanInput is the calculator request. InterestRate is annual, in percent.
// A nil InterestRate falls back to the default rate of Type.
type LoanInput struct {
	Amount       float64  `json:"amount"`
	InterestRate *float64 `json:"annualRatePct,omitempty"`
	TermMonths   int      `json:"months"`
	Type         LoanType `json:"loanType,omitempty"`
}

type LoanResult struct {
	MonthlyPayment float64   `json:"monthlyPayment"`
	TotalPayment   float64   `json:"totalAmount"`
	TotalInterest  float64   `json:"totalInterest"`
	InterestRate   float64   `json:"annualRatePct"`
	Risk           QuickRisk `json:"risk"`
}

// QuickRisk is the calculator's coarse 0-100 score, where higher is safer.
type QuickRisk struct {
	Score int    `json:"score"`
	Level string `json:"level"`
}

type LoanProfile struct {
	Age              int     `json:"age"`
	MonthlyIncome    float64 `json:"monthlyIncome"`
	CreditScore      float64 `json:"creditScore"`
	ActiveEMI        float64 `json:"activeEmi"`
	EmploymentMonths float64 `json:"employmentMonths"`
	MaritalStatus    string  `json:"maritalStatus,omitempty"`
}

type LoanRequest struct {
	Type         LoanType `json:"type"`
	Amount       float64  `json:"amount"`
	TenureMonths int      `json:"tenureMonths"`
}
