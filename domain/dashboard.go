package domain

type AssessmentInput struct {
	Profile LoanProfile     `json:"profile"`
	Loan    LoanRequest     `json:"loan"`
	Signals BehaviorSignals `json:"behaviorSignals"`
}

type LoanBreakdown struct {
	Principal     float64 `json:"principal"`
	TotalInterest float64 `json:"totalInterest"`
}

type Dashboard struct {
	Risk       RiskAssessment `json:"risk"`
	Offers     []RateOffer    `json:"offers"`
	BestOffer  *RateOffer     `json:"bestOffer,omitempty"`
	MonthlyEMI float64        `json:"monthlyEmi"`
	Breakdown  LoanBreakdown  `json:"breakdown"`
	Tenure     TenurePlan     `json:"tenure"`
}
