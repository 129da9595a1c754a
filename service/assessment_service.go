package service

import (
	"errors"
	"fmt"
	"math"

	"loan-advisor/domain"
	"loan-advisor/finance"
	"loan-advisor/loanerrors"
)

// AssessmentService builds the applicant dashboard: hybrid risk, lender
// offers and the EMI-vs-tenure trend.
type AssessmentService struct {
	lenders []domain.Lender
	risk    finance.RiskConfig
}

func NewAssessmentService(lenders []domain.Lender, risk finance.RiskConfig) *AssessmentService {
	if lenders == nil {
		lenders = finance.DefaultLenders()
	}
	return &AssessmentService{lenders: finance.CloneLenders(lenders), risk: risk}
}

// Lenders returns a copy of the lender table.
func (s *AssessmentService) Lenders() []domain.Lender {
	return finance.CloneLenders(s.lenders)
}

func (s *AssessmentService) Assess(input domain.AssessmentInput) (domain.Dashboard, error) {
	if err := validateAssessment(input); err != nil {
		return domain.Dashboard{}, err
	}

	risk := finance.HybridRiskScore(input.Profile, input.Loan, input.Signals, s.risk)

	offers := finance.PersonalizedRates(input.Profile, input.Loan, s.lenders)
	for i := range offers {
		offers[i] = finance.PriceOffer(offers[i], input.Loan)
	}

	rate := FallbackRatePct
	var best *domain.RateOffer
	if len(offers) > 0 {
		b := offers[0]
		best = &b
		rate = b.Rate
	}

	a := finance.Amortize(input.Loan.Amount, rate, input.Loan.TenureMonths)
	trend := finance.TenureTrend(
		input.Loan.Amount,
		rate,
		finance.AffordableEMI(input.Profile, s.risk),
		finance.TrendTenures,
	)

	return domain.Dashboard{
		Risk:       risk,
		Offers:     offers,
		BestOffer:  best,
		MonthlyEMI: finance.RoundTo2(a.EMI),
		Breakdown: domain.LoanBreakdown{
			Principal:     finance.RoundTo2(input.Loan.Amount),
			TotalInterest: finance.RoundTo2(a.TotalInterest),
		},
		Tenure: trend,
	}, nil
}

func validateAssessment(input domain.AssessmentInput) error {
	p := input.Profile
	switch {
	case p.Age < MinApplicantAge || p.Age > MaxApplicantAge:
		return loanerrors.NewValidationError("profile.age", fmt.Sprintf("age must be between %d and %d", MinApplicantAge, MaxApplicantAge))
	case !nonNegative(p.MonthlyIncome):
		return loanerrors.NewValidationError("profile.monthlyIncome", "monthlyIncome must be zero or positive")
	case !nonNegative(p.ActiveEMI):
		return loanerrors.NewValidationError("profile.activeEmi", "activeEmi must be zero or positive")
	case !nonNegative(p.EmploymentMonths):
		return loanerrors.NewValidationError("profile.employmentMonths", "employmentMonths must be zero or positive")
	case p.CreditScore < MinCreditScore || p.CreditScore > MaxCreditScore:
		return loanerrors.NewValidationError("profile.creditScore", fmt.Sprintf("creditScore must be between %d and %d", MinCreditScore, MaxCreditScore))
	}

	if err := validateLoanType("loan.type", input.Loan.Type); err != nil {
		return err
	}
	if err := validateLoanInput(input.Loan.Amount, 0, input.Loan.TenureMonths); err != nil {
		var verr *loanerrors.ValidationError
		if errors.As(err, &verr) {
			return loanerrors.NewValidationError("loan."+tenureField(verr.Field), verr.Message)
		}
		return err
	}

	for name, v := range map[string]*float64{
		"behaviorSignals.statementRegularity": input.Signals.StatementRegularity,
		"behaviorSignals.engagementScore":     input.Signals.EngagementScore,
	} {
		if v != nil && (math.IsNaN(*v) || *v < 0 || *v > 1) {
			return loanerrors.NewValidationError(name, name+" must be between 0 and 1")
		}
	}
	return nil
}

func tenureField(field string) string {
	if field == "months" {
		return "tenureMonths"
	}
	return field
}

func validateLoanType(field string, t domain.LoanType) error {
	if _, ok := finance.DefaultRate(t); !ok {
		return loanerrors.NewValidationError(field, fmt.Sprintf("unknown loan type %q", t))
	}
	return nil
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
