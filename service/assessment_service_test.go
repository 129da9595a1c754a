package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-advisor/domain"
	"loan-advisor/finance"
	"loan-advisor/loanerrors"
)

func floatPtr(v float64) *float64 { return &v }

func referenceAssessment() domain.AssessmentInput {
	return domain.AssessmentInput{
		Profile: domain.LoanProfile{
			Age:              30,
			MonthlyIncome:    55000,
			CreditScore:      720,
			ActiveEMI:        12000,
			EmploymentMonths: 24,
		},
		Loan:    domain.LoanRequest{Type: domain.LoanTypePersonal, Amount: 500000, TenureMonths: 36},
		Signals: domain.BehaviorSignals{StatementRegularity: floatPtr(0.85), EngagementScore: floatPtr(0.7)},
	}
}

func TestAssess_ReferenceApplicant(t *testing.T) {
	svc := NewAssessmentService(nil, finance.DefaultRiskConfig())

	got, err := svc.Assess(referenceAssessment())

	require.NoError(t, err)
	assert.Equal(t, 77, got.Risk.Score)
	assert.Equal(t, "Low Risk", got.Risk.Level)

	require.Len(t, got.Offers, 4)
	require.NotNil(t, got.BestOffer)
	assert.Equal(t, "axis", got.BestOffer.LenderID)
	assert.Equal(t, 9.7, got.BestOffer.Rate)
	for i := 1; i < len(got.Offers); i++ {
		assert.LessOrEqual(t, got.Offers[i-1].Rate, got.Offers[i].Rate)
	}
	for _, o := range got.Offers {
		assert.Greater(t, o.MonthlyPayment, 0.0)
	}

	assert.Equal(t, got.BestOffer.MonthlyPayment, got.MonthlyEMI)
	assert.Equal(t, 500000.0, got.Breakdown.Principal)
	assert.Equal(t, got.BestOffer.TotalInterest, got.Breakdown.TotalInterest)

	assert.Equal(t, 21500.0, got.Tenure.AffordableEMI)
	assert.Equal(t, 36, got.Tenure.RecommendedTenure)
	assert.Len(t, got.Tenure.Points, len(finance.TrendTenures))
}

func TestAssess_NoOfferFallsBackToTwelvePercent(t *testing.T) {
	input := referenceAssessment()
	input.Loan.Type = domain.LoanTypeEducation
	svc := NewAssessmentService(nil, finance.DefaultRiskConfig())

	got, err := svc.Assess(input)

	require.NoError(t, err)
	assert.Empty(t, got.Offers)
	assert.Nil(t, got.BestOffer)
	assert.Equal(t, FallbackRatePct, got.Tenure.Rate)
	assert.Equal(t, finance.RoundTo2(finance.EMI(500000, FallbackRatePct, 36)), got.MonthlyEMI)
}

func TestAssess_Validation(t *testing.T) {
	svc := NewAssessmentService(nil, finance.DefaultRiskConfig())

	tests := []struct {
		name   string
		mutate func(*domain.AssessmentInput)
		field  string
	}{
		{"underage", func(in *domain.AssessmentInput) { in.Profile.Age = 17 }, "profile.age"},
		{"negative income", func(in *domain.AssessmentInput) { in.Profile.MonthlyIncome = -1 }, "profile.monthlyIncome"},
		{"credit out of range", func(in *domain.AssessmentInput) { in.Profile.CreditScore = 950 }, "profile.creditScore"},
		{"unknown type", func(in *domain.AssessmentInput) { in.Loan.Type = "BOAT" }, "loan.type"},
		{"zero amount", func(in *domain.AssessmentInput) { in.Loan.Amount = 0 }, "loan.amount"},
		{"zero tenure", func(in *domain.AssessmentInput) { in.Loan.TenureMonths = 0 }, "loan.tenureMonths"},
		{"signal above one", func(in *domain.AssessmentInput) { in.Signals.EngagementScore = floatPtr(1.5) }, "behaviorSignals.engagementScore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := referenceAssessment()
			tt.mutate(&input)

			_, err := svc.Assess(input)

			var verr *loanerrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLendersReturnsCopy(t *testing.T) {
	svc := NewAssessmentService(nil, finance.DefaultRiskConfig())

	got := svc.Lenders()
	got[0].Name = "changed"
	got[0].LoanTypes[0] = domain.LoanTypeEducation

	fresh := svc.Lenders()
	assert.NotEqual(t, "changed", fresh[0].Name)
	assert.Equal(t, domain.LoanTypePersonal, fresh[0].LoanTypes[0])
	assert.Equal(t, domain.LoanTypePersonal, finance.DefaultLenders()[0].LoanTypes[0])
}
