package service

import (
	"fmt"
	"strings"

	"loan-advisor/domain"
	"loan-advisor/finance"
)

const maxFallbackBanks = 3

var processingTimes = map[domain.LoanType]string{
	domain.LoanTypePersonal:  "2-5 working days",
	domain.LoanTypeHome:      "10-15 working days",
	domain.LoanTypeAuto:      "3-7 working days",
	domain.LoanTypeEducation: "7-10 working days",
}

// fallbackRecommendation answers from the lender table and the hybrid score
// when no generation provider is configured.
func fallbackRecommendation(a domain.Applicant, lenders []domain.Lender, cfg finance.RiskConfig) domain.Recommendation {
	profile := domain.LoanProfile{
		Age:           a.Age,
		MonthlyIncome: a.Income,
		CreditScore:   a.CibilScore,
		MaritalStatus: a.MaritalLabel(),
	}
	loan := domain.LoanRequest{Type: a.LoanType, Amount: a.Amount, TenureMonths: tenureOf(a)}

	risk := finance.HybridRiskScore(profile, loan, domain.BehaviorSignals{}, cfg)
	offers := finance.PersonalizedRates(profile, loan, lenders)

	rec := domain.Recommendation{
		Eligibility:    eligibilityLabel(risk.Score),
		ApprovalChance: fmt.Sprintf("%d%%", risk.Score),
		RiskLevel:      strings.TrimSuffix(risk.Level, " Risk"),
		ProcessingTime: processingTimes[a.LoanType],
	}

	rate := FallbackRatePct
	for _, o := range offers {
		if !o.MeetsMinScore || len(rec.RecommendedBanks) == maxFallbackBanks {
			continue
		}
		if len(rec.RecommendedBanks) == 0 {
			rate = o.Rate
		}
		rec.RecommendedBanks = append(rec.RecommendedBanks, o.LenderName)
		rec.InterestRates = append(rec.InterestRates, fmt.Sprintf("%.2f%%", o.Rate))
	}

	emi := finance.EMI(a.Amount, rate, loan.TenureMonths)
	rec.MonthlyEMI = domain.Amount(finance.RoundTo2(emi))
	rec.Suggestions = fallbackSuggestions(a, emi, len(rec.RecommendedBanks) > 0)
	return rec
}

func eligibilityLabel(score int) string {
	switch {
	case score > 70:
		return "Eligible"
	case score > 50:
		return "Partially Eligible"
	default:
		return "Not Eligible"
	}
}

func fallbackSuggestions(a domain.Applicant, emi float64, hasBanks bool) []string {
	var tips []string
	if a.CibilScore < 750 {
		tips = append(tips, "Raise your CIBIL score above 750 by paying dues on time to unlock lower rates")
	}
	if a.Income > 0 && emi > 0.4*a.Income {
		tips = append(tips, "The EMI is above 40% of your income; consider a longer tenure or a smaller amount")
	}
	if !hasBanks {
		tips = append(tips, "No listed lender matches this profile; approach NBFCs or add a co-applicant")
	}
	if len(tips) == 0 {
		tips = append(tips, "Compare processing fees across the recommended banks before applying")
	}
	return tips
}

func tenureOf(a domain.Applicant) int {
	if a.TenureMonth > 0 {
		return a.TenureMonth
	}
	return DefaultTenureMonths
}
