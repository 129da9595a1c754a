package finance

import "loan-advisor/domain"

// TrendTenures are the tenures plotted on the EMI-vs-tenure trend.
var TrendTenures = []int{12, 24, 36, 48, 60, 72}

// TenureTrend evaluates the EMI at each tenure. The recommended tenure is the
// shortest one whose EMI fits within affordableEMI, i.e. the cheapest
// affordable option; it is left zero when none fits.
func TenureTrend(amount, annualRatePct, affordableEMI float64, tenures []int) domain.TenurePlan {
	plan := domain.TenurePlan{
		Rate:          annualRatePct,
		AffordableEMI: RoundTo2(affordableEMI),
		Points:        make([]domain.TenurePoint, 0, len(tenures)),
	}

	for _, months := range tenures {
		a := Amortize(amount, annualRatePct, months)
		affordable := a.EMI > 0 && a.EMI <= affordableEMI
		plan.Points = append(plan.Points, domain.TenurePoint{
			TenureMonths:   months,
			MonthlyPayment: RoundTo2(a.EMI),
			TotalInterest:  RoundTo2(a.TotalInterest),
			Affordable:     affordable,
		})
		if affordable && (plan.RecommendedTenure == 0 || months < plan.RecommendedTenure) {
			plan.RecommendedTenure = months
		}
	}
	return plan
}
