package finance

import "loan-advisor/domain"

// QuickRiskScore is the calculator's 0-100 heuristic. Income is not known on
// the calculator, so it is assumed to be 40% of the amount.
func QuickRiskScore(amount, annualRatePct float64, months int, emi float64) domain.QuickRisk {
	score := 100

	switch {
	case amount > 2_000_000:
		score -= 25
	case amount > 1_000_000:
		score -= 15
	}

	switch {
	case annualRatePct > 12:
		score -= 20
	case annualRatePct > 10:
		score -= 10
	}

	switch {
	case months > 180:
		score -= 15
	case months > 120:
		score -= 8
	}

	if income := amount * 0.4; income > 0 {
		ratio := emi / income
		switch {
		case ratio > 0.5:
			score -= 20
		case ratio > 0.4:
			score -= 10
		}
	}

	score = max(0, min(100, score))
	return domain.QuickRisk{Score: score, Level: quickRiskLevel(score)}
}

func quickRiskLevel(score int) string {
	switch {
	case score >= 80:
		return "Low Risk"
	case score >= 60:
		return "Medium Risk"
	default:
		return "High Risk"
	}
}
