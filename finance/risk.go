package finance

import (
	"math"

	"loan-advisor/domain"
)

// Component ceilings of the hybrid score.
const (
	maxCreditComponent    = 40
	maxCapacityComponent  = 30
	maxStabilityComponent = 15
	maxStatementComponent = 10
	maxBehaviorComponent  = 5
)

// RiskConfig holds the tunable heuristics of HybridRiskScore.
type RiskConfig struct {
	// ReferenceRatePct prices the tentative EMI of the capacity check. It is
	// independent of any lender's offered rate.
	ReferenceRatePct float64
	// CapacityMultiplier is how many tentative EMIs the monthly surplus must
	// cover for full capacity credit.
	CapacityMultiplier         float64
	DefaultStatementRegularity float64
	DefaultEngagementScore     float64
}

func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		ReferenceRatePct:           12.5,
		CapacityMultiplier:         2,
		DefaultStatementRegularity: 0.7,
		DefaultEngagementScore:     0,
	}
}

// HybridRiskScore sums five independently clamped components and clamps the
// rounded total to [1, 99]. Higher is better.
func HybridRiskScore(
	profile domain.LoanProfile,
	loan domain.LoanRequest,
	signals domain.BehaviorSignals,
	cfg RiskConfig,
) domain.RiskAssessment {
	credit := clamp((finite(profile.CreditScore)-500)/300*maxCreditComponent, 0, maxCreditComponent)

	tentative := EMI(loan.Amount, cfg.ReferenceRatePct, loan.TenureMonths)
	surplus := math.Max(0, finite(profile.MonthlyIncome)-finite(profile.ActiveEMI))
	coverage := math.Min(1, surplus/math.Max(1, cfg.CapacityMultiplier*tentative))
	capacity := clamp(coverage*maxCapacityComponent, 0, maxCapacityComponent)

	stability := clamp(finite(profile.EmploymentMonths)/60*maxStabilityComponent, 0, maxStabilityComponent)

	regularity := cfg.DefaultStatementRegularity
	if signals.StatementRegularity != nil {
		regularity = finite(*signals.StatementRegularity)
	}
	statement := clamp(regularity*maxStatementComponent, 0, maxStatementComponent)

	engagement := cfg.DefaultEngagementScore
	if signals.EngagementScore != nil {
		engagement = finite(*signals.EngagementScore)
	}
	behavior := clamp(engagement*maxBehaviorComponent, 0, maxBehaviorComponent)

	components := domain.RiskComponents{
		Credit:    credit,
		Capacity:  capacity,
		Stability: stability,
		Statement: statement,
		Behavior:  behavior,
	}
	score := int(math.Round(clamp(components.Sum(), 1, 99)))

	return domain.RiskAssessment{
		Score:        score,
		Level:        RiskLevel(score),
		Components:   components,
		TentativeEMI: tentative,
	}
}

// RiskLevel labels a hybrid score.
func RiskLevel(score int) string {
	switch {
	case score > 70:
		return "Low Risk"
	case score > 50:
		return "Medium Risk"
	default:
		return "High Risk"
	}
}

// AffordableEMI is the largest EMI that still earns full capacity credit.
func AffordableEMI(profile domain.LoanProfile, cfg RiskConfig) float64 {
	surplus := math.Max(0, finite(profile.MonthlyIncome)-finite(profile.ActiveEMI))
	if cfg.CapacityMultiplier <= 0 {
		return surplus
	}
	return surplus / cfg.CapacityMultiplier
}
