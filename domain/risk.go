package domain

// BehaviorSignals are optional; nil means the signal is unknown and the
// configured default applies.
type BehaviorSignals struct {
	StatementRegularity *float64 `json:"statementRegularity,omitempty"`
	EngagementScore     *float64 `json:"engagementScore,omitempty"`
}

type RiskComponents struct {
	Credit    float64 `json:"creditComponent"`
	Capacity  float64 `json:"capacityComponent"`
	Stability float64 `json:"stabilityComponent"`
	Statement float64 `json:"statementComponent"`
	Behavior  float64 `json:"behaviorComponent"`
}

func (c RiskComponents) Sum() float64 {
	return c.Credit + c.Capacity + c.Stability + c.Statement + c.Behavior
}

type RiskAssessment struct {
	Score        int            `json:"score"`
	Level        string         `json:"level"`
	Components   RiskComponents `json:"components"`
	TentativeEMI float64        `json:"tentativeEmi"`
}
