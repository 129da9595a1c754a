package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Applicant is what the recommendation form collects.
type Applicant struct {
	Name        string   `json:"name"`
	Age         int      `json:"age"`
	Income      float64  `json:"income"`
	LoanType    LoanType `json:"loanType"`
	Amount      float64  `json:"amount"`
	CibilScore  float64  `json:"cibilScore"`
	Married     bool     `json:"maritalStatus"`
	TenureMonth int      `json:"tenureMonths,omitempty"`
}

func (a Applicant) MaritalLabel() string {
	if a.Married {
		return "Married"
	}
	return "Single"
}

// Recommendation is the structured answer parsed out of the model output.
type Recommendation struct {
	Eligibility      string   `json:"eligibility"`
	ApprovalChance   string   `json:"approvalChance,omitempty"`
	MonthlyEMI       Amount   `json:"monthlyEMI"`
	RiskLevel        string   `json:"riskLevel"`
	RecommendedBanks []string `json:"recommendedBanks"`
	InterestRates    []string `json:"interestRates"`
	ProcessingTime   string   `json:"processingTime"`
	Suggestions      []string `json:"suggestions,omitempty"`
}

type RecommendationRequest struct {
	Applicant    Applicant `json:"applicant"`
	DocumentText string    `json:"documentText,omitempty"`
}

type RecommendationResult struct {
	ID             string         `json:"id"`
	Applicant      Applicant      `json:"applicant"`
	Recommendation Recommendation `json:"recommendation"`
	GroundingCount int            `json:"groundingChunks"`
	Sequence       uint64         `json:"sequence"`
	GeneratedAt    time.Time      `json:"generatedAt"`
}

type RecommendationReport struct {
	Applicant      Applicant      `json:"applicant"`
	Recommendation Recommendation `json:"recommendation"`
	GeneratedAt    time.Time      `json:"generatedAt"`
}

// Amount is a money value that also decodes from model-formatted strings
// such as "₹16,369.50" or "16369".
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := parseAmount(s)
		if err != nil {
			return err
		}
		*a = Amount(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(v)
	return nil
}

// parseAmount reads the first number in s, ignoring thousands separators.
func parseAmount(s string) (float64, error) {
	var b strings.Builder
	started := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			started = true
		case r == '.' && started:
			b.WriteRune(r)
		case r == ',' && started:
		case started:
			return strconv.ParseFloat(b.String(), 64)
		}
	}
	if !started {
		return 0, fmt.Errorf("amount: no number in %q", s)
	}
	return strconv.ParseFloat(b.String(), 64)
}
