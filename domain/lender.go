package domain

import "slices"

type Lender struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	BaseRate        float64    `json:"baseRate"`
	LoanTypes       []LoanType `json:"loanTypes"`
	MinCreditScore  float64    `json:"minCreditScore"`
	MaxTenureMonths int        `json:"maxTenureMonths"`
}

func (l Lender) Supports(t LoanType) bool {
	return slices.Contains(l.LoanTypes, t)
}

type RateOffer struct {
	LenderID       string  `json:"lenderId"`
	LenderName     string  `json:"lenderName"`
	Rate           float64 `json:"rate"`
	MeetsMinScore  bool    `json:"meetsMinScore"`
	MonthlyPayment float64 `json:"monthlyPayment,omitempty"`
	TotalInterest  float64 `json:"totalInterest,omitempty"`
}
