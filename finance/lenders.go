package finance

import (
	"slices"

	"loan-advisor/domain"
)

var lenders = []domain.Lender{
	{ID: "axis", Name: "Axis Bank", BaseRate: 10.5, LoanTypes: []domain.LoanType{domain.LoanTypePersonal, domain.LoanTypeAuto}, MinCreditScore: 650, MaxTenureMonths: 72},
	{ID: "hdfc", Name: "HDFC Bank", BaseRate: 10.99, LoanTypes: []domain.LoanType{domain.LoanTypePersonal, domain.LoanTypeAuto, domain.LoanTypeHome}, MinCreditScore: 680, MaxTenureMonths: 240},
	{ID: "sbi", Name: "SBI", BaseRate: 9.5, LoanTypes: []domain.LoanType{domain.LoanTypeHome, domain.LoanTypeAuto}, MinCreditScore: 660, MaxTenureMonths: 360},
	{ID: "icici", Name: "ICICI", BaseRate: 11.25, LoanTypes: []domain.LoanType{domain.LoanTypePersonal}, MinCreditScore: 700, MaxTenureMonths: 60},
	{ID: "nbfcx", Name: "NBFC X", BaseRate: 12.99, LoanTypes: []domain.LoanType{domain.LoanTypePersonal, domain.LoanTypeAuto}, MinCreditScore: 640, MaxTenureMonths: 84},
}

// DefaultLenders returns a copy of the built-in lender table.
func DefaultLenders() []domain.Lender {
	return CloneLenders(lenders)
}

// CloneLenders deep-copies a lender table, LoanTypes included.
func CloneLenders(table []domain.Lender) []domain.Lender {
	out := make([]domain.Lender, len(table))
	for i, l := range table {
		l.LoanTypes = slices.Clone(l.LoanTypes)
		out[i] = l
	}
	return out
}

var defaultRates = map[domain.LoanType]float64{
	domain.LoanTypePersonal:  11.5,
	domain.LoanTypeHome:      8.5,
	domain.LoanTypeAuto:      9.0,
	domain.LoanTypeEducation: 7.5,
}

// DefaultRate is the calculator's starting annual rate for a loan type.
func DefaultRate(t domain.LoanType) (float64, bool) {
	r, ok := defaultRates[t]
	return r, ok
}
