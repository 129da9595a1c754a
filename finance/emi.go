// Package finance holds the deterministic loan math: EMI amortization, the
// hybrid risk score and lender rate personalization. Everything here is pure.
package finance

import "math"

// Amortization is an EMI together with its derived totals, unrounded.
type Amortization struct {
	EMI           float64
	TotalAmount   float64
	TotalInterest float64
}

// EMI returns the fixed monthly installment that fully amortizes principal
// over months at annualRatePct. Non-positive months, negative or non-finite
// principal or rate yield 0.
func EMI(principal, annualRatePct float64, months int) float64 {
	if months <= 0 || !isFinite(principal) || !isFinite(annualRatePct) {
		return 0
	}
	if principal < 0 || annualRatePct < 0 {
		return 0
	}

	n := float64(months)
	r := annualRatePct / 12 / 100
	if r == 0 {
		return principal / n
	}

	// (1+r)^n - 1 computed without cancellation for small r.
	growth := math.Expm1(n * math.Log1p(r))
	if growth == 0 {
		return principal / n
	}
	return principal * r * (1 + growth) / growth
}

// Amortize computes the EMI and the totals derived from it. TotalAmount is
// always EMI*months and TotalInterest is TotalAmount-principal.
func Amortize(principal, annualRatePct float64, months int) Amortization {
	emi := EMI(principal, annualRatePct, months)
	if emi == 0 {
		return Amortization{}
	}
	total := emi * float64(months)
	return Amortization{
		EMI:           emi,
		TotalAmount:   total,
		TotalInterest: total - principal,
	}
}

// RoundTo2 rounds to two decimals. Only for presentation.
func RoundTo2(value float64) float64 {
	return math.Round(value*100) / 100
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// finite maps NaN and ±Inf to 0.
func finite(v float64) float64 {
	if !isFinite(v) {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
