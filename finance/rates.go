package finance

import (
	"math"
	"sort"

	"loan-advisor/domain"
)

const (
	rateFloor          = 7.99
	spreadPivotScore   = 700
	spreadMinScore     = 620
	spreadMaxScore     = 760
	spreadPointsPerPct = 25
)

// PersonalizedRates prices every lender that supports the loan type and
// tenure. Offers are sorted by rate, best first; equal rates keep table order.
func PersonalizedRates(profile domain.LoanProfile, loan domain.LoanRequest, table []domain.Lender) []domain.RateOffer {
	credit := clamp(finite(profile.CreditScore), spreadMinScore, spreadMaxScore)
	spread := (spreadPivotScore - credit) / spreadPointsPerPct

	offers := []domain.RateOffer{}
	for _, l := range table {
		if !l.Supports(loan.Type) || loan.TenureMonths > l.MaxTenureMonths {
			continue
		}
		offers = append(offers, domain.RateOffer{
			LenderID:      l.ID,
			LenderName:    l.Name,
			Rate:          math.Max(rateFloor, RoundTo2(l.BaseRate+spread)),
			MeetsMinScore: finite(profile.CreditScore) >= l.MinCreditScore,
		})
	}

	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Rate < offers[j].Rate
	})
	return offers
}

// PriceOffer fills in the installment and total interest of an offer.
func PriceOffer(offer domain.RateOffer, loan domain.LoanRequest) domain.RateOffer {
	a := Amortize(loan.Amount, offer.Rate, loan.TenureMonths)
	offer.MonthlyPayment = RoundTo2(a.EMI)
	offer.TotalInterest = RoundTo2(a.TotalInterest)
	return offer
}
