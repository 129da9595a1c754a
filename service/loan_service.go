package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"loan-advisor/domain"
	"loan-advisor/finance"
	"loan-advisor/loanerrors"
	"loan-advisor/repository"
)

type LoanService struct {
	cache  repository.CacheRepository
	logger *slog.Logger
}

// NewLoanService creates a LoanService that memoizes results in cache.
// cache may be nil.
func NewLoanService(cache repository.CacheRepository, logger *slog.Logger) *LoanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoanService{cache: cache, logger: logger}
}

// CalculateLoan prices an EMI loan and scores it with the quick risk heuristic.
// A missing rate falls back to the default rate of the loan type.
func (s *LoanService) CalculateLoan(ctx context.Context, input domain.LoanInput) (domain.LoanResult, error) {
	rate, err := resolveRate(input)
	if err != nil {
		return domain.LoanResult{}, err
	}
	if err := validateLoanInput(input.Amount, rate, input.TermMonths); err != nil {
		return domain.LoanResult{}, err
	}

	key := calculationKey(input.Amount, rate, input.TermMonths)
	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	a := finance.Amortize(input.Amount, rate, input.TermMonths)
	result := domain.LoanResult{
		MonthlyPayment: finance.RoundTo2(a.EMI),
		TotalPayment:   finance.RoundTo2(a.TotalAmount),
		TotalInterest:  finance.RoundTo2(a.TotalInterest),
		InterestRate:   rate,
		Risk:           finance.QuickRiskScore(input.Amount, rate, input.TermMonths, a.EMI),
	}

	s.store(ctx, key, result)
	return result, nil
}

func resolveRate(input domain.LoanInput) (float64, error) {
	if input.InterestRate != nil {
		return *input.InterestRate, nil
	}
	if input.Type == "" {
		return 0, loanerrors.NewValidationError("annualRatePct", "annualRatePct is required when loanType is not set")
	}
	rate, ok := finance.DefaultRate(input.Type)
	if !ok {
		return 0, loanerrors.NewValidationError("loanType", fmt.Sprintf("unknown loan type %q", input.Type))
	}
	return rate, nil
}

func validateLoanInput(amount, rate float64, months int) error {
	switch {
	case math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0:
		return loanerrors.NewValidationError("amount", "amount must be a positive number")
	case amount > MaxLoanAmount:
		return loanerrors.NewValidationError("amount", fmt.Sprintf("amount exceeds the maximum of %.2f", MaxLoanAmount))
	case math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0:
		return loanerrors.NewValidationError("annualRatePct", "annualRatePct must be zero or positive")
	case rate > MaxInterestRate:
		return loanerrors.NewValidationError("annualRatePct", fmt.Sprintf("annualRatePct exceeds the maximum of %.2f%%", MaxInterestRate))
	case months < MinTermMonths:
		return loanerrors.NewValidationError("months", "months must be at least 1")
	case months > MaxTermMonths:
		return loanerrors.NewValidationError("months", fmt.Sprintf("months exceeds the maximum of %d", MaxTermMonths))
	}
	return nil
}

func calculationKey(amount, rate float64, months int) string {
	return fmt.Sprintf("calc:%.2f:%.4f:%d", amount, rate, months)
}

func (s *LoanService) lookup(ctx context.Context, key string) (domain.LoanResult, bool) {
	if s.cache == nil {
		return domain.LoanResult{}, false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return domain.LoanResult{}, false
	}
	var result domain.LoanResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.WarnContext(ctx, "discarding corrupt cached calculation", "key", key, "error", err)
		return domain.LoanResult{}, false
	}
	return result, true
}

// store is best effort; a failed write only costs a recomputation.
func (s *LoanService) store(ctx context.Context, key string, result domain.LoanResult) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), CalculationCacheTTL); err != nil {
		s.logger.WarnContext(ctx, "failed to cache loan calculation", "error", err)
	}
}
