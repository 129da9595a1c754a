package service

import "time"

const (
	MaxLoanAmount   = 1_000_000_000.0
	MaxInterestRate = 100.0 // annual percent
	MaxTermMonths   = 480   // 40 years
	MinTermMonths   = 1

	MinApplicantAge = 18
	MaxApplicantAge = 100
	MinCreditScore  = 300
	MaxCreditScore  = 900

	// DefaultTenureMonths prices recommendations submitted without a tenure.
	DefaultTenureMonths = 36
	// FallbackRatePct prices the dashboard EMI when no lender makes an offer.
	FallbackRatePct = 12.0

	MaxQuestionLength    = 2_000
	MaxDocumentChars     = 200_000
	MaxDocumentChunks    = 40
	DocumentChunkSize    = 1_000
	documentEmbedWorkers = 4
	MaxUploadBytes       = 10 << 20

	CalculationCacheTTL = time.Hour

	RecommendationMaxTokens = 1_024
	ChatMaxTokens           = 800
)
