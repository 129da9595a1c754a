package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"loan-advisor/domain"
	"loan-advisor/finance"
	"loan-advisor/llm"
	"loan-advisor/loanerrors"
	"loan-advisor/observability"
	"loan-advisor/rag"
	"loan-advisor/repository"
)

const (
	attachedDocumentSource = "attached-document"
	missingRate            = "Contact Bank"
)

// RecommendationDeps wires a RecommendationService. Metrics and Logger are
// optional.
type RecommendationDeps struct {
	Retriever *rag.Retriever
	// Embedder embeds the chunks of attached documents. It should be the
	// embedder the Retriever uses for queries.
	Embedder  rag.Embedder
	Corpus    rag.Corpus
	Generator llm.Generator
	Sessions  repository.SessionRepository
	Tracker   *RequestTracker
	Metrics   observability.GenerationMetrics
	Logger    *slog.Logger
	Timeout   time.Duration
	Lenders   []domain.Lender
	Risk      finance.RiskConfig
}

// RecommendationService answers loan applications with retrieval-grounded
// model output and keeps the latest answer of each session.
type RecommendationService struct {
	retriever *rag.Retriever
	embedder  rag.Embedder
	corpus    rag.Corpus
	generator llm.Generator
	sessions  repository.SessionRepository
	tracker   *RequestTracker
	metrics   observability.GenerationMetrics
	logger    *slog.Logger
	timeout   time.Duration
	lenders   []domain.Lender
	risk      finance.RiskConfig
	now       func() time.Time
}

func NewRecommendationService(deps RecommendationDeps) *RecommendationService {
	s := &RecommendationService{
		retriever: deps.Retriever,
		embedder:  deps.Embedder,
		corpus:    deps.Corpus,
		generator: deps.Generator,
		sessions:  deps.Sessions,
		tracker:   deps.Tracker,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		timeout:   deps.Timeout,
		lenders:   deps.Lenders,
		risk:      deps.Risk,
		now:       time.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.timeout <= 0 {
		s.timeout = 30 * time.Second
	}
	if s.lenders == nil {
		s.lenders = finance.DefaultLenders()
	}
	if s.tracker == nil {
		s.tracker = NewRequestTracker()
	}
	return s
}

// Recommend retrieves reference context for the applicant, asks the model for
// a structured recommendation and stores it as the session's current result.
// A request superseded by a newer one of the same session while it was in
// flight returns a *loanerrors.StaleResultError and stores nothing.
func (s *RecommendationService) Recommend(
	ctx context.Context,
	sessionID string,
	req domain.RecommendationRequest,
) (domain.RecommendationResult, error) {
	if err := validateApplicant(req.Applicant); err != nil {
		return domain.RecommendationResult{}, err
	}
	if utf8.RuneCountInString(req.DocumentText) > MaxDocumentChars {
		return domain.RecommendationResult{}, loanerrors.NewValidationError(
			"documentText", fmt.Sprintf("documentText exceeds %d characters", MaxDocumentChars))
	}

	seq := s.tracker.Begin(sessionID)

	corpus := s.corpus
	if extra := s.documentChunks(ctx, req.DocumentText); len(extra) > 0 {
		corpus = corpus.With(extra...)
	}
	chunks := s.retriever.Retrieve(ctx, retrievalQuery(req.Applicant), corpus)

	rec, err := s.generate(ctx, req.Applicant, rag.JoinContext(chunks))
	if err != nil {
		return domain.RecommendationResult{}, err
	}

	result := domain.RecommendationResult{
		ID:             uuid.NewString(),
		Applicant:      req.Applicant,
		Recommendation: rec,
		GroundingCount: len(chunks),
		Sequence:       seq,
		GeneratedAt:    s.now().UTC(),
	}

	err = s.tracker.Commit(sessionID, seq, func() error {
		if err := s.sessions.Save(ctx, sessionID, result); err != nil {
			s.logger.WarnContext(ctx, "failed to save recommendation", "error", err)
		}
		return nil
	})
	if err != nil {
		s.logger.InfoContext(ctx, "discarding superseded recommendation", "sequence", seq)
		s.record(ctx, observability.GenerationStale, 0)
		return domain.RecommendationResult{}, err
	}

	return result, nil
}

func (s *RecommendationService) generate(ctx context.Context, a domain.Applicant, reference string) (domain.Recommendation, error) {
	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := s.now()
	text, err := s.generator.Complete(genCtx, llm.Prompt{
		System:    recommendationSystemPrompt,
		User:      recommendationPrompt(a, reference),
		MaxTokens: RecommendationMaxTokens,
	})
	elapsed := s.now().Sub(start)

	switch {
	case errors.Is(err, llm.ErrDisabled):
		s.record(ctx, observability.GenerationSuccess, elapsed)
		return fallbackRecommendation(a, s.lenders, s.risk), nil
	case err != nil:
		s.logger.WarnContext(ctx, "recommendation generation failed", "error", err)
		s.record(ctx, observability.GenerationError, elapsed)
		return domain.Recommendation{}, loanerrors.NewGenerationError("the model did not answer", err)
	}

	rec, err := llm.ExtractJSON[domain.Recommendation](text)
	if err != nil {
		s.logger.WarnContext(ctx, "model answered without a usable JSON object", "error", err)
		s.record(ctx, observability.GenerationInvalidJSON, elapsed)
		return domain.Recommendation{}, loanerrors.NewGenerationError("the model answer could not be read", err)
	}

	s.record(ctx, observability.GenerationSuccess, elapsed)
	return normalizeRecommendation(rec), nil
}

// normalizeRecommendation pairs every recommended bank with a rate.
func normalizeRecommendation(rec domain.Recommendation) domain.Recommendation {
	for len(rec.InterestRates) < len(rec.RecommendedBanks) {
		rec.InterestRates = append(rec.InterestRates, missingRate)
	}
	if rec.RecommendedBanks == nil {
		rec.RecommendedBanks = []string{}
	}
	if rec.InterestRates == nil {
		rec.InterestRates = []string{}
	}
	return rec
}

// documentChunks embeds an attached document so it can be ranked with the
// corpus for this request only. Chunks that fail to embed are skipped.
func (s *RecommendationService) documentChunks(ctx context.Context, text string) []domain.EmbeddedChunk {
	if s.embedder == nil || strings.TrimSpace(text) == "" {
		return nil
	}

	pieces := rag.ChunkText(text, DocumentChunkSize)
	if len(pieces) > MaxDocumentChunks {
		s.logger.WarnContext(ctx, "attached document truncated", "chunks", len(pieces), "kept", MaxDocumentChunks)
		pieces = pieces[:MaxDocumentChunks]
	}

	out := make([]domain.EmbeddedChunk, len(pieces))
	var g errgroup.Group
	g.SetLimit(documentEmbedWorkers)
	for i, piece := range pieces {
		g.Go(func() error {
			vec, err := s.embedder.Embed(ctx, piece)
			if err != nil {
				s.logger.WarnContext(ctx, "skipping attached document chunk", "chunk", i, "error", err)
				return nil
			}
			out[i] = domain.EmbeddedChunk{Text: piece, Embedding: vec, Source: attachedDocumentSource, ChunkID: i}
			return nil
		})
	}
	_ = g.Wait()

	return slices.DeleteFunc(out, func(c domain.EmbeddedChunk) bool { return len(c.Embedding) == 0 })
}

// Current returns the session's latest stored result.
func (s *RecommendationService) Current(ctx context.Context, sessionID string) (domain.RecommendationResult, error) {
	return s.sessions.Get(ctx, sessionID)
}

// Clear starts a new search: the stored result is removed and any request
// still in flight for the session is superseded.
func (s *RecommendationService) Clear(ctx context.Context, sessionID string) error {
	seq := s.tracker.Begin(sessionID)
	return s.tracker.Commit(sessionID, seq, func() error {
		return s.sessions.Delete(ctx, sessionID)
	})
}

func (s *RecommendationService) Report(ctx context.Context, sessionID string) (domain.RecommendationReport, error) {
	result, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.RecommendationReport{}, err
	}
	return domain.RecommendationReport{
		Applicant:      result.Applicant,
		Recommendation: result.Recommendation,
		GeneratedAt:    result.GeneratedAt,
	}, nil
}

func (s *RecommendationService) record(ctx context.Context, outcome string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordGeneration(ctx, observability.OperationRecommendation, outcome, d)
	}
}

func validateApplicant(a domain.Applicant) error {
	switch {
	case strings.TrimSpace(a.Name) == "":
		return loanerrors.NewValidationError("applicant.name", "name is required")
	case a.Age < MinApplicantAge || a.Age > MaxApplicantAge:
		return loanerrors.NewValidationError("applicant.age", fmt.Sprintf("age must be between %d and %d", MinApplicantAge, MaxApplicantAge))
	case !nonNegative(a.Income):
		return loanerrors.NewValidationError("applicant.income", "income must be zero or positive")
	case math.IsNaN(a.CibilScore) || a.CibilScore < MinCreditScore || a.CibilScore > MaxCreditScore:
		return loanerrors.NewValidationError("applicant.cibilScore", fmt.Sprintf("cibilScore must be between %d and %d", MinCreditScore, MaxCreditScore))
	case a.TenureMonth < 0 || a.TenureMonth > MaxTermMonths:
		return loanerrors.NewValidationError("applicant.tenureMonths", fmt.Sprintf("tenureMonths must be between 0 (default %d) and %d", DefaultTenureMonths, MaxTermMonths))
	}
	if err := validateLoanType("applicant.loanType", a.LoanType); err != nil {
		return err
	}
	if !nonNegative(a.Amount) || a.Amount == 0 {
		return loanerrors.NewValidationError("applicant.amount", "amount must be a positive number")
	}
	if a.Amount > MaxLoanAmount {
		return loanerrors.NewValidationError("applicant.amount", fmt.Sprintf("amount exceeds the maximum of %.2f", MaxLoanAmount))
	}
	return nil
}
