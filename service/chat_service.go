package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"loan-advisor/domain"
	"loan-advisor/llm"
	"loan-advisor/loanerrors"
	"loan-advisor/observability"
	"loan-advisor/repository"
)

// ApologyMessage is returned in place of an answer when generation fails.
const ApologyMessage = "I apologize, but I'm having trouble connecting right now. \n\n" +
	"Please try again in a moment, or you can:\n\n" +
	"• Refresh the page and try again\n" +
	"• Contact our support team directly\n" +
	"• Check your internet connection\n\n" +
	"I'm here to help as soon as the connection is restored!"

var quickQuestions = []domain.QuickQuestion{
	{Text: "Documents required", Query: "What documents do I need for my loan application? Please provide a detailed list."},
	{Text: "Eligibility details", Query: "What are the detailed eligibility criteria for my loan? How do I qualify?"},
	{Text: "Processing timeline", Query: "How long will my loan processing take? What are the steps involved?"},
	{Text: "EMI breakdown", Query: "Can you explain how my EMI was calculated? Break down the monthly payment details."},
	{Text: "Interest rate factors", Query: "What factors affect my interest rate? How can I get better rates?"},
	{Text: "Why these banks?", Query: "Why were these specific banks recommended for me? What are their advantages?"},
}

// ChatService answers follow-up questions about the session's recommendation.
type ChatService struct {
	sessions  repository.SessionRepository
	generator llm.Generator
	metrics   observability.GenerationMetrics
	logger    *slog.Logger
	timeout   time.Duration
}

func NewChatService(
	sessions repository.SessionRepository,
	generator llm.Generator,
	metrics observability.GenerationMetrics,
	logger *slog.Logger,
	timeout time.Duration,
) *ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChatService{
		sessions:  sessions,
		generator: generator,
		metrics:   metrics,
		logger:    logger,
		timeout:   timeout,
	}
}

// Ask answers question in the context of the session's current result. A
// generation failure is not an error: the reply carries ApologyMessage and is
// marked degraded.
func (s *ChatService) Ask(ctx context.Context, sessionID, question string) (domain.ChatReply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.ChatReply{}, loanerrors.NewValidationError("question", "question is required")
	}
	if utf8.RuneCountInString(question) > MaxQuestionLength {
		return domain.ChatReply{}, loanerrors.NewValidationError("question", fmt.Sprintf("question exceeds %d characters", MaxQuestionLength))
	}

	var current *domain.RecommendationResult
	result, err := s.sessions.Get(ctx, sessionID)
	switch {
	case err == nil:
		current = &result
	case !errors.Is(err, loanerrors.ErrNotFound):
		s.logger.WarnContext(ctx, "chat continuing without session result", "error", err)
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.generator.Complete(genCtx, llm.Prompt{
		System:    chatSystemPrompt(current),
		User:      chatUserPrompt(question),
		MaxTokens: ChatMaxTokens,
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrEmptyCompletion
	}
	if err != nil {
		s.logger.WarnContext(ctx, "chat generation failed", "error", err)
		s.record(ctx, observability.GenerationError, time.Since(start))
		return domain.ChatReply{Content: ApologyMessage, Degraded: true}, nil
	}

	s.record(ctx, observability.GenerationSuccess, time.Since(start))
	return domain.ChatReply{Content: stripMarkdownHeaders(text)}, nil
}

// QuickQuestions lists the canned follow-up questions.
func (s *ChatService) QuickQuestions() []domain.QuickQuestion {
	out := make([]domain.QuickQuestion, len(quickQuestions))
	copy(out, quickQuestions)
	return out
}

func (s *ChatService) record(ctx context.Context, outcome string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordGeneration(ctx, observability.OperationChat, outcome, d)
	}
}
