package repository

import (
	"context"

	"loan-advisor/domain"
)

// SessionRepository keeps the latest recommendation of each advisory session.
// Get returns a *loanerrors.NotFoundError when the session has none.
type SessionRepository interface {
	Save(ctx context.Context, sessionID string, result domain.RecommendationResult) error
	Get(ctx context.Context, sessionID string) (domain.RecommendationResult, error)
	Delete(ctx context.Context, sessionID string) error
}
