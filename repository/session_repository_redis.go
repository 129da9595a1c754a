package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"loan-advisor/domain"
	"loan-advisor/loanerrors"
)

const sessionKeyPrefix = "loan-advisor:session:"

// SessionRepositoryRedis stores results as JSON with the session TTL so that
// several instances share sessions.
type SessionRepositoryRedis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewSessionRepositoryRedis(client redis.UniversalClient, ttl time.Duration) *SessionRepositoryRedis {
	return &SessionRepositoryRedis{client: client, ttl: ttl}
}

func (r *SessionRepositoryRedis) Save(ctx context.Context, sessionID string, result domain.RecommendationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+sessionID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return nil
}

func (r *SessionRepositoryRedis) Get(ctx context.Context, sessionID string) (domain.RecommendationResult, error) {
	payload, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.RecommendationResult{}, loanerrors.NewNotFoundError("recommendation")
	}
	if err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	var result domain.RecommendationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return result, nil
}

func (r *SessionRepositoryRedis) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}
