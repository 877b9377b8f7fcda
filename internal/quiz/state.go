package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultAttemptTTL = 2 * time.Hour

// StateManager keeps per-user attempt state in Redis. One attempt per user;
// starting a new one overwrites whatever was there. Keys carry a TTL so an
// abandoned attempt expires on its own.
type StateManager struct {
	redis  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewStateManager creates a state manager backed by Redis.
func NewStateManager(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *StateManager {
	if ttl <= 0 {
		ttl = defaultAttemptTTL
	}
	return &StateManager{
		redis:  client,
		ttl:    ttl,
		logger: logger,
	}
}

func attemptKey(userID uuid.UUID) string {
	return "quiz:attempt:" + userID.String()
}

// Begin stores attempt state for the user, replacing any prior attempt.
func (s *StateManager) Begin(ctx context.Context, userID uuid.UUID, state AttemptState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal attempt state: %w", err)
	}
	if err := s.redis.Set(ctx, attemptKey(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store attempt state: %w", err)
	}
	return nil
}

// Get returns the user's attempt state, or nil when none is in progress.
// An expired or lost key is indistinguishable from never having started.
func (s *StateManager) Get(ctx context.Context, userID uuid.UUID) (*AttemptState, error) {
	data, err := s.redis.Get(ctx, attemptKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt state: %w", err)
	}

	var state AttemptState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal attempt state: %w", err)
	}
	return &state, nil
}

// Clear removes the user's attempt state.
func (s *StateManager) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.redis.Del(ctx, attemptKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear attempt state: %w", err)
	}
	return nil
}
