package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ikkim/beautycart-backend/internal/app/model"
	"github.com/ikkim/beautycart-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "cart-session:"

type redisSessionRepository struct {
	client  *redis.Client
	idleTTL time.Duration
}

// NewRedisSessionRepository keeps sessions in Redis. Every save refreshes the
// key's TTL, so idle sessions expire on their own.
func NewRedisSessionRepository(client *redis.Client, idleTTL time.Duration) SessionRepository {
	return &redisSessionRepository{client: client, idleTTL: idleTTL}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (r *redisSessionRepository) Create(ctx context.Context, session *model.CartSession) error {
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.LastActiveAt.IsZero() {
		session.LastActiveAt = now
	}

	payload, err := json.Marshal(redisSession{CartSession: session, State: session.State})
	if err != nil {
		return err
	}
	ok, err := r.client.SetNX(ctx, sessionKey(session.ID), payload, r.idleTTL).Result()
	if err != nil {
		logger.Error("Failed to create cart session in redis", err, map[string]interface{}{
			"session_id": session.ID,
		})
		return err
	}
	if !ok {
		return ErrSessionExists
	}
	return nil
}

// redisSession carries the State field that model.CartSession hides from JSON.
type redisSession struct {
	*model.CartSession
	State string `json:"state"`
}

func (r *redisSessionRepository) FindByID(ctx context.Context, id string) (*model.CartSession, error) {
	payload, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		logger.Error("Failed to find cart session in redis", err, map[string]interface{}{
			"session_id": id,
		})
		return nil, err
	}

	stored := redisSession{CartSession: &model.CartSession{}}
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, err
	}
	stored.CartSession.State = stored.State
	return stored.CartSession, nil
}

func (r *redisSessionRepository) Save(ctx context.Context, session *model.CartSession) error {
	session.UpdatedAt = time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.UpdatedAt
	}
	payload, err := json.Marshal(redisSession{CartSession: session, State: session.State})
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, sessionKey(session.ID), payload, r.idleTTL).Err(); err != nil {
		logger.Error("Failed to save cart session in redis", err, map[string]interface{}{
			"session_id": session.ID,
		})
		return err
	}
	return nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		logger.Error("Failed to delete cart session from redis", err, map[string]interface{}{
			"session_id": id,
		})
		return err
	}
	return nil
}

// DeleteIdleBefore is a no-op; Redis expires idle sessions itself.
func (r *redisSessionRepository) DeleteIdleBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	return 0, nil
}
