package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/beautycart-backend/config"
	"github.com/ikkim/beautycart-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const revokedSessionPrefix = "revoked-session:"

var client *redis.Client

// Init connects the shared client and verifies it with a ping.
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		_ = c.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	client = c
	logger.Info("Redis connection established successfully")
	return nil
}

// SetClient installs an existing client, used by tests.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the shared client, nil when Redis is not configured.
func GetClient() *redis.Client {
	return client
}

func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		err := client.Close()
		client = nil
		return err
	}
	return nil
}

// RevokeSession marks a session token id as ended until its natural expiry.
func RevokeSession(ctx context.Context, sessionID string, expiry time.Duration) error {
	if client == nil {
		return nil
	}
	logger.Debug("Revoking session", map[string]interface{}{
		"session_id": sessionID,
		"expiry":     expiry.String(),
	})

	if err := client.Set(ctx, revokedSessionPrefix+sessionID, "revoked", expiry).Err(); err != nil {
		logger.Error("Failed to revoke session", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}
	return nil
}

// IsSessionRevoked reports whether RevokeSession was called for the id.
// Without Redis nothing is ever revoked.
func IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	if client == nil {
		return false, nil
	}
	val, err := client.Get(ctx, revokedSessionPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check session revocation", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return false, err
	}
	return val == "revoked", nil
}
