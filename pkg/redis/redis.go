package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/suitloom/suitloom-backend/config"
	"github.com/suitloom/suitloom-backend/pkg/logger"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// MirrorStore is the volatile persistence channel for the fast preview
// mirror. It is intentionally separate from the durable snapshot channel:
// the preview changes far more often than the full payload, and losing
// the mirror must never take the snapshot down with it.
type MirrorStore interface {
	Save(ctx context.Context, sessionID string, payload interface{}) error
	Load(ctx context.Context, sessionID string, out interface{}) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}

type mirrorStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMirrorStore creates a mirror store on top of an existing client
func NewMirrorStore(client *redis.Client, ttl time.Duration) MirrorStore {
	return &mirrorStore{client: client, ttl: ttl}
}

func mirrorKey(sessionID string) string {
	return fmt.Sprintf("configurator:mirror:%s", sessionID)
}

func (m *mirrorStore) Save(ctx context.Context, sessionID string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mirror payload: %w", err)
	}
	return m.client.Set(ctx, mirrorKey(sessionID), data, m.ttl).Err()
}

func (m *mirrorStore) Load(ctx context.Context, sessionID string, out interface{}) (bool, error) {
	data, err := m.client.Get(ctx, mirrorKey(sessionID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		// 손상된 미러는 없는 것으로 취급
		logger.Warn("Discarding malformed preview mirror", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return false, nil
	}
	return true, nil
}

func (m *mirrorStore) Delete(ctx context.Context, sessionID string) error {
	return m.client.Del(ctx, mirrorKey(sessionID)).Err()
}
