package locks

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// defaultLockTTL bounds how long a crashed holder can block others.
const defaultLockTTL = 30 * time.Second

// RedisManager implements distributed locking using Redis SET NX with an
// owner token, so only the acquiring instance can release a lock.
type RedisManager struct {
	client  *redis.Client
	logger  *zap.Logger
	ttl     time.Duration
	ownerID string
}

// NewRedisManager creates a new Redis-based lock manager.
func NewRedisManager(redisAddr, redisPassword string, logger *zap.Logger) (*RedisManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         redisAddr,
		Password:     redisPassword,
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ownerBytes := make([]byte, 16)
	if _, err := rand.Read(ownerBytes); err != nil {
		return nil, fmt.Errorf("failed to generate owner ID: %w", err)
	}

	return &RedisManager{
		client:  client,
		logger:  logger,
		ttl:     defaultLockTTL,
		ownerID: hex.EncodeToString(ownerBytes),
	}, nil
}

// Acquire attempts to acquire the lock for key.
func (m *RedisManager) Acquire(ctx context.Context, key string) (bool, error) {
	lockKey := "sharefs:lock:" + key

	result := m.client.SetNX(ctx, lockKey, m.ownerID, m.ttl)
	if err := result.Err(); err != nil {
		return false, fmt.Errorf("failed to acquire lock for key %s: %w", key, err)
	}

	acquired := result.Val()
	if acquired {
		m.logger.Debug("Lock acquired",
			zap.String("key", key),
			zap.Duration("ttl", m.ttl))
	} else {
		m.logger.Debug("Lock already held", zap.String("key", key))
	}

	return acquired, nil
}

// Release releases a previously acquired lock for key. The Lua script keeps
// release atomic: delete only while we still own the lock.
func (m *RedisManager) Release(ctx context.Context, key string) error {
	lockKey := "sharefs:lock:" + key

	luaScript := `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`

	result := m.client.Eval(ctx, luaScript, []string{lockKey}, m.ownerID)
	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to release lock for key %s: %w", key, err)
	}

	if deleted, _ := result.Val().(int64); deleted != 1 {
		m.logger.Debug("Lock not owned or already released", zap.String("key", key))
	}

	return nil
}

// Close closes the Redis client connection.
func (m *RedisManager) Close() error {
	return m.client.Close()
}
