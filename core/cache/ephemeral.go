package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"collection-pricer/core/clock"

	"github.com/redis/go-redis/v9"
)

// Ephemeral is a fast store with native per-key expiry.
type Ephemeral interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const (
	EphemeralMemory = "memory"
	EphemeralRedis  = "redis"
)

// NewEphemeral builds the ephemeral tier selected by cfg.Ephemeral.
func NewEphemeral(ctx context.Context, cfg Config, rcfg RedisConfig, clk clock.Clock) (Ephemeral, error) {
	switch cfg.Ephemeral {
	case EphemeralMemory, "":
		return NewMemoryTier(clk), nil
	case EphemeralRedis:
		client := NewRedisClient(rcfg)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to reach redis at %s: %w", rcfg.Addr, err)
		}
		return NewRedisTier(client), nil
	default:
		return nil, fmt.Errorf("unknown ephemeral backend %q", cfg.Ephemeral)
	}
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryTier is an in-process ephemeral store. Expired entries are dropped lazily
// on read and swept on write once the map grows past sweepAt.
type MemoryTier struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries map[string]memoryEntry
	sweepAt int
}

// NewMemoryTier returns an empty tier driven by clk.
func NewMemoryTier(clk clock.Clock) *MemoryTier {
	if clk == nil {
		clk = clock.System{}
	}
	return &MemoryTier{clock: clk, entries: make(map[string]memoryEntry), sweepAt: 1024}
}

func (m *MemoryTier) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !m.clock.Now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *MemoryTier) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	if len(m.entries) >= m.sweepAt {
		for k, e := range m.entries {
			if !now.Before(e.expiresAt) {
				delete(m.entries, k)
			}
		}
		if len(m.entries) >= m.sweepAt {
			m.sweepAt *= 2
		}
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.entries[key] = memoryEntry{value: v, expiresAt: now.Add(ttl)}
	return nil
}

func (m *MemoryTier) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// NewRedisClient builds a go-redis client from rcfg.
func NewRedisClient(rcfg RedisConfig) *redis.Client {
	timeout := time.Duration(rcfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return redis.NewClient(&redis.Options{
		Addr:         rcfg.Addr,
		Password:     rcfg.Password,
		DB:           rcfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})
}

// RedisTier stores entries in Redis with native expiry.
type RedisTier struct {
	client redis.Cmdable
}

// NewRedisTier wraps an existing client.
func NewRedisTier(client redis.Cmdable) *RedisTier {
	return &RedisTier{client: client}
}

func (r *RedisTier) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *RedisTier) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisTier) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
