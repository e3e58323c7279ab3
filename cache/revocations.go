package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemoryRevocations keeps revoked token ids in process memory.
type MemoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{revoked: make(map[string]time.Time), now: time.Now}
}

// Revoke records id until the given time. It reports false when id was
// already revoked, so only one caller can ever consume a token.
func (m *MemoryRevocations) Revoke(_ context.Context, id string, until time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prune()
	if _, ok := m.revoked[id]; ok {
		return false, nil
	}
	m.revoked[id] = until
	return true, nil
}

func (m *MemoryRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.revoked[id]
	if !ok {
		return false, nil
	}
	if !until.After(m.now()) {
		delete(m.revoked, id)
		return false, nil
	}
	return true, nil
}

// prune drops entries whose tokens have expired; callers hold mu.
func (m *MemoryRevocations) prune() {
	now := m.now()
	for id, until := range m.revoked {
		if !until.After(now) {
			delete(m.revoked, id)
		}
	}
}

const revokedKeyPrefix = "hoa:revoked:"

// RedisRevocations shares revoked token ids between server instances.
type RedisRevocations struct {
	rdb *redis.Client
}

func NewRedisRevocations(rdb *redis.Client) *RedisRevocations {
	return &RedisRevocations{rdb: rdb}
}

// Revoke claims id with SET NX, so concurrent revocations of one token
// have exactly one winner.
func (r *RedisRevocations) Revoke(ctx context.Context, id string, until time.Time) (bool, error) {
	ttl := time.Until(until)
	if ttl <= 0 {
		return true, nil
	}
	return r.rdb.SetNX(ctx, revokedKeyPrefix+id, 1, ttl).Result()
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revokedKeyPrefix+id).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
