package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sujalbistaa/secretos/internal/cache"
)

// SessionStore keeps refresh tokens and the admin user they belong to.
type SessionStore interface {
	Save(ctx context.Context, token string, userID uint, ttl time.Duration) error
	// Take returns the owner of token and forgets the token. ok is false
	// for unknown or expired tokens.
	Take(ctx context.Context, token string) (userID uint, ok bool, err error)
	Delete(ctx context.Context, token string) error
}

// MemorySessionStore keeps refresh tokens in process memory.
type MemorySessionStore struct {
	tokens *cache.TTLCache[string, uint]
}

var _ SessionStore = (*MemorySessionStore)(nil)

func NewMemorySessionStore(tokens *cache.TTLCache[string, uint]) *MemorySessionStore {
	return &MemorySessionStore{tokens: tokens}
}

func (m *MemorySessionStore) Save(_ context.Context, token string, userID uint, ttl time.Duration) error {
	m.tokens.SetWithTTL(token, userID, ttl)
	return nil
}

func (m *MemorySessionStore) Take(_ context.Context, token string) (uint, bool, error) {
	id, ok := m.tokens.Take(token)
	return id, ok, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, token string) error {
	m.tokens.Delete(token)
	return nil
}

const redisKeyPrefix = "secretos:refresh:"

// RedisSessionStore keeps refresh tokens in Redis so sessions survive
// restarts and are shared between instances.
type RedisSessionStore struct {
	client redis.UniversalClient
}

var _ SessionStore = (*RedisSessionStore)(nil)

func NewRedisSessionStore(client redis.UniversalClient) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	if err := s.client.Set(ctx, redisKeyPrefix+token, strconv.FormatUint(uint64(userID), 10), ttl).Err(); err != nil {
		return fmt.Errorf("persist refresh token: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Take(ctx context.Context, token string) (uint, bool, error) {
	raw, err := s.client.GetDel(ctx, redisKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("load refresh token: %w", err)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("decode refresh token owner: %w", err)
	}
	return uint(id), true, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
