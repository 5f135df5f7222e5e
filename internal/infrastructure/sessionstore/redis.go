package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sarojv04/TDS-Project/internal/builder/application"
	"github.com/Sarojv04/TDS-Project/internal/builder/domain"
)

// DefaultTTL is how long an untouched builder session survives.
const DefaultTTL = 24 * time.Hour

// RedisRepository stores each FormState as JSON under builder:session:<id>.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ application.SessionRepository = (*RedisRepository)(nil)

func NewRedisClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisRepository{client: client, ttl: ttl}
}

func (r *RedisRepository) Get(ctx context.Context, id string) (domain.FormState, bool, error) {
	v, err := r.client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.FormState{}, false, nil
	}
	if err != nil {
		return domain.FormState{}, false, err
	}

	var state domain.FormState
	if err := json.Unmarshal([]byte(v), &state); err != nil {
		return domain.FormState{}, false, err
	}
	return state, true, nil
}

// Set は状態を保存し、TTL を延長する。
func (r *RedisRepository) Set(ctx context.Context, id string, state domain.FormState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(id), b, r.ttl).Err()
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}

// Ping reports whether the Redis server is reachable.
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func sessionKey(id string) string {
	return fmt.Sprintf("builder:session:%s", id)
}
