package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore создаёт хранилище счётчиков из URL
// (например, redis://:pass@host:6379/0).
func NewRedisStore(redisURL string) (CounterStore, error) {
	const op = "limiter.NewRedisStore"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &redisStore{rdb: rdb}, nil
}

// NewRedisStoreFromClient оборачивает готовый клиент (для тестов).
func NewRedisStoreFromClient(rdb *redis.Client) CounterStore {
	return &redisStore{rdb: rdb}
}

// IncrWithExpiry — INCR и чтение TTL одной транзакцией; окно заводится
// на первом попадании. INCR в Redis атомарен, поэтому два конкурентных
// запроса никогда не получат одинаковое значение счётчика.
func (s *redisStore) IncrWithExpiry(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	const op = "limiter.redisStore.IncrWithExpiry"

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}

	count := incr.Val()
	remaining := ttl.Val()

	// Первое попадание в окно (или ключ без TTL после сбоя) — выставляем срок.
	if count == 1 || remaining < 0 {
		if err := s.rdb.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("%s: %w", op, err)
		}
		remaining = window
	}

	return count, remaining, nil
}

// Close закрывает клиент Redis.
func (s *redisStore) Close() error { return s.rdb.Close() }
