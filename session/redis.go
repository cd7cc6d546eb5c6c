package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "qrbot:session:"

// RedisStore хранит состояния в Redis в виде JSON.
// Ключи активных диалогов дублируются в множестве-индексе для Count.
type RedisStore[T any] struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix string
	ttl    time.Duration
}

// WithTTL задаёт срок жизни состояния (0 = бессрочно).
func WithTTL(ttl time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.ttl = ttl
	}
}

// WithPrefix задаёт префикс ключей.
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.prefix = prefix
	}
}

// NewRedisStore создаёт хранилище поверх существующего клиента.
func NewRedisStore[T any](client *backend.Client, opts ...RedisOption) *RedisStore[T] {
	o := redisOptions{prefix: defaultPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	return &RedisStore[T]{client: client, prefix: o.prefix, ttl: o.ttl}
}

func (s *RedisStore[T]) key(key string) string {
	return s.prefix + key
}

func (s *RedisStore[T]) indexKey() string {
	return s.prefix + "index"
}

func (s *RedisStore[T]) Load(ctx context.Context, key string) (T, error) {
	var value T
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, backend.Nil) {
		return value, ErrNotFound
	}
	if err != nil {
		return value, fmt.Errorf("get session: %w", err)
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, fmt.Errorf("decode session: %w", err)
	}
	return value, nil
}

func (s *RedisStore[T]) Save(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(key), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore[T]) Delete(ctx context.Context, key string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(key))
	pipe.SRem(ctx, s.indexKey(), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Count считает только те ключи индекса, чьи состояния ещё не истекли.
func (s *RedisStore[T]) Count(ctx context.Context) (int, error) {
	keys, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}
	n := 0
	for _, k := range keys {
		ok, err := s.client.Exists(ctx, s.key(k)).Result()
		if err != nil {
			return 0, fmt.Errorf("check session: %w", err)
		}
		if ok == 1 {
			n++
			continue
		}
		// TTL истёк: убираем хвост из индекса.
		s.client.SRem(ctx, s.indexKey(), k)
	}
	return n, nil
}
