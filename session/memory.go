package session

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore держит состояния в памяти процесса без срока жизни:
// незаконченный диалог ждёт следующего сообщения сколько угодно.
type MemoryStore[T any] struct {
	cache *gocache.Cache
}

// NewMemoryStore создаёт хранилище без фоновой очистки.
func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{cache: gocache.New(gocache.NoExpiration, 0)}
}

func (s *MemoryStore[T]) Load(_ context.Context, key string) (T, error) {
	var zero T
	value, found := s.cache.Get(key)
	if !found {
		return zero, ErrNotFound
	}
	v, ok := value.(T)
	if !ok {
		return zero, ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore[T]) Save(_ context.Context, key string, value T) error {
	s.cache.Set(key, value, gocache.NoExpiration)
	return nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *MemoryStore[T]) Count(context.Context) (int, error) {
	return s.cache.ItemCount(), nil
}
