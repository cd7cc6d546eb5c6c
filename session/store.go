// Package session хранит состояние диалогов и изолирует обработку
// сообщений одного чата от других.
package session

import (
	"context"
	"errors"
)

// ErrNotFound возвращается, если для ключа нет сохранённого состояния.
var ErrNotFound = errors.New("session not found")

// Store сохраняет состояние диалога по ключу чата.
type Store[T any] interface {
	// Load возвращает ErrNotFound, если состояния нет.
	Load(ctx context.Context, key string) (T, error)
	Save(ctx context.Context, key string, value T) error
	Delete(ctx context.Context, key string) error
	// Count возвращает число сохранённых состояний.
	Count(ctx context.Context) (int, error)
}
