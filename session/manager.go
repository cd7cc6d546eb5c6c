package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"qrpass_bot/logging"
)

// UnlockFunc освобождает распределённую блокировку.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker синхронизирует обработку одного чата между репликами.
type DistributedLocker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}

// lockEntry хранит мьютекс чата и число его владельцев.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager сериализует обработку сообщений одного чата, не мешая остальным.
// Записи блокировок удаляются, когда у них не остаётся владельцев.
type Manager struct {
	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

type Option func(*Manager)

// WithLocker включает распределённую блокировку.
func WithLocker(locker DistributedLocker, ttl time.Duration) Option {
	return func(m *Manager) {
		m.locker = locker
		m.lockTTL = ttl
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[key]
	if !ok {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[key]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// Active возвращает число чатов, для которых сейчас выполняется или ждёт fn.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// WithLock выполняет fn, удерживая блокировку чата key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock, it will expire via TTL",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
