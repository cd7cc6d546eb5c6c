package storage

import (
	"context"
	"errors"
	"sync"
)

// MemoryStore хранит записи в памяти процесса. Потокобезопасен.
type MemoryStore struct {
	mu         sync.RWMutex
	nextID     int64
	byChat     map[int64]*IdentityRecord
	byDocument map[string]*IdentityRecord
}

// Ensure MemoryStore implements RecordStore.
var _ RecordStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byChat:     make(map[int64]*IdentityRecord),
		byDocument: make(map[string]*IdentityRecord),
	}
}

func (s *MemoryStore) Init(context.Context) error { return nil }

func (s *MemoryStore) FindByChat(_ context.Context, chatID int64) (*IdentityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byChat[chatID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *MemoryStore) FindByDocument(_ context.Context, documentNumber string) (*IdentityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byDocument[documentNumber]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *MemoryStore) Exists(ctx context.Context, chatID int64) (bool, error) {
	return exists(s.FindByChat(ctx, chatID))
}

func (s *MemoryStore) DocumentTaken(ctx context.Context, documentNumber string) (bool, error) {
	return exists(s.FindByDocument(ctx, documentNumber))
}

// Insert проверяет оба ключа и пишет под одной блокировкой.
func (s *MemoryStore) Insert(_ context.Context, record *IdentityRecord) error {
	if record == nil {
		return errors.New("record is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byDocument[record.DocumentNumber]; ok {
		return ErrDocumentTaken
	}
	if _, ok := s.byChat[record.ChatID]; ok {
		return ErrAlreadyRegistered
	}

	s.nextID++
	record.ID = s.nextID
	stored := *record
	s.byChat[stored.ChatID] = &stored
	s.byDocument[stored.DocumentNumber] = &stored
	return nil
}

func (s *MemoryStore) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byChat), nil
}
