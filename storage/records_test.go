package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
)

// RecordStoreSuite проверяет контракт RecordStore; один набор тестов
// прогоняется для каждой реализации.
type RecordStoreSuite struct {
	suite.Suite
	newStore func(t *testing.T) RecordStore
	store    RecordStore
	ctx      context.Context
}

func (s *RecordStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore(s.T())
	s.Require().NoError(s.store.Init(s.ctx))
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &RecordStoreSuite{newStore: func(*testing.T) RecordStore {
		return NewMemoryStore()
	}})
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, &RecordStoreSuite{newStore: func(t *testing.T) RecordStore {
		store, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "users.db"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		return store
	}})
}

func newRecord(chatID int64, document string) *IdentityRecord {
	return &IdentityRecord{
		ChatID:         chatID,
		GivenName:      "Ivan",
		FamilyName:     "Petrov",
		Patronymic:     "Ivanovich",
		DocumentNumber: document,
	}
}

func (s *RecordStoreSuite) TestInitIsIdempotent() {
	s.Require().NoError(s.store.Init(s.ctx))
	s.Require().NoError(s.store.Init(s.ctx))
}

func (s *RecordStoreSuite) TestRoundTrip() {
	rec := newRecord(100, "123456")
	s.Require().NoError(s.store.Insert(s.ctx, rec))
	s.NotZero(rec.ID)

	byChat, err := s.store.FindByChat(s.ctx, 100)
	s.Require().NoError(err)
	s.Equal(rec, byChat)

	byDoc, err := s.store.FindByDocument(s.ctx, "123456")
	s.Require().NoError(err)
	s.Equal(rec, byDoc)

	s.Equal("Ivan Petrov Ivanovich | 123456", byDoc.Payload())
}

func (s *RecordStoreSuite) TestLookupMisses() {
	_, err := s.store.FindByChat(s.ctx, 1)
	s.Require().ErrorIs(err, ErrNotFound)

	_, err = s.store.FindByDocument(s.ctx, "000")
	s.Require().ErrorIs(err, ErrNotFound)

	ok, err := s.store.Exists(s.ctx, 1)
	s.Require().NoError(err)
	s.False(ok)

	taken, err := s.store.DocumentTaken(s.ctx, "000")
	s.Require().NoError(err)
	s.False(taken)
}

func (s *RecordStoreSuite) TestExistenceChecks() {
	s.Require().NoError(s.store.Insert(s.ctx, newRecord(7, "777")))

	ok, err := s.store.Exists(s.ctx, 7)
	s.Require().NoError(err)
	s.True(ok)

	taken, err := s.store.DocumentTaken(s.ctx, "777")
	s.Require().NoError(err)
	s.True(taken)
}

func (s *RecordStoreSuite) TestUniqueness() {
	s.Require().NoError(s.store.Insert(s.ctx, newRecord(1, "123456")))

	s.Run("rejects second record for the same document", func() {
		err := s.store.Insert(s.ctx, newRecord(2, "123456"))
		s.Require().ErrorIs(err, ErrDocumentTaken)
		s.ErrorIs(err, ErrConflict)
	})

	s.Run("rejects second record for the same chat", func() {
		err := s.store.Insert(s.ctx, newRecord(1, "654321"))
		s.Require().ErrorIs(err, ErrAlreadyRegistered)
		s.ErrorIs(err, ErrConflict)
	})

	s.Run("document conflict wins when both keys collide", func() {
		err := s.store.Insert(s.ctx, newRecord(1, "123456"))
		s.Require().ErrorIs(err, ErrDocumentTaken)
	})

	s.Run("existing record is untouched", func() {
		rec, err := s.store.FindByChat(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal("123456", rec.DocumentNumber)

		n, err := s.store.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, n)
	})
}

func (s *RecordStoreSuite) TestConcurrentInsertSameDocument() {
	const writers = 8

	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.store.Insert(s.ctx, newRecord(int64(1000+i), "999999"))
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		s.ErrorIs(err, ErrDocumentTaken)
	}
	s.Equal(1, successes)

	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}
