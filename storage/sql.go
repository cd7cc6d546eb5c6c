package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Dialect отличает синтаксис SQLite от PostgreSQL там, где он расходится.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

const recordColumns = `id, chat_id, given_name, family_name, patronymic, document_number`

// SQLStore реализует RecordStore поверх database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// Ensure SQLStore implements RecordStore.
var _ RecordStore = (*SQLStore)(nil)

// NewSQLStore оборачивает уже открытое соединение.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// DB возвращает соединение (для закрытия и health-check).
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Close закрывает соединение с базой.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind переписывает плейсхолдеры "?" в "$n" для PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) schema() string {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	chatColumn := "chat_id INTEGER NOT NULL UNIQUE"
	if s.dialect == DialectPostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
		chatColumn = "chat_id BIGINT NOT NULL UNIQUE"
	}
	return `CREATE TABLE IF NOT EXISTS identity_records (
		` + idColumn + `,
		` + chatColumn + `,
		given_name TEXT NOT NULL,
		family_name TEXT NOT NULL,
		patronymic TEXT NOT NULL,
		document_number TEXT NOT NULL UNIQUE
	)`
}

// Init создаёт таблицу, если её ещё нет. Безопасно вызывать при каждом старте.
func (s *SQLStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.schema()); err != nil {
		return fmt.Errorf("create identity_records: %w", err)
	}
	return nil
}

func scanRecord(scanner interface{ Scan(...any) error }) (*IdentityRecord, error) {
	var r IdentityRecord
	err := scanner.Scan(&r.ID, &r.ChatID, &r.GivenName, &r.FamilyName, &r.Patronymic, &r.DocumentNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// FindByChat ищет запись по идентификатору чата.
func (s *SQLStore) FindByChat(ctx context.Context, chatID int64) (*IdentityRecord, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+recordColumns+` FROM identity_records WHERE chat_id = ?`), chatID)
	r, err := scanRecord(row)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find record by chat: %w", err)
	}
	return r, err
}

// FindByDocument ищет запись по номеру документа.
func (s *SQLStore) FindByDocument(ctx context.Context, documentNumber string) (*IdentityRecord, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+recordColumns+` FROM identity_records WHERE document_number = ?`), documentNumber)
	r, err := scanRecord(row)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find record by document: %w", err)
	}
	return r, err
}

func (s *SQLStore) Exists(ctx context.Context, chatID int64) (bool, error) {
	return exists(s.FindByChat(ctx, chatID))
}

func (s *SQLStore) DocumentTaken(ctx context.Context, documentNumber string) (bool, error) {
	return exists(s.FindByDocument(ctx, documentNumber))
}

// Insert атомарно добавляет запись. Проверка уникальности и запись выполняются
// одним INSERT ... ON CONFLICT DO NOTHING, поэтому гонка двух чатов за один
// номер документа заканчивается ровно одной успешной вставкой.
func (s *SQLStore) Insert(ctx context.Context, record *IdentityRecord) error {
	if record == nil {
		return errors.New("record is required")
	}
	query := s.rebind(`INSERT INTO identity_records
		(chat_id, given_name, family_name, patronymic, document_number)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
		RETURNING id`)

	err := s.db.QueryRowContext(ctx, query,
		record.ChatID, record.GivenName, record.FamilyName, record.Patronymic, record.DocumentNumber,
	).Scan(&record.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("insert record: %w", err)
	}

	// Ни одной строки не вставлено: выясняем, какое ограничение сработало.
	taken, err := s.DocumentTaken(ctx, record.DocumentNumber)
	if err != nil {
		return err
	}
	if taken {
		return ErrDocumentTaken
	}
	return ErrAlreadyRegistered
}

// Count возвращает количество записей.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM identity_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}
