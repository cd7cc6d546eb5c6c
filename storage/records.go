package storage

import (
	"context"
	"errors"
	"fmt"
)

// Ошибки хранилища. ErrDocumentTaken и ErrAlreadyRegistered оборачивают ErrConflict,
// поэтому errors.Is(err, ErrConflict) ловит любое нарушение уникальности.
var (
	ErrNotFound          = errors.New("record not found")
	ErrConflict          = errors.New("constraint violation")
	ErrDocumentTaken     = fmt.Errorf("%w: document number already registered", ErrConflict)
	ErrAlreadyRegistered = fmt.Errorf("%w: chat already registered", ErrConflict)
)

// IdentityRecord хранит данные одного зарегистрированного чата.
// Запись создаётся один раз и больше не меняется.
type IdentityRecord struct {
	ID             int64
	ChatID         int64
	GivenName      string
	FamilyName     string
	Patronymic     string
	DocumentNumber string
}

// FullName возвращает "Имя Фамилия Отчество".
func (r *IdentityRecord) FullName() string {
	return r.GivenName + " " + r.FamilyName + " " + r.Patronymic
}

// Payload возвращает текст, который кодируется в QR-код.
func (r *IdentityRecord) Payload() string {
	return r.FullName() + " | " + r.DocumentNumber
}

// RecordStore описывает хранилище записей.
// Уникальность chat_id и document_number обеспечивает само хранилище.
type RecordStore interface {
	Init(ctx context.Context) error
	FindByChat(ctx context.Context, chatID int64) (*IdentityRecord, error)
	FindByDocument(ctx context.Context, documentNumber string) (*IdentityRecord, error)
	Exists(ctx context.Context, chatID int64) (bool, error)
	DocumentTaken(ctx context.Context, documentNumber string) (bool, error)
	Insert(ctx context.Context, record *IdentityRecord) error
	Count(ctx context.Context) (int, error)
}

// exists сводит поиск к булеву ответу: ErrNotFound это не ошибка.
func exists(_ *IdentityRecord, err error) (bool, error) {
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
