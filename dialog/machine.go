package dialog

import (
	"context"
	"errors"
	"fmt"

	"qrpass_bot/storage"
)

// Имена доменных событий.
const (
	EventRegistered = "registration.completed"
	EventAuthOK     = "authentication.succeeded"
	EventAuthFailed = "authentication.failed"
	EventCodeIssued = "code.generated"
)

// Reply одно исходящее сообщение. Если Record задан, отправляется QR-код
// записи, а Text становится подписью к нему.
type Reply struct {
	Text     string
	WithMenu bool
	Record   *storage.IdentityRecord
}

// Outcome результат одного шага автомата.
type Outcome struct {
	Next    State
	Replies []Reply
	// Committed означает, что шаг записал данные в хранилище и новое
	// состояние нужно сохранить, даже если ответ не доставлен.
	Committed bool
	Events    []string
}

func reply(next State, text string) Outcome {
	return Outcome{Next: next, Replies: []Reply{{Text: text}}}
}

// Machine конечный автомат диалога. Сам состояние не хранит: получает
// текущее и возвращает следующее.
type Machine struct {
	records storage.RecordStore
}

func NewMachine(records storage.RecordStore) *Machine {
	return &Machine{records: records}
}

// Start сбрасывает диалог и показывает меню.
func (m *Machine) Start() Outcome {
	return Outcome{Next: Idle(), Replies: []Reply{{Text: msgMenu, WithMenu: true}}}
}

// Select обрабатывает нажатие кнопки меню. Незаконченный черновик
// при этом отбрасывается.
func (m *Machine) Select(ctx context.Context, chatID int64, option MenuOption) (Outcome, error) {
	switch option {
	case MenuRegister:
		return reply(awaitingGivenName(), msgAskGivenName), nil
	case MenuAuthenticate:
		return reply(awaitingAuthDocument(), msgAskAuthDoc), nil
	case MenuGenerateCode:
		return m.generateCode(ctx, chatID)
	default:
		return Outcome{}, fmt.Errorf("unknown menu option %d", option)
	}
}

func (m *Machine) generateCode(ctx context.Context, chatID int64) (Outcome, error) {
	rec, err := m.records.FindByChat(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		return reply(Idle(), msgRegisterFirst), nil
	}
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Next:    Idle(),
		Replies: []Reply{{Text: captionCode, Record: rec}},
		Events:  []string{EventCodeIssued},
	}, nil
}

// Input обрабатывает свободный текст в зависимости от текущего шага.
func (m *Machine) Input(ctx context.Context, chatID int64, state State, text string) (Outcome, error) {
	switch state.Phase {
	case PhaseIdle:
		return reply(state, msgSendStart), nil

	case PhaseAwaitingGivenName:
		if !IsAlphabetic(text) {
			return reply(state, msgBadGivenName), nil
		}
		return reply(state.withGivenName(text), msgAskFamilyName), nil

	case PhaseAwaitingFamilyName:
		if !IsAlphabetic(text) {
			return reply(state, msgBadFamilyName), nil
		}
		return reply(state.withFamilyName(text), msgAskPatronymic), nil

	case PhaseAwaitingPatronymic:
		if !IsAlphabetic(text) {
			return reply(state, msgBadPatronymic), nil
		}
		return reply(state.withPatronymic(text), msgAskDocument), nil

	case PhaseAwaitingDocumentNumber:
		return m.completeRegistration(ctx, chatID, state, text)

	case PhaseAwaitingAuthDocumentNumber:
		return m.authenticate(ctx, text)

	default:
		return Outcome{}, fmt.Errorf("unexpected phase %s", state.Phase)
	}
}

// completeRegistration проверяет номер документа в фиксированном порядке:
// формат, занятость номера, повторная регистрация чата. Затем вставляет запись.
func (m *Machine) completeRegistration(ctx context.Context, chatID int64, state State, document string) (Outcome, error) {
	if !IsNumericDocument(document) {
		return reply(state, msgBadDocument), nil
	}

	taken, err := m.records.DocumentTaken(ctx, document)
	if err != nil {
		return Outcome{}, err
	}
	if taken {
		return reply(state, msgDocumentTaken), nil
	}

	registered, err := m.records.Exists(ctx, chatID)
	if err != nil {
		return Outcome{}, err
	}
	if registered {
		return reply(Idle(), msgAlreadyRegistered), nil
	}

	rec := &storage.IdentityRecord{
		ChatID:         chatID,
		GivenName:      state.Draft.GivenName,
		FamilyName:     state.Draft.FamilyName,
		Patronymic:     state.Draft.Patronymic,
		DocumentNumber: document,
	}
	// Между проверками и вставкой другой чат мог занять номер:
	// окончательное решение принимает хранилище.
	switch err := m.records.Insert(ctx, rec); {
	case errors.Is(err, storage.ErrDocumentTaken):
		return reply(state, msgDocumentTaken), nil
	case errors.Is(err, storage.ErrAlreadyRegistered):
		return reply(Idle(), msgAlreadyRegistered), nil
	case err != nil:
		return Outcome{}, err
	}

	return Outcome{
		Next:      Idle(),
		Replies:   []Reply{{Text: msgRegistered}},
		Committed: true,
		Events:    []string{EventRegistered},
	}, nil
}

func (m *Machine) authenticate(ctx context.Context, document string) (Outcome, error) {
	rec, err := m.records.FindByDocument(ctx, document)
	if errors.Is(err, storage.ErrNotFound) {
		out := reply(Idle(), msgUserNotFound)
		out.Events = []string{EventAuthFailed}
		return out, nil
	}
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Next:    Idle(),
		Replies: []Reply{{Text: authCaption(rec.FullName(), rec.DocumentNumber), Record: rec}},
		Events:  []string{EventAuthOK},
	}, nil
}
