package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"qrpass_bot/logging"
	"qrpass_bot/metrics"
	"qrpass_bot/security"
	"qrpass_bot/session"
)

// Message входящее сообщение чата.
type Message struct {
	ChatID int64
	Text   string
}

// DialogManager описывает интерфейс управления диалогом
type DialogManager interface {
	HandleMessage(ctx context.Context, msg Message) error
}

// Notifier доставляет ответы в чат.
type Notifier interface {
	SendText(ctx context.Context, chatID int64, text string, withMenu bool) error
	// SendEncodedRecord отправляет payload в виде QR-кода с подписью caption.
	SendEncodedRecord(ctx context.Context, chatID int64, payload, caption string) error
}

// EventPublisher публикует доменные события. Ошибки публикации не влияют на диалог.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, chatID int64) error
}

// Dispatcher классифицирует сообщение и проводит его через автомат,
// держа блокировку чата на всё время шага.
type Dispatcher struct {
	machine  *Machine
	states   session.Store[State]
	sessions *session.Manager
	notifier Notifier

	events       EventPublisher
	metrics      *metrics.Metrics
	logger       *slog.Logger
	maxInputSize int
}

// Ensure Dispatcher implements DialogManager.
var _ DialogManager = (*Dispatcher)(nil)

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func WithEventPublisher(p EventPublisher) Option {
	return func(d *Dispatcher) {
		d.events = p
	}
}

func WithMaxInputSize(n int) Option {
	return func(d *Dispatcher) {
		d.maxInputSize = n
	}
}

// NewManager фабрика для создания диспетчера
func NewManager(machine *Machine, states session.Store[State], sessions *session.Manager, notifier Notifier, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		machine:      machine,
		states:       states,
		sessions:     sessions,
		notifier:     notifier,
		logger:       logging.NewNop(),
		maxInputSize: security.DefaultMaxInputSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func stateKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// HandleMessage обрабатывает одно входящее сообщение. При сбое хранилища или
// транспорта пользователь получает общее сообщение об ошибке, шаг диалога не
// меняется, а ошибка возвращается вызывающему.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg Message) error {
	text, err := security.SanitizeText(msg.Text, d.maxInputSize)
	if err != nil {
		d.logger.Info("rejected inbound message", "chat_id", msg.ChatID, "err", err)
		return d.notifier.SendText(ctx, msg.ChatID, msgInputTooLarge, false)
	}

	key := stateKey(msg.ChatID)
	return d.sessions.WithLock(ctx, key, func(ctx context.Context) error {
		intent := Classify(text)
		d.metrics.IncMessage(intent.Kind.String())

		// Команда и меню не зависят от текущего шага, поэтому работают,
		// даже если сохранённое состояние не читается.
		state, err := d.loadState(ctx, key)
		if err != nil {
			if intent.Kind == IntentText {
				return d.fail(ctx, msg.ChatID, "load_state", err)
			}
			d.logger.Warn("ignoring unreadable dialog state", "chat_id", msg.ChatID, "err", err)
			state = Idle()
		}
		d.logger.Debug("inbound message",
			"chat_id", msg.ChatID,
			"intent", intent.Kind.String(),
			"phase", state.Phase.String(),
		)

		out, err := d.step(ctx, msg.ChatID, state, intent)
		if err != nil {
			return d.fail(ctx, msg.ChatID, "step", err)
		}
		return d.apply(ctx, msg.ChatID, key, out)
	})
}

func (d *Dispatcher) step(ctx context.Context, chatID int64, state State, intent Intent) (Outcome, error) {
	switch intent.Kind {
	case IntentStart:
		return d.machine.Start(), nil
	case IntentMenu:
		return d.machine.Select(ctx, chatID, intent.Option)
	case IntentText:
		return d.machine.Input(ctx, chatID, state, intent.Text)
	default:
		return Outcome{}, fmt.Errorf("unknown intent %d", intent.Kind)
	}
}

// apply доставляет ответы и сохраняет новое состояние. Шаг без записи в
// хранилище сохраняется только после успешной доставки, чтобы повтор того же
// сообщения снова попал на тот же шаг. Зафиксированная регистрация сохраняет
// состояние сразу.
func (d *Dispatcher) apply(ctx context.Context, chatID int64, key string, out Outcome) error {
	if out.Committed {
		if err := d.saveState(ctx, key, out.Next); err != nil {
			d.logger.Error("failed to reset state after registration", "chat_id", chatID, "err", err)
		}
		d.record(ctx, chatID, out.Events)
		if err := d.deliver(ctx, chatID, out.Replies); err != nil {
			return d.fail(ctx, chatID, "deliver", err)
		}
		return nil
	}

	if err := d.deliver(ctx, chatID, out.Replies); err != nil {
		return d.fail(ctx, chatID, "deliver", err)
	}
	if err := d.saveState(ctx, key, out.Next); err != nil {
		return d.fail(ctx, chatID, "save_state", err)
	}
	d.record(ctx, chatID, out.Events)
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, chatID int64, replies []Reply) error {
	for _, r := range replies {
		var err error
		if r.Record != nil {
			err = d.notifier.SendEncodedRecord(ctx, chatID, r.Record.Payload(), r.Text)
		} else {
			err = d.notifier.SendText(ctx, chatID, r.Text, r.WithMenu)
		}
		if err != nil {
			return fmt.Errorf("send reply: %w", err)
		}
	}
	return nil
}

// record обновляет метрики и публикует события шага.
func (d *Dispatcher) record(ctx context.Context, chatID int64, events []string) {
	for _, ev := range events {
		switch ev {
		case EventRegistered:
			d.metrics.IncRegistration()
		case EventAuthOK:
			d.metrics.IncAuthentication("ok")
		case EventAuthFailed:
			d.metrics.IncAuthentication("not_found")
		case EventCodeIssued:
			d.metrics.IncCodeGenerated()
		}
		d.logger.Info("dialog event", "event", ev, "chat_id", chatID)

		if d.events == nil {
			continue
		}
		if err := d.events.Publish(ctx, ev, chatID); err != nil {
			d.logger.Warn("failed to publish event", "event", ev, "chat_id", chatID, "err", err)
		}
	}
}

// loadState возвращает Idle для нового чата и для состояния, которое не
// прошло проверку согласованности.
func (d *Dispatcher) loadState(ctx context.Context, key string) (State, error) {
	state, err := d.states.Load(ctx, key)
	if errors.Is(err, session.ErrNotFound) {
		return Idle(), nil
	}
	if err != nil {
		return State{}, err
	}
	if !state.Valid() {
		d.logger.Warn("discarding inconsistent dialog state", "key", key, "phase", state.Phase.String())
		return Idle(), nil
	}
	return state, nil
}

// saveState удаляет состояние при возврате в Idle.
func (d *Dispatcher) saveState(ctx context.Context, key string, state State) error {
	if state.Phase == PhaseIdle {
		return d.states.Delete(ctx, key)
	}
	return d.states.Save(ctx, key, state)
}

func (d *Dispatcher) fail(ctx context.Context, chatID int64, stage string, cause error) error {
	d.metrics.IncFailure(stage)
	d.logger.Error("failed to handle message", "chat_id", chatID, "stage", stage, "err", cause)

	if err := d.notifier.SendText(ctx, chatID, msgGenericFail, false); err != nil {
		d.logger.Error("failed to send failure notice", "chat_id", chatID, "err", err)
	}
	return fmt.Errorf("%s: %w", stage, cause)
}
