package telegram

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"qrpass_bot/dialog"
	"qrpass_bot/logging"
)

// Poller читает обновления и передаёт текстовые сообщения в DialogManager
// по одному, в порядке поступления.
type Poller struct {
	manager dialog.DialogManager
	logger  *slog.Logger
}

func NewPoller(manager dialog.DialogManager, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Poller{manager: manager, logger: logger}
}

// Run обрабатывает updates, пока канал не закрыт или не отменён ctx.
func (p *Poller) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			p.handle(ctx, update)
		}
	}
}

func (p *Poller) handle(ctx context.Context, update tgbotapi.Update) {
	msg, ok := ToMessage(update)
	if !ok {
		return
	}
	if err := p.manager.HandleMessage(ctx, msg); err != nil {
		p.logger.Warn("message handling failed", "chat_id", msg.ChatID, "update_id", update.UpdateID, "err", err)
	}
}

// ToMessage извлекает сообщение чата из обновления. Сообщения без текста
// (стикеры, фото) передаются с пустым текстом, чтобы пользователь получил ответ.
func ToMessage(update tgbotapi.Update) (dialog.Message, bool) {
	if update.Message == nil || update.Message.Chat == nil {
		return dialog.Message{}, false
	}
	return dialog.Message{ChatID: update.Message.Chat.ID, Text: update.Message.Text}, true
}

// Listen запускает long polling на bot и обрабатывает обновления до отмены ctx.
func Listen(ctx context.Context, bot *tgbotapi.BotAPI, manager dialog.DialogManager, logger *slog.Logger) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)
	defer bot.StopReceivingUpdates()

	return NewPoller(manager, logger).Run(ctx, updates)
}
