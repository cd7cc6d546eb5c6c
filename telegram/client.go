// Package telegram связывает диалог с Telegram Bot API: отправка ответов
// и получение обновлений long polling'ом.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"qrpass_bot/dialog"
)

// Sender часть *tgbotapi.BotAPI, нужная для отправки.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Encoder рендерит payload в PNG.
type Encoder interface {
	PNG(payload string) ([]byte, error)
}

// Client реализует dialog.Notifier.
type Client struct {
	sender  Sender
	encoder Encoder
}

// Ensure Client implements dialog.Notifier.
var _ dialog.Notifier = (*Client)(nil)

func NewClient(sender Sender, encoder Encoder) *Client {
	return &Client{sender: sender, encoder: encoder}
}

// menuKeyboard клавиатура из трёх кнопок меню в один ряд.
func menuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	buttons := make([]tgbotapi.KeyboardButton, 0, len(dialog.MenuLabels))
	for _, label := range dialog.MenuLabels {
		buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
	}
	kb := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(buttons...))
	kb.ResizeKeyboard = true
	return kb
}

func (c *Client) SendText(_ context.Context, chatID int64, text string, withMenu bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if withMenu {
		msg.ReplyMarkup = menuKeyboard()
	}
	if _, err := c.sender.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (c *Client) SendEncodedRecord(_ context.Context, chatID int64, payload, caption string) error {
	png, err := c.encoder.PNG(payload)
	if err != nil {
		return err
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "qr.png", Bytes: png})
	photo.Caption = caption
	if _, err := c.sender.Send(photo); err != nil {
		return fmt.Errorf("send photo: %w", err)
	}
	return nil
}
