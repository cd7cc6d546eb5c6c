package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"qrpass_bot/dialog"
	"qrpass_bot/logging"
	"qrpass_bot/telegram"
)

// maxUpdateBytes ограничение размера тела webhook-запроса.
const maxUpdateBytes = 1 << 20

// TelegramHandler принимает обновления Telegram в режиме webhook
type TelegramHandler struct {
	manager dialog.DialogManager
	logger  *slog.Logger
}

func NewTelegramHandler(manager dialog.DialogManager, logger *slog.Logger) *TelegramHandler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &TelegramHandler{manager: manager, logger: logger}
}

// ServeHTTP всегда отвечает 200 на корректный update: ошибки обработки
// уже сообщены пользователю, повтор доставки от Telegram не нужен.
func (h *TelegramHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBytes)).Decode(&update); err != nil {
		h.logger.Warn("failed to decode telegram update", "err", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	msg, ok := telegram.ToMessage(update)
	if !ok {
		h.logger.Debug("update without chat message skipped", "update_id", update.UpdateID)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.manager.HandleMessage(r.Context(), msg); err != nil {
		h.logger.Warn("message handling failed", "chat_id", msg.ChatID, "update_id", update.UpdateID, "err", err)
	}
	w.WriteHeader(http.StatusOK)
}
