package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"qrpass_bot/logging"
)

// Counter источник числа объектов: хранилище записей или состояний диалога.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// DashboardStatus содержит краткую информацию о сервисе
type DashboardStatus struct {
	Uptime        string `json:"uptime"`
	Goroutines    int    `json:"goroutines"`
	Status        string `json:"status"`
	Conversations int    `json:"conversations"`
	InFlight      int    `json:"in_flight"`
	Records       int    `json:"records"`
}

// Dashboard отдаёт статус бота по HTTP.
type Dashboard struct {
	startedAt time.Time
	records   Counter
	states    Counter
	inFlight  func() int
	logger    *slog.Logger
}

// New создаёт Dashboard. inFlight может быть nil.
func New(records, states Counter, inFlight func() int, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dashboard{
		startedAt: time.Now(),
		records:   records,
		states:    states,
		inFlight:  inFlight,
		logger:    logger,
	}
}

// Handler возвращает текущий статус сервиса. Если хранилище недоступно,
// статус "degraded" и код 503.
func (d *Dashboard) Handler(w http.ResponseWriter, r *http.Request) {
	status := DashboardStatus{
		Uptime:     time.Since(d.startedAt).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
		Status:     "ok",
	}
	if d.inFlight != nil {
		status.InFlight = d.inFlight()
	}

	code := http.StatusOK
	if n, err := d.records.Count(r.Context()); err != nil {
		d.logger.Warn("failed to count records", "err", err)
		status.Status, code = "degraded", http.StatusServiceUnavailable
	} else {
		status.Records = n
	}
	if n, err := d.states.Count(r.Context()); err != nil {
		d.logger.Warn("failed to count conversations", "err", err)
		status.Status, code = "degraded", http.StatusServiceUnavailable
	} else {
		status.Conversations = n
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		d.logger.Warn("failed to write status", "err", err)
	}
}
