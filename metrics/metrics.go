package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics счётчики Prometheus для бота. Все методы безопасны для nil.
type Metrics struct {
	Messages        *prometheus.CounterVec
	Registrations   prometheus.Counter
	Authentications *prometheus.CounterVec
	CodesGenerated  prometheus.Counter
	Failures        *prometheus.CounterVec
}

// New создаёт и регистрирует метрики в reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Messages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qrbot_messages_total",
			Help: "Inbound messages by classified intent",
		}, []string{"intent"}),
		Registrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "qrbot_registrations_total",
			Help: "Completed registrations",
		}),
		Authentications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qrbot_authentications_total",
			Help: "Authentication attempts by result",
		}, []string{"result"}),
		CodesGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "qrbot_codes_generated_total",
			Help: "QR codes generated on request",
		}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qrbot_failures_total",
			Help: "Messages answered with a generic failure, by stage",
		}, []string{"stage"}),
	}
}

func (m *Metrics) IncMessage(intent string) {
	if m == nil {
		return
	}
	m.Messages.WithLabelValues(intent).Inc()
}

func (m *Metrics) IncRegistration() {
	if m == nil {
		return
	}
	m.Registrations.Inc()
}

// IncAuthentication result: "ok" или "not_found".
func (m *Metrics) IncAuthentication(result string) {
	if m == nil {
		return
	}
	m.Authentications.WithLabelValues(result).Inc()
}

func (m *Metrics) IncCodeGenerated() {
	if m == nil {
		return
	}
	m.CodesGenerated.Inc()
}

func (m *Metrics) IncFailure(stage string) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(stage).Inc()
}
