package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncMessage("start")
	m.IncMessage("start")
	m.IncRegistration()
	m.IncAuthentication("ok")
	m.IncAuthentication("not_found")
	m.IncCodeGenerated()
	m.IncFailure("deliver")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Messages.WithLabelValues("start")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Registrations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Authentications.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Authentications.WithLabelValues("not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CodesGenerated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Failures.WithLabelValues("deliver")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncMessage("text")
		m.IncRegistration()
		m.IncAuthentication("ok")
		m.IncCodeGenerated()
		m.IncFailure("step")
	})
}
