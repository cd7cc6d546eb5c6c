package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCounter struct {
	n   int
	err error
}

func (c fixedCounter) Count(context.Context) (int, error) { return c.n, c.err }

func TestDashboard_Handler(t *testing.T) {
	d := New(fixedCounter{n: 3}, fixedCounter{n: 2}, func() int { return 1 }, nil)

	rec := httptest.NewRecorder()
	d.Handler(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status DashboardStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, 3, status.Records)
	assert.Equal(t, 2, status.Conversations)
	assert.Equal(t, 1, status.InFlight)
	assert.Positive(t, status.Goroutines)
}

func TestDashboard_Degraded(t *testing.T) {
	d := New(fixedCounter{err: errors.New("db down")}, fixedCounter{n: 5}, nil, nil)

	rec := httptest.NewRecorder()
	d.Handler(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var status DashboardStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, 5, status.Conversations)
}
