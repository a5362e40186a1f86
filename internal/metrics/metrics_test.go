package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbridge/feedbridge/internal/metrics"
	"github.com/feedbridge/feedbridge/pkg/domain"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserveRequest(t *testing.T) {
	m := metrics.New()
	m.ObserveRequest(domain.StatusSuccess, 2*time.Second)
	m.ObserveRequest(domain.StatusSuccess, 4*time.Second)
	m.ObserveRequest(domain.StatusTimeout, 10*time.Second)

	body := scrape(t, m)
	assert.Contains(t, body, `feedbridge_requests_total{status="success"} 2`)
	assert.Contains(t, body, `feedbridge_requests_total{status="timeout"} 1`)
	assert.Contains(t, body, "feedbridge_request_duration_seconds_count 3")
}
