package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveUpstream(t *testing.T) {
	m := New()
	m.ObserveUpstream("player_profile", "200", 15*time.Millisecond)
	m.ObserveUpstream("player_profile", "200", 5*time.Millisecond)
	m.ObserveUpstream("player_profile", "404", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.upstreamTotal.WithLabelValues("player_profile", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamTotal.WithLabelValues("player_profile", "404")))
}

func TestObserveCall(t *testing.T) {
	m := New()
	m.ObserveCall("tool", "get_titled_players", nil)
	m.ObserveCall("tool", "get_titled_players", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.callsTotal.WithLabelValues("tool", "get_titled_players", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.callsTotal.WithLabelValues("tool", "get_titled_players", "error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveUpstream("x", "200", time.Second)
		m.ObserveCall("tool", "x", nil)
	})
}

func TestHandlerServesText(t *testing.T) {
	m := New()
	m.ObserveCall("resource", "chess://player/{username}", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "chess_mcp_calls_total")
}
