package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/limbo/habitboard/internal/metrics"
	"github.com/limbo/habitboard/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestCollectorCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)
	var _ session.MetricsRecorder = c

	c.RecordReload()
	c.RecordReload()
	c.RecordReloadFailure()
	c.RecordMutation("habits.create")
	c.RecordMutation("habits.create")
	c.RecordMutation("entries.toggle")
	c.RecordToggleConflict()

	assert.Equal(t, float64(2), counterValue(t, reg, "habitboard_reloads_total"))
	assert.Equal(t, float64(1), counterValue(t, reg, "habitboard_reload_failures_total"))
	assert.Equal(t, float64(3), counterValue(t, reg, "habitboard_mutations_total"))
	assert.Equal(t, float64(1), counterValue(t, reg, "habitboard_toggle_conflicts_total"))
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)
	c.RecordReload()
	c.RecordMutation("board.rename")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "habitboard_reloads_total"))
	assert.True(t, strings.Contains(string(body), "habitboard_mutations_total"))
}
