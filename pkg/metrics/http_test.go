package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe(http.MethodGet, "/products/export/", http.StatusOK, 12*time.Millisecond)
	m.Observe(http.MethodGet, "/products/export/", http.StatusOK, 7*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var counter *dto.MetricFamily
	for _, fam := range families {
		if fam.GetName() == "http_requests_total" {
			counter = fam
		}
	}
	require.NotNil(t, counter)
	require.Len(t, counter.GetMetric(), 1)
	assert.Equal(t, float64(2), counter.GetMetric()[0].GetCounter().GetValue())
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewHTTPMetrics(nil)
	assert.NotPanics(t, func() {
		m.Observe(http.MethodPost, "/orders/", http.StatusCreated, time.Millisecond)
	})
}
