package web

import (
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JonMunkholm/siruta/internal/metrics"
)

func testCounter(m *metrics.Metrics, result string) float64 {
	return testutil.ToFloat64(m.LookupsTotal.WithLabelValues(result))
}

func testLoads(m *metrics.Metrics, result string) float64 {
	return testutil.ToFloat64(m.LoadsTotal.WithLabelValues(result))
}
