package metrics_test

import (
	"testing"

	"github.com/Syfaro/mcapi/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestObserveRefresh_OnlineIncrementsServerOnline(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveRefresh("ping", 0.02, true)

	metric := &dto.Metric{}
	require.NoError(t, m.ServerOnline.WithLabelValues("ping").Write(metric))
	require.Equal(t, float64(1), metric.GetCounter().GetValue())
}

func TestObserveRefresh_OfflineIncrementsServerOffline(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveRefresh("query", 0.02, false)

	metric := &dto.Metric{}
	require.NoError(t, m.ServerOffline.WithLabelValues("query").Write(metric))
	require.Equal(t, float64(1), metric.GetCounter().GetValue())
}

func TestObserveRequest_RecordsHistogramSample(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveRequest("ping", 0.05)

	metric := &dto.Metric{}
	require.NoError(t, m.RequestDuration.WithLabelValues("ping").Write(metric))
	require.Equal(t, uint64(1), metric.GetHistogram().GetSampleCount())
}
