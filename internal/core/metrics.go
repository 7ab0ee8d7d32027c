package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricConversions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rdgupload_conversions_total",
			Help: "Conversions by output mode and result.",
		},
		[]string{"output", "result"},
	)

	metricRowsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rdgupload_rows_emitted_total",
			Help: "Rows written into generated artifacts.",
		},
		[]string{"output"},
	)

	metricConversionSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rdgupload_conversion_duration_seconds",
			Help:    "Time spent loading, filtering and serializing an upload.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"output"},
	)

	metricDownloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rdgupload_downloads_total",
			Help: "Download attempts by result.",
		},
		[]string{"result"},
	)

	metricPendingArtifacts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rdgupload_artifacts_pending",
		Help: "Artifacts stored and not yet downloaded.",
	})
)

// conversionResult is the "result" label for a conversion error.
func conversionResult(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
