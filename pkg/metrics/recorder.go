// Package metrics exposes Prometheus collectors for diagnostic runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/helmcode/wifi-doctor/pkg/model"
)

const namespace = "wifi_doctor"

const engineSubsystem = "engine"

// Result labels for AnalysesTotal.
const (
	ResultOK               = "ok"
	ResultMissingTelemetry = "missing_telemetry"
	ResultInvalidTelemetry = "invalid_telemetry"
)

// Recorder holds the engine collectors. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	// AnalysesTotal counts Analyze calls.
	// Labels: result (ok, missing_telemetry, invalid_telemetry)
	AnalysesTotal *prometheus.CounterVec

	// PrimaryBottleneckTotal counts selected primary bottlenecks.
	// Labels: type, severity
	PrimaryBottleneckTotal *prometheus.CounterVec

	// DegradedTotal counts categories that could not be fully computed.
	// Labels: category
	DegradedTotal *prometheus.CounterVec

	HealthScore prometheus.Histogram

	DurationSeconds prometheus.Histogram
}

// NewRecorder registers the collectors on reg. Pass
// prometheus.DefaultRegisterer to expose them on the default /metrics
// handler, or a fresh registry in tests.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		HealthScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: engineSubsystem,
			Name:      "health_score",
			Help:      "Distribution of reported health scores",
			Buckets:   []float64{10, 25, 40, 55, 65, 75, 85, 95, 100},
		}),
		DurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: engineSubsystem,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent producing one diagnostic report",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		AnalysesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: engineSubsystem,
			Name:      "analyses_total",
			Help:      "Total diagnostic analyses by result",
		}, []string{"result"}),
		PrimaryBottleneckTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: engineSubsystem,
			Name:      "primary_bottleneck_total",
			Help:      "Primary bottlenecks selected by type and severity",
		}, []string{"type", "severity"}),
		DegradedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: engineSubsystem,
			Name:      "degraded_categories_total",
			Help:      "Categories reported with a degraded computation",
		}, []string{"category"}),
	}
}

// RecordFailure counts an analysis that produced no report.
func (r *Recorder) RecordFailure(result string) {
	if r == nil {
		return
	}
	r.AnalysesTotal.WithLabelValues(result).Inc()
}

// RecordReport counts a successful analysis and its outcome.
func (r *Recorder) RecordReport(report *model.DiagnosticReport, elapsed time.Duration) {
	if r == nil || report == nil {
		return
	}
	r.AnalysesTotal.WithLabelValues(ResultOK).Inc()
	pb := report.Summary.PrimaryBottleneck
	r.PrimaryBottleneckTotal.WithLabelValues(string(pb.Type), string(pb.Severity)).Inc()
	for _, v := range report.Verdicts() {
		if v.Assessment.Degraded {
			r.DegradedTotal.WithLabelValues(string(v.Type)).Inc()
		}
	}
	r.HealthScore.Observe(float64(report.Summary.Score))
	r.DurationSeconds.Observe(elapsed.Seconds())
}
