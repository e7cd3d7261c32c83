package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/wifi-doctor/pkg/model"
)

func newTestRecorder(t *testing.T) (*Recorder, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewRecorder(reg), reg
}

func TestNewRecorder_Registers(t *testing.T) {
	r, reg := newTestRecorder(t)
	require.NotNil(t, r)

	r.RecordFailure(ResultMissingTelemetry)

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "wifi_doctor_engine_analyses_total")
}

func TestNewRecorder_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg)

	assert.Panics(t, func() { NewRecorder(reg) })
}

func TestRecorder_RecordReport(t *testing.T) {
	r, _ := newTestRecorder(t)
	report := &model.DiagnosticReport{
		Summary: model.Summary{
			Score: 55,
			PrimaryBottleneck: model.PrimaryBottleneck{
				Type:     model.BottleneckSignal,
				Severity: model.SeverityHigh,
			},
		},
	}
	report.PhyVsReal.Degraded = true

	r.RecordReport(report, 2*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.AnalysesTotal.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.PrimaryBottleneckTotal.WithLabelValues("signal", "high")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.DegradedTotal.WithLabelValues("airtime")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.DegradedTotal.WithLabelValues("client")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.HealthScore))
}

func TestRecorder_RecordFailure(t *testing.T) {
	r, _ := newTestRecorder(t)

	r.RecordFailure(ResultInvalidTelemetry)
	r.RecordFailure(ResultInvalidTelemetry)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.AnalysesTotal.WithLabelValues(ResultInvalidTelemetry)))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.AnalysesTotal.WithLabelValues(ResultOK)))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.RecordFailure(ResultMissingTelemetry)
		r.RecordReport(&model.DiagnosticReport{}, time.Millisecond)
	})
}
