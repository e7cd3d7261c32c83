// Package engine turns a telemetry snapshot into a diagnostic report: it
// runs the five category analyzers, selects the primary bottleneck, scores
// the result and writes the summary.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/helmcode/wifi-doctor/pkg/analyzer"
	"github.com/helmcode/wifi-doctor/pkg/bottleneck"
	"github.com/helmcode/wifi-doctor/pkg/config"
	"github.com/helmcode/wifi-doctor/pkg/logging"
	"github.com/helmcode/wifi-doctor/pkg/metrics"
	"github.com/helmcode/wifi-doctor/pkg/model"
	"github.com/helmcode/wifi-doctor/pkg/score"
)

// Engine is stateless between calls and safe for concurrent use.
type Engine struct {
	thresholds config.Thresholds
	logger     *slog.Logger
	recorder   *metrics.Recorder
	concurrent bool
}

type Option func(*Engine)

func WithThresholds(th config.Thresholds) Option {
	return func(e *Engine) { e.thresholds = th }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithRecorder(r *metrics.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithConcurrency runs the analyzers on separate goroutines. Reports are
// identical either way.
func WithConcurrency(on bool) Option {
	return func(e *Engine) { e.concurrent = on }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		thresholds: config.Default(),
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Thresholds() config.Thresholds {
	return e.thresholds
}

// Analyze runs an engine with default thresholds.
func Analyze(snap *model.TelemetrySnapshot) (*model.DiagnosticReport, error) {
	return New().Analyze(snap)
}

// Analyze diagnoses one scope. It fails with *MissingTelemetryError when a
// required section is absent and with *InvalidTelemetryError when a value
// is out of range; it never returns a partial report.
func (e *Engine) Analyze(snap *model.TelemetrySnapshot) (*model.DiagnosticReport, error) {
	start := time.Now()
	if err := check(snap); err != nil {
		e.recordFailure(err)
		return nil, err
	}

	th := e.thresholds
	lc := analyzer.ObservedLink(snap.Radio, snap.Capabilities)
	report := &model.DiagnosticReport{Scope: snap.Scope}

	tasks := []func() error{
		func() error {
			report.LinkQuality = analyzer.LinkQuality(snap.Client, lc, th.Link)
			return nil
		},
		func() error {
			report.PhyVsReal = analyzer.PhyVsReal(snap.Client, snap.Radio, lc, th.Airtime)
			return nil
		},
		func() error {
			report.Interference = analyzer.Interference(snap.Client, snap.Interference, th.Interference)
			return nil
		},
		func() error {
			report.Backhaul = analyzer.Backhaul(snap.Backhaul, th.Backhaul)
			return nil
		},
		func() error {
			report.ClientLimitations = analyzer.ClientLimitations(snap.Capabilities, snap.Radio, th.Client)
			return nil
		},
	}
	if err := e.run(tasks); err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	verdicts := report.Verdicts()
	report.Summary.PrimaryBottleneck = bottleneck.Select(verdicts)
	report.Summary.Score, report.Summary.Level = score.Compute(verdicts, th.Score)
	report.Summary.QuickSignals = quickSignals(report)
	report.Summary.Text = summaryText(report, verdicts)

	for _, v := range verdicts {
		if v.Assessment.Degraded {
			e.logger.Warn("category degraded", "category", v.Type, "diagnosis", v.Assessment.Diagnosis)
		}
		e.logger.Debug("category verdict",
			"category", v.Type,
			"status", v.Assessment.Status,
			"severity", v.Assessment.Severity,
			"bottleneck", v.Assessment.IsBottleneck)
	}
	e.logger.Info("analysis complete",
		"scope", snap.Scope.ID,
		"score", report.Summary.Score,
		"level", report.Summary.Level,
		"primary", report.Summary.PrimaryBottleneck.Type)
	e.recorder.RecordReport(report, time.Since(start))
	return report, nil
}

// run executes the analyzer tasks, on an errgroup when concurrency is on.
// Each task writes its own report field.
func (e *Engine) run(tasks []func() error) error {
	if !e.concurrent {
		for _, task := range tasks {
			if err := task(); err != nil {
				return err
			}
		}
		return nil
	}
	var g errgroup.Group
	for _, task := range tasks {
		g.Go(task)
	}
	return g.Wait()
}

func (e *Engine) recordFailure(err error) {
	result := metrics.ResultInvalidTelemetry
	if errors.Is(err, ErrMissingTelemetry) {
		result = metrics.ResultMissingTelemetry
	}
	e.logger.Debug("analysis rejected", "error", err)
	e.recorder.RecordFailure(result)
}

// quickSignals projects four analyzer statuses into the summary badges.
func quickSignals(r *model.DiagnosticReport) model.QuickSignals {
	backhaul := fmt.Sprintf("Peak %.0f%% of %.0f Mbps", r.Backhaul.PeakUtilization, r.Backhaul.CapacityMbps)
	if r.Backhaul.Degraded {
		backhaul = fmt.Sprintf("Peak %.0f Mbps, capacity unknown", r.Backhaul.PeakMbps)
	}
	return model.QuickSignals{
		Signal: model.QuickSignal{
			Status: r.LinkQuality.Status,
			Detail: fmt.Sprintf("RSSI %.0f dBm, SNR %.0f dB", r.LinkQuality.RSSI, r.LinkQuality.SNR),
		},
		WifiLoad: model.QuickSignal{
			Status: r.PhyVsReal.Status,
			Detail: fmt.Sprintf("Airtime %.0f%% across %d clients", r.PhyVsReal.AirtimeUtilization, r.PhyVsReal.ClientsConnected),
		},
		Retries: model.QuickSignal{
			Status: r.Interference.Status,
			Detail: fmt.Sprintf("Retries %.1f%%, failures %.1f%%", r.Interference.RetryRate, r.Interference.FailureRate),
		},
		Backhaul: model.QuickSignal{
			Status: r.Backhaul.Status,
			Detail: backhaul,
		},
	}
}

func summaryText(r *model.DiagnosticReport, verdicts []model.CategoryVerdict) string {
	s := r.Summary
	var b strings.Builder
	fmt.Fprintf(&b, "Overall Wi-Fi health is %s (score %d/100).", s.Level, s.Score)

	pb := s.PrimaryBottleneck
	if pb.Type == model.BottleneckUnknown {
		b.WriteString(" No bottleneck detected; every category is within its thresholds.")
	} else {
		fmt.Fprintf(&b, " The primary bottleneck is %s (%s severity): %s", pb.Type, pb.Severity, pb.Description)
	}

	var others, degraded []string
	for _, v := range verdicts {
		if v.Assessment.IsBottleneck && v.Type != pb.Type {
			others = append(others, string(v.Type))
		}
		if v.Assessment.Degraded {
			degraded = append(degraded, string(v.Type))
		}
	}
	if len(others) > 0 {
		fmt.Fprintf(&b, " Also flagged: %s.", strings.Join(others, ", "))
	}
	if len(degraded) > 0 {
		fmt.Fprintf(&b, " Incomplete data for: %s.", strings.Join(degraded, ", "))
	}
	return b.String()
}
