package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/wifi-doctor/pkg/engine"
	"github.com/helmcode/wifi-doctor/pkg/model"
	"github.com/helmcode/wifi-doctor/pkg/phy"
)

func init() {
	color.NoColor = true
}

const weakClientYAML = `
scope: {type: client, id: phone-3, window: short}
client:
  band: 5GHz
  rssi: -80
  snr: 10
  mcsHistogram: {1: 1000}
  retries: 50
  start: "2026-03-01T12:00:00Z"
  end: "2026-03-01T13:00:00Z"
  peakThroughputMbps: 40
radio: {apId: ap-1, band: 5GHz, channel: 36, channelWidth: 80, airtimeUtilization: 40, clientsConnected: 10, generation: "6", spatialStreams: 2}
backhaul: {capacityMbps: 1000, peakMbps: 300, avgMbps: 100}
capabilities: {spatialStreams: 2, maxChannelWidth: 80, generation: "6"}
`

func run(t *testing.T, c *cobra.Command, args ...string) error {
	t.Helper()
	c.SetArgs(args)
	return c.Execute()
}

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAnalyze_JSONFromFile(t *testing.T) {
	cmd := NewAnalyzeCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	require.NoError(t, run(t, cmd, writeSnapshot(t, weakClientYAML), "-o", "json"))

	var report model.DiagnosticReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, model.BottleneckSignal, report.Summary.PrimaryBottleneck.Type)
	assert.Equal(t, model.SeverityHigh, report.Summary.PrimaryBottleneck.Severity)
	assert.Equal(t, 55, report.Summary.Score)
	assert.Equal(t, model.LevelFair, report.Summary.Level)
	assert.Empty(t, errOut.String(), "no status lines for machine-readable output")
}

func TestAnalyze_Stdin(t *testing.T) {
	cmd := NewAnalyzeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(weakClientYAML))

	require.NoError(t, run(t, cmd, "-", "-o", "yaml"))

	assert.Contains(t, out.String(), "primaryBottleneck:")
	assert.Contains(t, out.String(), "type: signal")
}

func TestAnalyze_HumanWithStatusLines(t *testing.T) {
	cmd := NewAnalyzeCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	require.NoError(t, run(t, cmd, writeSnapshot(t, weakClientYAML), "-o", "human"))

	assert.Contains(t, errOut.String(), "✓ Telemetry loaded")
	assert.Contains(t, errOut.String(), "✓ Diagnosis complete")
	assert.Contains(t, out.String(), "PRIMARY BOTTLENECK: SIGNAL (HIGH)")
}

func TestAnalyze_ScopeOverrides(t *testing.T) {
	cmd := NewAnalyzeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, run(t, cmd, writeSnapshot(t, weakClientYAML),
		"-o", "json", "--scope-type", "ap", "--scope-id", "ap-1", "--window", "long", "--parallel"))

	var report model.DiagnosticReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, model.Scope{Type: model.ScopeAP, ID: "ap-1", Window: model.WindowLong}, report.Scope)
}

func TestAnalyze_CustomThresholds(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("score:\n  penaltyHigh: 40\n"), 0o600))

	cmd := NewAnalyzeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, run(t, cmd, writeSnapshot(t, weakClientYAML), "-o", "json", "--config", cfg))

	var report model.DiagnosticReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 45, report.Summary.Score)
}

func TestAnalyze_Errors(t *testing.T) {
	missingRadio := strings.Replace(weakClientYAML, "radio:", "access_point:", 1)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad format", []string{writeSnapshot(t, weakClientYAML), "-o", "table"}, `unknown output format "table"`},
		{"missing file", []string{filepath.Join(t.TempDir(), "nope.json")}, "failed to read snapshot"},
		{"undecodable", []string{writeSnapshot(t, "radio: [")}, "failed to decode snapshot"},
		{"missing section", []string{writeSnapshot(t, missingRadio), "-o", "json"}, "radio section is required"},
		{"bad log level", []string{writeSnapshot(t, weakClientYAML), "--log-level", "loud"}, "unknown log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewAnalyzeCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			err := run(t, cmd, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAnalyze_MissingSectionIsTyped(t *testing.T) {
	cmd := NewAnalyzeCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	err := run(t, cmd, writeSnapshot(t, strings.Replace(weakClientYAML, "backhaul:", "wan_link:", 1)), "-o", "json")

	require.ErrorIs(t, err, engine.ErrMissingTelemetry)
}

func TestPhyRate(t *testing.T) {
	cmd := NewPhyRateCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, run(t, cmd, "--mcs", "11", "--streams", "2", "--width", "80", "--generation", "802.11ax"))

	assert.Contains(t, out.String(), "✓ Wi-Fi 6, MCS 11, 2SS, 80 MHz, GI 800 ns")
	assert.Contains(t, out.String(), "PHY rate: 1201.0 Mbps")
	assert.Contains(t, out.String(), "Highest MCS for this configuration: 11 (1201.0 Mbps)")
}

func TestPhyRate_JSON(t *testing.T) {
	cmd := NewPhyRateCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, run(t, cmd, "--mcs", "7", "--streams", "1", "--width", "20", "--gi", "400", "--generation", "4", "-o", "json"))

	var l phy.Lookup
	require.NoError(t, json.Unmarshal(out.Bytes(), &l))
	assert.Equal(t, 72.2, l.RateMbps)
	assert.Equal(t, phy.Gen4, l.Generation)
}

func TestPhyRate_Unsupported(t *testing.T) {
	cmd := NewPhyRateCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	err := run(t, cmd, "--mcs", "9", "--streams", "1", "--width", "20", "--gi", "400", "--generation", "5")

	require.ErrorIs(t, err, phy.ErrUnsupportedCombination)
	assert.Contains(t, out.String(), "✗ Wi-Fi 5, MCS 9, 1SS, 20 MHz, GI 400 ns")
	assert.Contains(t, out.String(), "Highest MCS for this configuration: 8")
}

func TestPhyRate_BadGeneration(t *testing.T) {
	cmd := NewPhyRateCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	err := run(t, cmd, "--generation", "3")

	assert.ErrorContains(t, err, `unknown wifi generation "3"`)
}
