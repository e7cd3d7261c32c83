package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/helmcode/wifi-doctor/pkg/config"
	"github.com/helmcode/wifi-doctor/pkg/engine"
	"github.com/helmcode/wifi-doctor/pkg/formatter"
	"github.com/helmcode/wifi-doctor/pkg/model"
	"github.com/helmcode/wifi-doctor/pkg/parser"
)

var (
	analyzeOutputFormat string
	analyzeConfigPath   string
	analyzeScopeType    string
	analyzeScopeID      string
	analyzeWindow       string
	analyzeParallel     bool
	analyzeVerbose      bool
	analyzeLogLevel     string
	analyzeLogFormat    string
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [FILE|-]",
		Short: "Diagnose Wi-Fi performance from a telemetry snapshot",
		Long: `Analyze a telemetry snapshot (JSON or YAML) and report the health score,
the primary bottleneck and per-category findings.

Examples:
  # Diagnose a snapshot exported from the controller
  wifi-doctor analyze snapshot.json

  # Read from stdin and emit JSON
  controller-export --client aa:bb:cc:dd:ee:ff | wifi-doctor analyze - -o json

  # Override the scope and use custom thresholds
  wifi-doctor analyze ap.yaml --scope-type ap --scope-id ap-lobby --window medium --config thresholds.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeOutputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Thresholds file (defaults to $"+config.EnvConfigPath+")")
	cmd.Flags().StringVar(&analyzeScopeType, "scope-type", "", "Override scope type (client, ap, ssid)")
	cmd.Flags().StringVar(&analyzeScopeID, "scope-id", "", "Override scope identifier")
	cmd.Flags().StringVar(&analyzeWindow, "window", "", "Override observation window (short, medium, long)")
	cmd.Flags().BoolVar(&analyzeParallel, "parallel", false, "Run the category analyzers concurrently")
	cmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Verbose output")
	cmd.Flags().StringVar(&analyzeLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&analyzeLogFormat, "log-format", "text", "Log format (text, json)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := validateFormat(analyzeOutputFormat); err != nil {
		return err
	}
	source := "-"
	if len(args) > 0 {
		source = args[0]
	}
	status := statusWriter(analyzeOutputFormat, cmd.ErrOrStderr())

	logger, err := newLogger(cmd.ErrOrStderr(), analyzeVerbose, analyzeLogLevel, analyzeLogFormat)
	if err != nil {
		return err
	}
	thresholds, err := config.Resolve(analyzeConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load thresholds: %w", err)
	}

	printHeader(status, "📡 Wi-Fi Doctor", fmt.Sprintf("📄 Snapshot: %s", describeSource(source)))

	raw, err := readSnapshot(cmd.InOrStdin(), source)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	snap, err := parser.ParseSnapshot(raw)
	if err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	applyScopeOverrides(&snap.Scope)
	printSuccess(status, "Telemetry loaded")

	eng := engine.New(
		engine.WithThresholds(thresholds),
		engine.WithLogger(logger),
		engine.WithConcurrency(analyzeParallel),
	)

	s := newSpinner(status, "Diagnosing Wi-Fi performance...")
	s.Start()
	report, err := eng.Analyze(snap)
	s.Stop()
	if err != nil {
		printError(status, "Diagnosis failed")
		return fmt.Errorf("diagnosis failed: %w", err)
	}
	printSuccess(status, "Diagnosis complete")

	return formatter.DisplayReport(cmd.OutOrStdout(), report, analyzeOutputFormat)
}

func readSnapshot(stdin io.Reader, source string) ([]byte, error) {
	if source == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(source)
}

func describeSource(source string) string {
	if source == "-" {
		return "stdin"
	}
	return source
}

func applyScopeOverrides(s *model.Scope) {
	if analyzeScopeType != "" {
		s.Type = model.ScopeType(analyzeScopeType)
	}
	if analyzeScopeID != "" {
		s.ID = analyzeScopeID
	}
	if analyzeWindow != "" {
		s.Window = model.Window(analyzeWindow)
	}
}
