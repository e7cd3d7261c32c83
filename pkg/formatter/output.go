package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/wifi-doctor/pkg/model"
)

const lineWidth = 80

// Formats lists the accepted output formats.
var Formats = []string{"human", "json", "yaml"}

var categoryTitles = map[model.BottleneckType]string{
	model.BottleneckSignal:       "Link quality",
	model.BottleneckAirtime:      "Airtime / PHY vs real",
	model.BottleneckInterference: "Interference",
	model.BottleneckBackhaul:     "Backhaul",
	model.BottleneckClient:       "Client limitations",
}

// DisplayReport writes the report to w in the given format. Unknown
// formats fall back to human output.
func DisplayReport(w io.Writer, report *model.DiagnosticReport, format string) error {
	switch format {
	case "json":
		return displayJSON(w, report)
	case "yaml":
		return displayYAML(w, report)
	case "human":
		fallthrough
	default:
		displayHuman(w, report)
	}
	return nil
}

func displayJSON(w io.Writer, report *model.DiagnosticReport) error {
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func displayYAML(w io.Writer, report *model.DiagnosticReport) error {
	output, err := yaml.Marshal(report)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(output))
	return err
}

func displayHuman(w io.Writer, r *model.DiagnosticReport) {
	cyan := color.New(color.FgCyan, color.Bold)
	white := color.New(color.FgWhite, color.Bold)
	s := r.Summary

	fmt.Fprintln(w)

	getLevelColor(s.Level).Fprintf(w, "🩺 WI-FI HEALTH: %s (%d/100)\n", strings.ToUpper(string(s.Level)), s.Score)
	if scope := describeScope(r.Scope); scope != "" {
		fmt.Fprintf(w, "   %s\n", color.HiBlackString(scope))
	}
	fmt.Fprintln(w)

	pb := s.PrimaryBottleneck
	if pb.Type == model.BottleneckUnknown {
		color.New(color.FgGreen, color.Bold).Fprintln(w, "✅ NO BOTTLENECK DETECTED")
		fmt.Fprintln(w, wrapText(pb.Description, lineWidth, "   "))
	} else {
		getSeverityColor(pb.Severity).Fprintf(w, "💡 PRIMARY BOTTLENECK: %s (%s)\n",
			strings.ToUpper(string(pb.Type)), strings.ToUpper(string(pb.Severity)))
		fmt.Fprintln(w, wrapText(pb.Description, lineWidth, "   "))
		fmt.Fprintf(w, "   Fix: %s\n", color.GreenString(pb.Recommendation))
	}
	fmt.Fprintln(w)

	cyan.Fprintln(w, "📶 QUICK SIGNALS:")
	qs := s.QuickSignals
	for _, q := range []struct {
		name string
		sig  model.QuickSignal
	}{
		{"Signal", qs.Signal},
		{"Wi-Fi load", qs.WifiLoad},
		{"Retries", qs.Retries},
		{"Backhaul", qs.Backhaul},
	} {
		fmt.Fprintf(w, "   %s %-11s %s\n", getStatusIcon(q.sig.Status), q.name, q.sig.Detail)
	}
	fmt.Fprintln(w)

	cyan.Fprintln(w, "📋 CATEGORIES:")
	for i, v := range r.Verdicts() {
		a := v.Assessment
		marker := ""
		switch {
		case a.IsBottleneck:
			marker = " " + getSeverityColor(a.Severity).Sprintf("BOTTLENECK (%s)", a.Severity)
		case a.Degraded:
			marker = " " + color.YellowString("DEGRADED")
		}
		fmt.Fprintf(w, "   %d. %s %s [%s]%s\n", i+1, getStatusIcon(a.Status), categoryTitles[v.Type], a.Status, marker)
		fmt.Fprintln(w, wrapText(a.Diagnosis, lineWidth, "      "))
		if a.IsBottleneck || a.Degraded {
			fmt.Fprintf(w, "      Fix: %s\n", a.Recommendation)
		}
		fmt.Fprintln(w)
	}

	white.Fprintln(w, "📄 SUMMARY:")
	fmt.Fprintln(w, wrapText(s.Text, lineWidth, "   "))
	fmt.Fprintln(w)

	fmt.Fprintln(w, strings.Repeat("─", lineWidth))
	fmt.Fprintf(w, "💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func describeScope(s model.Scope) string {
	if s.Type == "" && s.ID == "" {
		return ""
	}
	out := "Scope: " + strings.TrimSpace(string(s.Type)+" "+s.ID)
	if s.Window != "" {
		out += fmt.Sprintf(" (%s window)", s.Window)
	}
	return out
}

func getLevelColor(level model.Level) *color.Color {
	switch level {
	case model.LevelExcellent:
		return color.New(color.FgGreen, color.Bold)
	case model.LevelGood:
		return color.New(color.FgGreen)
	case model.LevelFair:
		return color.New(color.FgYellow, color.Bold)
	case model.LevelPoor:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

func getSeverityColor(severity model.Severity) *color.Color {
	switch severity {
	case model.SeverityHigh:
		return color.New(color.FgRed, color.Bold)
	case model.SeverityMedium:
		return color.New(color.FgYellow)
	case model.SeverityLow:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgWhite)
	}
}

func getStatusIcon(status model.Status) string {
	switch status {
	case model.StatusGood:
		return "🟢"
	case model.StatusFair:
		return "🟡"
	case model.StatusPoor:
		return "🔴"
	default:
		return "⚪"
	}
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
