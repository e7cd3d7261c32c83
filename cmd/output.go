package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/helmcode/wifi-doctor/pkg/formatter"
)

func printSuccess(w io.Writer, msg string) {
	green := color.New(color.FgGreen)
	green.Fprintf(w, "✓ %s\n", msg)
}

func printError(w io.Writer, msg string) {
	red := color.New(color.FgRed)
	red.Fprintf(w, "✗ %s\n", msg)
}

func printHeader(w io.Writer, title string, lines ...string) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(w)
	cyan.Fprintln(w, title)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintln(w)
}

func newSpinner(w io.Writer, suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + suffix
	return s
}

func validateFormat(format string) error {
	if !slices.Contains(formatter.Formats, format) {
		return fmt.Errorf("unknown output format %q (want %s)", format, strings.Join(formatter.Formats, ", "))
	}
	return nil
}

// statusWriter is where progress lines go: stderr for human output, nowhere
// when stdout carries machine-readable output.
func statusWriter(format string, stderr io.Writer) io.Writer {
	if format == "human" {
		return stderr
	}
	return io.Discard
}
