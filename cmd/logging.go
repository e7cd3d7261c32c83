package cmd

import (
	"io"
	"log/slog"

	"github.com/helmcode/wifi-doctor/pkg/logging"
)

func newLogger(w io.Writer, verbose bool, level, format string) (*slog.Logger, error) {
	if verbose && level == "" {
		level = "debug"
	}
	return logging.New(logging.Config{
		Level:  level,
		Format: logging.Format(format),
		Writer: w,
	})
}
