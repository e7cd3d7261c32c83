package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingTelemetry = errors.New("missing telemetry")
	ErrInvalidTelemetry = errors.New("invalid telemetry")
)

// MissingTelemetryError names the first required snapshot section that was
// absent. No report is produced.
type MissingTelemetryError struct {
	Section string
}

func (e *MissingTelemetryError) Error() string {
	return fmt.Sprintf("missing telemetry: %s section is required", e.Section)
}

func (e *MissingTelemetryError) Is(target error) bool {
	return target == ErrMissingTelemetry
}

// InvalidTelemetryError wraps the validation failures of a snapshot whose
// sections are present but out of range.
type InvalidTelemetryError struct {
	Err error
}

func (e *InvalidTelemetryError) Error() string {
	if fields := e.Fields(); len(fields) > 0 {
		return "invalid telemetry: " + strings.Join(fields, ", ")
	}
	return fmt.Sprintf("invalid telemetry: %v", e.Err)
}

func (e *InvalidTelemetryError) Unwrap() error { return e.Err }

func (e *InvalidTelemetryError) Is(target error) bool {
	return target == ErrInvalidTelemetry
}

// Fields lists the offending fields as "Namespace (tag)".
func (e *InvalidTelemetryError) Fields() []string {
	var verrs validator.ValidationErrors
	if !errors.As(e.Err, &verrs) {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return out
}
