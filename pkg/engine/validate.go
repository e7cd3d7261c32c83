package engine

import (
	"github.com/go-playground/validator/v10"

	"github.com/helmcode/wifi-doctor/pkg/model"
)

// snapshotValidate checks value ranges on a snapshot whose required
// sections are already known to be present.
var snapshotValidate *validator.Validate

func init() {
	snapshotValidate = validator.New()
	snapshotValidate.RegisterStructValidation(validateAirtime, model.AirtimeBreakdown{})
}

// validateAirtime rejects breakdowns whose shares add up past 100%.
func validateAirtime(sl validator.StructLevel) {
	b := sl.Current().Interface().(model.AirtimeBreakdown)
	if b.Total() > 100 {
		sl.ReportError(b.Data, "Data", "Data", "airtimesum", "")
	}
}

// check returns the first missing section, or the validation failures.
func check(snap *model.TelemetrySnapshot) error {
	if snap == nil {
		return &MissingTelemetryError{Section: "snapshot"}
	}
	switch {
	case snap.Client == nil:
		return &MissingTelemetryError{Section: "client"}
	case snap.Radio == nil:
		return &MissingTelemetryError{Section: "radio"}
	case snap.Backhaul == nil:
		return &MissingTelemetryError{Section: "backhaul"}
	case snap.Capabilities == nil:
		return &MissingTelemetryError{Section: "capabilities"}
	}
	if err := snapshotValidate.Struct(snap); err != nil {
		return &InvalidTelemetryError{Err: err}
	}
	return nil
}
