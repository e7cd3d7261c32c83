// Package analyzer holds the five category analyzers. Each one is a pure
// function over its own slice of the telemetry snapshot; none of them reads
// another's output, so they can run in any order or concurrently.
package analyzer

import (
	"math"

	"github.com/helmcode/wifi-doctor/pkg/model"
	"github.com/helmcode/wifi-doctor/pkg/phy"
)

const noAction = "No action needed."

// LinkContext is the PHY configuration the client and radio can both use.
type LinkContext struct {
	Generation    phy.Generation
	Streams       int
	WidthMHz      int
	GuardInterval phy.GuardInterval
}

// ObservedLink derives the link context from the radio and client
// capabilities: the lower generation, stream count and channel width of the
// two, and the radio's guard interval (800 ns when unreported).
func ObservedLink(radio *model.RadioStats, caps *model.ClientCapabilities) LinkContext {
	lc := LinkContext{
		Generation:    caps.Generation,
		Streams:       caps.SpatialStreams,
		WidthMHz:      min(radio.ChannelWidth, caps.MaxChannelWidth),
		GuardInterval: radio.GuardInterval,
	}
	if radio.Generation.Valid() && radio.Generation.Rank() < caps.Generation.Rank() {
		lc.Generation = radio.Generation
	}
	if radio.SpatialStreams > 0 {
		lc.Streams = min(lc.Streams, radio.SpatialStreams)
	}
	if lc.GuardInterval == 0 {
		lc.GuardInterval = phy.GI800
	}
	return lc
}

// bestRate is the PHY rate at the highest MCS defined for the tuple, using
// the generation's shortest guard interval.
func bestRate(streams, widthMHz int, gen phy.Generation) (float64, error) {
	gi := phy.BestGuardInterval(gen)
	mcs := phy.MaxMCS(streams, widthMHz, gi, gen)
	if mcs < 0 {
		// MCS 0 is always defined, so this surfaces the real reason.
		return phy.ExpectedPhyRate(0, streams, widthMHz, gi, gen)
	}
	return phy.ExpectedPhyRate(mcs, streams, widthMHz, gi, gen)
}

func percentOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// tier maps v onto low/medium/high against increasing thresholds. hit is
// false when v is below the low threshold.
func tier(v, low, medium, high float64) (sev model.Severity, hit bool) {
	switch {
	case v >= high:
		return model.SeverityHigh, true
	case v >= medium:
		return model.SeverityMedium, true
	case v >= low:
		return model.SeverityLow, true
	default:
		return model.SeverityLow, false
	}
}
