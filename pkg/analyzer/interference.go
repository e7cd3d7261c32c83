package analyzer

import (
	"fmt"
	"strings"

	"github.com/helmcode/wifi-doctor/pkg/config"
	"github.com/helmcode/wifi-doctor/pkg/model"
)

// Interference rates retries and failures against the sampled frames and
// treats any DFS event as a hard trigger. in may be nil.
func Interference(c *model.ClientSession, in *model.InterferenceStats, th config.Interference) model.InterferenceFinding {
	if in == nil {
		in = &model.InterferenceStats{}
	}
	frames := float64(c.Frames())
	f := model.InterferenceFinding{
		RetryRate:     round2(clampPercent(percentOf(float64(c.Retries), frames))),
		FailureRate:   round2(clampPercent(percentOf(float64(c.Failures), frames))),
		NeighborAPs:   in.NeighborAPs,
		DFSEvents:     in.DFSEvents,
		NoiseFloorDbm: in.NoiseFloorDbm,
	}

	retrySev, retryHit := tier(f.RetryRate, th.RetryLow, th.RetryMedium, th.RetryHigh)
	failSev, failHit := tier(f.FailureRate, th.FailureLow, th.FailureMedium, th.FailureHigh)
	radar := in.DFSEvents >= th.DFSEvents
	congested := in.NeighborAPs >= th.NeighborCongestion
	noisy := in.NoiseFloorDbm < 0 && in.NoiseFloorDbm >= th.NoiseFloorElevated

	f.Severity = model.SeverityLow
	if retryHit {
		f.Severity = f.Severity.Max(retrySev)
	}
	if failHit {
		f.Severity = f.Severity.Max(failSev)
	}
	if radar {
		f.Severity = f.Severity.Max(model.SeverityMedium)
	}

	lossy := f.RetryRate >= th.RetryMedium || f.FailureRate >= th.FailureMedium
	f.IsBottleneck = lossy || radar

	switch {
	case f.IsBottleneck:
		f.Status = model.StatusPoor
	case retryHit || failHit || congested || noisy:
		f.Status = model.StatusFair
	default:
		f.Status = model.StatusGood
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Retry rate %.1f%% and failure rate %.1f%% over %.0f sampled frames.", f.RetryRate, f.FailureRate, frames)
	if radar {
		fmt.Fprintf(&b, " %d DFS radar event(s) forced a channel change.", in.DFSEvents)
	}
	if congested {
		fmt.Fprintf(&b, " %d neighboring access points share the channel.", in.NeighborAPs)
	}
	if noisy {
		fmt.Fprintf(&b, " Noise floor is elevated at %.0f dBm.", in.NoiseFloorDbm)
	}
	f.Diagnosis = b.String()

	var recs []string
	if radar {
		recs = append(recs, "Move the radio to a non-DFS channel to avoid radar-triggered channel changes.")
	}
	if lossy {
		recs = append(recs, "Pick a cleaner channel or a narrower width and check for non-Wi-Fi interferers near the access point.")
	}
	if len(recs) == 0 && (congested || noisy) {
		recs = append(recs, "Review channel planning with neighboring networks before retries start to climb.")
	}
	if len(recs) == 0 {
		recs = append(recs, noAction)
	}
	f.Recommendation = strings.Join(recs, " ")
	return f
}
