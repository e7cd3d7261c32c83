package analyzer

import (
	"fmt"

	"github.com/helmcode/wifi-doctor/pkg/config"
	"github.com/helmcode/wifi-doctor/pkg/model"
)

// ClientLimitations checks whether the client's own hardware caps the
// achievable speed below what the radio offers a fully capable device.
// Realistic throughput is the best PHY rate times a fixed derate.
func ClientLimitations(caps *model.ClientCapabilities, r *model.RadioStats, th config.Client) model.ClientLimitationsFinding {
	f := model.ClientLimitationsFinding{
		Generation:      string(caps.Generation),
		SpatialStreams:  caps.SpatialStreams,
		MaxChannelWidth: caps.MaxChannelWidth,
		DeviceProfile:   caps.DeviceProfile,
	}
	f.Severity = model.SeverityLow

	radioGen := r.Generation
	if !radioGen.Valid() {
		radioGen = caps.Generation
	}
	radioStreams := r.SpatialStreams
	if radioStreams == 0 {
		radioStreams = caps.SpatialStreams
	}

	clientPhy, err := bestRate(caps.SpatialStreams, caps.MaxChannelWidth, caps.Generation)
	if err == nil {
		f.MaxPhyRate = clientPhy
		f.RadioCeiling, err = bestRate(radioStreams, r.ChannelWidth, radioGen)
	}
	if err != nil {
		f.Degraded = true
		f.Status = model.StatusFair
		f.Diagnosis = fmt.Sprintf("rate unavailable: %v.", err)
		f.Recommendation = "Verify the client's declared generation, stream count and channel width."
		return f
	}

	realistic := clientPhy * th.Derate
	f.MaxRealisticThroughput = round1(realistic)
	if f.RadioCeiling > 0 {
		// Gap comes from the unrounded product so a matched device lands
		// exactly on the derate.
		f.CapabilityGap = clampPercent(round2((1 - realistic/f.RadioCeiling) * 100))
	}
	f.IsBottleneck = f.CapabilityGap > th.GapBottleneck

	device := fmt.Sprintf("Wi-Fi %s, %dSS, up to %d MHz", caps.Generation, caps.SpatialStreams, caps.MaxChannelWidth)
	if caps.DeviceProfile != "" {
		device = caps.DeviceProfile + ", " + device
	}

	if !f.IsBottleneck {
		f.Status = model.StatusGood
		f.Diagnosis = fmt.Sprintf("The client (%s) can use this radio's capability: about %.0f Mbps realistic against a %.0f Mbps PHY ceiling.",
			device, f.MaxRealisticThroughput, f.RadioCeiling)
		f.Recommendation = noAction
		return f
	}

	switch {
	case f.CapabilityGap > th.GapHigh:
		f.Severity = model.SeverityHigh
		f.Status = model.StatusPoor
	case f.CapabilityGap > th.GapMedium:
		f.Severity = model.SeverityMedium
		f.Status = model.StatusFair
	default:
		f.Status = model.StatusFair
	}
	f.Diagnosis = fmt.Sprintf("The client (%s) tops out near %.0f Mbps realistic throughput, %.0f%% below the %.0f Mbps this radio offers a fully capable device.",
		device, f.MaxRealisticThroughput, f.CapabilityGap, f.RadioCeiling)
	f.Recommendation = "The device's own radio limits speed; upgrade the client to more spatial streams, wider channels or a newer Wi-Fi generation rather than changing the network."
	return f
}
