package analyzer

import (
	"fmt"

	"github.com/helmcode/wifi-doctor/pkg/config"
	"github.com/helmcode/wifi-doctor/pkg/model"
)

// Backhaul compares WAN usage with the capacity estimate and separates
// sustained saturation from peak-only saturation, which call for different
// fixes.
func Backhaul(b *model.BackhaulStats, th config.Backhaul) model.BackhaulFinding {
	f := model.BackhaulFinding{
		CapacityMbps:    b.CapacityMbps,
		PeakMbps:        b.PeakMbps,
		AvgMbps:         b.AvgMbps,
		UplinkMedium:    b.UplinkMedium,
		UplinkSpeedMbps: b.UplinkSpeedMbps,
	}
	f.Severity = model.SeverityLow
	if f.UplinkMedium == "" {
		f.UplinkMedium = model.MediumUnknown
	}

	if b.CapacityMbps <= 0 {
		f.Status = model.StatusFair
		f.Degraded = true
		f.Diagnosis = fmt.Sprintf("WAN capacity unknown; peak usage %.0f Mbps cannot be rated against it.", b.PeakMbps)
		f.Recommendation = "Run a WAN capacity test so backhaul saturation can be assessed."
		return f
	}

	peakRatio := percentOf(b.PeakMbps, b.CapacityMbps)
	avgRatio := percentOf(b.AvgMbps, b.CapacityMbps)
	f.PeakUtilization = round1(clampPercent(peakRatio))
	f.AvgUtilization = round1(clampPercent(avgRatio))
	f.UplinkLimited = b.UplinkSpeedMbps > 0 && b.UplinkSpeedMbps < b.CapacityMbps

	f.IsBottleneck = peakRatio >= th.PeakSaturation
	f.SustainedSaturation = f.IsBottleneck && avgRatio >= th.Sustained

	switch {
	case f.IsBottleneck:
		f.Status = model.StatusPoor
		f.Severity = model.SeverityMedium
		if f.SustainedSaturation || peakRatio >= th.Oversubscribed {
			f.Severity = model.SeverityHigh
		}
	case peakRatio >= th.PeakFair:
		f.Status = model.StatusFair
	default:
		f.Status = model.StatusGood
	}

	switch {
	case f.SustainedSaturation:
		f.Diagnosis = fmt.Sprintf("Sustained saturation: WAN averages %.0f%% and peaks at %.0f%% of %.0f Mbps capacity.",
			f.AvgUtilization, f.PeakUtilization, b.CapacityMbps)
		f.Recommendation = "Upgrade the WAN circuit or add a second uplink; demand exceeds capacity most of the time."
	case f.IsBottleneck:
		f.Diagnosis = fmt.Sprintf("Peak saturation only: WAN peaks at %.0f%% of %.0f Mbps capacity but averages %.0f%%.",
			f.PeakUtilization, b.CapacityMbps, f.AvgUtilization)
		f.Recommendation = "Schedule bulk transfers such as backups and updates away from peak hours and prioritise interactive traffic with QoS."
	default:
		f.Diagnosis = fmt.Sprintf("WAN peaks at %.0f%% of %.0f Mbps capacity (average %.0f%%).",
			f.PeakUtilization, b.CapacityMbps, f.AvgUtilization)
		f.Recommendation = noAction
	}

	if f.UplinkLimited {
		f.Diagnosis += fmt.Sprintf(" The %s uplink negotiated only %.0f Mbps, below the WAN capacity.", f.UplinkMedium, b.UplinkSpeedMbps)
		if f.Recommendation == noAction {
			f.Recommendation = "Check the uplink cabling and switch port so the link negotiates full speed."
		} else {
			f.Recommendation += " Also check the uplink cabling and switch port so the link negotiates full speed."
		}
	}
	return f
}
