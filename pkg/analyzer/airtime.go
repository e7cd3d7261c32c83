package analyzer

import (
	"fmt"

	"github.com/helmcode/wifi-doctor/pkg/config"
	"github.com/helmcode/wifi-doctor/pkg/model"
	"github.com/helmcode/wifi-doctor/pkg/phy"
)

// PhyVsReal compares the best observed throughput with the PHY ceiling of
// the modal MCS and checks airtime saturation. Saturation and efficiency
// collapse are independent triggers. Without a peak throughput sample the
// efficiency is not assessed; a window average says nothing about the best
// the link can do.
func PhyVsReal(c *model.ClientSession, r *model.RadioStats, lc LinkContext, th config.Airtime) model.PhyVsRealFinding {
	f := model.PhyVsRealFinding{
		AirtimeUtilization:   clampPercent(r.AirtimeUtilization),
		ClientsConnected:     r.ClientsConnected,
		ActualThroughputBest: c.PeakThroughputMbps,
	}
	f.Severity = model.SeverityLow
	if f.ActualThroughputBest < 0 {
		f.ActualThroughputBest = 0
	}
	if r.ClientsConnected > 0 {
		f.AvgPerClientAirtime = round2(f.AirtimeUtilization / float64(r.ClientsConnected))
	}

	var unavailable string
	if modal, ok := c.ModalMCS(); !ok {
		unavailable = "no MCS samples in the observation window"
	} else if ceiling, err := phy.ExpectedPhyRate(modal, lc.Streams, lc.WidthMHz, lc.GuardInterval, lc.Generation); err != nil {
		unavailable = err.Error()
	} else {
		f.ExpectedPhyCeiling = ceiling
	}
	noPeak := unavailable == "" && f.ActualThroughputBest == 0
	if unavailable == "" && !noPeak {
		f.Efficiency = round1(clampPercent(percentOf(f.ActualThroughputBest, f.ExpectedPhyCeiling)))
	}
	f.Degraded = unavailable != "" || noPeak

	saturated := f.AirtimeUtilization >= th.UtilizationBottleneck
	collapsed := !f.Degraded && f.Efficiency < th.EfficiencyBottleneck
	f.IsBottleneck = saturated || collapsed

	switch {
	case f.IsBottleneck:
		f.Status = model.StatusPoor
		f.Severity = model.SeverityMedium
		if f.AirtimeUtilization >= th.UtilizationCritical || (collapsed && f.Efficiency < th.EfficiencyCritical) {
			f.Severity = model.SeverityHigh
		}
	case unavailable != "" || f.AirtimeUtilization >= th.UtilizationFair:
		f.Status = model.StatusFair
	default:
		f.Status = model.StatusGood
	}

	switch {
	case unavailable != "":
		f.Diagnosis = fmt.Sprintf("rate unavailable: %s. Airtime utilization is %.0f%% across %d clients.",
			unavailable, f.AirtimeUtilization, f.ClientsConnected)
	case noPeak:
		f.Diagnosis = fmt.Sprintf("No peak throughput sample, so efficiency against the %.0f Mbps PHY ceiling is not assessed (window average %.1f Mbps). Airtime utilization is %.0f%% across %d clients.",
			f.ExpectedPhyCeiling, c.AverageThroughputMbps(), f.AirtimeUtilization, f.ClientsConnected)
	case saturated && collapsed:
		f.Diagnosis = fmt.Sprintf("Airtime is saturated at %.0f%% and the client reaches only %.0f%% of its %.0f Mbps PHY ceiling.",
			f.AirtimeUtilization, f.Efficiency, f.ExpectedPhyCeiling)
	case saturated:
		f.Diagnosis = fmt.Sprintf("Airtime is saturated at %.0f%% across %d clients (%.1f%% each on average).",
			f.AirtimeUtilization, f.ClientsConnected, f.AvgPerClientAirtime)
	case collapsed:
		f.Diagnosis = fmt.Sprintf("Best throughput of %.0f Mbps is only %.0f%% of the %.0f Mbps PHY ceiling; overhead and contention are wasting airtime.",
			f.ActualThroughputBest, f.Efficiency, f.ExpectedPhyCeiling)
	default:
		f.Diagnosis = fmt.Sprintf("Airtime utilization is %.0f%% and the client reaches %.0f%% of its %.0f Mbps PHY ceiling.",
			f.AirtimeUtilization, f.Efficiency, f.ExpectedPhyCeiling)
	}

	switch {
	case saturated:
		f.Recommendation = "Reduce airtime load: steer capable clients to 5/6 GHz, raise minimum basic rates and add access points where client density is high."
	case collapsed:
		f.Recommendation = "Look for retransmissions, legacy clients and disabled frame aggregation that waste airtime on this radio."
	case noPeak:
		f.Recommendation = "Collect a peak throughput sample for the client so PHY efficiency can be assessed."
	case f.Degraded:
		f.Recommendation = "Verify the radio's reported generation, channel width and guard interval so the PHY ceiling can be computed."
	default:
		f.Recommendation = noAction
	}
	return f
}
