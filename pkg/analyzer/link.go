package analyzer

import (
	"fmt"

	"github.com/helmcode/wifi-doctor/pkg/config"
	"github.com/helmcode/wifi-doctor/pkg/model"
	"github.com/helmcode/wifi-doctor/pkg/phy"
)

// LinkQuality classifies signal strength and whether the link uses the MCS
// headroom its generation, streams and width allow.
func LinkQuality(c *model.ClientSession, lc LinkContext, th config.Link) model.LinkQualityFinding {
	f := model.LinkQualityFinding{
		RSSI:     c.RSSI,
		SNR:      c.SNR,
		ModalMCS: -1,
		MaxMCS:   phy.MaxMCS(lc.Streams, lc.WidthMHz, lc.GuardInterval, lc.Generation),
		MCSMode:  "n/a",
	}
	f.Severity = model.SeverityLow

	switch {
	case c.RSSI >= th.RSSIGood:
		f.Status = model.StatusGood
	case c.RSSI >= th.RSSIFair:
		f.Status = model.StatusFair
	default:
		f.Status = model.StatusPoor
	}

	modal, ok := c.ModalMCS()
	if ok {
		f.ModalMCS = modal
		f.MCSMode = fmt.Sprintf("MCS %d (%dSS, %d MHz)", modal, lc.Streams, lc.WidthMHz)
		if f.MaxMCS >= 0 {
			f.Headroom = max(0, f.MaxMCS-modal)
		}
	}

	weak := c.RSSI < th.RSSIFair
	underused := ok && f.MaxMCS >= 0 && f.Headroom > th.MCSHeadroom
	f.IsBottleneck = weak || underused

	switch {
	case weak:
		f.Severity = model.SeverityMedium
		if c.RSSI <= th.RSSICritical || c.SNR < th.SNRCritical {
			f.Severity = model.SeverityHigh
		}
		f.Diagnosis = fmt.Sprintf("Weak signal: RSSI %.0f dBm and SNR %.0f dB hold the link mostly at %s.",
			c.RSSI, c.SNR, f.MCSMode)
		f.Recommendation = "Move the client closer to the access point or add coverage in this area; check for walls or metal between them."
	case underused:
		f.Diagnosis = fmt.Sprintf("Signal is %s (RSSI %.0f dBm, SNR %.0f dB) but the link mostly runs %s, %d steps below the MCS %d this link supports.",
			f.Status, c.RSSI, c.SNR, f.MCSMode, f.Headroom, f.MaxMCS)
		f.Recommendation = "Check client power-save and rate-control behaviour and look for interference; the signal alone should sustain higher MCS rates."
	default:
		f.Diagnosis = fmt.Sprintf("Signal is %s: RSSI %.0f dBm, SNR %.0f dB, link mostly at %s.",
			f.Status, c.RSSI, c.SNR, f.MCSMode)
		f.Recommendation = noAction
	}
	return f
}
