package model

import (
	"time"

	"github.com/helmcode/wifi-doctor/pkg/phy"
)

type Band string

const (
	Band2G Band = "2.4GHz"
	Band5G Band = "5GHz"
	Band6G Band = "6GHz"
)

type ScopeType string

const (
	ScopeClient ScopeType = "client"
	ScopeAP     ScopeType = "ap"
	ScopeSSID   ScopeType = "ssid"
)

// Window is one of the fixed observation windows a controller serves.
type Window string

const (
	WindowShort  Window = "short"
	WindowMedium Window = "medium"
	WindowLong   Window = "long"
)

// Duration returns the span the window covers; unknown windows map to zero.
func (w Window) Duration() time.Duration {
	switch w {
	case WindowShort:
		return time.Hour
	case WindowMedium:
		return 24 * time.Hour
	case WindowLong:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

type UplinkMedium string

const (
	MediumCopper   UplinkMedium = "copper"
	MediumFiber    UplinkMedium = "fiber"
	MediumWireless UplinkMedium = "wireless"
	MediumUnknown  UplinkMedium = "unknown"
)

type Scope struct {
	Type   ScopeType `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=client ap ssid"`
	ID     string    `json:"id,omitempty" yaml:"id,omitempty"`
	Window Window    `json:"window,omitempty" yaml:"window,omitempty" validate:"omitempty,oneof=short medium long"`
}

// TelemetrySnapshot is everything the engine needs for one scope. Nil
// required sections are reported as missing telemetry.
type TelemetrySnapshot struct {
	Scope        Scope               `json:"scope" yaml:"scope"`
	Client       *ClientSession      `json:"client" yaml:"client"`
	Radio        *RadioStats         `json:"radio" yaml:"radio"`
	Backhaul     *BackhaulStats      `json:"backhaul" yaml:"backhaul"`
	Capabilities *ClientCapabilities `json:"capabilities" yaml:"capabilities"`
	Interference *InterferenceStats  `json:"interference,omitempty" yaml:"interference,omitempty"`
}

type ClientSession struct {
	ClientMAC string  `json:"clientMac,omitempty" yaml:"clientMac,omitempty" validate:"omitempty,mac"`
	BSSID     string  `json:"bssid,omitempty" yaml:"bssid,omitempty" validate:"omitempty,mac"`
	Band      Band    `json:"band" yaml:"band" validate:"oneof=2.4GHz 5GHz 6GHz"`
	RSSI      float64 `json:"rssi" yaml:"rssi" validate:"gte=-120,lte=0"`
	SNR       float64 `json:"snr" yaml:"snr" validate:"gte=0,lte=100"`
	// MCSHistogram maps MCS index to observed packet count.
	MCSHistogram       map[int]int64 `json:"mcsHistogram" yaml:"mcsHistogram" validate:"dive,keys,min=0,max=13,endkeys,min=0"`
	TxBytes            uint64        `json:"txBytes" yaml:"txBytes"`
	RxBytes            uint64        `json:"rxBytes" yaml:"rxBytes"`
	Retries            int64         `json:"retries" yaml:"retries" validate:"min=0"`
	Failures           int64         `json:"failures" yaml:"failures" validate:"min=0"`
	Start              time.Time     `json:"start" yaml:"start" validate:"required"`
	End                time.Time     `json:"end" yaml:"end" validate:"required,gtfield=Start"`
	PeakThroughputMbps float64       `json:"peakThroughputMbps,omitempty" yaml:"peakThroughputMbps,omitempty" validate:"min=0"`
}

// Frames is the number of packets sampled into the MCS histogram.
func (c *ClientSession) Frames() int64 {
	var total int64
	for _, n := range c.MCSHistogram {
		total += n
	}
	return total
}

// ModalMCS returns the MCS index with the highest packet count. Ties go to
// the lower index. ok is false when the histogram holds no packets.
func (c *ClientSession) ModalMCS() (mcs int, ok bool) {
	best := int64(0)
	mcs = -1
	for idx, n := range c.MCSHistogram {
		if n > best || (n == best && n > 0 && idx < mcs) {
			best, mcs = n, idx
		}
	}
	return mcs, mcs >= 0
}

// AverageThroughputMbps is the byte-counter throughput over the session.
func (c *ClientSession) AverageThroughputMbps() float64 {
	secs := c.End.Sub(c.Start).Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(c.TxBytes+c.RxBytes) * 8 / secs / 1e6
}

type AirtimeBreakdown struct {
	Data       float64 `json:"data" yaml:"data" validate:"gte=0,lte=100"`
	Management float64 `json:"management" yaml:"management" validate:"gte=0,lte=100"`
	Retries    float64 `json:"retries" yaml:"retries" validate:"gte=0,lte=100"`
	Other      float64 `json:"other" yaml:"other" validate:"gte=0,lte=100"`
}

func (b AirtimeBreakdown) Total() float64 {
	return b.Data + b.Management + b.Retries + b.Other
}

type RadioStats struct {
	APID               string           `json:"apId" yaml:"apId" validate:"required"`
	Band               Band             `json:"band" yaml:"band" validate:"oneof=2.4GHz 5GHz 6GHz"`
	Channel            int              `json:"channel" yaml:"channel" validate:"min=0"`
	ChannelWidth       int              `json:"channelWidth" yaml:"channelWidth" validate:"oneof=20 40 80 160 320"`
	AirtimeUtilization float64          `json:"airtimeUtilization" yaml:"airtimeUtilization" validate:"gte=0,lte=100"`
	Airtime            AirtimeBreakdown `json:"airtime" yaml:"airtime"`
	ClientsConnected   int              `json:"clientsConnected" yaml:"clientsConnected" validate:"min=0"`

	Generation     phy.Generation    `json:"generation,omitempty" yaml:"generation,omitempty" validate:"omitempty,oneof=4 5 6 6E 7"`
	SpatialStreams int               `json:"spatialStreams,omitempty" yaml:"spatialStreams,omitempty" validate:"min=0,max=8"`
	GuardInterval  phy.GuardInterval `json:"guardInterval,omitempty" yaml:"guardInterval,omitempty" validate:"omitempty,oneof=400 800 1600 3200"`
}

type BackhaulStats struct {
	CapacityMbps    float64      `json:"capacityMbps" yaml:"capacityMbps" validate:"min=0"`
	PeakMbps        float64      `json:"peakMbps" yaml:"peakMbps" validate:"min=0"`
	AvgMbps         float64      `json:"avgMbps" yaml:"avgMbps" validate:"min=0"`
	UplinkMedium    UplinkMedium `json:"uplinkMedium,omitempty" yaml:"uplinkMedium,omitempty" validate:"omitempty,oneof=copper fiber wireless unknown"`
	UplinkSpeedMbps float64      `json:"uplinkSpeedMbps,omitempty" yaml:"uplinkSpeedMbps,omitempty" validate:"min=0"`
}

type ClientCapabilities struct {
	SpatialStreams  int            `json:"spatialStreams" yaml:"spatialStreams" validate:"min=1,max=8"`
	MaxChannelWidth int            `json:"maxChannelWidth" yaml:"maxChannelWidth" validate:"oneof=20 40 80 160 320"`
	Generation      phy.Generation `json:"generation" yaml:"generation" validate:"oneof=4 5 6 6E 7"`
	DeviceProfile   string         `json:"deviceProfile,omitempty" yaml:"deviceProfile,omitempty"`
}

type InterferenceStats struct {
	NeighborAPs   int     `json:"neighborAps" yaml:"neighborAps" validate:"min=0"`
	DFSEvents     int     `json:"dfsEvents" yaml:"dfsEvents" validate:"min=0"`
	NoiseFloorDbm float64 `json:"noiseFloorDbm,omitempty" yaml:"noiseFloorDbm,omitempty" validate:"lte=0"`
}
