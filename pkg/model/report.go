package model

// Status is the traffic-light state shown for a quick signal or category.
type Status string

const (
	StatusGood Status = "good"
	StatusFair Status = "fair"
	StatusPoor Status = "poor"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities; unknown values rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	default:
		return 0
	}
}

// Max returns the more severe of s and o.
func (s Severity) Max(o Severity) Severity {
	if o.Rank() > s.Rank() {
		return o
	}
	return s
}

type BottleneckType string

const (
	BottleneckSignal       BottleneckType = "signal"
	BottleneckAirtime      BottleneckType = "airtime"
	BottleneckInterference BottleneckType = "interference"
	BottleneckBackhaul     BottleneckType = "backhaul"
	BottleneckClient       BottleneckType = "client"
	BottleneckUnknown      BottleneckType = "unknown"
)

type Level string

const (
	LevelExcellent Level = "excellent"
	LevelGood      Level = "good"
	LevelFair      Level = "fair"
	LevelPoor      Level = "poor"
)

// Assessment is the verdict part shared by every category finding.
type Assessment struct {
	Status         Status   `json:"status" yaml:"status"`
	Severity       Severity `json:"severity" yaml:"severity"`
	Diagnosis      string   `json:"diagnosis" yaml:"diagnosis"`
	Recommendation string   `json:"recommendation" yaml:"recommendation"`
	IsBottleneck   bool     `json:"isBottleneck" yaml:"isBottleneck"`
	// Degraded is set when part of the category could not be computed,
	// for example an undefined PHY rate lookup.
	Degraded bool `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

// CategoryVerdict pairs a category's bottleneck type with its assessment;
// it is what the selector and the aggregator consume.
type CategoryVerdict struct {
	Type       BottleneckType
	Assessment Assessment
}

type PrimaryBottleneck struct {
	Type           BottleneckType `json:"type" yaml:"type"`
	Severity       Severity       `json:"severity" yaml:"severity"`
	Description    string         `json:"description" yaml:"description"`
	Recommendation string         `json:"recommendation" yaml:"recommendation"`
}

type QuickSignal struct {
	Status Status `json:"status" yaml:"status"`
	Detail string `json:"detail" yaml:"detail"`
}

type QuickSignals struct {
	Signal   QuickSignal `json:"signal" yaml:"signal"`
	WifiLoad QuickSignal `json:"wifiLoad" yaml:"wifiLoad"`
	Retries  QuickSignal `json:"retries" yaml:"retries"`
	Backhaul QuickSignal `json:"backhaul" yaml:"backhaul"`
}

type Summary struct {
	Level             Level             `json:"level" yaml:"level"`
	Score             int               `json:"score" yaml:"score"`
	PrimaryBottleneck PrimaryBottleneck `json:"primaryBottleneck" yaml:"primaryBottleneck"`
	QuickSignals      QuickSignals      `json:"quickSignals" yaml:"quickSignals"`
	Text              string            `json:"text" yaml:"text"`
}

type LinkQualityFinding struct {
	Assessment `yaml:",inline"`
	RSSI       float64 `json:"rssi" yaml:"rssi"`
	SNR        float64 `json:"snr" yaml:"snr"`
	MCSMode    string  `json:"mcsMode" yaml:"mcsMode"`
	ModalMCS   int     `json:"modalMcs" yaml:"modalMcs"`
	MaxMCS     int     `json:"maxMcs" yaml:"maxMcs"`
	Headroom   int     `json:"mcsHeadroom" yaml:"mcsHeadroom"`
}

type PhyVsRealFinding struct {
	Assessment           `yaml:",inline"`
	AirtimeUtilization   float64 `json:"airtimeUtilization" yaml:"airtimeUtilization"`
	ClientsConnected     int     `json:"clientsConnected" yaml:"clientsConnected"`
	AvgPerClientAirtime  float64 `json:"avgPerClientAirtime" yaml:"avgPerClientAirtime"`
	ExpectedPhyCeiling   float64 `json:"expectedPhyCeiling" yaml:"expectedPhyCeiling"`
	ActualThroughputBest float64 `json:"actualThroughputBest" yaml:"actualThroughputBest"`
	Efficiency           float64 `json:"efficiency" yaml:"efficiency"`
}

type InterferenceFinding struct {
	Assessment    `yaml:",inline"`
	RetryRate     float64 `json:"retryRate" yaml:"retryRate"`
	FailureRate   float64 `json:"failureRate" yaml:"failureRate"`
	NeighborAPs   int     `json:"neighborAps" yaml:"neighborAps"`
	DFSEvents     int     `json:"dfsEvents" yaml:"dfsEvents"`
	NoiseFloorDbm float64 `json:"noiseFloorDbm" yaml:"noiseFloorDbm"`
}

type BackhaulFinding struct {
	Assessment          `yaml:",inline"`
	CapacityMbps        float64      `json:"capacityMbps" yaml:"capacityMbps"`
	PeakMbps            float64      `json:"peakMbps" yaml:"peakMbps"`
	AvgMbps             float64      `json:"avgMbps" yaml:"avgMbps"`
	PeakUtilization     float64      `json:"peakUtilization" yaml:"peakUtilization"`
	AvgUtilization      float64      `json:"avgUtilization" yaml:"avgUtilization"`
	UplinkMedium        UplinkMedium `json:"uplinkMedium" yaml:"uplinkMedium"`
	UplinkSpeedMbps     float64      `json:"uplinkSpeedMbps" yaml:"uplinkSpeedMbps"`
	SustainedSaturation bool         `json:"sustainedSaturation" yaml:"sustainedSaturation"`
	UplinkLimited       bool         `json:"uplinkLimited" yaml:"uplinkLimited"`
}

type ClientLimitationsFinding struct {
	Assessment             `yaml:",inline"`
	Generation             string  `json:"generation" yaml:"generation"`
	SpatialStreams         int     `json:"spatialStreams" yaml:"spatialStreams"`
	MaxChannelWidth        int     `json:"maxChannelWidth" yaml:"maxChannelWidth"`
	DeviceProfile          string  `json:"deviceProfile,omitempty" yaml:"deviceProfile,omitempty"`
	MaxPhyRate             float64 `json:"maxPhyRate" yaml:"maxPhyRate"`
	MaxRealisticThroughput float64 `json:"maxRealisticThroughput" yaml:"maxRealisticThroughput"`
	RadioCeiling           float64 `json:"radioCeiling" yaml:"radioCeiling"`
	CapabilityGap          float64 `json:"capabilityGap" yaml:"capabilityGap"`
}

// DiagnosticReport is the engine's output. Field names are a contract with
// the presentation layer.
type DiagnosticReport struct {
	Scope             Scope                    `json:"scope" yaml:"scope"`
	Summary           Summary                  `json:"summary" yaml:"summary"`
	LinkQuality       LinkQualityFinding       `json:"linkQuality" yaml:"linkQuality"`
	PhyVsReal         PhyVsRealFinding         `json:"phyVsReal" yaml:"phyVsReal"`
	Interference      InterferenceFinding      `json:"interference" yaml:"interference"`
	Backhaul          BackhaulFinding          `json:"backhaul" yaml:"backhaul"`
	ClientLimitations ClientLimitationsFinding `json:"clientLimitations" yaml:"clientLimitations"`
}

// Verdicts lists the five categories in report order.
func (r *DiagnosticReport) Verdicts() []CategoryVerdict {
	return []CategoryVerdict{
		{Type: BottleneckSignal, Assessment: r.LinkQuality.Assessment},
		{Type: BottleneckAirtime, Assessment: r.PhyVsReal.Assessment},
		{Type: BottleneckInterference, Assessment: r.Interference.Assessment},
		{Type: BottleneckBackhaul, Assessment: r.Backhaul.Assessment},
		{Type: BottleneckClient, Assessment: r.ClientLimitations.Assessment},
	}
}
