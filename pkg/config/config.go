// Package config holds the tunable thresholds of the diagnostic engine.
//
// Defaults are engineering values; deployments can overlay a YAML file on
// top of them:
//
//	link:
//	  rssiFair: -72
//	score:
//	  penaltyHigh: 35
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding a thresholds file.
const EnvConfigPath = "WIFI_DOCTOR_CONFIG"

type Thresholds struct {
	Link         Link         `yaml:"link" json:"link"`
	Airtime      Airtime      `yaml:"airtime" json:"airtime"`
	Interference Interference `yaml:"interference" json:"interference"`
	Backhaul     Backhaul     `yaml:"backhaul" json:"backhaul"`
	Client       Client       `yaml:"client" json:"client"`
	Score        Score        `yaml:"score" json:"score"`
}

// Link thresholds are in dBm (RSSI) and dB (SNR).
type Link struct {
	RSSIGood     float64 `yaml:"rssiGood" json:"rssiGood"`
	RSSIFair     float64 `yaml:"rssiFair" json:"rssiFair"`
	RSSICritical float64 `yaml:"rssiCritical" json:"rssiCritical"`
	SNRCritical  float64 `yaml:"snrCritical" json:"snrCritical"`
	// MCSHeadroom is how many indices below the achievable maximum the
	// modal MCS may sit before the link counts as under-using the radio.
	MCSHeadroom int `yaml:"mcsHeadroom" json:"mcsHeadroom"`
}

// Airtime thresholds are percentages.
type Airtime struct {
	UtilizationFair       float64 `yaml:"utilizationFair" json:"utilizationFair"`
	UtilizationBottleneck float64 `yaml:"utilizationBottleneck" json:"utilizationBottleneck"`
	UtilizationCritical   float64 `yaml:"utilizationCritical" json:"utilizationCritical"`
	EfficiencyBottleneck  float64 `yaml:"efficiencyBottleneck" json:"efficiencyBottleneck"`
	EfficiencyCritical    float64 `yaml:"efficiencyCritical" json:"efficiencyCritical"`
}

// Interference rate thresholds are percentages of sampled frames.
type Interference struct {
	RetryLow           float64 `yaml:"retryLow" json:"retryLow"`
	RetryMedium        float64 `yaml:"retryMedium" json:"retryMedium"`
	RetryHigh          float64 `yaml:"retryHigh" json:"retryHigh"`
	FailureLow         float64 `yaml:"failureLow" json:"failureLow"`
	FailureMedium      float64 `yaml:"failureMedium" json:"failureMedium"`
	FailureHigh        float64 `yaml:"failureHigh" json:"failureHigh"`
	DFSEvents          int     `yaml:"dfsEvents" json:"dfsEvents"`
	NeighborCongestion int     `yaml:"neighborCongestion" json:"neighborCongestion"`
	NoiseFloorElevated float64 `yaml:"noiseFloorElevated" json:"noiseFloorElevated"`
}

// Backhaul thresholds are percentages of the WAN capacity estimate.
type Backhaul struct {
	PeakFair       float64 `yaml:"peakFair" json:"peakFair"`
	PeakSaturation float64 `yaml:"peakSaturation" json:"peakSaturation"`
	Sustained      float64 `yaml:"sustained" json:"sustained"`
	Oversubscribed float64 `yaml:"oversubscribed" json:"oversubscribed"`
}

type Client struct {
	// Derate converts a theoretical PHY rate into a realistic goodput.
	Derate        float64 `yaml:"derate" json:"derate"`
	GapBottleneck float64 `yaml:"gapBottleneck" json:"gapBottleneck"`
	GapMedium     float64 `yaml:"gapMedium" json:"gapMedium"`
	GapHigh       float64 `yaml:"gapHigh" json:"gapHigh"`
}

type Score struct {
	PenaltyHigh    int `yaml:"penaltyHigh" json:"penaltyHigh"`
	PenaltyMedium  int `yaml:"penaltyMedium" json:"penaltyMedium"`
	PenaltyLow     int `yaml:"penaltyLow" json:"penaltyLow"`
	LevelExcellent int `yaml:"levelExcellent" json:"levelExcellent"`
	LevelGood      int `yaml:"levelGood" json:"levelGood"`
	LevelFair      int `yaml:"levelFair" json:"levelFair"`
}

// Default returns the built-in thresholds.
func Default() Thresholds {
	return Thresholds{
		Link: Link{
			RSSIGood:     -65,
			RSSIFair:     -75,
			RSSICritical: -80,
			SNRCritical:  15,
			MCSHeadroom:  2,
		},
		Airtime: Airtime{
			UtilizationFair:       60,
			UtilizationBottleneck: 80,
			UtilizationCritical:   95,
			EfficiencyBottleneck:  50,
			EfficiencyCritical:    25,
		},
		Interference: Interference{
			RetryLow:           10,
			RetryMedium:        20,
			RetryHigh:          40,
			FailureLow:         2,
			FailureMedium:      5,
			FailureHigh:        10,
			DFSEvents:          1,
			NeighborCongestion: 15,
			NoiseFloorElevated: -85,
		},
		Backhaul: Backhaul{
			PeakFair:       60,
			PeakSaturation: 85,
			Sustained:      60,
			Oversubscribed: 100,
		},
		Client: Client{
			Derate:        0.7,
			GapBottleneck: 30,
			GapMedium:     50,
			GapHigh:       70,
		},
		Score: Score{
			PenaltyHigh:    30,
			PenaltyMedium:  15,
			PenaltyLow:     5,
			LevelExcellent: 85,
			LevelGood:      65,
			LevelFair:      40,
		},
	}
}

// Load overlays the YAML file at path on the defaults. Keys missing from
// the file keep their default values.
func Load(path string) (Thresholds, error) {
	t := Default()
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read thresholds: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse thresholds %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("thresholds %s: %w", path, err)
	}
	return t, nil
}

// FromEnv loads the file named by WIFI_DOCTOR_CONFIG, or returns the
// defaults when the variable is unset.
func FromEnv() (Thresholds, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Resolve picks the explicit path when given, else falls back to FromEnv.
func Resolve(path string) (Thresholds, error) {
	if path != "" {
		return Load(path)
	}
	return FromEnv()
}

// Validate checks that every tier ladder is strictly ordered.
func (t Thresholds) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	l := t.Link
	check(l.RSSIGood > l.RSSIFair && l.RSSIFair >= l.RSSICritical,
		"link: need rssiGood > rssiFair >= rssiCritical, got %v/%v/%v", l.RSSIGood, l.RSSIFair, l.RSSICritical)
	check(l.MCSHeadroom >= 0, "link: mcsHeadroom must be >= 0")

	a := t.Airtime
	check(a.UtilizationFair <= a.UtilizationBottleneck && a.UtilizationBottleneck <= a.UtilizationCritical,
		"airtime: need utilizationFair <= utilizationBottleneck <= utilizationCritical")
	check(a.EfficiencyCritical <= a.EfficiencyBottleneck, "airtime: efficiencyCritical must not exceed efficiencyBottleneck")

	i := t.Interference
	check(i.RetryLow < i.RetryMedium && i.RetryMedium < i.RetryHigh, "interference: retry tiers must increase")
	check(i.FailureLow < i.FailureMedium && i.FailureMedium < i.FailureHigh, "interference: failure tiers must increase")
	check(i.DFSEvents >= 1, "interference: dfsEvents must be >= 1")

	b := t.Backhaul
	check(b.PeakFair <= b.PeakSaturation && b.PeakSaturation <= b.Oversubscribed, "backhaul: need peakFair <= peakSaturation <= oversubscribed")

	c := t.Client
	check(c.Derate > 0 && c.Derate <= 1, "client: derate must be in (0,1], got %v", c.Derate)
	check(c.GapBottleneck <= c.GapMedium && c.GapMedium <= c.GapHigh, "client: gap tiers must increase")

	s := t.Score
	check(s.PenaltyLow >= 0 && s.PenaltyLow <= s.PenaltyMedium && s.PenaltyMedium <= s.PenaltyHigh,
		"score: need 0 <= penaltyLow <= penaltyMedium <= penaltyHigh")
	check(s.LevelFair < s.LevelGood && s.LevelGood < s.LevelExcellent && s.LevelExcellent <= 100,
		"score: need levelFair < levelGood < levelExcellent <= 100")

	return errors.Join(errs...)
}
