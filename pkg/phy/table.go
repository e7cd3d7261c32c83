// Package phy holds the reference PHY data rates for 802.11n/ac/ax/be.
//
// Rates are built from the per-revision OFDM parameters (data tones per
// channel width, constellation size and code rate per MCS, symbol length per
// guard interval) and rounded to the 0.1 Mbps precision the published
// tables use. The whole package is read-only data and is safe for
// concurrent use.
package phy

import (
	"fmt"
	"strings"
)

// Generation is the Wi-Fi protocol generation.
type Generation string

const (
	Gen4  Generation = "4"  // 802.11n (HT)
	Gen5  Generation = "5"  // 802.11ac (VHT)
	Gen6  Generation = "6"  // 802.11ax (HE)
	Gen6E Generation = "6E" // 802.11ax in 6 GHz
	Gen7  Generation = "7"  // 802.11be (EHT)
)

// Rank orders generations; 6 and 6E share a PHY and therefore a rank.
func (g Generation) Rank() int {
	switch g {
	case Gen4:
		return 4
	case Gen5:
		return 5
	case Gen6, Gen6E:
		return 6
	case Gen7:
		return 7
	default:
		return 0
	}
}

// Valid reports whether g is a known generation.
func (g Generation) Valid() bool {
	return g.Rank() != 0
}

// ParseGeneration accepts "6", "6e", "wifi6", "802.11ax" style names.
func ParseGeneration(s string) (Generation, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "WIFI")
	v = strings.TrimPrefix(v, "WI-FI")
	v = strings.TrimSpace(v)
	switch v {
	case "4", "802.11N":
		return Gen4, nil
	case "5", "802.11AC":
		return Gen5, nil
	case "6", "802.11AX":
		return Gen6, nil
	case "6E":
		return Gen6E, nil
	case "7", "802.11BE":
		return Gen7, nil
	}
	return "", fmt.Errorf("unknown wifi generation %q", s)
}

// GuardInterval is the OFDM guard interval in nanoseconds.
type GuardInterval int

const (
	GI400  GuardInterval = 400
	GI800  GuardInterval = 800
	GI1600 GuardInterval = 1600
	GI3200 GuardInterval = 3200
)

type modulation struct {
	bits    int64 // coded bits per subcarrier
	rateNum int64
	rateDen int64
}

// MCS 0-13; each generation exposes a prefix of this list.
var modulations = [...]modulation{
	{1, 1, 2},  // BPSK 1/2
	{2, 1, 2},  // QPSK 1/2
	{2, 3, 4},  // QPSK 3/4
	{4, 1, 2},  // 16-QAM 1/2
	{4, 3, 4},  // 16-QAM 3/4
	{6, 2, 3},  // 64-QAM 2/3
	{6, 3, 4},  // 64-QAM 3/4
	{6, 5, 6},  // 64-QAM 5/6
	{8, 3, 4},  // 256-QAM 3/4
	{8, 5, 6},  // 256-QAM 5/6
	{10, 3, 4}, // 1024-QAM 3/4
	{10, 5, 6}, // 1024-QAM 5/6
	{12, 3, 4}, // 4096-QAM 3/4
	{12, 5, 6}, // 4096-QAM 5/6
}

type revision struct {
	name       string
	maxMCS     int
	maxStreams int
	dataTones  map[int]int64           // channel width MHz -> data subcarriers
	symbolNs   map[GuardInterval]int64 // guard interval -> symbol duration
}

var (
	ht = revision{
		name:       "HT",
		maxMCS:     7,
		maxStreams: 4,
		dataTones:  map[int]int64{20: 52, 40: 108},
		symbolNs:   map[GuardInterval]int64{GI800: 4000, GI400: 3600},
	}
	vht = revision{
		name:       "VHT",
		maxMCS:     9,
		maxStreams: 8,
		dataTones:  map[int]int64{20: 52, 40: 108, 80: 234, 160: 468},
		symbolNs:   map[GuardInterval]int64{GI800: 4000, GI400: 3600},
	}
	he = revision{
		name:       "HE",
		maxMCS:     11,
		maxStreams: 8,
		dataTones:  map[int]int64{20: 234, 40: 468, 80: 980, 160: 1960},
		symbolNs:   map[GuardInterval]int64{GI800: 13600, GI1600: 14400, GI3200: 16000},
	}
	eht = revision{
		name:       "EHT",
		maxMCS:     13,
		maxStreams: 8,
		dataTones:  map[int]int64{20: 234, 40: 468, 80: 980, 160: 1960, 320: 3920},
		symbolNs:   map[GuardInterval]int64{GI800: 13600, GI1600: 14400, GI3200: 16000},
	}
)

var revisions = map[Generation]*revision{
	Gen4:  &ht,
	Gen5:  &vht,
	Gen6:  &he,
	Gen6E: &he,
	Gen7:  &eht,
}

type vhtTuple struct {
	width   int
	mcs     int
	streams int
}

// 802.11ac leaves these tuples undefined: the coded bits do not split
// evenly across the encoders.
var vhtUndefined = map[vhtTuple]bool{
	{20, 9, 1}: true, {20, 9, 2}: true, {20, 9, 4}: true,
	{20, 9, 5}: true, {20, 9, 7}: true, {20, 9, 8}: true,
	{80, 6, 3}: true, {80, 6, 7}: true,
	{80, 9, 6}: true,
	{160, 9, 3}: true,
}

// ExpectedPhyRate returns the theoretical PHY rate in Mbps. It fails with an
// *UnsupportedCombinationError when the generation does not define the
// requested MCS, width, guard interval or stream count.
func ExpectedPhyRate(mcs, streams, widthMHz int, gi GuardInterval, gen Generation) (float64, error) {
	tenths, err := rateTenths(mcs, streams, widthMHz, gi, gen)
	if err != nil {
		return 0, err
	}
	return float64(tenths) / 10, nil
}

func rateTenths(mcs, streams, widthMHz int, gi GuardInterval, gen Generation) (int64, error) {
	unsupported := func(reason string) error {
		return &UnsupportedCombinationError{
			MCS: mcs, Streams: streams, WidthMHz: widthMHz,
			GuardInterval: gi, Generation: gen, Reason: reason,
		}
	}

	rev, ok := revisions[gen]
	if !ok {
		return 0, unsupported("unknown generation")
	}
	if mcs < 0 || mcs > rev.maxMCS {
		return 0, unsupported(fmt.Sprintf("%s defines MCS 0-%d", rev.name, rev.maxMCS))
	}
	if streams < 1 || streams > rev.maxStreams {
		return 0, unsupported(fmt.Sprintf("%s defines 1-%d spatial streams", rev.name, rev.maxStreams))
	}
	tones, ok := rev.dataTones[widthMHz]
	if !ok {
		return 0, unsupported(fmt.Sprintf("%s does not define %d MHz channels", rev.name, widthMHz))
	}
	symbol, ok := rev.symbolNs[gi]
	if !ok {
		return 0, unsupported(fmt.Sprintf("%s does not define a %d ns guard interval", rev.name, gi))
	}
	if gen == Gen5 && vhtUndefined[vhtTuple{widthMHz, mcs, streams}] {
		return 0, unsupported("VHT leaves this MCS/width/stream tuple undefined")
	}

	m := modulations[mcs]
	// Mbps = tones * bits * R * Nss / Tsym(us); scaled by 10 for one decimal.
	num := tones * m.bits * m.rateNum * int64(streams) * 10_000
	den := m.rateDen * symbol
	return (2*num + den) / (2 * den), nil
}

// MaxMCS returns the highest MCS the generation defines for the given
// streams, width and guard interval, or -1 when none is defined.
func MaxMCS(streams, widthMHz int, gi GuardInterval, gen Generation) int {
	rev, ok := revisions[gen]
	if !ok {
		return -1
	}
	for mcs := rev.maxMCS; mcs >= 0; mcs-- {
		if _, err := rateTenths(mcs, streams, widthMHz, gi, gen); err == nil {
			return mcs
		}
	}
	return -1
}

// BestGuardInterval returns the shortest guard interval the generation
// defines.
func BestGuardInterval(gen Generation) GuardInterval {
	switch gen.Rank() {
	case 4, 5:
		return GI400
	default:
		return GI800
	}
}

// Widths lists the channel widths the generation defines, narrowest first.
func Widths(gen Generation) []int {
	rev, ok := revisions[gen]
	if !ok {
		return nil
	}
	var out []int
	for _, w := range []int{20, 40, 80, 160, 320} {
		if _, ok := rev.dataTones[w]; ok {
			out = append(out, w)
		}
	}
	return out
}
