package phy

// Lookup is a rate query together with its answer, shaped for CLI and
// HTTP output.
type Lookup struct {
	MCS           int           `json:"mcs" yaml:"mcs"`
	Streams       int           `json:"spatialStreams" yaml:"spatialStreams"`
	WidthMHz      int           `json:"channelWidth" yaml:"channelWidth"`
	GuardInterval GuardInterval `json:"guardInterval" yaml:"guardInterval"`
	Generation    Generation    `json:"generation" yaml:"generation"`
	RateMbps      float64       `json:"rateMbps" yaml:"rateMbps"`
	// MaxMCS is the highest MCS defined for the same streams, width and
	// guard interval; -1 when the tuple itself is undefined.
	MaxMCS      int     `json:"maxMcs" yaml:"maxMcs"`
	MaxRateMbps float64 `json:"maxRateMbps" yaml:"maxRateMbps"`
	Error       string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Query answers one rate lookup. The returned error is the
// *UnsupportedCombinationError, if any; Lookup.Error carries its text.
func Query(mcs, streams, widthMHz int, gi GuardInterval, gen Generation) (Lookup, error) {
	l := Lookup{
		MCS:           mcs,
		Streams:       streams,
		WidthMHz:      widthMHz,
		GuardInterval: gi,
		Generation:    gen,
		MaxMCS:        MaxMCS(streams, widthMHz, gi, gen),
	}
	if l.MaxMCS >= 0 {
		l.MaxRateMbps, _ = ExpectedPhyRate(l.MaxMCS, streams, widthMHz, gi, gen)
	}
	rate, err := ExpectedPhyRate(mcs, streams, widthMHz, gi, gen)
	if err != nil {
		l.Error = err.Error()
		return l, err
	}
	l.RateMbps = rate
	return l, nil
}
