package phy

import (
	"errors"
	"fmt"
)

// ErrUnsupportedCombination matches every *UnsupportedCombinationError.
var ErrUnsupportedCombination = errors.New("unsupported PHY combination")

// UnsupportedCombinationError describes a rate lookup the generation does
// not define.
type UnsupportedCombinationError struct {
	MCS           int
	Streams       int
	WidthMHz      int
	GuardInterval GuardInterval
	Generation    Generation
	Reason        string
}

func (e *UnsupportedCombinationError) Error() string {
	return fmt.Sprintf("unsupported PHY combination (gen %s, MCS %d, %dSS, %d MHz, GI %d ns): %s",
		e.Generation, e.MCS, e.Streams, e.WidthMHz, e.GuardInterval, e.Reason)
}

func (e *UnsupportedCombinationError) Is(target error) bool {
	return target == ErrUnsupportedCombination
}
