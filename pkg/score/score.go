// Package score folds the category verdicts into a 0-100 health score and
// a level bucket.
package score

import (
	"github.com/helmcode/wifi-doctor/pkg/config"
	"github.com/helmcode/wifi-doctor/pkg/model"
)

const (
	Max = 100
	Min = 0
)

// Penalties maps each severity to the points a flagged category costs.
func Penalties(th config.Score) map[model.Severity]int {
	return map[model.Severity]int{
		model.SeverityHigh:   th.PenaltyHigh,
		model.SeverityMedium: th.PenaltyMedium,
		model.SeverityLow:    th.PenaltyLow,
	}
}

// Compute subtracts one penalty per flagged category from Max. Adding a
// bottleneck or raising its severity never raises the score.
func Compute(verdicts []model.CategoryVerdict, th config.Score) (int, model.Level) {
	penalties := Penalties(th)
	s := Max
	for _, v := range verdicts {
		if v.Assessment.IsBottleneck {
			s -= penalties[v.Assessment.Severity]
		}
	}
	s = max(Min, min(Max, s))
	return s, LevelFor(s, th)
}

// LevelFor buckets a score into a level.
func LevelFor(s int, th config.Score) model.Level {
	switch {
	case s >= th.LevelExcellent:
		return model.LevelExcellent
	case s >= th.LevelGood:
		return model.LevelGood
	case s >= th.LevelFair:
		return model.LevelFair
	default:
		return model.LevelPoor
	}
}
