package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helmcode/wifi-doctor/pkg/config"
	"github.com/helmcode/wifi-doctor/pkg/model"
)

var th = config.Default().Score

func flagged(sevs ...model.Severity) []model.CategoryVerdict {
	var vs []model.CategoryVerdict
	for _, s := range sevs {
		vs = append(vs, model.CategoryVerdict{
			Type:       model.BottleneckSignal,
			Assessment: model.Assessment{Severity: s, IsBottleneck: true},
		})
	}
	return vs
}

func TestCompute_NoBottlenecks(t *testing.T) {
	vs := []model.CategoryVerdict{
		{Type: model.BottleneckSignal, Assessment: model.Assessment{Severity: model.SeverityHigh}},
		{Type: model.BottleneckClient, Assessment: model.Assessment{Severity: model.SeverityLow}},
	}

	s, level := Compute(vs, th)

	assert.Equal(t, 100, s)
	assert.Equal(t, model.LevelExcellent, level)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name  string
		sevs  []model.Severity
		score int
		level model.Level
	}{
		{"one high", []model.Severity{model.SeverityHigh}, 70, model.LevelGood},
		{"one medium", []model.Severity{model.SeverityMedium}, 85, model.LevelExcellent},
		{"one low", []model.Severity{model.SeverityLow}, 95, model.LevelExcellent},
		{"high and medium", []model.Severity{model.SeverityHigh, model.SeverityMedium}, 55, model.LevelFair},
		{"two high", []model.Severity{model.SeverityHigh, model.SeverityHigh}, 40, model.LevelFair},
		{"three high", []model.Severity{model.SeverityHigh, model.SeverityHigh, model.SeverityHigh}, 10, model.LevelPoor},
		{"floored at zero", []model.Severity{
			model.SeverityHigh, model.SeverityHigh, model.SeverityHigh, model.SeverityHigh, model.SeverityHigh,
		}, 0, model.LevelPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, level := Compute(flagged(tt.sevs...), th)

			assert.Equal(t, tt.score, s)
			assert.Equal(t, tt.level, level)
		})
	}
}

func TestCompute_Monotonic(t *testing.T) {
	sevs := []model.Severity{model.SeverityLow, model.SeverityMedium, model.SeverityHigh}
	prev := Max
	var acc []model.Severity
	for i := 0; i < 5; i++ {
		for _, s := range sevs {
			next := append(append([]model.Severity{}, acc...), s)
			got, _ := Compute(flagged(next...), th)
			assert.LessOrEqual(t, got, prev)
		}
		acc = append(acc, sevs[i%len(sevs)])
		prev, _ = Compute(flagged(acc...), th)
	}

	// raising a severity never raises the score
	low, _ := Compute(flagged(model.SeverityLow, model.SeverityMedium), th)
	high, _ := Compute(flagged(model.SeverityHigh, model.SeverityMedium), th)
	assert.LessOrEqual(t, high, low)
}

func TestLevelFor_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  model.Level
	}{
		{100, model.LevelExcellent},
		{85, model.LevelExcellent},
		{84, model.LevelGood},
		{65, model.LevelGood},
		{64, model.LevelFair},
		{40, model.LevelFair},
		{39, model.LevelPoor},
		{0, model.LevelPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.score, th), "score %d", tt.score)
	}
}

func TestPenalties_FollowThresholds(t *testing.T) {
	custom := th
	custom.PenaltyHigh = 50

	s, _ := Compute(flagged(model.SeverityHigh), custom)

	assert.Equal(t, 50, s)
	assert.Equal(t, 30, Penalties(th)[model.SeverityHigh])
}
