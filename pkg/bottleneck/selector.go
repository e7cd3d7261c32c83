// Package bottleneck picks the single primary bottleneck out of the five
// category verdicts.
package bottleneck

import "github.com/helmcode/wifi-doctor/pkg/model"

// Priority breaks severity ties, highest first. Physical-layer and
// last-mile causes mask symptoms in the other categories, so they lead.
var Priority = []model.BottleneckType{
	model.BottleneckSignal,
	model.BottleneckBackhaul,
	model.BottleneckInterference,
	model.BottleneckAirtime,
	model.BottleneckClient,
}

// None is returned when no category reports a bottleneck.
var None = model.PrimaryBottleneck{
	Type:           model.BottleneckUnknown,
	Severity:       model.SeverityLow,
	Description:    "No bottleneck detected; every category is within its thresholds.",
	Recommendation: "No action needed.",
}

// Select ranks the flagged verdicts by severity, then by Priority, and
// returns the winner with its diagnosis and recommendation unchanged.
func Select(verdicts []model.CategoryVerdict) model.PrimaryBottleneck {
	var (
		best  *model.CategoryVerdict
		found bool
	)
	for i := range verdicts {
		v := &verdicts[i]
		if !v.Assessment.IsBottleneck {
			continue
		}
		if !found || outranks(v, best) {
			best, found = v, true
		}
	}
	if !found {
		return None
	}
	return model.PrimaryBottleneck{
		Type:           best.Type,
		Severity:       best.Assessment.Severity,
		Description:    best.Assessment.Diagnosis,
		Recommendation: best.Assessment.Recommendation,
	}
}

func outranks(a, b *model.CategoryVerdict) bool {
	ra, rb := a.Assessment.Severity.Rank(), b.Assessment.Severity.Rank()
	if ra != rb {
		return ra > rb
	}
	return priority(a.Type) < priority(b.Type)
}

// priority returns the position of t in Priority; unknown types sort last.
func priority(t model.BottleneckType) int {
	for i, p := range Priority {
		if p == t {
			return i
		}
	}
	return len(Priority)
}
