package taskwarrior

import "math"

// UrgencyFunc scores a normalized task. Implementations must be pure.
type UrgencyFunc func(Task) float64

var priorityWeights = map[string]float64{
	PriorityHigh:   6.0,
	PriorityMedium: 3.9,
	PriorityLow:    1.8,
}

const (
	projectWeight = 1.0
	dueWeight     = 12.0
	tagWeight     = 1.0
)

// DefaultUrgency is a simplified weighted sum over priority, project, due
// date and tag count. It ignores the blocking, scheduled, active, waiting and
// annotation terms the tool itself uses.
func DefaultUrgency(t Task) float64 {
	u := priorityWeights[t.Priority]
	if t.HasProject() {
		u += projectWeight
	}
	if t.Due.IsSet() {
		u += dueWeight
	}
	u += tagWeight * float64(len(t.Tags))
	return u
}

func clampUrgency(u float64) float64 {
	if math.IsNaN(u) || math.IsInf(u, 0) || u < 0 {
		return 0
	}
	return u
}
