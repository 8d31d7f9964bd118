package services

import "math"

const secondsPerHour = 3600.0

// SecondsToHours converts an aggregated flight duration to hours
func SecondsToHours(seconds float64) float64 {
	return seconds / secondsPerHour
}

// CurrentMultiple is the number of whole maintenance intervals contained in totalHours.
// Non-finite or non-positive inputs yield 0.
func CurrentMultiple(totalHours, intervalHours float64) int {
	if !isFinite(intervalHours) || !isFinite(totalHours) || intervalHours <= 0 || totalHours <= 0 {
		return 0
	}
	ratio := math.Floor(totalHours / intervalHours)
	if ratio > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(ratio)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ThresholdDecision is the evaluator's verdict for one drone
type ThresholdDecision struct {
	CurrentMultiple int
	HighestRecorded int

	// NewMultiples holds every multiple in (HighestRecorded, CurrentMultiple]
	// in ascending order. Empty when SkipReason is set.
	NewMultiples []int
	SkipReason   string
}

const (
	SkipBelowThreshold = "below threshold"
	SkipAlreadyAlerted = "already alerted for this interval"
)

// EvaluateThreshold compares the current multiple against the highest one
// already recorded. A jump across several intervals yields one entry per
// interval so the recorded set stays a gap-free prefix 1..current.
func EvaluateThreshold(currentMultiple, highestRecorded int) ThresholdDecision {
	d := ThresholdDecision{
		CurrentMultiple: currentMultiple,
		HighestRecorded: highestRecorded,
	}

	if currentMultiple < 1 {
		d.SkipReason = SkipBelowThreshold
		return d
	}
	if currentMultiple <= highestRecorded {
		d.SkipReason = SkipAlreadyAlerted
		return d
	}

	from := highestRecorded + 1
	if from < 1 {
		from = 1
	}
	d.NewMultiples = make([]int, 0, currentMultiple-from+1)
	for m := from; m <= currentMultiple; m++ {
		d.NewMultiples = append(d.NewMultiples, m)
	}
	return d
}
