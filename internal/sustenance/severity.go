// Package sustenance contains the resource-decay simulation core: a single
// continuously-decaying level, the severity state machine derived from it,
// crash-safe persistence with offline catch-up, and the pure multiplier
// functions consumed by gameplay systems.
//
// ARCHITECTURAL RULE: nothing in this package locks. All mutation runs on
// one logical simulation goroutine; the host engine serializes callers.
package sustenance

// Severity is the discrete hunger bucket derived from the resource level.
// Order matters: higher values are worse.
type Severity int

const (
	SeverityFull Severity = iota
	SeverityHungry
	SeverityStarving
)

// String returns the stable label used on the wire and in saves.
func (s Severity) String() string {
	switch s {
	case SeverityFull:
		return "Full"
	case SeverityHungry:
		return "Hungry"
	case SeverityStarving:
		return "Starving"
	default:
		return "Unknown"
	}
}

// Classify maps a resource level to a severity. Boundary values belong to
// the lower (more severe) bucket: thresholds are inclusive upper bounds
// for the worse state. Evaluation order is fixed.
func Classify(level, hungryThreshold, starvingThreshold float64) Severity {
	if level <= starvingThreshold {
		return SeverityStarving
	}
	if level <= hungryThreshold {
		return SeverityHungry
	}
	return SeverityFull
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
