package domain

import "strings"

// Condition flags a recoverable anomaly detected during a computation.
// Conditions never abort a run: the result is still produced and the caller
// decides whether to surface a warning.
type Condition string

const (
	// DegenerateOperatingLines: rectifying and stripping slopes are equal,
	// so the split point fell back to the feed composition.
	DegenerateOperatingLines Condition = "degenerate_operating_lines"

	// EquilibriumDataOutOfRange: an equilibrium lookup left the sampled
	// domain and the interpolant extrapolated from its end segment.
	EquilibriumDataOutOfRange Condition = "equilibrium_data_out_of_range"

	// NonConvergent: the stepping loop exhausted its stage cap before
	// crossing the bottoms composition. The reported count is the cap, not
	// a plate count.
	NonConvergent Condition = "non_convergent"

	// NoOperatingRegion: fewer than two valid boundary intersections exist,
	// so no operating envelope could be established.
	NoOperatingRegion Condition = "no_operating_region"

	// BottomGapAboveWeir: the downcomer bottom gap exceeds the weir height,
	// which is usually a design mistake.
	BottomGapAboveWeir Condition = "bottom_gap_above_weir"
)

// Conditions is the set of flags attached to a result.
type Conditions []Condition

// Has reports whether c is present.
func (cs Conditions) Has(c Condition) bool {
	for _, v := range cs {
		if v == c {
			return true
		}
	}
	return false
}

// Add appends c if it is not already present.
func (cs Conditions) Add(c Condition) Conditions {
	if cs.Has(c) {
		return cs
	}
	return append(cs, c)
}

func (cs Conditions) String() string {
	if len(cs) == 0 {
		return "ok"
	}
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}
