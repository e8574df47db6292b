package airquality

// IndexFor converts a concentration into the standardized 0-500 index
// for a pollutant. The boolean is false when no index can be derived:
// unknown pollutant, or a concentration below the lowest breakpoint
// (negative values included) or inside a gap between segments.
//
// A concentration above the highest breakpoint saturates to
// IndexCeiling. There is deliberately no symmetric floor: below-range
// values stay undefined. That asymmetry matches the reference tables
// and is pinned by tests; do not "fix" it here.
func IndexFor(p Pollutant, concentration float64) (float64, bool) {
	table := breakpointTable[p]
	for _, bp := range table {
		if bp.ConcLow <= concentration && concentration <= bp.ConcHigh {
			index := (bp.IndexHigh-bp.IndexLow)/(bp.ConcHigh-bp.ConcLow)*(concentration-bp.ConcLow) + bp.IndexLow
			return index, true
		}
	}
	if len(table) > 0 && concentration > table[len(table)-1].ConcHigh {
		return IndexCeiling, true
	}
	return 0, false
}
