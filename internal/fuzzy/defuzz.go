package fuzzy

// FallbackScore is returned when no rule fired with nonzero membership.
const FallbackScore = 5.0

// Centroid reduces an aggregated curve over the risk universe to its weighted
// mean. A curve with zero mass yields FallbackScore and ok == false.
func Centroid(c Curve) (score float64, ok bool) {
	mass := c.Mass()
	if mass == 0 {
		return FallbackScore, false
	}
	u := risk.Universe
	var moment float64
	for i, m := range c {
		moment += float64(u.At(i) * m)
	}
	return moment / mass, true
}
