package fuzzy

import (
	"fmt"
	"math"
	"sort"
)

// Universe is an evenly spaced discretization of [start, stop].
// It is the evaluation grid for membership curves and the integration grid for
// defuzzification.
type Universe struct {
	start  float64
	step   float64
	points []float64
}

// NewUniverse builds the grid start, start+step, ... with
// round((stop-start)/step)+1 points.
func NewUniverse(start, stop, step float64) (Universe, error) {
	if !(step > 0) {
		return Universe{}, fmt.Errorf("universe step must be positive, got %v", step)
	}
	if !(start < stop) {
		return Universe{}, fmt.Errorf("universe start %v must be below stop %v", start, stop)
	}

	n := int(math.Round((stop-start)/step)) + 1
	points := make([]float64, n)
	for i := range points {
		// The explicit conversion keeps the product rounded on its own so the
		// grid does not depend on FMA fusion.
		points[i] = start + float64(float64(i)*step)
	}
	return Universe{start: start, step: step, points: points}, nil
}

func mustUniverse(start, stop, step float64) Universe {
	u, err := NewUniverse(start, stop, step)
	if err != nil {
		panic(err)
	}
	return u
}

// Len returns the number of grid points.
func (u Universe) Len() int { return len(u.points) }

// At returns the i-th grid coordinate.
func (u Universe) At(i int) float64 { return u.points[i] }

// Start returns the first grid coordinate.
func (u Universe) Start() float64 { return u.points[0] }

// Stop returns the last grid coordinate.
func (u Universe) Stop() float64 { return u.points[len(u.points)-1] }

// Step returns the grid spacing.
func (u Universe) Step() float64 { return u.step }

// Points returns a copy of the grid coordinates.
func (u Universe) Points() []float64 {
	out := make([]float64, len(u.points))
	copy(out, u.points)
	return out
}

// Interp evaluates a sampled curve at x by linear interpolation between the two
// bracketing grid points. Inputs at or beyond either end of the grid take the
// boundary sample. NaN evaluates to 0.
func (u Universe) Interp(curve []float64, x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	pts := u.points
	last := len(pts) - 1
	if x <= pts[0] {
		return curve[0]
	}
	if x >= pts[last] {
		return curve[last]
	}

	j := sort.SearchFloat64s(pts, x)
	if pts[j] == x {
		return curve[j]
	}
	j--
	slope := (curve[j+1] - curve[j]) / (pts[j+1] - pts[j])
	return float64(slope*(x-pts[j])) + curve[j]
}
