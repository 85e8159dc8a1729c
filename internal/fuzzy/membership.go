package fuzzy

import "fmt"

// Triangle is a triangular membership function with breakpoints A <= B <= C.
type Triangle struct {
	A, B, C float64
}

// At evaluates the triangle at x: 0 outside (A, C), rising on (A, B), falling
// on (B, C) and exactly 1 at B. A == B or B == C gives a right or left triangle.
func (t Triangle) At(x float64) float64 {
	var y float64
	if t.A != t.B && t.A < x && x < t.B {
		y = (x - t.A) / (t.B - t.A)
	}
	if t.B != t.C && t.B < x && x < t.C {
		y = (t.C - x) / (t.C - t.B)
	}
	if x == t.B {
		y = 1
	}
	return y
}

// Sample evaluates the triangle on every point of u.
func (t Triangle) Sample(u Universe) []float64 {
	curve := make([]float64, u.Len())
	for i := range curve {
		curve[i] = t.At(u.At(i))
	}
	return curve
}

func (t Triangle) validate() error {
	if !(t.A <= t.B && t.B <= t.C) {
		return fmt.Errorf("triangle breakpoints out of order: %v, %v, %v", t.A, t.B, t.C)
	}
	return nil
}

// MembershipFunction is a labelled triangle sampled on its variable's universe.
// Lookups go through the sampled curve, not the closed form.
type MembershipFunction struct {
	Label    string
	Triangle Triangle
	curve    []float64
}

// Curve returns a copy of the sampled membership curve.
func (m MembershipFunction) Curve() []float64 {
	out := make([]float64, len(m.curve))
	copy(out, m.curve)
	return out
}
