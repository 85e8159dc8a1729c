package fuzzy

import "fmt"

// Term names one label of a variable and its triangle.
type Term struct {
	Label    string
	Triangle Triangle
}

// Variable is a linguistic variable: a universe plus an ordered set of labels.
type Variable struct {
	Name     string
	Universe Universe
	terms    []MembershipFunction
}

// NewVariable samples each term on the universe. Label order is preserved and
// is the order used when enumerating rule combinations.
func NewVariable(name string, u Universe, terms ...Term) (*Variable, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("variable %s: no terms", name)
	}
	seen := make(map[string]bool, len(terms))
	mfs := make([]MembershipFunction, len(terms))
	for i, t := range terms {
		if seen[t.Label] {
			return nil, fmt.Errorf("variable %s: duplicate label %q", name, t.Label)
		}
		seen[t.Label] = true
		if err := t.Triangle.validate(); err != nil {
			return nil, fmt.Errorf("variable %s label %s: %w", name, t.Label, err)
		}
		mfs[i] = MembershipFunction{
			Label:    t.Label,
			Triangle: t.Triangle,
			curve:    t.Triangle.Sample(u),
		}
	}
	return &Variable{Name: name, Universe: u, terms: mfs}, nil
}

func mustVariable(name string, u Universe, terms ...Term) *Variable {
	v, err := NewVariable(name, u, terms...)
	if err != nil {
		panic(err)
	}
	return v
}

// Len returns the number of labels.
func (v *Variable) Len() int { return len(v.terms) }

// Labels returns the label names in order.
func (v *Variable) Labels() []string {
	out := make([]string, len(v.terms))
	for i, t := range v.terms {
		out[i] = t.Label
	}
	return out
}

// Term returns the i-th membership function.
func (v *Variable) Term(i int) MembershipFunction { return v.terms[i] }

// Degree returns the membership of x under the i-th label.
func (v *Variable) Degree(i int, x float64) float64 {
	return v.Universe.Interp(v.terms[i].curve, x)
}

// Degrees returns the membership of x under every label, in label order.
func (v *Variable) Degrees(x float64) []float64 {
	out := make([]float64, len(v.terms))
	for i := range v.terms {
		out[i] = v.Degree(i, x)
	}
	return out
}
