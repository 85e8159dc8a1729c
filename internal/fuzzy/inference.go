package fuzzy

import "sync"

// Curve is a membership curve aligned to the risk universe grid.
type Curve []float64

// NewCurve returns the all-zero curve, the identity of Merge.
func NewCurve() Curve { return make(Curve, risk.Universe.Len()) }

// Merge folds other into c by pointwise maximum.
func (c Curve) Merge(other Curve) {
	for i, v := range other {
		if v > c[i] {
			c[i] = v
		}
	}
}

// clipInto folds the output curve clipped at firing into c.
func (c Curve) clipInto(out []float64, firing float64) {
	for i, m := range out {
		if m > firing {
			m = firing
		}
		if m > c[i] {
			c[i] = m
		}
	}
}

// Mass returns the sum of the curve.
func (c Curve) Mass() float64 {
	var mass float64
	for _, m := range c {
		mass += m
	}
	return mass
}

// RuleSpaceSize is the number of label combinations across the input variables.
func RuleSpaceSize() int {
	n := 1
	for _, v := range inputVars {
		n *= v.Len()
	}
	return n
}

// CombinationAt decodes the k-th combination of the rule space. The last
// variable varies fastest.
func CombinationAt(k int) Combination {
	var c Combination
	for i := NumInputs - 1; i >= 0; i-- {
		n := inputVars[i].Len()
		c[i] = k % n
		k /= n
	}
	return c
}

func (c *Combination) advance() {
	for i := NumInputs - 1; i >= 0; i-- {
		c[i]++
		if c[i] < inputVars[i].Len() {
			return
		}
		c[i] = 0
	}
}

// FiringStrength is the minimum membership across the combination's labels.
func FiringStrength(in Inputs, c Combination) float64 {
	dt := fuzzify(in)
	return dt.firing(c)
}

func (dt *degreeTable) firing(c Combination) float64 {
	firing := dt[0][c[0]]
	for i := 1; i < NumInputs; i++ {
		if d := dt[i][c[i]]; d < firing {
			firing = d
		}
	}
	return firing
}

// foldRules fires combinations [lo, hi) into acc and returns how many fired.
func foldRules(dt *degreeTable, lo, hi int, acc Curve) int {
	fired := 0
	c := CombinationAt(lo)
	for k := lo; k < hi; k++ {
		if firing := dt.firing(c); firing > 0 {
			fired++
			acc.clipInto(risk.terms[ConsequentFor(c)].curve, firing)
		}
		c.advance()
	}
	return fired
}

// Inference is the output of one kernel pass.
type Inference struct {
	Aggregate  Curve
	RulesFired int
	degrees    degreeTable
}

// Infer runs Mamdani inference over the whole rule space.
func (e *Engine) Infer(in Inputs) Inference {
	dt := fuzzify(in)
	total := RuleSpaceSize()

	shards := e.shards
	if shards > total {
		shards = total
	}
	if shards <= 1 {
		acc := NewCurve()
		fired := foldRules(&dt, 0, total, acc)
		return Inference{Aggregate: acc, RulesFired: fired, degrees: dt}
	}

	partials := make([]Curve, shards)
	counts := make([]int, shards)
	var wg sync.WaitGroup
	for s := 0; s < shards; s++ {
		lo := s * total / shards
		hi := (s + 1) * total / shards
		partials[s] = NewCurve()
		wg.Add(1)
		go func(s, lo, hi int) {
			defer wg.Done()
			counts[s] = foldRules(&dt, lo, hi, partials[s])
		}(s, lo, hi)
	}
	wg.Wait()

	acc := NewCurve()
	fired := 0
	for s := range partials {
		acc.Merge(partials[s])
		fired += counts[s]
	}
	return Inference{Aggregate: acc, RulesFired: fired, degrees: dt}
}
