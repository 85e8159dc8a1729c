// Package fuzzy implements the Mamdani inference kernel that turns seven
// clinical measurements into a cardiovascular risk score.
//
// Every exported entry point is a pure function of its inputs and the
// package's immutable membership tables:
//   - Never mutates shared state
//   - Never performs I/O
//   - Returns the same score for the same inputs, with or without sharding
package fuzzy

// Engine runs the kernel. The zero value is not usable; call NewEngine.
type Engine struct {
	shards int
}

// Option configures an Engine.
type Option func(*Engine)

// WithShards splits the rule space across n goroutines per call. Values below 2
// keep the fold on the calling goroutine.
func WithShards(n int) Option {
	return func(e *Engine) {
		e.shards = n
	}
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{shards: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Assessment is a scored and labelled kernel result.
type Assessment struct {
	Score       float64     `json:"score"`
	Level       Level       `json:"level"`
	RulesFired  int         `json:"rules_fired"`
	Fallback    bool        `json:"fallback"`
	Memberships Memberships `json:"memberships"`
}

// Assess runs inference, defuzzifies and classifies.
func (e *Engine) Assess(in Inputs) Assessment {
	inf := e.Infer(in)
	score, ok := Centroid(inf.Aggregate)
	return Assessment{
		Score:       score,
		Level:       Classify(score),
		RulesFired:  inf.RulesFired,
		Fallback:    !ok,
		Memberships: inf.degrees.memberships(),
	}
}

// PredictRisk returns the defuzzified score in [0, 10].
func (e *Engine) PredictRisk(in Inputs) float64 {
	score, _ := Centroid(e.Infer(in).Aggregate)
	return score
}

// Assess runs the default single-goroutine engine.
func Assess(in Inputs) Assessment { return defaultEngine.Assess(in) }

// PredictRisk runs the default single-goroutine engine.
func PredictRisk(in Inputs) float64 { return defaultEngine.PredictRisk(in) }
