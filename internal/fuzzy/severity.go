package fuzzy

// Combination picks one label index per input variable, ordered as in
// InputVariables. It is the antecedent of one implicit rule.
type Combination [NumInputs]int

// Consequent is an output label of the risk variable.
type Consequent int

const (
	ConsequentHealthy Consequent = iota
	ConsequentLow
	ConsequentMedium
	ConsequentHigh
)

func (c Consequent) String() string {
	switch c {
	case ConsequentHealthy:
		return "healthy"
	case ConsequentLow:
		return "low"
	case ConsequentMedium:
		return "medium"
	case ConsequentHigh:
		return "high"
	default:
		return "unknown"
	}
}

// SeverityScore adds up the weights of the unfavourable labels in c.
func SeverityScore(c Combination) int {
	score := 0
	switch c[VarChestPain] {
	case ChestAtypical, ChestTypical:
		score += 2
	}
	if c[VarHbA1c] == HbA1cHigh {
		score += 2
	}
	if c[VarHDL] == HDLLow {
		score += 2
	}
	switch c[VarLDL] {
	case LDLVeryHigh, LDLExtraHigh:
		score += 3
	case LDLHigh:
		score += 2
	}
	if c[VarHeartRate] == HeartRateHigh {
		score += 1
	}
	switch c[VarAge] {
	case AgeOld, AgeVeryOld:
		score += 2
	}
	switch c[VarBloodPressure] {
	case BloodPressureVeryHigh:
		score += 3
	case BloodPressureHigh:
		score += 2
	}
	return score
}

// ConsequentFor is the implicit rule base: it derives the output label of a
// combination from its severity score.
func ConsequentFor(c Combination) Consequent {
	switch s := SeverityScore(c); {
	case s <= 3:
		return ConsequentHealthy
	case s <= 7:
		return ConsequentLow
	case s <= 11:
		return ConsequentMedium
	default:
		return ConsequentHigh
	}
}
