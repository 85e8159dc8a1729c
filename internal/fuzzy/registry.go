package fuzzy

// NumInputs is the number of input variables in the rule antecedent.
const NumInputs = 7

// Input variable positions inside a Combination.
const (
	VarChestPain = iota
	VarHbA1c
	VarHDL
	VarLDL
	VarHeartRate
	VarAge
	VarBloodPressure
)

// Chest pain labels.
const (
	ChestNoPain = iota
	ChestNonAnginal
	ChestAtypical
	ChestTypical
)

// HbA1c labels.
const (
	HbA1cVeryHealthy = iota
	HbA1cHealthy
	HbA1cHigh
)

// HDL labels.
const (
	HDLLow = iota
	HDLHealthy
)

// LDL labels.
const (
	LDLVeryHealthy = iota
	LDLHealthy
	LDLHigh
	LDLVeryHigh
	LDLExtraHigh
)

// Heart rate labels.
const (
	HeartRateVeryHealthy = iota
	HeartRateHealthy
	HeartRateHigh
)

// Age labels.
const (
	AgeYoung = iota
	AgeMid
	AgeOld
	AgeVeryOld
)

// Blood pressure labels.
const (
	BloodPressureNormal = iota
	BloodPressureHigh
	BloodPressureVeryHigh
)

// The tables below are built once and never mutated, so they are shared by
// every goroutine without locking.
var (
	chestPain = mustVariable("chest_pain", mustUniverse(0, 7, 1),
		Term{"no_pain", Triangle{0, 1, 2}},
		Term{"non_anginal", Triangle{2, 3, 4}},
		Term{"atypical", Triangle{4, 5, 6}},
		Term{"typical", Triangle{6, 7, 8}},
	)
	hba1c = mustVariable("hba1c", mustUniverse(3, 14.9, 0.1),
		Term{"very_healthy", Triangle{3, 5, 7}},
		Term{"healthy", Triangle{6.5, 7.75, 9}},
		Term{"high", Triangle{8.5, 11.25, 14}},
	)
	hdl = mustVariable("hdl", mustUniverse(10, 80, 1),
		Term{"low", Triangle{10, 30, 50}},
		Term{"healthy", Triangle{40, 60, 80}},
	)
	ldl = mustVariable("ldl", mustUniverse(40, 200, 1),
		Term{"very_healthy", Triangle{40, 60, 80}},
		Term{"healthy", Triangle{70, 90, 110}},
		Term{"high", Triangle{100, 120, 140}},
		Term{"very_high", Triangle{130, 150, 170}},
		Term{"extra_high", Triangle{160, 180, 200}},
	)
	heartRate = mustVariable("heart_rate", mustUniverse(40, 160, 1),
		Term{"very_healthy", Triangle{40, 55, 70}},
		Term{"healthy", Triangle{60, 80, 100}},
		Term{"high", Triangle{90, 125, 160}},
	)
	age = mustVariable("age", mustUniverse(20, 120, 1),
		Term{"young", Triangle{20, 32.5, 45}},
		Term{"mid", Triangle{40, 52.5, 65}},
		Term{"old", Triangle{60, 72.5, 85}},
		Term{"very_old", Triangle{80, 100, 120}},
	)
	bloodPressure = mustVariable("blood_pressure", mustUniverse(80, 240, 1),
		Term{"normal", Triangle{80, 110, 140}},
		Term{"high", Triangle{120, 160, 200}},
		Term{"very_high", Triangle{180, 210, 240}},
	)

	// risk is the output variable. Its labels are indexed by Consequent.
	risk = mustVariable("risk", mustUniverse(0, 10.9, 0.1),
		Term{"healthy", Triangle{0, 2, 4}},
		Term{"low", Triangle{2, 4, 6}},
		Term{"medium", Triangle{4, 6, 8}},
		Term{"high", Triangle{6, 8, 10}},
	)

	inputVars = [NumInputs]*Variable{chestPain, hba1c, hdl, ldl, heartRate, age, bloodPressure}
)

// InputVariables returns the seven input variables in combination order.
func InputVariables() [NumInputs]*Variable { return inputVars }

// OutputVariable returns the risk variable.
func OutputVariable() *Variable { return risk }

// Inputs holds the seven raw measurements on the scales the membership
// functions expect.
type Inputs struct {
	ChestPain     float64 `json:"chest_pain"`
	HbA1c         float64 `json:"hba1c"`
	HDL           float64 `json:"hdl"`
	LDL           float64 `json:"ldl"`
	HeartRate     float64 `json:"heart_rate"`
	Age           float64 `json:"age"`
	BloodPressure float64 `json:"blood_pressure"`
}

func (in Inputs) values() [NumInputs]float64 {
	return [NumInputs]float64{in.ChestPain, in.HbA1c, in.HDL, in.LDL, in.HeartRate, in.Age, in.BloodPressure}
}

// degreeTable holds, per input variable, the membership of the input value under
// each of that variable's labels.
type degreeTable [NumInputs][]float64

func fuzzify(in Inputs) degreeTable {
	var dt degreeTable
	for i, x := range in.values() {
		dt[i] = inputVars[i].Degrees(x)
	}
	return dt
}

// Memberships maps variable name to label to membership degree.
type Memberships map[string]map[string]float64

// Fuzzify returns the membership of each input under every label of its variable.
func Fuzzify(in Inputs) Memberships {
	dt := fuzzify(in)
	return dt.memberships()
}

func (dt degreeTable) memberships() Memberships {
	out := make(Memberships, NumInputs)
	for i, v := range inputVars {
		labels := make(map[string]float64, v.Len())
		for j, d := range dt[i] {
			labels[v.terms[j].Label] = d
		}
		out[v.Name] = labels
	}
	return out
}
