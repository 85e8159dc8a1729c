package fuzzy

import (
	"encoding/json"
	"math"
	"testing"
)

func TestAssess_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		in       Inputs
		score    float64
		level    Level
		fired    int
		fallback bool
	}{
		{
			name:  "young with healthy labs",
			in:    Inputs{ChestPain: 1, HbA1c: 5.5, HDL: 60, LDL: 90, HeartRate: 70, Age: 30, BloodPressure: 110},
			score: 2.0,
			level: LevelHealthy,
			fired: 1,
		},
		{
			name:  "typical angina with bad labs",
			in:    Inputs{ChestPain: 7, HbA1c: 11, HDL: 20, LDL: 190, HeartRate: 150, Age: 80, BloodPressure: 220},
			score: 8.0,
			level: LevelHigh,
			fired: 1,
		},
		{
			name:  "worst label peaks",
			in:    Inputs{ChestPain: 7, HbA1c: 11.25, HDL: 30, LDL: 180, HeartRate: 125, Age: 100, BloodPressure: 210},
			score: 8.0,
			level: LevelHigh,
			fired: 1,
		},
		{
			name:  "mixed profile",
			in:    Inputs{ChestPain: 5, HbA1c: 9, HDL: 45, LDL: 130, HeartRate: 100, Age: 62, BloodPressure: 150},
			score: 6.9265306122449,
			level: LevelMedium,
			fired: 4,
		},
		{
			name:     "low end of every universe",
			in:       Inputs{ChestPain: 0, HbA1c: 3, HDL: 10, LDL: 40, HeartRate: 40, Age: 20, BloodPressure: 80},
			score:    FallbackScore,
			level:    LevelLow,
			fallback: true,
		},
		{
			name:     "heart rate beyond universe",
			in:       Inputs{ChestPain: 3, HbA1c: 5.5, HDL: 62.5, LDL: 112.5, HeartRate: 187, Age: 37, BloodPressure: 130},
			score:    FallbackScore,
			level:    LevelLow,
			fallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(tt.in)
			if math.Abs(got.Score-tt.score) > 1e-9 {
				t.Errorf("Score = %v, want %v", got.Score, tt.score)
			}
			if got.Level != tt.level {
				t.Errorf("Level = %v, want %v", got.Level, tt.level)
			}
			if got.RulesFired != tt.fired {
				t.Errorf("RulesFired = %d, want %d", got.RulesFired, tt.fired)
			}
			if got.Fallback != tt.fallback {
				t.Errorf("Fallback = %v, want %v", got.Fallback, tt.fallback)
			}
			if len(got.Memberships) != NumInputs {
				t.Errorf("Memberships has %d variables, want %d", len(got.Memberships), NumInputs)
			}
		})
	}
}

func TestPredictRisk_ZeroMassFallbackIsExact(t *testing.T) {
	// Chest pain 0 has zero membership under every chest pain label.
	in := Inputs{ChestPain: 0, HbA1c: 7.75, HDL: 60, LDL: 90, HeartRate: 80, Age: 50, BloodPressure: 110}
	if got := PredictRisk(in); got != 5.0 {
		t.Errorf("PredictRisk = %v, want exactly 5.0", got)
	}
}

func TestPredictRisk_Idempotent(t *testing.T) {
	for _, in := range sampleInputs {
		first := PredictRisk(in)
		second := PredictRisk(in)
		if first != second {
			t.Errorf("PredictRisk(%+v) not idempotent: %v then %v", in, first, second)
		}
	}
}

func TestPredictRisk_TotalOverExtremeInputs(t *testing.T) {
	extremes := []float64{math.Inf(-1), -1e300, -1, 0, 1e300, math.Inf(1), math.NaN()}
	for _, x := range extremes {
		in := Inputs{ChestPain: x, HbA1c: x, HDL: x, LDL: x, HeartRate: x, Age: x, BloodPressure: x}
		got := PredictRisk(in)
		if math.IsNaN(got) || got < 0 || got > 10 {
			t.Errorf("PredictRisk(all=%v) = %v, want a score in [0,10]", x, got)
		}
	}
}

func TestPredictRisk_ScoreRange(t *testing.T) {
	for cp := 0.0; cp <= 8; cp += 1.5 {
		for bp := 70.0; bp <= 250; bp += 30 {
			for a := 15.0; a <= 110; a += 19 {
				in := Inputs{ChestPain: cp, HbA1c: 8.7, HDL: 45, LDL: 135, HeartRate: 95, Age: a, BloodPressure: bp}
				got := PredictRisk(in)
				if got < 0 || got > 10 {
					t.Fatalf("PredictRisk(%+v) = %v outside [0,10]", in, got)
				}
			}
		}
	}
}

func TestAssessment_JSON(t *testing.T) {
	a := Assess(Inputs{ChestPain: 1, HbA1c: 5.5, HDL: 60, LDL: 90, HeartRate: 70, Age: 30, BloodPressure: 110})
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["level"] != "Healthy" {
		t.Errorf("level = %v, want Healthy", body["level"])
	}
	if _, ok := body["memberships"].(map[string]any)["chest_pain"]; !ok {
		t.Error("memberships missing chest_pain")
	}
}
