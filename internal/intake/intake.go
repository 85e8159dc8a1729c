// Package intake turns Cleveland-style heart disease records into the seven
// kernel inputs.
package intake

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MikeSquared-Agency/heartrisk/internal/fuzzy"
)

var (
	ErrUnknownChestPain = errors.New("unknown chest pain type")
	ErrEmptyDataset     = errors.New("dataset is empty")
)

// Record is one patient row using the dataset's column names.
type Record struct {
	Age               float64 `json:"age"`
	ChestPainType     float64 `json:"cp"`
	RestingBP         float64 `json:"trestbps"`
	Cholesterol       float64 `json:"chol"`
	FastingBloodSugar float64 `json:"fbs"`
	MaxHeartRate      float64 `json:"thalach"`
}

// Chest pain categories are inverted onto the kernel's 1-7 severity code:
// typical angina (1) is the most severe.
var chestPainCodes = map[float64]float64{
	1: 7,
	2: 5,
	3: 3,
	4: 1,
}

const (
	hba1cHighSugar   = 9.0
	hba1cNormalSugar = 5.5
	hdlFraction      = 0.25
	ldlFraction      = 0.45
)

// Preprocess maps a record onto the kernel's input scales.
func Preprocess(rec Record) (fuzzy.Inputs, error) {
	code, ok := chestPainCodes[rec.ChestPainType]
	if !ok {
		return fuzzy.Inputs{}, fmt.Errorf("%w: %v", ErrUnknownChestPain, rec.ChestPainType)
	}

	hba1c := hba1cNormalSugar
	if rec.FastingBloodSugar == 1 {
		hba1c = hba1cHighSugar
	}

	return fuzzy.Inputs{
		ChestPain:     code,
		HbA1c:         hba1c,
		HDL:           rec.Cholesterol * hdlFraction,
		LDL:           rec.Cholesterol * ldlFraction,
		HeartRate:     rec.MaxHeartRate,
		Age:           rec.Age,
		BloodPressure: rec.RestingBP,
	}, nil
}

// AllowedFile reports whether name has a .csv extension.
func AllowedFile(name string) bool {
	ext := filepath.Ext(name)
	return len(ext) > 1 && strings.EqualFold(ext, ".csv")
}
