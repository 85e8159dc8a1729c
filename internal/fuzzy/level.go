package fuzzy

import (
	"encoding/json"
	"fmt"
)

// Level is the ordinal risk label derived from a score.
type Level int

const (
	LevelHealthy Level = iota
	LevelLow
	LevelMedium
	LevelHigh
)

// Classify maps a score to its level using half-open thresholds at 4, 6 and 8.
func Classify(score float64) Level {
	switch {
	case score < 4:
		return LevelHealthy
	case score < 6:
		return LevelLow
	case score < 8:
		return LevelMedium
	default:
		return LevelHigh
	}
}

func (l Level) String() string {
	switch l {
	case LevelHealthy:
		return "Healthy"
	case LevelLow:
		return "Low Risk"
	case LevelMedium:
		return "Medium Risk"
	case LevelHigh:
		return "High Risk"
	default:
		return "Unknown"
	}
}

// ParseLevel is the inverse of Level.String.
func ParseLevel(s string) (Level, error) {
	for l := LevelHealthy; l <= LevelHigh; l++ {
		if l.String() == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown risk level %q", s)
}

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
