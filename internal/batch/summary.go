package batch

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/MikeSquared-Agency/heartrisk/internal/fuzzy"
)

// Summarize aggregates results. The average covers scored rows only; the
// high-risk percentage is taken over every row.
func Summarize(results []Result) Summary {
	s := Summary{
		Total:       len(results),
		LevelCounts: make(map[string]int),
	}

	var sum float64
	for _, r := range results {
		s.LevelCounts[r.Level]++
		if r.Failed() {
			s.Errors++
			continue
		}
		s.Scored++
		sum += r.Score
		if r.Level == fuzzy.LevelHigh.String() {
			s.HighRiskCount++
		}
	}

	if s.Scored > 0 {
		s.AvgRisk = round(sum/float64(s.Scored), 2)
	}
	if s.Total > 0 {
		s.HighRiskPercent = round(float64(s.HighRiskCount)/float64(s.Total)*100, 1)
	}
	return s
}

// Sample returns the first n and last n results, or all of them when there
// are no more than 2n.
func Sample(results []Result, n int) []Result {
	if n < 0 {
		n = 0
	}
	if len(results) <= 2*n {
		out := make([]Result, len(results))
		copy(out, results)
		return out
	}
	out := make([]Result, 0, 2*n)
	out = append(out, results[:n]...)
	out = append(out, results[len(results)-n:]...)
	return out
}

// FormatSummary renders a run for Slack or the console.
func FormatSummary(report *Report) string {
	s := report.Summary

	var sb strings.Builder
	sb.WriteString("*Heart Risk Batch Summary*\n")
	if report.Source != "" {
		fmt.Fprintf(&sb, "Source: %s\n", report.Source)
	}
	fmt.Fprintf(&sb, "Run: %s\n", report.RunID)
	fmt.Fprintf(&sb, "Rows: %d (%d scored, %d errors)\n", s.Total, s.Scored, s.Errors)
	fmt.Fprintf(&sb, "Average risk: %.2f\n", s.AvgRisk)
	fmt.Fprintf(&sb, "High risk: %d (%.1f%%)\n", s.HighRiskCount, s.HighRiskPercent)

	levels := make([]string, 0, len(s.LevelCounts))
	for l := range s.LevelCounts {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levelRank(levels[i]) < levelRank(levels[j]) })
	for _, l := range levels {
		fmt.Fprintf(&sb, "  - %s: %d\n", l, s.LevelCounts[l])
	}

	return sb.String()
}

func levelRank(name string) int {
	if l, err := fuzzy.ParseLevel(name); err == nil {
		return int(l)
	}
	return math.MaxInt
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
