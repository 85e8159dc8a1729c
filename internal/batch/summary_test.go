package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func results(levels ...string) []Result {
	scores := map[string]float64{
		"Healthy":     2,
		"Low Risk":    5,
		"Medium Risk": 7,
		"High Risk":   8.5,
	}
	out := make([]Result, len(levels))
	for i, l := range levels {
		out[i] = Result{Index: i, Level: l, Score: scores[l]}
	}
	return out
}

func TestSummarize(t *testing.T) {
	s := Summarize(results("Healthy", "High Risk", "High Risk", LevelError, "Medium Risk", "Low Risk"))

	if s.Total != 6 || s.Scored != 5 || s.Errors != 1 {
		t.Errorf("counts = %+v", s)
	}
	// (2 + 8.5 + 8.5 + 7 + 5) / 5
	if s.AvgRisk != 6.2 {
		t.Errorf("AvgRisk = %v, want 6.2", s.AvgRisk)
	}
	if s.HighRiskCount != 2 {
		t.Errorf("HighRiskCount = %d, want 2", s.HighRiskCount)
	}
	// 2 of 6 rows
	if s.HighRiskPercent != 33.3 {
		t.Errorf("HighRiskPercent = %v, want 33.3", s.HighRiskPercent)
	}
	if s.LevelCounts["High Risk"] != 2 || s.LevelCounts[LevelError] != 1 {
		t.Errorf("LevelCounts = %v", s.LevelCounts)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.AvgRisk != 0 || s.HighRiskPercent != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestSummarize_AllErrors(t *testing.T) {
	s := Summarize(results(LevelError, LevelError))
	if s.Errors != 2 || s.AvgRisk != 0 || s.HighRiskPercent != 0 {
		t.Errorf("all-error summary = %+v", s)
	}
}

func TestSample(t *testing.T) {
	all := results(make([]string, 25)...)

	got := Sample(all, 10)
	if len(got) != 20 {
		t.Fatalf("len = %d, want 20", len(got))
	}
	if got[0].Index != 0 || got[9].Index != 9 {
		t.Errorf("head = %d..%d", got[0].Index, got[9].Index)
	}
	if got[10].Index != 15 || got[19].Index != 24 {
		t.Errorf("tail = %d..%d", got[10].Index, got[19].Index)
	}
}

func TestSample_Small(t *testing.T) {
	for _, n := range []int{0, 1, 19, 20} {
		all := results(make([]string, n)...)
		if got := Sample(all, 10); len(got) != n {
			t.Errorf("Sample of %d rows returned %d", n, len(got))
		}
	}
}

func TestFormatSummary(t *testing.T) {
	rep := &Report{
		RunID:   uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		Source:  "heart.csv",
		Summary: Summarize(results("High Risk", "Healthy", LevelError, "Healthy")),
	}

	text := FormatSummary(rep)
	for _, want := range []string{
		"Heart Risk Batch Summary",
		"Source: heart.csv",
		"Run: 11111111-2222-3333-4444-555555555555",
		"Rows: 4 (3 scored, 1 errors)",
		"High risk: 1 (25.0%)",
		"  - Healthy: 2",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}

	healthy := strings.Index(text, "- Healthy")
	high := strings.Index(text, "- High Risk")
	errs := strings.Index(text, "- Error")
	if !(healthy < high && high < errs) {
		t.Errorf("levels not in severity order:\n%s", text)
	}
}

func TestReport_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.json")

	rep := &Report{
		RunID:   uuid.New(),
		Source:  "heart.csv",
		Results: results("Healthy", "High Risk"),
	}
	rep.Summary = Summarize(rep.Results)

	if err := rep.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"predicted_risk": 8.5`) {
		t.Errorf("report JSON missing indented score:\n%s", data)
	}

	loaded, err := LoadReport(path)
	if err != nil {
		t.Fatalf("LoadReport: %v", err)
	}
	if loaded.RunID != rep.RunID || len(loaded.Results) != 2 || loaded.Summary.HighRiskCount != 1 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoadReport_Missing(t *testing.T) {
	if _, err := LoadReport(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing report")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/reports/a.json"); got != filepath.Join(home, "reports/a.json") {
		t.Errorf("expandHome = %q", got)
	}
	if got := expandHome("/abs/a.json"); got != "/abs/a.json" {
		t.Errorf("absolute path changed: %q", got)
	}
}
