package score

import (
	"testing"

	"github.com/ppiankov/emailqa/internal/model"
)

func findSignal(signals []model.Signal, typ model.SignalType) *model.Signal {
	for i := range signals {
		if signals[i].Type == typ {
			return &signals[i]
		}
	}
	return nil
}

func TestScorer_Calculate_AllClean(t *testing.T) {
	scorer := NewScorer()

	result := model.ValidationResult{
		Passed: true,
		Validations: model.Validations{
			Compliance: &model.ComplianceCheck{},
		},
	}
	links := &model.LinkReport{Passed: true}
	cmp := &model.RequirementsCheck{Passed: true, Checks: []model.FieldCheck{{Field: "subject", Match: true}}}

	score := scorer.Calculate(result, links, cmp, nil)

	if score.Index != 100 {
		t.Errorf("Expected index 100, got %d", score.Index)
	}
	if score.Confidence != "high" {
		t.Errorf("Expected high confidence, got %s", score.Confidence)
	}
	if len(score.Signals) != 4 {
		t.Errorf("Expected 4 signals, got %d", len(score.Signals))
	}
}

func TestScorer_Calculate_Weighted(t *testing.T) {
	scorer := NewScorer()

	// requirements 25 (0.30), rules 50 (0.25), compliance 0 (0.25), links 75 (0.20)
	result := model.ValidationResult{
		Issues: []string{"Missing required module: Hero", "Missing unsubscribe link"},
		Validations: model.Validations{
			Compliance: &model.ComplianceCheck{Findings: model.Findings{Issues: []string{"Missing unsubscribe link"}}},
		},
	}
	links := &model.LinkReport{Issues: []string{"Missing required CTA: 'SHOP NOW'"}}
	cmp := &model.RequirementsCheck{Checks: []model.FieldCheck{{Match: true}, {}, {}, {}}}

	score := scorer.Calculate(result, links, cmp, nil)

	// 7.5 + 12.5 + 0 + 15
	if score.Index != 35 {
		t.Errorf("Expected index 35, got %d", score.Index)
	}
	if score.Confidence != "low" {
		t.Errorf("Expected low confidence, got %s", score.Confidence)
	}

	rules := findSignal(score.Signals, model.SignalRules)
	if rules == nil {
		t.Fatal("Expected rules signal")
	}
	if rules.Data["issues"] != 1 {
		t.Errorf("Expected compliance issues excluded from rule issues, got %v", rules.Data["issues"])
	}
}

func TestScorer_Calculate_ReweightsMissingCategories(t *testing.T) {
	scorer := NewScorer()

	// rules 100 (0.25), links 50 (0.20): (25 + 10) / 0.45 = 77.8 -> 78
	links := &model.LinkReport{Issues: []string{"a", "b"}}
	score := scorer.Calculate(model.ValidationResult{Passed: true}, links, nil, nil)

	if score.Index != 78 {
		t.Errorf("Expected index 78, got %d", score.Index)
	}
	if score.Confidence != "medium" {
		t.Errorf("Expected medium confidence, got %s", score.Confidence)
	}
}

func TestScorer_Calculate_NoRules(t *testing.T) {
	scorer := NewScorer()

	result := model.ValidationResult{Error: "No rules file found for client 'acme'"}
	score := scorer.Calculate(result, nil, nil, nil)

	if score.Index != 0 {
		t.Errorf("Expected index 0, got %d", score.Index)
	}
	if score.Confidence != "low" {
		t.Errorf("Expected low confidence for a single category, got %s", score.Confidence)
	}
	if score.Signals[0].Severity != model.SeverityCritical {
		t.Errorf("Expected critical severity, got %s", score.Signals[0].Severity)
	}
}

func TestScorer_Calculate_LinksFloor(t *testing.T) {
	scorer := NewScorer()
	links := &model.LinkReport{Issues: []string{"1", "2", "3", "4", "5"}}

	_, signal := scorer.linksScore(links)
	if signal.Data["score"] != 0.0 {
		t.Errorf("Expected link score floored at 0, got %v", signal.Data["score"])
	}
}

func TestScorer_Reachability_NoWeight(t *testing.T) {
	scorer := NewScorer()
	result := model.ValidationResult{Passed: true}
	links := &model.LinkReport{Passed: true}

	probes := []model.ProbeResult{
		{URL: "https://acme.com", IsReachable: true},
		{URL: "https://acme.com/gone", IsBroken: true},
		{URL: "https://acme.com/slow", IsBroken: true, TimedOut: true},
		{URL: "tel:555", Skipped: true},
	}

	with := scorer.Calculate(result, links, nil, probes)
	without := scorer.Calculate(result, links, nil, nil)

	if with.Index != without.Index {
		t.Errorf("Expected probes not to change the index: %d vs %d", with.Index, without.Index)
	}

	reach := findSignal(with.Signals, model.SignalReachability)
	if reach == nil {
		t.Fatal("Expected reachability signal")
	}
	if reach.Data["probed"] != 3 || reach.Data["reachable"] != 1 || reach.Data["timed_out"] != 1 {
		t.Errorf("Unexpected reachability data: %v", reach.Data)
	}
	if reach.Severity != model.SeverityCritical {
		t.Errorf("Expected critical severity for 1/3 reachable, got %s", reach.Severity)
	}
}

func TestDetermineConfidence(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		index, categories int
		want              string
	}{
		{95, 1, "low"},
		{95, 3, "high"},
		{80, 2, "high"},
		{79, 2, "medium"},
		{60, 4, "medium"},
		{59, 4, "low"},
	}
	for _, tt := range tests {
		if got := scorer.determineConfidence(tt.index, tt.categories); got != tt.want {
			t.Errorf("determineConfidence(%d, %d) = %s, want %s", tt.index, tt.categories, got, tt.want)
		}
	}
}
