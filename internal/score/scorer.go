package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/emailqa/internal/model"
)

// Category weights. Categories without data are left out and the rest are
// re-weighted.
const (
	weightRequirements = 0.30
	weightRules        = 0.25
	weightCompliance   = 0.25
	weightLinks        = 0.20
)

// Scorer turns check results into the 0-100 QA index
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

type category struct {
	score  float64
	weight float64
}

// Calculate scores the rule verdict, link report and requirements comparison.
// Probe results add an informational signal only.
func (s *Scorer) Calculate(result model.ValidationResult, links *model.LinkReport, cmp *model.RequirementsCheck, probes []model.ProbeResult) model.Score {
	var signals []model.Signal
	var categories []category

	if cmp != nil && len(cmp.Checks) > 0 {
		score, signal := s.requirementsScore(cmp)
		categories = append(categories, category{score, weightRequirements})
		signals = append(signals, signal)
	}

	score, signal := s.rulesScore(result)
	categories = append(categories, category{score, weightRules})
	signals = append(signals, signal)

	if result.Validations.Compliance != nil {
		score, signal := s.complianceScore(result.Validations.Compliance)
		categories = append(categories, category{score, weightCompliance})
		signals = append(signals, signal)
	}

	if links != nil {
		score, signal := s.linksScore(links)
		categories = append(categories, category{score, weightLinks})
		signals = append(signals, signal)
	}

	if reach, ok := s.reachabilitySignal(probes); ok {
		signals = append(signals, reach)
	}

	var total, weights float64
	for _, c := range categories {
		total += c.score * c.weight
		weights += c.weight
	}
	index := 0
	if weights > 0 {
		index = int(math.Round(total / weights))
	}

	return model.Score{
		Index:      index,
		Confidence: s.determineConfidence(index, len(categories)),
		Signals:    signals,
	}
}

// requirementsScore is the share of matched copy-document comparisons
func (s *Scorer) requirementsScore(cmp *model.RequirementsCheck) (float64, model.Signal) {
	matched := cmp.Matched()
	total := len(cmp.Checks)
	score := float64(matched) / float64(total) * 100

	severity := model.SeverityInfo
	if len(cmp.Issues) > 0 {
		severity = model.SeverityCritical
	} else if matched < total {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalRequirements,
		Severity:    severity,
		Description: fmt.Sprintf("Copy document match: %d/%d checks", matched, total),
		Data: map[string]interface{}{
			"matched": matched,
			"total":   total,
			"score":   score,
			"weight":  weightRequirements,
			"formula": "matched / total * 100",
		},
	}
}

// rulesScore is 100 without blocking findings, 50 with them and 0 when the
// client has no rules
func (s *Scorer) rulesScore(result model.ValidationResult) (float64, model.Signal) {
	if result.Error != "" {
		return 0, model.Signal{
			Type:        model.SignalRules,
			Severity:    model.SeverityCritical,
			Description: result.Error,
			Data:        map[string]interface{}{"score": 0, "weight": weightRules},
		}
	}

	issues := len(result.Issues)
	if result.Validations.Compliance != nil {
		issues -= len(result.Validations.Compliance.Issues)
	}

	score := 100.0
	severity := model.SeverityInfo
	if issues > 0 {
		score = 50
		severity = model.SeverityCritical
	} else if len(result.Warnings) > 0 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalRules,
		Severity:    severity,
		Description: fmt.Sprintf("Rule checks: %d issues, %d warnings", issues, len(result.Warnings)),
		Data: map[string]interface{}{
			"issues":   issues,
			"warnings": len(result.Warnings),
			"score":    score,
			"weight":   weightRules,
			"formula":  "100 if no issues else 50",
		},
	}
}

// complianceScore is all or nothing
func (s *Scorer) complianceScore(check *model.ComplianceCheck) (float64, model.Signal) {
	score := 100.0
	severity := model.SeverityInfo
	if len(check.Issues) > 0 {
		score = 0
		severity = model.SeverityCritical
	} else if len(check.Warnings) > 0 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalCompliance,
		Severity:    severity,
		Description: fmt.Sprintf("Compliance: %d issues, %d warnings", len(check.Issues), len(check.Warnings)),
		Data: map[string]interface{}{
			"issues":   len(check.Issues),
			"warnings": len(check.Warnings),
			"score":    score,
			"weight":   weightCompliance,
			"formula":  "100 if no issues else 0",
		},
	}
}

// linksScore loses 25 points per blocking link finding
func (s *Scorer) linksScore(links *model.LinkReport) (float64, model.Signal) {
	issues := len(links.Issues)
	score := math.Max(0, 100-25*float64(issues))

	severity := model.SeverityInfo
	if issues > 0 {
		severity = model.SeverityCritical
	} else if len(links.Warnings) > 0 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalLinks,
		Severity:    severity,
		Description: fmt.Sprintf("Link checks: %d issues, %d warnings", issues, len(links.Warnings)),
		Data: map[string]interface{}{
			"issues":   issues,
			"warnings": len(links.Warnings),
			"score":    score,
			"weight":   weightLinks,
			"formula":  "max(0, 100 - 25 * issues)",
		},
	}
}

// reachabilitySignal summarises probes. It carries no weight.
func (s *Scorer) reachabilitySignal(probes []model.ProbeResult) (model.Signal, bool) {
	probed, reachable, timedOut := 0, 0, 0
	for _, p := range probes {
		if p.Skipped {
			continue
		}
		probed++
		if p.IsReachable {
			reachable++
		}
		if p.TimedOut {
			timedOut++
		}
	}
	if probed == 0 {
		return model.Signal{}, false
	}

	ratio := float64(reachable) / float64(probed)
	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityCritical
	} else if ratio < 1 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalReachability,
		Severity:    severity,
		Description: fmt.Sprintf("Reachable links: %d/%d (%.0f%%)", reachable, probed, ratio*100),
		Data: map[string]interface{}{
			"reachable": reachable,
			"probed":    probed,
			"timed_out": timedOut,
			"ratio":     ratio,
		},
	}, true
}

// determineConfidence labels the index. A score built from a single
// category is never more than low.
func (s *Scorer) determineConfidence(index, categories int) string {
	if categories < 2 {
		return "low"
	}
	if index >= 80 {
		return "high"
	} else if index >= 60 {
		return "medium"
	}
	return "low"
}
