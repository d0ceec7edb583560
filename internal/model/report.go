package model

import "time"

// Report is the complete QA result for one email
type Report struct {
	RunID     string    `json:"run_id"`
	Client    string    `json:"client"`
	Segment   string    `json:"segment,omitempty"`
	Campaign  string    `json:"campaign,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	DocumentName string `json:"document,omitempty"` // copy document path, if one was supplied
	EmailName    string `json:"email"`

	Requirements *Requirements      `json:"requirements,omitempty"`
	Email        *EmailComponents   `json:"email_components"`
	Rules        ValidationResult   `json:"rules"`
	Links        LinkReport         `json:"links"`
	Comparison   *RequirementsCheck `json:"comparison,omitempty"`

	Passed bool  `json:"passed"` // no blocking issue in rules, links or comparison
	Score  Score `json:"score"`

	LLM *LLMSummary `json:"llm,omitempty"` // optional, never affects score or verdict
}

// Score is the weighted QA score with its breakdown
type Score struct {
	Index      int      `json:"index"`      // 0-100
	Confidence string   `json:"confidence"` // "low", "medium", "high"
	Signals    []Signal `json:"signals"`
}

// Signal is one scored category with the data that produced it
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType names a score category
type SignalType string

const (
	SignalRequirements SignalType = "requirements_match"
	SignalRules        SignalType = "rule_validation"
	SignalCompliance   SignalType = "compliance"
	SignalLinks        SignalType = "link_validation"
	SignalReachability SignalType = "link_reachability"
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// LLMSummary is an optional reviewer note written by a language model
type LLMSummary struct {
	Enabled     bool     `json:"enabled"`
	Provider    string   `json:"provider,omitempty"`
	Model       string   `json:"model,omitempty"`
	StrictLinks bool     `json:"strict_links"` // summary may only cite links found in the email
	SummaryMD   string   `json:"summary_md,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Issues returns every blocking finding in the report, without repeats
func (r *Report) Issues() []string {
	lists := [][]string{r.Rules.Issues, r.Links.Issues}
	if r.Comparison != nil {
		lists = append(lists, r.Comparison.Issues)
	}
	return mergeFindings(lists...)
}

// Warnings returns every advisory finding in the report, without repeats
func (r *Report) Warnings() []string {
	lists := [][]string{r.Rules.Warnings, r.Links.Warnings}
	if r.Comparison != nil {
		lists = append(lists, r.Comparison.Warnings)
	}
	return mergeFindings(lists...)
}

func mergeFindings(lists ...[]string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, f := range list {
			if seen[f] {
				continue
			}
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
