// Package validate checks an email's links against the CTAs, tracking
// parameters and brand contacts a campaign requires. The Prober adds optional
// reachability checks that never change the verdict.
package validate

import (
	"sort"
	"strings"

	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/rules"
)

// Expectations is what the email's links must satisfy
type Expectations struct {
	RequiredCTAs []string
	UTM          model.UTMRequirements
	Phone        string
	Social       map[string]string // platform -> handle

	// SkipCaseCheck drops the uppercase CTA warning when the client rules
	// already check CTA case.
	SkipCaseCheck bool
}

// ExpectationsFrom merges the copy document's CTAs with the client rules.
// Either source may be nil.
func ExpectationsFrom(req *model.Requirements, schema *model.RuleSchema, segment string) Expectations {
	var exp Expectations

	seen := make(map[string]bool)
	addCTA := func(text string) {
		key := normalizeCTA(text)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		exp.RequiredCTAs = append(exp.RequiredCTAs, strings.TrimSpace(text))
	}
	if req != nil {
		for _, cta := range req.CTAs {
			addCTA(cta.Text)
		}
	}
	for _, text := range rules.RequiredCTAs(schema, segment) {
		addCTA(text)
	}

	exp.UTM = rules.UTMRequirements(schema)

	if schema != nil && schema.Compliance != nil && schema.Compliance.CTAStyle != nil {
		exp.SkipCaseCheck = schema.Compliance.CTAStyle.Case != ""
	}

	if schema != nil && schema.Brand != nil {
		exp.Phone = schema.Brand.Phone
		for platform, handle := range schema.Brand.SocialHandles {
			if strings.TrimSpace(handle) == "" {
				continue
			}
			if exp.Social == nil {
				exp.Social = make(map[string]string)
			}
			exp.Social[strings.ToLower(platform)] = handle
		}
	}

	return exp
}

// ValidateLinks runs the CTA, UTM, phone and social checks. Issues block the
// verdict, warnings are advisory.
func ValidateLinks(c *model.EmailComponents, exp Expectations) model.LinkReport {
	report := model.LinkReport{
		CTA:    checkCTAs(c.CTAs, exp.RequiredCTAs, !exp.SkipCaseCheck),
		UTM:    checkUTM(c.Links, exp.UTM),
		Phone:  checkPhone(c.Links, exp.Phone),
		Social: checkSocial(c.Links, exp.Social),
	}

	report.Issues = []string{}
	report.Warnings = []string{}
	for _, f := range []model.Findings{report.CTA.Findings, report.UTM.Findings, report.Phone.Findings, report.Social.Findings} {
		report.Issues = append(report.Issues, f.Issues...)
		report.Warnings = append(report.Warnings, f.Warnings...)
	}
	report.Passed = len(report.Issues) == 0

	return report
}

// quoteList renders values as ['a', 'b']
func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
