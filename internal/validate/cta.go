package validate

import (
	"fmt"
	"strings"

	"github.com/ppiankov/emailqa/internal/model"
)

// normalizeCTA trims, collapses inner whitespace and upper-cases
func normalizeCTA(text string) string {
	return strings.ToUpper(strings.Join(strings.Fields(text), " "))
}

func checkCTAs(ctas []model.CTA, required []string, checkCase bool) model.CTAReport {
	report := model.CTAReport{
		FoundCTAs:    []string{},
		RequiredCTAs: []string{},
		MissingCTAs:  []string{},
	}
	report.RequiredCTAs = append(report.RequiredCTAs, required...)

	present := make(map[string]bool, len(ctas))
	for _, cta := range ctas {
		report.FoundCTAs = append(report.FoundCTAs, cta.Text)
		present[normalizeCTA(cta.Text)] = true
	}

	for _, text := range required {
		if !present[normalizeCTA(text)] {
			report.MissingCTAs = append(report.MissingCTAs, text)
			report.Issue(fmt.Sprintf("Missing required CTA: '%s'", text))
		}
	}

	if !checkCase {
		return report
	}
	for _, cta := range ctas {
		if cta.Text != strings.ToUpper(cta.Text) {
			report.Warn(fmt.Sprintf("CTA not uppercase: '%s'", cta.Text))
		}
	}

	return report
}
