package rules

import (
	"fmt"

	"github.com/ppiankov/emailqa/internal/model"
)

func checkCompliance(c *model.EmailComponents, rules *model.ComplianceRules) *model.ComplianceCheck {
	check := &model.ComplianceCheck{Checks: make(map[string]bool)}

	for _, element := range rules.RequiredElements {
		switch element {
		case model.ElementUnsubscribeLink:
			check.Checks["unsubscribe"] = c.HasUnsubscribe
			if !c.HasUnsubscribe {
				check.Issue("Missing required unsubscribe link (CAN-SPAM violation)")
			}
		case model.ElementPhysicalAddress:
			// lenient on purpose: a missing address only warns
			check.Checks["physical_address"] = c.HasPhysicalAddress
			if !c.HasPhysicalAddress {
				check.Warn("Physical address may be missing (CAN-SPAM requires it)")
			}
		case model.ElementCompanyName:
			has := c.FromName != ""
			check.Checks["company_name"] = has
			if !has {
				check.Warn("Company name should be clearly visible")
			}
		default:
			check.Warn(fmt.Sprintf("Unknown compliance element: %s", element))
		}
	}

	if rules.CTAStyle != nil && rules.CTAStyle.Case != "" {
		style := rules.CTAStyle.Case
		for _, cta := range c.CTAs {
			if style.Matches(cta.Text) {
				continue
			}
			check.CTAStyleFails = append(check.CTAStyleFails, cta.Text)
			check.Warn(ctaStyleMessage(style, cta.Text))
		}
	}

	return check
}

func ctaStyleMessage(style model.CaseStyle, text string) string {
	switch style {
	case model.CaseUpper:
		return fmt.Sprintf("CTA not uppercase: '%s'", text)
	case model.CaseTitle:
		return fmt.Sprintf("CTA not title case: '%s'", text)
	case model.CaseLower:
		return fmt.Sprintf("CTA not lowercase: '%s'", text)
	}
	return fmt.Sprintf("CTA does not match %s: '%s'", style, text)
}
