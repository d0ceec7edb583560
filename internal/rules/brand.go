package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/util"
)

func checkBrand(c *model.EmailComponents, brand *model.BrandRules) *model.BrandCheck {
	check := &model.BrandCheck{Checks: make(map[string]bool)}

	if brand.Phone != "" {
		want := util.NormalizePhone(brand.Phone)
		found := false
		for _, link := range c.Links {
			if !strings.HasPrefix(strings.ToLower(link.URL), "tel:") {
				continue
			}
			if want != "" && strings.Contains(util.NormalizePhone(link.URL), want) {
				found = true
				break
			}
		}
		check.Checks["phone"] = found
		if !found {
			check.Warn(fmt.Sprintf("Brand phone number not found: %s", brand.Phone))
		}
	}

	for _, platform := range sortedKeys(brand.SocialHandles) {
		handle := brand.SocialHandles[platform]
		needle := strings.TrimLeft(strings.ToLower(strings.TrimSpace(handle)), "@")
		if needle == "" {
			continue
		}
		found := false
		for _, link := range c.Links {
			if strings.Contains(strings.ToLower(link.URL), needle) || strings.Contains(strings.ToLower(link.Text), needle) {
				found = true
				break
			}
		}
		check.Checks[platform+"_handle"] = found
		if !found {
			check.Warn(fmt.Sprintf("%s handle not found: @%s", platformTitle(platform), strings.TrimLeft(handle, "@")))
		}
	}

	for _, key := range sortedKeys(brand.CompanyInfo) {
		value := brand.CompanyInfo[key]
		if value == "" {
			continue
		}
		found := strings.Contains(c.HTMLBody, value) || strings.Contains(c.PlainBody, value)
		check.Checks["company_"+key] = found
		if !found {
			check.Warn(fmt.Sprintf("Company %s not found in email: %s", key, value))
		}
	}

	if brand.FromName != "" {
		check.Checks["from_name"] = c.FromName == brand.FromName
		if c.FromName != brand.FromName {
			check.Warn(fmt.Sprintf("From name mismatch: expected '%s', got '%s'", brand.FromName, c.FromName))
		}
	}

	if brand.FromEmail != "" {
		check.Checks["from_email"] = c.FromEmail == brand.FromEmail
		if c.FromEmail != brand.FromEmail {
			check.Warn(fmt.Sprintf("From email mismatch: expected '%s', got '%s'", brand.FromEmail, c.FromEmail))
		}
	}

	return check
}

// platformTitle capitalizes a platform key for messages (instagram -> Instagram)
func platformTitle(platform string) string {
	return model.CaseTitle.Apply(platform)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
