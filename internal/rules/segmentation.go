package rules

import (
	"fmt"
	"strings"

	"github.com/ppiankov/emailqa/internal/model"
)

func checkSegmentation(c *model.EmailComponents, rules map[string]model.SegmentRule, segment string) *model.SegmentationCheck {
	check := &model.SegmentationCheck{Segment: segment}

	rule, ok := rules[segment]
	if !ok {
		check.Warn(fmt.Sprintf("No segmentation rules defined for segment '%s'", segment))
		return check
	}

	if len(rule.RequiredSubjectKeywords) > 0 {
		check.SubjectKeywords = matchKeywords(c.Subject, rule.RequiredSubjectKeywords)
		if len(check.SubjectKeywords.Missing) > 0 {
			check.Warn(fmt.Sprintf("Subject line missing keywords for %s segment: %s", segment, formatList(check.SubjectKeywords.Missing)))
		}
	}

	if len(rule.RequiredPreviewKeywords) > 0 {
		check.PreviewKeywords = matchKeywords(c.PreviewText, rule.RequiredPreviewKeywords)
		if len(check.PreviewKeywords.Missing) > 0 {
			check.Warn(fmt.Sprintf("Preview text missing keywords for %s segment: %s", segment, formatList(check.PreviewKeywords.Missing)))
		}
	}

	return check
}

func matchKeywords(text string, keywords []string) *model.KeywordCheck {
	lower := strings.ToLower(text)
	kc := &model.KeywordCheck{Required: keywords, Found: []string{}, Missing: []string{}}
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			kc.Found = append(kc.Found, kw)
		} else {
			kc.Missing = append(kc.Missing, kw)
		}
	}
	return kc
}

// formatList renders values as ['a', 'b']
func formatList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
