package rules

import (
	"fmt"
	"strings"

	"github.com/ppiankov/emailqa/internal/model"
)

func checkCopywriting(c *model.EmailComponents, rules *model.DosAndDonts) *model.CopywritingCheck {
	check := &model.CopywritingCheck{
		DontViolations: []model.PhraseViolation{},
		MissingDos:     []string{},
	}

	fullText := strings.ToLower(strings.Join([]string{c.Subject, c.PreviewText, c.HTMLBody, c.PlainBody}, " "))

	for _, dont := range rules.Donts {
		phrase := strings.ToLower(strings.TrimSpace(dont.Phrase))
		if phrase == "" || !strings.Contains(fullText, phrase) {
			continue
		}

		severity := dont.Severity
		if severity == "" {
			severity = model.SeverityWarn
		}
		check.DontViolations = append(check.DontViolations, model.PhraseViolation{
			Phrase:   phrase,
			Reason:   dont.Reason,
			Severity: severity,
		})

		msg := fmt.Sprintf("DON'T violation (%s): Found '%s' - %s", severity, phrase, dont.Reason)
		if severity == model.SeverityError {
			check.Issue(msg)
		} else {
			check.Warn(msg)
		}
	}

	for _, do := range rules.Dos {
		phrase := strings.ToLower(strings.TrimSpace(do.Phrase))
		if !do.CheckPresence || phrase == "" || strings.Contains(fullText, phrase) {
			continue
		}
		check.MissingDos = append(check.MissingDos, phrase)
		check.Warn(fmt.Sprintf("DO recommendation: Consider including '%s' - %s", phrase, do.Context))
	}

	return check
}
