package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/util"
)

var phoneTextPattern = regexp.MustCompile(`\d{3}[-.]?\d{3}[-.]?\d{4}`)

func checkPhone(links []model.Link, required string) model.PhoneReport {
	report := model.PhoneReport{
		Required:   required,
		PhoneLinks: []model.PhoneLink{},
	}
	if strings.TrimSpace(required) == "" {
		return report
	}

	want := util.NormalizePhone(required)
	found := false

	for _, link := range links {
		if strings.HasPrefix(strings.ToLower(link.URL), "tel:") {
			raw := link.URL[len("tel:"):]
			number := util.NormalizePhone(raw)
			report.PhoneLinks = append(report.PhoneLinks, model.PhoneLink{Text: link.Text, Phone: number, URL: link.URL})

			if number == want {
				found = true
			} else {
				report.Issue(fmt.Sprintf("Phone number mismatch: Expected %s, found %s in '%s'", required, raw, link.Text))
			}
		}

		for _, match := range phoneTextPattern.FindAllString(link.Text, -1) {
			if util.NormalizePhone(match) != want {
				report.Warn(fmt.Sprintf("Phone in text doesn't match: %s vs %s", match, required))
			}
		}
	}

	if want != "" && !found {
		report.Issue(fmt.Sprintf("Required phone number not found: %s", required))
	}

	return report
}
