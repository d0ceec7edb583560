package validate

import (
	"fmt"
	"strings"

	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/util"
)

// utmKey accepts "source" and "utm_source" alike
func utmKey(param string) string {
	p := strings.ToLower(strings.TrimSpace(param))
	if strings.HasPrefix(p, "utm_") {
		return p
	}
	return "utm_" + p
}

func checkUTM(links []model.Link, req model.UTMRequirements) model.UTMReport {
	report := model.UTMReport{
		LinksWithUTM:    []model.UTMLink{},
		LinksMissingUTM: []model.UTMLink{},
		Errors:          []model.UTMMismatch{},
	}

	for _, link := range links {
		if util.IsNonWeb(link.URL) {
			continue
		}

		params := link.UTMParams
		if params == nil {
			params = util.UTMParams(link.URL)
		}
		lowered := make(map[string]string, len(params))
		for k, v := range params {
			lowered[strings.ToLower(k)] = v
		}

		var missing []string
		for _, param := range req.RequiredParams {
			if _, ok := lowered[utmKey(param)]; !ok {
				missing = append(missing, param)
			}
		}

		switch {
		case len(missing) > 0:
			report.LinksMissingUTM = append(report.LinksMissingUTM, model.UTMLink{URL: link.URL, Text: link.Text, Missing: missing})
			report.Warn(fmt.Sprintf("Link missing UTM params %s: %s", quoteList(missing), link.Text))
		case len(params) > 0:
			report.LinksWithUTM = append(report.LinksWithUTM, model.UTMLink{URL: link.URL, Text: link.Text, Params: params})
		}

		// absent values are the missing-param warning's job
		for _, param := range sortedKeys(req.ExpectedValues) {
			expected := req.ExpectedValues[param]
			key := utmKey(param)
			actual, ok := lowered[key]
			if !ok || actual == "" || actual == expected {
				continue
			}
			report.Errors = append(report.Errors, model.UTMMismatch{URL: link.URL, Param: key, Expected: expected, Actual: actual})
			report.Issue(fmt.Sprintf("UTM param mismatch on %s: %s should be '%s', got '%s'", link.Text, key, expected, actual))
		}
	}

	return report
}
