// Package compare checks a finished email against the copy document it was
// built from.
package compare

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/util"
)

// partialMinLen is the length both sides must exceed before a substring
// counts as a match
const partialMinLen = 10

// FlexibleMatch compares with collapsed whitespace, case-insensitively unless
// caseSensitive. Texts longer than ten characters also match when one
// contains the other.
func FlexibleMatch(a, b string, caseSensitive bool) bool {
	if !caseSensitive {
		a = strings.ToLower(a)
		b = strings.ToLower(b)
	}
	a = strings.Join(strings.Fields(a), " ")
	b = strings.Join(strings.Fields(b), " ")

	if a == b {
		return true
	}
	if len(a) > partialMinLen && len(b) > partialMinLen {
		return strings.Contains(a, b) || strings.Contains(b, a)
	}
	return false
}

// Compare checks subject, preview, sender, CTAs and links. Missing copy
// elements are issues; sender, link and encoding differences are warnings.
func Compare(req *model.Requirements, c *model.EmailComponents, opts model.CompareConfig) model.RequirementsCheck {
	check := model.RequirementsCheck{
		Checks:   []model.FieldCheck{},
		Issues:   []string{},
		Warnings: []string{},
	}
	if req == nil || c == nil {
		check.Passed = true
		return check
	}

	if len(req.SubjectLines) > 0 {
		match := false
		for _, want := range req.SubjectLines {
			if opts.Strict {
				match = c.Subject == want
			} else {
				match = FlexibleMatch(c.Subject, want, opts.CaseSensitive)
			}
			if match {
				break
			}
		}
		check.Add("subject", strings.Join(req.SubjectLines, " | "), c.Subject, match)
		if !match {
			check.Issues = append(check.Issues, fmt.Sprintf("Subject line does not match any approved option: '%s'", c.Subject))
		}
	}

	if req.PreviewText != "" {
		match := FlexibleMatch(c.PreviewText, req.PreviewText, opts.CaseSensitive)
		check.Add("preview_text", req.PreviewText, c.PreviewText, match)
		if !match {
			check.Issues = append(check.Issues, fmt.Sprintf("Preview text mismatch: expected '%s', got '%s'", req.PreviewText, c.PreviewText))
		}
	}

	if req.FromName != "" {
		match := FlexibleMatch(c.FromName, req.FromName, opts.CaseSensitive)
		check.Add("from_name", req.FromName, c.FromName, match)
		if !match {
			check.Warnings = append(check.Warnings, fmt.Sprintf("From name differs from copy document: expected '%s', got '%s'", req.FromName, c.FromName))
		}
	}

	if req.FromEmail != "" {
		match := strings.EqualFold(strings.TrimSpace(c.FromEmail), strings.TrimSpace(req.FromEmail))
		check.Add("from_email", req.FromEmail, c.FromEmail, match)
		if !match {
			check.Warnings = append(check.Warnings, fmt.Sprintf("From email differs from copy document: expected '%s', got '%s'", req.FromEmail, c.FromEmail))
		}
	}

	for _, want := range req.CTAs {
		compareCTA(&check, want, c.CTAs, opts)
	}

	for _, want := range req.Links {
		if !hasLink(c.Links, want) {
			check.Warnings = append(check.Warnings, fmt.Sprintf("Link from copy document not found in email: %s", want))
		}
	}

	if len(c.EncodingIssues) > 0 {
		check.Add("encoding", "no encoding issues", fmt.Sprintf("%d issues", len(c.EncodingIssues)), false)
		for _, issue := range c.EncodingIssues {
			check.Warnings = append(check.Warnings, "Encoding: "+issue)
		}
	}

	if req.Truncated {
		check.Warnings = append(check.Warnings, "Copy document was truncated; later requirements may be missing")
	}

	check.Passed = len(check.Issues) == 0
	return check
}

func compareCTA(check *model.RequirementsCheck, want model.RequiredCTA, ctas []model.CTA, opts model.CompareConfig) {
	field := "cta: " + want.Text

	var textHit *model.CTA
	for i := range ctas {
		if !FlexibleMatch(ctas[i].Text, want.Text, opts.CaseSensitive) {
			continue
		}
		if want.DestinationURL == "" || SameDestination(ctas[i].URL, want.DestinationURL) {
			check.Add(field, want.Text, ctas[i].Text, true)
			return
		}
		if textHit == nil {
			textHit = &ctas[i]
		}
	}

	if textHit != nil {
		check.Add(field, want.DestinationURL, textHit.URL, false)
		check.Issues = append(check.Issues, fmt.Sprintf("CTA '%s' links to %s, expected %s", want.Text, textHit.URL, want.DestinationURL))
		return
	}

	check.Add(field, want.Text, "", false)
	check.Issues = append(check.Issues, fmt.Sprintf("Required CTA not found in email: '%s'", want.Text))
}

func hasLink(links []model.Link, want string) bool {
	for _, l := range links {
		if SameDestination(l.URL, want) {
			return true
		}
	}
	return false
}

// SameDestination compares two URLs by host and path after unwrapping
// tracking redirects, so added UTM parameters or a trailing slash do not
// count as a difference
func SameDestination(got, want string) bool {
	if got == want {
		return true
	}
	if dest := util.TrackingDestination(got); dest != "" {
		got = dest
	}
	g, err1 := url.Parse(strings.TrimSpace(got))
	w, err2 := url.Parse(strings.TrimSpace(want))
	if err1 != nil || err2 != nil || w.Host == "" {
		return false
	}
	return strings.EqualFold(g.Hostname(), w.Hostname()) &&
		strings.TrimSuffix(g.Path, "/") == strings.TrimSuffix(w.Path, "/")
}
