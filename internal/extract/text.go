package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/textnorm"
)

var (
	urlPattern  = regexp.MustCompile(`https?://[^\s<>"]+`)
	ctaPattern  = regexp.MustCompile(`^[A-Z][A-Z\s]+[A-Z]$`)
	fromPattern = regexp.MustCompile(`(?i)from:\s*(.+?)\s*<(.+?)>`)
)

var (
	subjectLabels = []string{"subject:", "subject line:", "sl:"}
	previewLabels = []string{"preview:", "preheader:", "preview text:"}
	moduleLabels  = []string{"module:", "section:"}
	noteMarkers   = []string{"NOTE:", "IMPORTANT:", "ATTENTION:"}
)

const (
	minCTAChars = 3
	maxCTAChars = 30
	maxCTAWords = 5
)

// urlTrailing is stripped from the end of every URL token
const urlTrailing = ".,;:)"

// parseText runs the line heuristics over normalized text
func (e *Extractor) parseText(text string, req *model.Requirements) {
	text, notes := textnorm.Normalize(text)
	for _, n := range notes {
		appendUnique(&req.EncodingIssues, n)
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	previewSet := req.PreviewText != ""
	segment := ""

	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		head := labelHead(stripped)
		labelled := true

		switch {
		case containsAny(head, subjectLabels):
			req.AddSubjectLine(afterColon(stripped))
		case containsAny(head, previewLabels):
			if !previewSet {
				req.PreviewText = afterColon(stripped)
				previewSet = true
			}
		case strings.Contains(head, "from name:"):
			req.FromName = afterColon(stripped)
		case strings.Contains(head, "from email:"):
			req.FromEmail = afterColon(stripped)
		case strings.Contains(head, "from:") && strings.Contains(stripped, "@"):
			if m := fromPattern.FindStringSubmatch(stripped); m != nil {
				req.FromName = strings.TrimSpace(m[1])
				req.FromEmail = strings.TrimSpace(m[2])
			}
		case strings.Contains(head, "segment:"):
			segment = afterColon(stripped)
			if segment != "" {
				if _, ok := req.Segments[segment]; !ok {
					req.Segments[segment] = model.Segment{RequirementLines: []string{}}
				}
			}
			continue
		case isCTALine(stripped):
			req.CTAs = append(req.CTAs, model.RequiredCTA{
				Text:           stripped,
				DestinationURL: nextLineURL(lines, i),
				SourceLine:     i + 1,
			})
			labelled = false
		default:
			labelled = false
		}

		for _, u := range urlPattern.FindAllString(line, -1) {
			req.AddLink(strings.TrimRight(u, urlTrailing))
		}

		if containsAny(head, moduleLabels) {
			labelled = true
			if module := afterColon(stripped); module != "" {
				appendUnique(&req.ContentModules, module)
			}
		}

		if isNote(stripped) {
			labelled = true
			req.SpecialNotes = append(req.SpecialNotes, stripped)
		}

		// a recognized label ends the open segment
		if labelled {
			segment = ""
			continue
		}
		if segment != "" && stripped != "" && !strings.Contains(stripped, ":") {
			req.AppendSegmentLine(segment, stripped)
		}
	}
}

// labelHead returns the lower-cased text up to and including the first
// colon, or "" when the line has none.
func labelHead(line string) string {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(line[:idx+1])
}

func afterColon(line string) string {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}

// isCTALine reports whether a line is an uppercase call to action of
// 3 to 30 characters and at most five words
func isCTALine(line string) bool {
	if !ctaPattern.MatchString(line) {
		return false
	}
	n := utf8.RuneCountInString(line)
	return n >= minCTAChars && n <= maxCTAChars && len(strings.Fields(line)) <= maxCTAWords
}

// nextLineURL returns the first URL on the line after i, or ""
func nextLineURL(lines []string, i int) string {
	if i+1 >= len(lines) {
		return ""
	}
	u := urlPattern.FindString(lines[i+1])
	return strings.TrimRight(u, urlTrailing)
}

func isNote(line string) bool {
	upper := strings.ToUpper(line)
	for _, marker := range noteMarkers {
		if strings.HasPrefix(upper, marker) {
			return true
		}
	}
	return false
}

func containsAny(s string, patterns []string) bool {
	if s == "" {
		return false
	}
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func appendUnique(dst *[]string, s string) {
	for _, existing := range *dst {
		if existing == s {
			return
		}
	}
	*dst = append(*dst, s)
}
