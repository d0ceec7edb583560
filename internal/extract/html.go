package extract

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/emailqa/internal/dom"
	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/textnorm"
)

// buttonClassTokens mark an anchor or its container as a button
var buttonClassTokens = []string{"button", "cta", "btn"}

// parseHTML reduces markup to visible text for the line heuristics, then
// inspects every anchor for button-like CTAs.
func (e *Extractor) parseHTML(content string, req *model.Requirements) {
	doc, err := dom.Parse(content)
	if err != nil {
		e.logger.Warn().Err(err).Msg("html parse failed, reading as text")
		e.parseText(content, req)
		return
	}

	e.parseText(dom.VisibleText(doc), req)

	for _, a := range dom.FindAll(doc, func(n *html.Node) bool { return dom.IsElement(n, atom.A) }) {
		if !dom.HasAttr(a, "href") {
			continue
		}
		href := strings.TrimSpace(dom.Attr(a, "href"))
		if href == "" {
			continue
		}
		req.AddLink(href)

		text := textnorm.NormalizeField(dom.Text(a), &req.EncodingIssues)
		if text == "" {
			continue
		}

		classes := append(dom.Classes(a.Parent), dom.Classes(a)...)
		if !hasButtonClass(classes) && !model.IsUpper(text) {
			continue
		}
		if req.HasCTA(text) {
			fillDestination(req, text, href, classes)
			continue
		}
		req.CTAs = append(req.CTAs, model.RequiredCTA{
			Text:           text,
			DestinationURL: href,
			Classes:        classes,
		})
	}

	if title := dom.Title(doc); title != "" {
		req.SpecialNotes = append(req.SpecialNotes, "Page title: "+textnorm.NormalizeField(title, &req.EncodingIssues))
	}
}

func hasButtonClass(classes []string) bool {
	for _, c := range classes {
		lower := strings.ToLower(c)
		for _, token := range buttonClassTokens {
			if strings.Contains(lower, token) {
				return true
			}
		}
	}
	return false
}

// fillDestination attaches an anchor's href to a CTA of the same text that
// was found on a line without a following URL
func fillDestination(req *model.Requirements, text, href string, classes []string) {
	for i := range req.CTAs {
		if req.CTAs[i].Text == text && req.CTAs[i].DestinationURL == "" {
			req.CTAs[i].DestinationURL = href
			req.CTAs[i].Classes = classes
			return
		}
	}
}
