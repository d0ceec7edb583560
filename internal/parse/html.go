package parse

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/emailqa/internal/dom"
	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/textnorm"
	"github.com/ppiankov/emailqa/internal/util"
)

var (
	// ctaClassTokens mark an anchor or its container as a button
	ctaClassTokens = []string{"button", "btn", "cta", "call-to-action", "action", "primary", "secondary"}

	// ctaStyleProps are inline declarations that render an anchor as a button
	ctaStyleProps = []string{"background-color", "padding", "border-radius"}

	unsubscribeKeywords = []string{
		"unsubscribe", "opt-out", "opt out", "remove",
		"preferences", "manage subscription", "email preferences",
	}
)

const maxCTAWords = 4

// altPreviewLen bounds how much of an image src is quoted in an issue
const altPreviewLen = 50

func (p *Parser) parseHTML(content string, c *model.EmailComponents) {
	doc, err := dom.Parse(content)
	if err != nil {
		c.EncodingIssues = append(c.EncodingIssues, fmt.Sprintf("HTML parsing error: %v", err))
		return
	}

	c.PreviewText = previewText(doc)

	for _, a := range dom.FindAll(doc, func(n *html.Node) bool { return dom.IsElement(n, atom.A) && dom.HasAttr(n, "href") }) {
		p.addLink(a, c)
	}

	for _, img := range dom.FindAll(doc, func(n *html.Node) bool { return dom.IsElement(n, atom.Img) }) {
		image := model.Image{
			Src:    dom.Attr(img, "src"),
			Alt:    strings.TrimSpace(dom.Attr(img, "alt")),
			Width:  dom.Attr(img, "width"),
			Height: dom.Attr(img, "height"),
		}
		c.Images = append(c.Images, image)
		if image.Alt == "" {
			c.EncodingIssues = append(c.EncodingIssues, "Missing alt text for image: "+truncate(image.Src, altPreviewLen))
		}
	}
}

func (p *Parser) addLink(a *html.Node, c *model.EmailComponents) {
	link := model.Link{
		Text: textnorm.NormalizeField(dom.Text(a), &c.EncodingIssues),
		URL:  strings.TrimSpace(dom.Attr(a, "href")),
	}
	link.UTMParams = util.UTMParams(link.URL)
	link.IsTrackingRedirect = util.IsTrackingURL(link.URL)
	link.IsUnsubscribe = isUnsubscribe(link.Text, link.URL)

	c.Links = append(c.Links, link)

	if link.IsUnsubscribe && !c.HasUnsubscribe {
		c.HasUnsubscribe = true
		c.UnsubscribeURL = link.URL
	}

	if isCTA(a, link.Text) {
		c.CTAs = append(c.CTAs, model.CTA{Text: link.Text, URL: link.URL, UTMParams: link.UTMParams})
	}
}

// previewText returns the text of the first hidden block that has any.
// Hidden pixels and spacers often precede the preheader.
func previewText(doc *html.Node) string {
	for _, n := range dom.FindAll(doc, isPreviewElement) {
		if text := dom.Text(n); text != "" {
			return text
		}
	}
	return ""
}

// isPreviewElement matches hidden or zero-size preheader blocks
func isPreviewElement(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	style := compactStyle(dom.Attr(n, "style"))
	if strings.Contains(style, "display:none") ||
		strings.Contains(style, "visibility:hidden") ||
		hasZeroFontSize(style) {
		return true
	}
	class := strings.ToLower(dom.Attr(n, "class"))
	return strings.Contains(class, "preheader") || strings.Contains(class, "preview")
}

// compactStyle lower-cases an inline style and drops all whitespace
func compactStyle(style string) string {
	return strings.Join(strings.Fields(strings.ToLower(style)), "")
}

func hasZeroFontSize(style string) bool {
	idx := strings.Index(style, "font-size:0")
	if idx < 0 {
		return false
	}
	// font-size:0.9em is not hidden
	rest := style[idx+len("font-size:0"):]
	return rest == "" || !strings.HasPrefix(rest, ".") && (rest[0] < '0' || rest[0] > '9')
}

func isCTA(a *html.Node, text string) bool {
	classes := append(dom.Classes(a.Parent), dom.Classes(a)...)
	for _, class := range classes {
		lower := strings.ToLower(class)
		for _, token := range ctaClassTokens {
			if strings.Contains(lower, token) {
				return true
			}
		}
	}

	if model.IsUpper(text) && len(strings.Fields(text)) <= maxCTAWords {
		return true
	}

	if strings.EqualFold(dom.Attr(a, "role"), "button") {
		return true
	}

	style := strings.ToLower(dom.Attr(a, "style"))
	for _, prop := range ctaStyleProps {
		if strings.Contains(style, prop) {
			return true
		}
	}
	return false
}

func isUnsubscribe(text, url string) bool {
	text = strings.ToLower(text)
	url = strings.ToLower(url)
	for _, keyword := range unsubscribeKeywords {
		if strings.Contains(text, keyword) || strings.Contains(url, keyword) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
