package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/emailqa/internal/model"
)

func newTestExtractor() *Extractor {
	return NewExtractor(zerolog.Nop())
}

func TestExtract_SubjectAndCTA(t *testing.T) {
	doc := "Subject: Get 50% Off\n\nBody copy goes here.\n\nSHOP NOW\nhttps://example.com/shop\n"

	req := newTestExtractor().Extract([]byte(doc), "brief.txt")

	assert.Equal(t, model.FormatText, req.Format)
	assert.Equal(t, []string{"Get 50% Off"}, req.SubjectLines)
	require.Len(t, req.CTAs, 1)
	assert.Equal(t, "SHOP NOW", req.CTAs[0].Text)
	assert.Equal(t, "https://example.com/shop", req.CTAs[0].DestinationURL)
	assert.Equal(t, 5, req.CTAs[0].SourceLine)
	assert.Equal(t, []string{"https://example.com/shop"}, req.Links)
}

func TestExtract_TextLabels(t *testing.T) {
	doc := strings.Join([]string{
		"Subject Line: Spring is here",
		"SL: Spring is here",
		"Subject: Last chance",
		"Subject:   ",
		"Preview Text: First preview",
		"Preheader: Second preview",
		"From Name: Acme Outdoors",
		"From Email: hello@acme.com",
		"Module: Hero banner",
		"Section: Footer",
		"module: Hero banner",
		"Note: send before noon",
		"important: legal review pending",
		"Visit https://acme.com/a, or https://acme.com/b).",
		"Again https://acme.com/a",
	}, "\n")

	req := newTestExtractor().Extract([]byte(doc), "")

	assert.Equal(t, []string{"Spring is here", "Last chance"}, req.SubjectLines)
	assert.Equal(t, "First preview", req.PreviewText)
	assert.Equal(t, "Acme Outdoors", req.FromName)
	assert.Equal(t, "hello@acme.com", req.FromEmail)
	assert.Equal(t, []string{"Hero banner", "Footer"}, req.ContentModules)
	assert.Equal(t, []string{"Note: send before noon", "important: legal review pending"}, req.SpecialNotes)
	assert.Equal(t, []string{"https://acme.com/a", "https://acme.com/b"}, req.Links)
}

func TestExtract_CombinedFrom(t *testing.T) {
	req := newTestExtractor().Extract([]byte("From: Acme Team <team@acme.com>\n"), "")

	assert.Equal(t, "Acme Team", req.FromName)
	assert.Equal(t, "team@acme.com", req.FromEmail)
}

func TestExtract_Segments(t *testing.T) {
	doc := strings.Join([]string{
		"Segment: prospects",
		"Mention the free trial",
		"",
		"Use the blue hero",
		"Link: https://acme.com/trial",
		"Segment: owners",
		"Thank them for renewing",
		"Subject: Welcome back",
		"This line is outside any segment",
	}, "\n")

	req := newTestExtractor().Extract([]byte(doc), "")

	require.Contains(t, req.Segments, "prospects")
	require.Contains(t, req.Segments, "owners")
	assert.Equal(t, []string{"Mention the free trial", "Use the blue hero"}, req.Segments["prospects"].RequirementLines)
	assert.Equal(t, []string{"Thank them for renewing"}, req.Segments["owners"].RequirementLines)
}

func TestExtract_CTALengthBounds(t *testing.T) {
	tests := []struct {
		line  string
		isCTA bool
	}{
		{"GO", false},
		{"BUY", true},
		{strings.Repeat("A", 30), true},
		{strings.Repeat("A", 31), false},
		{"ONE TWO THREE FOUR FIVE", true},
		{"ONE TWO THREE FOUR FIVE SIX", false},
		{"Shop Now", false},
		{"SHOP NOW!", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			req := newTestExtractor().Extract([]byte(tt.line+"\n"), "")
			if tt.isCTA {
				require.Len(t, req.CTAs, 1)
				assert.Equal(t, tt.line, req.CTAs[0].Text)
				assert.Empty(t, req.CTAs[0].DestinationURL)
			} else {
				assert.Empty(t, req.CTAs)
			}
		})
	}
}

func TestExtract_HTML(t *testing.T) {
	doc := `<!DOCTYPE html>
<html><head><title>Spring Brief</title><style>p{color:red}</style></head>
<body>
<p>Subject: Spring savings</p>
<p>Preview: Up to 40% off</p>
<div class="btn-wrap"><a href="https://acme.com/shop?utm_source=email">Shop the sale</a></div>
<a class="cta" href="https://acme.com/shop?utm_source=email">Duplicate text</a>
<p><a href="https://acme.com/learn">LEARN MORE</a></p>
<p><a href="https://acme.com/about">about us</a></p>
<script>var x = "Subject: hidden";</script>
</body></html>`

	req := newTestExtractor().Extract([]byte(doc), "brief.html")

	assert.Equal(t, model.FormatHTML, req.Format)
	assert.Equal(t, []string{"Spring savings"}, req.SubjectLines)
	assert.Equal(t, "Up to 40% off", req.PreviewText)
	assert.Contains(t, req.SpecialNotes, "Page title: Spring Brief")

	texts := RequiredCTAs(req)
	assert.ElementsMatch(t, []string{"LEARN MORE", "Shop the sale", "Duplicate text"}, texts)
	assert.NotContains(t, texts, "about us")

	for _, cta := range req.CTAs {
		switch cta.Text {
		case "Shop the sale":
			assert.Equal(t, []string{"btn-wrap"}, cta.Classes)
		case "LEARN MORE":
			assert.Equal(t, "https://acme.com/learn", cta.DestinationURL)
		}
	}

	assert.Contains(t, req.Links, "https://acme.com/about")
}

func TestExtract_HTMLCTAsAreLinks(t *testing.T) {
	doc := `<html><body>
<table><tr><td class="button"><a href="https://acme.com/a">Book a demo</a></td></tr></table>
<p>GET STARTED</p>
<p>https://acme.com/start.</p>
<a href="https://acme.com/c">CONTACT US</a>
</body></html>`

	req := newTestExtractor().Extract([]byte(doc), "")

	require.NotEmpty(t, req.CTAs)
	for _, cta := range req.CTAs {
		if cta.DestinationURL == "" {
			continue
		}
		assert.Contains(t, req.Links, cta.DestinationURL, "CTA %q destination missing from links", cta.Text)
	}
}

func TestExtract_Message(t *testing.T) {
	raw := strings.Join([]string{
		"From: Acme <news@acme.com>",
		"To: list@example.com",
		"Subject: =?UTF-8?Q?Spring_=E2=80=94_Sale?=",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="B"`,
		"",
		"--B",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Module: Hero",
		"NOTE: Ship Tuesday",
		"--B",
		"Content-Type: text/html; charset=utf-8",
		"",
		`<html><body><a class="btn" href="https://acme.com/x">Shop</a><a href="https://acme.com/y">FIND A STORE</a></body></html>`,
		"--B--",
		"",
	}, "\r\n")

	req := newTestExtractor().Extract([]byte(raw), "email.eml")

	assert.Equal(t, model.FormatMessage, req.Format)
	assert.Equal(t, []string{"Spring — Sale"}, req.SubjectLines)
	assert.Equal(t, "Acme", req.FromName)
	assert.Equal(t, "news@acme.com", req.FromEmail)
	assert.Equal(t, []string{"Hero"}, req.ContentModules)
	assert.Equal(t, []string{"NOTE: Ship Tuesday"}, req.SpecialNotes)
	assert.ElementsMatch(t, []string{"Shop", "FIND A STORE"}, RequiredCTAs(req))
	assert.ElementsMatch(t, []string{"https://acme.com/x", "https://acme.com/y"}, req.Links)
}

func TestExtract_MessageLatin1Part(t *testing.T) {
	raw := "From: Acme <news@acme.de>\r\nTo: list@example.com\r\nSubject: Angebot\r\n" +
		"Content-Type: text/plain; charset=iso-8859-1\r\nContent-Transfer-Encoding: 8bit\r\n\r\n" +
		"Module: Gr\xfc\xdfe aus M\xfcnchen\r\n"

	req := newTestExtractor().Extract([]byte(raw), "brief.eml")

	assert.Equal(t, model.FormatMessage, req.Format)
	assert.Equal(t, []string{"Grüße aus München"}, req.ContentModules)
}

func TestExtract_EncodingIssuesRecorded(t *testing.T) {
	doc := "Subject: Itâ€™s here &amp; now\n"

	req := newTestExtractor().Extract([]byte(doc), "")

	assert.Equal(t, []string{"It's here & now"}, req.SubjectLines)
	assert.NotEmpty(t, req.EncodingIssues)
	for _, issue := range req.EncodingIssues {
		assert.True(t, strings.HasPrefix(issue, "Fixed: "), issue)
	}
}

func TestExtract_Truncates(t *testing.T) {
	e := newTestExtractor()
	e.maxChars = 20

	req := e.Extract([]byte("Subject: one\n"+strings.Repeat("x", 100)), "")

	assert.True(t, req.Truncated)
	assert.Equal(t, []string{"one"}, req.SubjectLines)
}

func TestTruncate(t *testing.T) {
	e := newTestExtractor()
	e.maxChars = 3

	out, cut := e.truncate("héllo")
	assert.True(t, cut)
	assert.Equal(t, "hél"+TruncationMarker, out)

	out, cut = e.truncate("abc")
	assert.False(t, cut)
	assert.Equal(t, "abc", out)
}

func TestExtract_Docx(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document xmlns:w="x"><w:body>` +
		`<w:p><w:r><w:t>Subject: From the docx</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>BOOK NOW</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>https://acme.com/book</w:t></w:r></w:p>` +
		`</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	req := newTestExtractor().Extract(buf.Bytes(), "Brief.DOCX")

	assert.Equal(t, model.FormatDOCX, req.Format)
	assert.Equal(t, []string{"From the docx"}, req.SubjectLines)
	require.Len(t, req.CTAs, 1)
	assert.Equal(t, "https://acme.com/book", req.CTAs[0].DestinationURL)
}

func TestExtract_CorruptBinaryDegrades(t *testing.T) {
	for _, name := range []string{"brief.docx", "brief.xlsx", "brief.pdf"} {
		t.Run(name, func(t *testing.T) {
			// text-looking bytes must not be read as text when the extension is binary
			req := newTestExtractor().Extract([]byte("Subject: not really a document"), name)

			assert.Empty(t, req.SubjectLines)
			require.Len(t, req.SpecialNotes, 1)
			assert.Contains(t, req.SpecialNotes[0], "Failed to extract")
		})
	}
}

func TestApplyCTAStyle_DoesNotMutate(t *testing.T) {
	req := model.NewRequirements(model.FormatText)
	req.CTAs = append(req.CTAs, model.RequiredCTA{Text: "shop now", Classes: []string{"btn"}})

	styled := ApplyCTAStyle(req, model.CaseTitle)

	assert.Equal(t, "Shop Now", styled.CTAs[0].Text)
	assert.Equal(t, "shop now", req.CTAs[0].Text)

	styled.CTAs[0].Classes[0] = "changed"
	assert.Equal(t, "btn", req.CTAs[0].Classes[0])
}

func TestRequiredCTAs_Nil(t *testing.T) {
	assert.Nil(t, RequiredCTAs(nil))
}
