package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/ppiankov/emailqa/internal/model"
)

// Renderer writes reports as JSON, Markdown and a console summary
type Renderer struct {
	includeFooter bool
	includeBody   bool
	md            *converter.Converter
}

// NewRenderer creates a renderer. includeBody appends the email body,
// converted from HTML, to Markdown reports.
func NewRenderer(includeFooter, includeBody bool) *Renderer {
	return &Renderer{
		includeFooter: includeFooter,
		includeBody:   includeBody,
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the Markdown report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// RenderLLMMarkdown writes an already rendered LLM note
func (r *Renderer) RenderLLMMarkdown(markdown, path string) error {
	return writeFile(path, []byte(markdown))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Markdown renders the report for human review
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Email QA Report: %s\n\n", report.EmailName)
	fmt.Fprintf(&b, "- **Run:** `%s`\n", report.RunID)
	fmt.Fprintf(&b, "- **Client:** %s\n", report.Client)
	if report.Segment != "" {
		fmt.Fprintf(&b, "- **Segment:** %s\n", report.Segment)
	}
	if report.Campaign != "" {
		fmt.Fprintf(&b, "- **Campaign:** %s\n", report.Campaign)
	}
	if report.DocumentName != "" {
		fmt.Fprintf(&b, "- **Copy document:** %s\n", report.DocumentName)
	}
	fmt.Fprintf(&b, "- **Checked:** %s\n\n", report.CreatedAt.Format("2006-01-02 15:04 MST"))

	fmt.Fprintf(&b, "## Verdict: %s\n\n", verdictLabel(report.Passed))
	fmt.Fprintf(&b, "**QA score:** %d/100 (%s confidence)\n\n", report.Score.Index, report.Score.Confidence)

	writeList(&b, "Issues", report.Issues())
	writeList(&b, "Warnings", report.Warnings())

	if report.Email != nil {
		r.writeEmail(&b, report.Email)
	}
	if report.Comparison != nil {
		writeComparison(&b, report.Comparison)
	}
	writeLinks(&b, &report.Links)
	writeSignals(&b, report.Score.Signals)

	if r.includeBody && report.Email != nil {
		r.writeBody(&b, report.Email)
	}

	if r.includeFooter {
		b.WriteString("\n---\n\n")
		b.WriteString("_Generated by emailqa. Automated checks only; a person should still review the email before it is sent._\n")
	}

	return b.String()
}

func verdictLabel(passed bool) string {
	if passed {
		return "✅ PASS"
	}
	return "❌ FAIL"
}

func writeList(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "## %s (%d)\n\n", title, len(items))
	if len(items) == 0 {
		b.WriteString("_None._\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func (r *Renderer) writeEmail(b *strings.Builder, c *model.EmailComponents) {
	b.WriteString("## Email\n\n")
	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| Subject | %s |\n", cell(c.Subject))
	fmt.Fprintf(b, "| Preview | %s |\n", cell(c.PreviewText))
	fmt.Fprintf(b, "| From | %s |\n", cell(strings.TrimSpace(c.FromName+" <"+c.FromEmail+">")))
	fmt.Fprintf(b, "| Links | %d |\n", len(c.Links))
	fmt.Fprintf(b, "| CTAs | %d |\n", len(c.CTAs))
	fmt.Fprintf(b, "| Unsubscribe | %t |\n", c.HasUnsubscribe)
	fmt.Fprintf(b, "| Physical address | %t |\n\n", c.HasPhysicalAddress)
}

func writeComparison(b *strings.Builder, cmp *model.RequirementsCheck) {
	fmt.Fprintf(b, "## Copy document comparison (%d/%d matched)\n\n", cmp.Matched(), len(cmp.Checks))
	if len(cmp.Checks) == 0 {
		b.WriteString("_Nothing to compare._\n\n")
		return
	}
	b.WriteString("| Field | Expected | Actual | Match |\n|---|---|---|---|\n")
	for _, c := range cmp.Checks {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", cell(c.Field), cell(c.Expected), cell(c.Actual), mark(c.Match))
	}
	b.WriteString("\n")
}

func writeLinks(b *strings.Builder, links *model.LinkReport) {
	b.WriteString("## Links\n\n")

	if len(links.CTA.RequiredCTAs) > 0 {
		fmt.Fprintf(b, "**CTAs:** %d required, %d missing\n\n", len(links.CTA.RequiredCTAs), len(links.CTA.MissingCTAs))
	}
	fmt.Fprintf(b, "**UTM:** %d tagged, %d missing parameters, %d mismatched values\n\n",
		len(links.UTM.LinksWithUTM), len(links.UTM.LinksMissingUTM), len(links.UTM.Errors))
	if links.Phone.Required != "" {
		fmt.Fprintf(b, "**Phone:** %s (%d tel: links)\n\n", links.Phone.Required, len(links.Phone.PhoneLinks))
	}
	if len(links.Social.SocialLinks) > 0 {
		b.WriteString("**Social:**\n\n")
		for _, s := range links.Social.SocialLinks {
			fmt.Fprintf(b, "- %s: @%s\n", s.Platform, s.Handle)
		}
		b.WriteString("\n")
	}

	if len(links.Probes) == 0 {
		return
	}
	b.WriteString("### Link status\n\n")
	b.WriteString("| URL | Kind | Status | Result |\n|---|---|---|---|\n")
	for _, p := range links.Probes {
		status := "-"
		if p.StatusCode > 0 {
			status = fmt.Sprintf("%d", p.StatusCode)
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", cell(p.URL), p.Kind, status, probeLabel(p))
	}
	b.WriteString("\n")
}

func probeLabel(p model.ProbeResult) string {
	switch {
	case p.Skipped:
		if p.Error != "" {
			return "skipped (" + cell(p.Error) + ")"
		}
		return "skipped"
	case p.TimedOut:
		return "❌ timed out"
	case p.IsBroken:
		return "❌ broken"
	case p.RedirectURL != "":
		return "✅ redirects to " + cell(p.RedirectURL)
	default:
		return "✅ ok"
	}
}

func writeSignals(b *strings.Builder, signals []model.Signal) {
	if len(signals) == 0 {
		return
	}
	b.WriteString("## Score breakdown\n\n")
	for _, s := range signals {
		fmt.Fprintf(b, "- **%s** (%s): %s\n", s.Type, s.Severity, s.Description)
	}
	b.WriteString("\n")
}

func (r *Renderer) writeBody(b *strings.Builder, c *model.EmailComponents) {
	b.WriteString("## Email body\n\n")
	if c.HTMLBody != "" {
		body, err := r.md.ConvertString(c.HTMLBody)
		if err == nil {
			b.WriteString(strings.TrimSpace(body))
			b.WriteString("\n")
			return
		}
	}
	if c.PlainBody != "" {
		b.WriteString("```\n")
		b.WriteString(strings.TrimSpace(c.PlainBody))
		b.WriteString("\n```\n")
		return
	}
	b.WriteString("_Empty body._\n")
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	if s == "" {
		return "-"
	}
	return s
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

// RenderSummary prints a short verdict to w
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	issues := report.Issues()
	warnings := report.Warnings()

	_, _ = fmt.Fprintf(w, "\n%s  %s  (score %d/100, %s confidence)\n",
		verdictLabel(report.Passed), report.EmailName, report.Score.Index, report.Score.Confidence)
	_, _ = fmt.Fprintf(w, "   %d issues, %d warnings\n", len(issues), len(warnings))
	for _, issue := range issues {
		_, _ = fmt.Fprintf(w, "   ✗ %s\n", issue)
	}
	for _, warning := range warnings {
		_, _ = fmt.Fprintf(w, "   ! %s\n", warning)
	}
	_, _ = fmt.Fprintln(w)
}
