package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/emailqa/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		RunID:        "0190a1b2-0000-7000-8000-000000000000",
		Client:       "Acme",
		Segment:      "prospects",
		CreatedAt:    time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		DocumentName: "copy.docx",
		EmailName:    "spring.eml",
		Email: &model.EmailComponents{
			Subject:   "Spring Sale",
			FromName:  "Acme",
			FromEmail: "news@acme.com",
			HTMLBody:  `<h1>Spring</h1><table><tr><td>Deals | more</td></tr></table><p><a href="https://acme.com/shop">SHOP NOW</a></p>`,
		},
		Rules: model.ValidationResult{
			Issues:   []string{"Missing required footer"},
			Warnings: []string{},
		},
		Links: model.LinkReport{
			Issues:   []string{},
			Warnings: []string{"CTA not uppercase: 'Learn more'"},
			Probes: []model.ProbeResult{
				{URL: "https://acme.com/shop", Kind: model.LinkKindWeb, StatusCode: 200, IsReachable: true},
				{URL: "https://acme.com/old", Kind: model.LinkKindWeb, StatusCode: 404, IsBroken: true},
			},
		},
		Comparison: &model.RequirementsCheck{
			Checks: []model.FieldCheck{
				{Field: "subject", Expected: "Spring Sale", Actual: "Spring Sale", Match: true},
				{Field: "preview_text", Expected: "Big savings", Actual: "", Match: false},
			},
		},
		Score: model.Score{
			Index:      62,
			Confidence: "medium",
			Signals: []model.Signal{
				{Type: model.SignalRules, Severity: model.SeverityWarning, Description: "1 rule issue"},
			},
		},
	}
}

func TestRenderer_Markdown(t *testing.T) {
	md := NewRenderer(true, false).Markdown(sampleReport())

	for _, want := range []string{
		"# Email QA Report: spring.eml",
		"**Segment:** prospects",
		"**Copy document:** copy.docx",
		"## Verdict: ❌ FAIL",
		"62/100 (medium confidence)",
		"## Issues (1)",
		"- Missing required footer",
		"## Warnings (1)",
		"(1/2 matched)",
		"| preview_text | Big savings | - | ❌ |",
		"| https://acme.com/old | web | 404 | ❌ broken |",
		"## Score breakdown",
		"Generated by emailqa",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q\n%s", want, md)
		}
	}
	if strings.Contains(md, "## Email body") {
		t.Error("Expected no body section when disabled")
	}
}

func TestRenderer_MarkdownNoFooter(t *testing.T) {
	md := NewRenderer(false, false).Markdown(sampleReport())
	if strings.Contains(md, "Generated by emailqa") {
		t.Error("Expected footer to be omitted")
	}
}

func TestRenderer_MarkdownBody(t *testing.T) {
	md := NewRenderer(false, true).Markdown(sampleReport())

	if !strings.Contains(md, "## Email body") {
		t.Fatal("Expected body section")
	}
	if !strings.Contains(md, "# Spring") {
		t.Errorf("Expected heading converted to markdown\n%s", md)
	}
	if !strings.Contains(md, "[SHOP NOW](https://acme.com/shop)") {
		t.Errorf("Expected link converted to markdown\n%s", md)
	}
}

func TestRenderer_MarkdownPlainBody(t *testing.T) {
	report := sampleReport()
	report.Email.HTMLBody = ""
	report.Email.PlainBody = "Plain text only"

	md := NewRenderer(false, true).Markdown(report)
	if !strings.Contains(md, "```\nPlain text only\n```") {
		t.Errorf("Expected plain body in a code block\n%s", md)
	}
}

func TestRenderer_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")

	if err := NewRenderer(true, false).RenderJSON(sampleReport(), path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if decoded["run_id"] != "0190a1b2-0000-7000-8000-000000000000" {
		t.Errorf("Unexpected run_id: %v", decoded["run_id"])
	}
}

func TestRenderer_Summary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(true, false).RenderSummary(&buf, sampleReport())

	out := buf.String()
	for _, want := range []string{"FAIL", "spring.eml", "score 62/100", "1 issues, 1 warnings", "✗ Missing required footer"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected summary to contain %q\n%s", want, out)
		}
	}
}

func TestPipeline_RenderReport(t *testing.T) {
	p, dir := newTestPipeline(t)
	report := sampleReport()
	report.LLM = &model.LLMSummary{Enabled: true, Provider: "ollama", SummaryMD: "Fine."}

	jsonPath := filepath.Join(dir, "r.json")
	mdPath := filepath.Join(dir, "r.md")
	if err := p.RenderReport(report, jsonPath, mdPath); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, path := range []string{jsonPath, mdPath, filepath.Join(dir, "r.llm.md")} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected %s to exist: %v", path, err)
		}
	}
}
