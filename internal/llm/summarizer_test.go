package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ppiankov/emailqa/internal/model"
)

// MockProvider implements Provider for tests
type MockProvider struct {
	name      string
	available bool
	response  *SummarizeResponse
	err       error
	lastReq   SummarizeRequest
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func testReport() model.Report {
	return model.Report{
		Client:    "acme",
		EmailName: "spring.eml",
		Email: &model.EmailComponents{
			Links: []model.Link{
				{URL: "https://acme.com/shop", Text: "SHOP NOW"},
				{URL: "mailto:help@acme.com", Text: "Help"},
				{URL: "https://acme.com/shop", Text: "Shop"},
			},
		},
		Rules: model.ValidationResult{Issues: []string{"Missing required footer"}},
		Score: model.Score{Index: 72, Confidence: "medium"},
	}
}

func TestNewSummarizer_DisabledProvider(t *testing.T) {
	summarizer, err := NewSummarizer(Config{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summarizer.IsEnabled() {
		t.Error("Expected summarizer to be disabled")
	}
	if summarizer.ProviderName() != "" {
		t.Error("Expected empty provider name when disabled")
	}
}

func TestNewSummarizer_UnknownProvider(t *testing.T) {
	if _, err := NewSummarizer(Config{Provider: "bard"}, zerolog.Nop()); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestSummarizer_GenerateSummary_Disabled(t *testing.T) {
	summarizer := &Summarizer{}

	summary, err := summarizer.GenerateSummary(context.Background(), testReport())
	if err != nil {
		t.Errorf("Expected no error when disabled, got %v", err)
	}
	if summary != nil {
		t.Error("Expected nil summary when provider disabled")
	}
}

func TestSummarizer_GenerateSummary_ProviderUnavailable(t *testing.T) {
	summarizer := &Summarizer{
		provider: &MockProvider{name: "mock", available: false},
		config:   Config{Model: "m"},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), testReport())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.Enabled {
		t.Error("Expected summary to be disabled when provider unavailable")
	}
	if len(summary.Warnings) == 0 || !strings.Contains(summary.Warnings[0], "not available") {
		t.Errorf("Expected 'not available' warning, got %v", summary.Warnings)
	}
}

func TestSummarizer_GenerateSummary_Success(t *testing.T) {
	mock := &MockProvider{
		name:      "mock",
		available: true,
		response: &SummarizeResponse{
			Summary:    "The email fails on a missing footer. See https://acme.com/shop.",
			CitedURLs:  []string{"https://acme.com/shop"},
			Model:      "mock-1",
			TokensUsed: 120,
		},
	}
	summarizer := &Summarizer{provider: mock, config: Config{StrictLinks: true}}

	summary, err := summarizer.GenerateSummary(context.Background(), testReport())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !summary.Enabled {
		t.Error("Expected summary to be enabled")
	}
	if summary.Model != "mock-1" {
		t.Errorf("Expected model mock-1, got %s", summary.Model)
	}
	if !summary.StrictLinks {
		t.Error("Expected strict links flag to be carried")
	}
	if len(summary.Warnings) != 2 || summary.Warnings[0] != "Tokens used: 120" {
		t.Errorf("Unexpected warnings: %v", summary.Warnings)
	}

	// only web links, deduplicated
	if len(mock.lastReq.AllowedURLs) != 1 || mock.lastReq.AllowedURLs[0] != "https://acme.com/shop" {
		t.Errorf("Expected one allowed URL, got %v", mock.lastReq.AllowedURLs)
	}
}

func TestSummarizer_GenerateSummary_ProviderError(t *testing.T) {
	summarizer := &Summarizer{
		provider: &MockProvider{name: "mock", available: true, err: errors.New("quota exceeded")},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), testReport())
	if err != nil {
		t.Fatalf("Expected errors to be reported as warnings, got %v", err)
	}
	if !summary.Enabled {
		t.Error("Expected summary to stay enabled")
	}
	if len(summary.Warnings) != 1 || !strings.Contains(summary.Warnings[0], "failed") || !strings.Contains(summary.Warnings[0], "quota exceeded") {
		t.Errorf("Unexpected warnings: %v", summary.Warnings)
	}
}

func TestRenderSeparateMarkdown(t *testing.T) {
	if RenderSeparateMarkdown(nil) != "" {
		t.Error("Expected empty output for nil summary")
	}
	if RenderSeparateMarkdown(&model.LLMSummary{Enabled: false}) != "" {
		t.Error("Expected empty output for disabled summary")
	}

	md := RenderSeparateMarkdown(&model.LLMSummary{
		Enabled:     true,
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		StrictLinks: true,
		SummaryMD:   "Looks fine apart from the footer.",
		Warnings:    []string{"Tokens used: 10"},
	})

	for _, want := range []string{"# LLM Review Note", "GENERATED CONTENT", "determined independently", "openai", "gpt-4o-mini", "Strict links", "Looks fine", "## Notes"} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}

	empty := RenderSeparateMarkdown(&model.LLMSummary{Enabled: true, Provider: "ollama"})
	if !strings.Contains(empty, "No summary generated") {
		t.Error("Expected placeholder for empty summary")
	}
}

func TestBuildPrompt(t *testing.T) {
	report := testReport()
	prompt := BuildPrompt(report, AllowedURLs(report))

	for _, want := range []string{"Verdict: FAIL", "72/100", "Missing required footer", "https://acme.com/shop", "Links in email: 3"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
	if strings.Contains(prompt, "mailto:") {
		t.Error("Expected mailto links to be excluded from allowed URLs")
	}
}

func TestBuildPrompt_NoLinks(t *testing.T) {
	prompt := BuildPrompt(model.Report{Passed: true}, nil)
	if !strings.Contains(prompt, "(no links available)") {
		t.Error("Expected placeholder for empty link list")
	}
	if !strings.Contains(prompt, "Verdict: PASS") {
		t.Error("Expected PASS verdict")
	}
}
