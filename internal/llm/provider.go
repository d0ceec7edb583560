package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/emailqa/internal/model"
)

// Provider writes a reviewer note for a QA report
type Provider interface {
	Name() string
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest is the input for one summary
type SummarizeRequest struct {
	Report model.Report

	// AllowedURLs are the only links the summary may cite: the email's own links
	AllowedURLs []string

	Prompt    string // overrides BuildPrompt when set
	Model     string
	MaxTokens int
}

// SummarizeResponse is the model's answer
type SummarizeResponse struct {
	Summary    string
	CitedURLs  []string
	Model      string
	TokensUsed int
}

// Config configures the provider
type Config struct {
	Provider  string // "openai", "ollama" or "" for disabled
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   int // seconds
	MaxTokens int

	// StrictLinks rejects summaries citing URLs outside AllowedURLs
	StrictLinks bool

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns a disabled configuration
func DefaultConfig() Config {
	return Config{
		Timeout:     30,
		StrictLinks: true,
		MaxTokens:   600,
	}
}

const systemPrompt = "You are an email QA reviewer. You summarise automated QA reports for marketing emails and never invent findings."

// maxPromptFindings bounds how many issues and warnings are quoted
const maxPromptFindings = 15

// BuildPrompt renders the report into the default prompt
func BuildPrompt(report model.Report, allowedURLs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Summarise this automated QA report for the email team in 3-5 sentences.

RULES:
1. Only mention findings listed below. Do not add new ones.
2. If you cite a link it MUST come from this list:
%s
3. Blocking issues come first, then the most useful warnings.
4. Do not change the verdict. The verdict and score are final.

Report:
- Client: %s
- Email: %s
- Verdict: %s
- QA score: %d/100 (%s confidence)
- Links in email: %d
`, joinURLs(allowedURLs), report.Client, report.EmailName, verdict(report.Passed), report.Score.Index, report.Score.Confidence, countLinks(report))

	writeFindings(&b, "Blocking issues", report.Issues())
	writeFindings(&b, "Warnings", report.Warnings())

	b.WriteString("\nScore signals:\n")
	for _, s := range report.Score.Signals {
		fmt.Fprintf(&b, "- %s: %s\n", s.Type, s.Description)
	}

	return b.String()
}

func writeFindings(b *strings.Builder, title string, findings []string) {
	fmt.Fprintf(b, "\n%s (%d):\n", title, len(findings))
	if len(findings) == 0 {
		b.WriteString("- none\n")
		return
	}
	for i, f := range findings {
		if i >= maxPromptFindings {
			fmt.Fprintf(b, "- ... and %d more\n", len(findings)-maxPromptFindings)
			break
		}
		fmt.Fprintf(b, "- %s\n", f)
	}
}

func verdict(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

func countLinks(report model.Report) int {
	if report.Email == nil {
		return 0
	}
	return len(report.Email.Links)
}

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "(no links available)"
	}
	var b strings.Builder
	for i, u := range urls {
		if i >= 20 {
			fmt.Fprintf(&b, "\n... and %d more URLs", len(urls)-20)
			break
		}
		fmt.Fprintf(&b, "\n- %s", u)
	}
	return b.String()
}

// AllowedURLs lists the email's web links in first-seen order
func AllowedURLs(report model.Report) []string {
	if report.Email == nil {
		return nil
	}
	seen := make(map[string]bool)
	var urls []string
	for _, l := range report.Email.Links {
		if !strings.HasPrefix(l.URL, "http://") && !strings.HasPrefix(l.URL, "https://") {
			continue
		}
		if !seen[l.URL] {
			seen[l.URL] = true
			urls = append(urls, l.URL)
		}
	}
	return urls
}
