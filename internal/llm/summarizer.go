package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ppiankov/emailqa/internal/model"
)

// Summarizer adds an optional reviewer note to a finished report. The note
// never feeds back into the verdict or score.
type Summarizer struct {
	provider Provider
	config   Config
	logger   zerolog.Logger
}

// NewSummarizer builds the configured provider. An empty provider yields a
// disabled summarizer.
func NewSummarizer(config Config, logger zerolog.Logger) (*Summarizer, error) {
	provider, err := NewProvider(config, logger)
	if err != nil {
		return nil, err
	}
	return &Summarizer{
		provider: provider,
		config:   config,
		logger:   logger.With().Str("component", "summarizer").Logger(),
	}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the provider name or ""
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary returns nil when disabled. Provider failures are reported
// as warnings on the summary rather than as errors.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	summary := &model.LLMSummary{
		Provider:    s.provider.Name(),
		Model:       s.config.Model,
		StrictLinks: s.config.StrictLinks,
	}

	if !s.provider.IsAvailable(ctx) {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("LLM provider %s is not available", s.provider.Name()))
		return summary, nil
	}
	summary.Enabled = true

	allowed := AllowedURLs(report)
	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:      report,
		AllowedURLs: allowed,
		Model:       s.config.Model,
		MaxTokens:   s.config.MaxTokens,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("summary generation failed")
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("Summary generation failed: %v", err))
		return summary, nil
	}

	summary.SummaryMD = resp.Summary
	if resp.Model != "" {
		summary.Model = resp.Model
	}
	summary.Warnings = append(summary.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	if len(resp.CitedURLs) > 0 {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("Verified %d cited links against the email", len(resp.CitedURLs)))
	}

	return summary, nil
}

// RenderSeparateMarkdown renders the note as its own file, kept apart from
// the deterministic report
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# LLM Review Note\n\n")
	b.WriteString("> **GENERATED CONTENT.** The verdict, issues and score were determined independently of this note.\n\n")
	fmt.Fprintf(&b, "- **Provider:** %s\n", summary.Provider)
	if summary.Model != "" {
		fmt.Fprintf(&b, "- **Model:** %s\n", summary.Model)
	}
	fmt.Fprintf(&b, "- **Strict links:** %t\n\n", summary.StrictLinks)

	b.WriteString("## Summary\n\n")
	if summary.SummaryMD == "" {
		b.WriteString("_No summary generated._\n")
	} else {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
