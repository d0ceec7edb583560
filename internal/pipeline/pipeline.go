// Package pipeline runs the full QA flow for one email: requirements
// extraction, parsing, rule validation, link checks, comparison, scoring and
// the optional LLM note.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ppiankov/emailqa/internal/compare"
	"github.com/ppiankov/emailqa/internal/extract"
	"github.com/ppiankov/emailqa/internal/llm"
	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/parse"
	"github.com/ppiankov/emailqa/internal/rules"
	"github.com/ppiankov/emailqa/internal/score"
	"github.com/ppiankov/emailqa/internal/validate"
)

// Pipeline orchestrates a QA run
type Pipeline struct {
	loader     *Loader
	extractor  *extract.Extractor
	parser     *parse.Parser
	store      *rules.Store
	engine     *rules.Engine
	prober     *validate.Prober // nil unless probing is enabled
	scorer     *score.Scorer
	summarizer *llm.Summarizer // nil if disabled
	renderer   *Renderer
	config     *model.Config
	logger     zerolog.Logger
	now        func() time.Time
}

// NewPipeline wires every component from cfg
func NewPipeline(cfg *model.Config, logger zerolog.Logger) *Pipeline {
	store := rules.NewStore(cfg.Rules.Dir, cfg.Rules.CacheTTL, logger)

	p := &Pipeline{
		loader:    NewLoader(cfg.Input.Timeout, cfg.Probe.UserAgent, cfg.Input.MaxBytes, cfg.Probe.HTTPProxy, cfg.Probe.HTTPSProxy, cfg.Probe.NoProxy),
		extractor: extract.NewExtractor(logger),
		parser:    parse.NewParser(logger),
		store:     store,
		engine:    rules.NewEngine(store, logger),
		scorer:    score.NewScorer(),
		renderer:  NewRenderer(cfg.Output.IncludeFooter, cfg.Output.IncludeBody),
		config:    cfg,
		logger:    logger.With().Str("component", "pipeline").Logger(),
		now:       time.Now,
	}

	if cfg.Probe.Enabled {
		p.prober = validate.NewProber(cfg.Probe, logger)
	}

	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM, cfg.Probe), logger)
		if err != nil {
			p.logger.Warn().Err(err).Msg("LLM summary disabled")
		} else {
			p.summarizer = s
		}
	}

	return p
}

// Store exposes the rule store for listing and saving schemas
func (p *Pipeline) Store() *rules.Store {
	return p.store
}

// Renderer returns the configured report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Load reads a document from a path or URL
func (p *Pipeline) Load(ctx context.Context, source string) (*Document, error) {
	return p.loader.Load(ctx, source)
}

// Target identifies whose rules apply to a run
type Target struct {
	Client   string
	Segment  string
	Campaign string
}

// Extract parses a copy document into requirements
func (p *Pipeline) Extract(doc *Document) *model.Requirements {
	return p.extractor.Extract(doc.Content, doc.Name)
}

// Parse parses an email into components
func (p *Pipeline) Parse(email *Document) *model.EmailComponents {
	return p.parser.Parse(email.Content)
}

// Run checks email against the client's rules and, when doc is non-nil, the
// copy document. Only unreadable or malformed rule files are errors; every
// QA finding ends up in the report.
func (p *Pipeline) Run(ctx context.Context, doc, email *Document, target Target) (*model.Report, error) {
	if email == nil {
		return nil, errors.New("no email to check")
	}

	report := &model.Report{
		RunID:     uuid.Must(uuid.NewV7()).String(),
		Client:    target.Client,
		Segment:   target.Segment,
		Campaign:  target.Campaign,
		CreatedAt: p.now().UTC(),
		EmailName: email.Name,
	}

	// 1. Parse the email
	components := p.Parse(email)
	report.Email = components

	// 2. Load rules; a client without rules still gets a report
	schema, err := p.store.Load(target.Client)
	switch {
	case errors.Is(err, rules.ErrNoRules):
		p.logger.Warn().Str("client", target.Client).Msg("no rules configured")
		report.Rules = rules.NoRulesResult(target.Client, target.Segment, target.Campaign)
		schema = nil
	case err != nil:
		return nil, fmt.Errorf("load rules: %w", err)
	default:
		report.Rules = p.engine.Validate(components, schema, target.Segment, target.Campaign)
	}

	// 3. Extract requirements, recased to the client's CTA style
	var req *model.Requirements
	if doc != nil {
		req = p.Extract(doc)
		if schema != nil && schema.Compliance != nil && schema.Compliance.CTAStyle != nil {
			req = extract.ApplyCTAStyle(req, schema.Compliance.CTAStyle.Case)
		}
		report.DocumentName = doc.Name
		report.Requirements = req
	}

	// 4. Link, CTA, UTM, phone and social checks. The copy document's CTAs
	// are checked by the comparison in step 6.
	report.Links = validate.ValidateLinks(components, validate.ExpectationsFrom(nil, schema, target.Segment))

	// 5. Reachability
	if p.prober != nil {
		report.Links.Probes = p.prober.Probe(ctx, components.Links)
		report.Links.Warnings = append(report.Links.Warnings, probeWarnings(report.Links.Probes)...)
	}

	// 6. Copy document versus email
	if req != nil {
		cmp := compare.Compare(req, components, p.config.Compare)
		report.Comparison = &cmp
	}

	// 7. Verdict and score
	report.Passed = len(report.Issues()) == 0
	report.Score = p.scorer.Calculate(report.Rules, &report.Links, report.Comparison, report.Links.Probes)

	p.logger.Info().
		Str("run_id", report.RunID).
		Str("email", report.EmailName).
		Bool("passed", report.Passed).
		Int("score", report.Score.Index).
		Msg("QA run complete")

	// 8. LLM note (after scoring, never affects the verdict)
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			p.logger.Warn().Err(err).Msg("LLM summary generation failed")
		} else if summary != nil {
			report.LLM = summary
		}
	}

	return report, nil
}

// probeWarnings reports broken links. Reachability never blocks the verdict.
func probeWarnings(probes []model.ProbeResult) []string {
	var out []string
	for _, pr := range probes {
		if !pr.IsBroken {
			continue
		}
		switch {
		case pr.TimedOut:
			out = append(out, fmt.Sprintf("Link timed out: %s", pr.URL))
		case pr.StatusCode > 0:
			out = append(out, fmt.Sprintf("Broken link (HTTP %d): %s", pr.StatusCode, pr.URL))
		default:
			out = append(out, fmt.Sprintf("Broken link: %s (%s)", pr.URL, pr.Error))
		}
	}
	return out
}

// RenderReport writes the JSON and Markdown reports, skipping empty paths.
// An LLM note goes next to the Markdown report as <name>.llm.md.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.logger.Debug().Str("path", jsonPath).Msg("wrote JSON report")
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		p.logger.Debug().Str("path", mdPath).Msg("wrote Markdown report")
	}

	if report.LLM != nil && report.LLM.Enabled && mdPath != "" {
		llmPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		if err := p.renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(report.LLM), llmPath); err != nil {
			p.logger.Warn().Err(err).Msg("failed to write LLM note")
		}
	}

	return nil
}
