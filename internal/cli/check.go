package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/pipeline"
)

var (
	docPath      string
	client       string
	segment      string
	campaign     string
	outJSON      string
	outMD        string
	runTimeout   time.Duration
	probeLinks   bool
	strictMatch  bool
	failOnIssues bool
	includeBody  bool
	llmEnabled   bool
	llmProvider  string
	llmModel     string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <email>",
	Short: "Check one email against its copy document and client rules",
	Long: `Check parses an email (.eml, .html or .txt, path or URL) and reports:
- Rule violations for the client (segmentation, modules, brand, copy, compliance)
- Missing or mis-cased CTAs, missing UTM parameters, wrong phone numbers and social handles
- Differences from the copy document, when --doc is given
- Optionally, broken links (--probe) and an LLM review note (--llm)

Example:
  emailqa check spring.eml --client acme
  emailqa check spring.html --client acme --doc copy.docx --segment prospects
  emailqa check spring.eml --client acme --probe --json report.json --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addTargetFlags(checkCmd)

	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path")
	checkCmd.Flags().DurationVar(&runTimeout, "timeout", 2*time.Minute, "overall timeout")
	checkCmd.Flags().BoolVar(&failOnIssues, "fail", false, "exit non-zero when the email fails QA")
	addRunFlags(checkCmd)
}

// addTargetFlags registers the flags shared by check and batch
func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&docPath, "doc", "", "copy document (.txt, .html, .eml, .docx, .xlsx, .pdf)")
	cmd.Flags().StringVar(&client, "client", "", "client whose rules apply")
	cmd.Flags().StringVar(&segment, "segment", "", "audience segment, e.g. prospects")
	cmd.Flags().StringVar(&campaign, "campaign", "", "campaign name")
	_ = cmd.MarkFlagRequired("client")
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&probeLinks, "probe", false, "check that links resolve")
	cmd.Flags().BoolVar(&strictMatch, "strict", false, "subject must equal an approved line exactly")
	cmd.Flags().BoolVar(&includeBody, "body", false, "include the email body in Markdown reports")
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "add an LLM review note (never affects the verdict)")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

// buildConfig applies the run flags the user set on top of loadConfig
func buildConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("probe") {
		cfg.Probe.Enabled = probeLinks
	}
	if cmd.Flags().Changed("strict") {
		cfg.Compare.Strict = strictMatch
	}
	if cmd.Flags().Changed("body") {
		cfg.Output.IncludeBody = includeBody
	}
	applyLLMFlags(cfg, llmEnabled, llmProvider, llmModel)
	return cfg, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	p := pipeline.NewPipeline(cfg, newLogger())

	email, err := p.Load(ctx, args[0])
	if err != nil {
		return fmt.Errorf("load email: %w", err)
	}

	var doc *pipeline.Document
	if docPath != "" {
		doc, err = p.Load(ctx, docPath)
		if err != nil {
			return fmt.Errorf("load copy document: %w", err)
		}
	}

	report, err := p.Run(ctx, doc, email, pipeline.Target{Client: client, Segment: segment, Campaign: campaign})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if err := p.RenderReport(report, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	p.Renderer().RenderSummary(cmd.OutOrStdout(), report)

	if verbose {
		if outJSON != "" {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
		if outMD != "" {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	if failOnIssues && !report.Passed {
		return fmt.Errorf("email failed QA with %d issues", len(report.Issues()))
	}
	return nil
}
