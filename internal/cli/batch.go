package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/emailqa/internal/pipeline"
	"github.com/ppiankov/emailqa/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Check many emails from a list file in parallel",
	Long: `Batch checks every email listed in a file (one path or URL per line,
# comments allowed) against the same client rules and copy document, and
writes a JSON and Markdown report per email.

Example:
  emailqa batch emails.txt --client acme
  emailqa batch emails.txt --client acme --doc copy.docx --concurrency 8 --output-dir ./qa`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addTargetFlags(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./emailqa-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the batch")
	batchCmd.Flags().BoolVar(&failOnIssues, "fail", false, "exit non-zero when any email fails QA")
	addRunFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	emails, err := worker.ReadListFile(args[0])
	if err != nil {
		return err
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.BatchWorkers = concurrency
	}
	p := pipeline.NewPipeline(cfg, newLogger())

	var doc *pipeline.Document
	if docPath != "" {
		if doc, err = p.Load(ctx, docPath); err != nil {
			return fmt.Errorf("load copy document: %w", err)
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  emailqa batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Emails:       %d\n", len(emails))
	fmt.Fprintf(os.Stderr, "  Client:       %s\n", client)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.BatchWorkers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	outcomes := p.RunBatch(ctx, doc, emails, pipeline.Target{Client: client, Segment: segment, Campaign: campaign})

	passed, failed, errored := 0, 0, 0
	used := make(map[string]int)
	for _, o := range outcomes {
		if o.Err != nil {
			errored++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", o.Input, o.Err)
			continue
		}

		report := o.Value
		base := pipeline.ReportBaseName(report.EmailName)
		// two inputs may share a file name
		if n := used[base]; n > 0 {
			used[base] = n + 1
			base = fmt.Sprintf("%s-%d", base, n+1)
		} else {
			used[base] = 1
		}

		jsonPath := filepath.Join(outputDir, base+".json")
		mdPath := filepath.Join(outputDir, base+".md")
		if err := p.RenderReport(report, jsonPath, mdPath); err != nil {
			errored++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", o.Input, err)
			continue
		}

		if report.Passed {
			passed++
			fmt.Fprintf(os.Stderr, "✓ %s (score %d/100)\n", o.Input, report.Score.Index)
		} else {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s FAILED: %d issues (score %d/100)\n", o.Input, len(report.Issues()), report.Score.Index)
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:    %d\n", len(outcomes))
	fmt.Fprintf(os.Stderr, "  Passed:   %d\n", passed)
	fmt.Fprintf(os.Stderr, "  Failed:   %d\n", failed)
	fmt.Fprintf(os.Stderr, "  Errors:   %d\n", errored)
	fmt.Fprintf(os.Stderr, "\n")

	if failOnIssues && (failed > 0 || errored > 0) {
		return fmt.Errorf("%d emails failed QA, %d could not be checked", failed, errored)
	}
	return nil
}
