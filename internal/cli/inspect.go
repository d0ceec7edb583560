package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/emailqa/internal/pipeline"
)

var inspectOut string

// extractCmd prints the requirements found in a copy document
var extractCmd = &cobra.Command{
	Use:   "extract <document>",
	Short: "Extract requirements from a copy document",
	Long: `Extract reads a copy document (.txt, .html, .eml, .docx, .xlsx or .pdf)
and prints the subject lines, preview text, sender, CTAs, links, segments,
content modules and notes it contains as JSON.

Example:
  emailqa extract copy.docx
  emailqa extract copy.txt --out requirements.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, doc, err := loadForInspect(cmd, args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd, p.Extract(doc))
	},
}

// parseCmd prints the components of an email
var parseCmd = &cobra.Command{
	Use:   "parse <email>",
	Short: "Parse an email into its components",
	Long: `Parse reads an email (.eml, .html or .txt) and prints the subject, sender,
preview text, links, CTAs, images and compliance markers as JSON.

Example:
  emailqa parse spring.eml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, email, err := loadForInspect(cmd, args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd, p.Parse(email))
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(parseCmd)
	extractCmd.Flags().StringVar(&inspectOut, "out", "", "write JSON to a file instead of stdout")
	parseCmd.Flags().StringVar(&inspectOut, "out", "", "write JSON to a file instead of stdout")
}

func loadForInspect(cmd *cobra.Command, source string) (*pipeline.Pipeline, *pipeline.Document, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	p := pipeline.NewPipeline(cfg, newLogger())

	timeout := cfg.Input.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	doc, err := p.Load(ctx, source)
	if err != nil {
		return nil, nil, err
	}
	return p, doc, nil
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	data = append(data, '\n')

	if inspectOut == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(inspectOut, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", inspectOut, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", inspectOut)
	}
	return nil
}
