package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/worker"
)

// RunBatch checks every email source against the same copy document and
// target. Outcomes keep input order; one failing email does not stop the
// others.
func (p *Pipeline) RunBatch(ctx context.Context, doc *Document, emails []string, target Target) []worker.Outcome[*model.Report] {
	workers := p.config.Concurrency.BatchWorkers

	return worker.Process(ctx, workers, emails, func(ctx context.Context, source string) (*model.Report, error) {
		email, err := p.loader.Load(ctx, source)
		if err != nil {
			return nil, err
		}
		return p.Run(ctx, doc, email, target)
	})
}

// ReportBaseName derives an output file name from an email name
func ReportBaseName(emailName string) string {
	name := filepath.Base(emailName)
	if ext := filepath.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	out := b.String()
	if len(out) > 100 {
		out = out[:100]
	}
	if out == "" || out == "." {
		out = "email"
	}
	return out
}
