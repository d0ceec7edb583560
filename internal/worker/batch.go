package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// Outcome is the result of processing one batch input
type Outcome[T any] struct {
	Input string
	Value T
	Err   error
}

// Process runs fn over every input with bounded concurrency. Outcomes keep
// input order and a failure never stops the rest of the batch.
func Process[T any](ctx context.Context, workers int, inputs []string, fn func(context.Context, string) (T, error)) []Outcome[T] {
	return Map(ctx, workers, inputs, func(ctx context.Context, input string) Outcome[T] {
		if err := ctx.Err(); err != nil {
			return Outcome[T]{Input: input, Err: err}
		}
		value, err := fn(ctx, input)
		return Outcome[T]{Input: input, Value: value, Err: err}
	})
}

// Failed counts outcomes that carry an error
func Failed[T any](outcomes []Outcome[T]) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// ReadListFile reads one entry per line, skipping blanks, # comments and
// duplicates
func ReadListFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open list: %w", err)
	}
	defer func() { _ = file.Close() }()

	var entries []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			entries = append(entries, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan list: %w", err)
	}

	return entries, nil
}
