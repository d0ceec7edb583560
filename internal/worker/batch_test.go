package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestProcess_KeepsOrderAndErrors(t *testing.T) {
	inputs := []string{"a.html", "broken.html", "c.html"}

	outcomes := Process(context.Background(), 2, inputs, func(ctx context.Context, in string) (int, error) {
		if in == "broken.html" {
			return 0, errors.New("parse failed")
		}
		return len(in), nil
	})

	if len(outcomes) != 3 {
		t.Fatalf("Expected 3 outcomes, got %d", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Input != inputs[i] {
			t.Errorf("Expected input %s at %d, got %s", inputs[i], i, o.Input)
		}
	}
	if outcomes[0].Value != 6 || outcomes[2].Value != 6 {
		t.Errorf("Unexpected values: %+v", outcomes)
	}
	if outcomes[1].Err == nil {
		t.Error("Expected error for broken input")
	}
	if Failed(outcomes) != 1 {
		t.Errorf("Expected 1 failure, got %d", Failed(outcomes))
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := Process(ctx, 2, []string{"a", "b"}, func(ctx context.Context, in string) (string, error) {
		return in, nil
	})

	if len(outcomes) != 2 {
		t.Fatalf("Expected 2 outcomes, got %d", len(outcomes))
	}
	if Failed(outcomes) != 2 {
		t.Errorf("Expected every outcome to fail after cancel, got %+v", outcomes)
	}
}

func TestReadListFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emails.txt")
	content := "# spring campaign\nemails/a.html\n\n  emails/b.eml  \nemails/a.html\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := ReadListFile(path)
	if err != nil {
		t.Fatalf("ReadListFile failed: %v", err)
	}
	want := []string{"emails/a.html", "emails/b.eml"}
	if len(entries) != len(want) {
		t.Fatalf("Expected %v, got %v", want, entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("Expected %s, got %s", want[i], entries[i])
		}
	}

	if _, err := ReadListFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}
