package detect

import (
	"strings"
	"testing"

	"github.com/ppiankov/emailqa/internal/model"
)

func TestDocument(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		filename string
		want     model.DocumentFormat
	}{
		{"docx extension wins", "Subject: x\nFrom: y", "brief.DOCX", model.FormatDOCX},
		{"xlsx extension", "", "brief.xlsx", model.FormatXLSX},
		{"pdf extension", "<html>", "brief.pdf", model.FormatPDF},
		{"two headers is a message", "Subject: Sale\nFrom: Shop <a@b.com>\n\nbody", "", model.FormatMessage},
		{"one header is text", "Subject: Sale\nbody text", "", model.FormatText},
		{"html tag", "<!DOCTYPE html><html><body>hi</body></html>", "copy.txt", model.FormatHTML},
		{"html case insensitive", "<DIV>copy</DIV>", "", model.FormatHTML},
		{"plain text", "SHOP NOW\nhttps://example.com", "", model.FormatText},
		{"headers past window ignored", strings.Repeat("x", 500) + "Subject: a\nFrom: b", "", model.FormatText},
		{"html past window ignored", strings.Repeat("x", 1000) + "<table>", "", model.FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Document(tt.content, tt.filename)
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	msg := "From: Shop <a@b.com>\nTo: you@x.com\nSubject: Hi\n\n<html></html>"
	if got := Email(msg); got != model.FormatMessage {
		t.Errorf("Expected message, got %s", got)
	}

	twoHeaders := "Subject: Hi\nFrom: a@b.com\n\n<html></html>"
	if got := Email(twoHeaders); got != model.FormatHTML {
		t.Errorf("Expected html for two headers, got %s", got)
	}
}

func TestBinaryFormat(t *testing.T) {
	if _, ok := BinaryFormat(""); ok {
		t.Error("Expected no format for empty filename")
	}
	if _, ok := BinaryFormat("notes.eml"); ok {
		t.Error("Expected .eml not to be binary")
	}
	if f, ok := BinaryFormat("/tmp/Copy Doc.Pdf"); !ok || f != model.FormatPDF {
		t.Errorf("Expected pdf, got %s", f)
	}
}
