// Package detect classifies copy documents and rendered emails by format.
package detect

import (
	"path/filepath"
	"strings"

	"github.com/ppiankov/emailqa/internal/model"
)

var headerTokens = []string{
	"Subject:",
	"From:",
	"To:",
	"Date:",
	"Content-Type:",
	"MIME-Version:",
}

var htmlTokens = []string{"<html", "<body", "<div", "<table", "<!doctype"}

var binaryExtensions = map[string]model.DocumentFormat{
	".docx": model.FormatDOCX,
	".xlsx": model.FormatXLSX,
	".pdf":  model.FormatPDF,
}

// BinaryFormat returns the binary format selected by the filename
// extension, if any. Callers must consult it before decoding bytes as text.
func BinaryFormat(filename string) (model.DocumentFormat, bool) {
	if filename == "" {
		return "", false
	}
	f, ok := binaryExtensions[strings.ToLower(filepath.Ext(filename))]
	return f, ok
}

// Document classifies a copy document. A binary extension wins
// unconditionally; otherwise the decoded content decides.
func Document(content, filename string) model.DocumentFormat {
	if f, ok := BinaryFormat(filename); ok {
		return f
	}
	if countHeaders(prefix(content, 500)) >= 2 {
		return model.FormatMessage
	}
	if looksLikeHTML(prefix(content, 1000)) {
		return model.FormatHTML
	}
	return model.FormatText
}

// Email classifies a rendered email. Rendered mail is either a message
// with headers or bare HTML.
func Email(content string) model.DocumentFormat {
	if countHeaders(prefix(content, 1000)) >= 3 {
		return model.FormatMessage
	}
	return model.FormatHTML
}

func countHeaders(s string) int {
	n := 0
	for _, tok := range headerTokens {
		if strings.Contains(s, tok) {
			n++
		}
	}
	return n
}

func looksLikeHTML(s string) bool {
	lower := strings.ToLower(s)
	for _, tok := range htmlTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// prefix returns at most n characters of s without splitting a rune
func prefix(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
