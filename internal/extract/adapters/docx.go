package adapters

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/emailqa/internal/model"
)

// DocxAdapter reads Word documents
type DocxAdapter struct{}

// NewDocxAdapter creates a new docx adapter
func NewDocxAdapter() *DocxAdapter {
	return &DocxAdapter{}
}

// Name returns the adapter name
func (a *DocxAdapter) Name() string {
	return "docx"
}

// Format returns the docx format
func (a *DocxAdapter) Format() model.DocumentFormat {
	return model.FormatDOCX
}

// ExtractText returns one line per non-empty paragraph of word/document.xml
func (a *DocxAdapter) ExtractText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}

	f := findZipEntry(zr, "word/document.xml")
	if f == nil {
		return "", fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer func() { _ = rc.Close() }()

	walker := newXMLWalker(rc)
	var lines []string
	var current strings.Builder
	inParagraph, inText := false, false

	for {
		tok, err := walker.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = inParagraph
			case "tab":
				if inParagraph {
					current.WriteByte('\t')
				}
			case "br", "cr":
				// soft line breaks split a paragraph into separate lines
				if inParagraph {
					current.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				inParagraph = false
				if text := strings.TrimSpace(current.String()); text != "" {
					lines = append(lines, text)
				}
			}
		}
	}

	if len(lines) == 0 {
		return "", ErrNoText
	}
	return strings.Join(lines, "\n"), nil
}

func findZipEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}
