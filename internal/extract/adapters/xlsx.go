package adapters

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/emailqa/internal/model"
)

// XlsxAdapter reads Excel workbooks. Every sheet row becomes one line with
// cells joined by tabs.
type XlsxAdapter struct{}

// NewXlsxAdapter creates a new xlsx adapter
func NewXlsxAdapter() *XlsxAdapter {
	return &XlsxAdapter{}
}

// Name returns the adapter name
func (a *XlsxAdapter) Name() string {
	return "xlsx"
}

// Format returns the xlsx format
func (a *XlsxAdapter) Format() model.DocumentFormat {
	return model.FormatXLSX
}

// ExtractText returns all sheet rows in sheet order
func (a *XlsxAdapter) ExtractText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}

	var shared []string
	if f := findZipEntry(zr, "xl/sharedStrings.xml"); f != nil {
		shared, err = readSharedStrings(f)
		if err != nil {
			return "", err
		}
	}

	sheets := worksheetEntries(zr)
	if len(sheets) == 0 {
		return "", fmt.Errorf("no worksheets found in archive")
	}

	var lines []string
	for _, f := range sheets {
		rows, err := readSheetRows(f, shared)
		if err != nil {
			return "", fmt.Errorf("%s: %w", f.Name, err)
		}
		lines = append(lines, rows...)
	}

	if len(lines) == 0 {
		return "", ErrNoText
	}
	return strings.Join(lines, "\n"), nil
}

// worksheetEntries returns xl/worksheets/sheetN.xml entries ordered by N
func worksheetEntries(zr *zip.Reader) []*zip.File {
	var sheets []*zip.File
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "xl/worksheets/sheet") && strings.HasSuffix(f.Name, ".xml") {
			sheets = append(sheets, f)
		}
	}
	sort.Slice(sheets, func(i, j int) bool {
		return sheetNumber(sheets[i].Name) < sheetNumber(sheets[j].Name)
	})
	return sheets
}

func sheetNumber(name string) int {
	n := strings.TrimSuffix(strings.TrimPrefix(name, "xl/worksheets/sheet"), ".xml")
	v, err := strconv.Atoi(n)
	if err != nil {
		return 1 << 30
	}
	return v
}

func readSharedStrings(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open sharedStrings.xml: %w", err)
	}
	defer func() { _ = rc.Close() }()

	walker := newXMLWalker(rc)
	var out []string
	var current strings.Builder
	inItem, inText := false, false

	for {
		tok, err := walker.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse sharedStrings.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "si":
				inItem = true
				current.Reset()
			case "t":
				inText = inItem
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "si":
				inItem = false
				out = append(out, current.String())
			}
		}
	}
}

func readSheetRows(f *zip.File, shared []string) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = rc.Close() }()

	walker := newXMLWalker(rc)
	var rows []string
	var cells []string
	var value strings.Builder
	cellType := ""
	inValue := false

	for {
		tok, err := walker.next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "row":
				cells = cells[:0]
			case "c":
				cellType = ""
				for _, attr := range t.Attr {
					if attr.Name.Local == "t" {
						cellType = attr.Value
					}
				}
				value.Reset()
			case "v", "t":
				inValue = true
			}
		case xml.CharData:
			if inValue {
				value.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "v", "t":
				inValue = false
			case "c":
				cells = append(cells, cellText(value.String(), cellType, shared))
			case "row":
				if line := strings.TrimSpace(strings.Join(cells, "\t")); line != "" {
					rows = append(rows, line)
				}
			}
		}
	}
}

func cellText(raw, cellType string, shared []string) string {
	raw = strings.TrimSpace(raw)
	if cellType != "s" {
		return raw
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 || idx >= len(shared) {
		return ""
	}
	return strings.TrimSpace(shared[idx])
}
