package adapters

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/ppiankov/emailqa/internal/model"
)

// maxXMLDepth guards against pathologically nested office documents
const maxXMLDepth = 256

// maxEntryBytes caps how much of a single archive entry is read
const maxEntryBytes = 64 << 20

// ErrNoText is returned when a document holds no extractable text
var ErrNoText = errors.New("no text content found")

// Adapter extracts plain text lines from a binary copy document
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// Format returns the document format this adapter reads
	Format() model.DocumentFormat

	// ExtractText returns the document text, one logical line per row or paragraph
	ExtractText(data []byte) (string, error)
}

// Registry maps binary formats to adapters
type Registry struct {
	adapters map[model.DocumentFormat]Adapter
}

// NewRegistry creates a registry with the built-in adapters
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make(map[model.DocumentFormat]Adapter),
	}

	registry.Register(NewDocxAdapter())
	registry.Register(NewXlsxAdapter())
	registry.Register(NewPDFAdapter())

	return registry
}

// Register registers an adapter, replacing any previous one for its format
func (r *Registry) Register(adapter Adapter) {
	r.adapters[adapter.Format()] = adapter
}

// FindAdapter returns the adapter for a format
func (r *Registry) FindAdapter(format model.DocumentFormat) (Adapter, bool) {
	a, ok := r.adapters[format]
	return a, ok
}

// xmlWalker streams tokens and enforces the depth limit
type xmlWalker struct {
	decoder *xml.Decoder
	depth   int
}

func newXMLWalker(r io.Reader) *xmlWalker {
	return &xmlWalker{decoder: xml.NewDecoder(io.LimitReader(r, maxEntryBytes))}
}

// next returns the next token, or io.EOF when the stream ends
func (w *xmlWalker) next() (xml.Token, error) {
	tok, err := w.decoder.Token()
	if err != nil {
		return nil, err
	}
	switch tok.(type) {
	case xml.StartElement:
		w.depth++
		if w.depth > maxXMLDepth {
			return nil, fmt.Errorf("xml nesting depth exceeds %d", maxXMLDepth)
		}
	case xml.EndElement:
		w.depth--
	}
	return tok, nil
}
