// Package extract turns copy documents into structured email requirements.
package extract

import (
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/ppiankov/emailqa/internal/detect"
	"github.com/ppiankov/emailqa/internal/extract/adapters"
	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/textnorm"
)

// MaxChars is the size guard applied to every extraction path
const MaxChars = 500_000

// TruncationMarker is appended to text cut at MaxChars
const TruncationMarker = "\n[... truncated ...]"

// Extractor extracts requirements from copy documents
type Extractor struct {
	adapters *adapters.Registry
	logger   zerolog.Logger
	maxChars int
}

// NewExtractor creates an extractor with the built-in binary adapters. A
// zero logger discards output.
func NewExtractor(logger zerolog.Logger) *Extractor {
	return &Extractor{
		adapters: adapters.NewRegistry(),
		logger:   logger.With().Str("component", "extract").Logger(),
		maxChars: MaxChars,
	}
}

// Extract parses a copy document. It never fails: binary documents that
// cannot be read produce a requirements value whose SpecialNotes carry the
// failure.
func (e *Extractor) Extract(content []byte, filename string) *model.Requirements {
	if format, ok := detect.BinaryFormat(filename); ok {
		return e.extractBinary(content, format)
	}

	// header tokens are ASCII, so the raw bytes are enough to classify
	format := detect.Document(string(content), filename)
	req := model.NewRequirements(format)

	if format == model.FormatMessage {
		e.logger.Debug().Str("file", filename).Str("format", string(format)).Msg("extracting requirements")
		raw, truncated := e.truncate(string(content))
		req.Truncated = truncated
		e.parseMessage([]byte(raw), req)
		return e.done(req)
	}

	text, det := textnorm.Decode(content)

	e.logger.Debug().
		Str("file", filename).
		Str("format", string(format)).
		Str("charset", det.Charset).
		Float64("confidence", det.Confidence).
		Msg("extracting requirements")

	if det.Fallback {
		req.EncodingIssues = append(req.EncodingIssues, fmt.Sprintf("Undecodable bytes replaced while reading as %s", det.Charset))
	}

	text, req.Truncated = e.truncate(text)

	if format == model.FormatHTML {
		e.parseHTML(text, req)
	} else {
		e.parseText(text, req)
	}
	return e.done(req)
}

func (e *Extractor) done(req *model.Requirements) *model.Requirements {
	e.logger.Debug().
		Int("subjects", len(req.SubjectLines)).
		Int("ctas", len(req.CTAs)).
		Int("links", len(req.Links)).
		Msg("extracted requirements")

	return req
}

func (e *Extractor) extractBinary(content []byte, format model.DocumentFormat) *model.Requirements {
	req := model.NewRequirements(format)

	adapter, ok := e.adapters.FindAdapter(format)
	if !ok {
		req.SpecialNotes = append(req.SpecialNotes, fmt.Sprintf("No reader available for %s documents", format))
		return req
	}

	text, err := adapter.ExtractText(content)
	if err != nil {
		e.logger.Warn().Err(err).Str("adapter", adapter.Name()).Msg("binary extraction failed")
		req.SpecialNotes = append(req.SpecialNotes, fmt.Sprintf("Failed to extract %s document: %v", format, err))
		return req
	}

	text, req.Truncated = e.truncate(text)
	e.parseText(text, req)
	return req
}

// truncate cuts text at maxChars characters and appends the marker
func (e *Extractor) truncate(text string) (string, bool) {
	if utf8.RuneCountInString(text) <= e.maxChars {
		return text, false
	}

	count := 0
	for i := range text {
		if count == e.maxChars {
			e.logger.Warn().Int("limit", e.maxChars).Msg("document truncated")
			return text[:i] + TruncationMarker, true
		}
		count++
	}
	return text, false
}

// RequiredCTAs returns the CTA texts of a requirements value, in document
// order, for use as link validator expectations.
func RequiredCTAs(req *model.Requirements) []string {
	if req == nil {
		return nil
	}
	out := make([]string, 0, len(req.CTAs))
	for _, cta := range req.CTAs {
		out = append(out, cta.Text)
	}
	return out
}
