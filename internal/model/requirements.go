package model

import "strings"

// Requirements is the structured brief extracted from one copy document
type Requirements struct {
	SubjectLines   []string           `json:"subject_lines"`
	PreviewText    string             `json:"preview_text"`
	FromName       string             `json:"from_name"`
	FromEmail      string             `json:"from_email"`
	CTAs           []RequiredCTA      `json:"ctas"`
	Links          []string           `json:"links"`
	Segments       map[string]Segment `json:"segments"`
	ContentModules []string           `json:"content_modules"`
	SpecialNotes   []string           `json:"special_notes"`
	EncodingIssues []string           `json:"encoding_issues"`
	Format         DocumentFormat     `json:"format"`
	Truncated      bool               `json:"truncated,omitempty"`
}

// RequiredCTA is a call-to-action the copy document asks for
type RequiredCTA struct {
	Text           string   `json:"text"`
	DestinationURL string   `json:"destination_url"`
	SourceLine     int      `json:"source_line,omitempty"` // 1-based, 0 when found in markup
	Classes        []string `json:"classes,omitempty"`
}

// Segment holds the free-form lines listed under a "Segment:" label
type Segment struct {
	RequirementLines []string `json:"requirement_lines"`
}

// DocumentFormat classifies an input document
type DocumentFormat string

const (
	FormatText    DocumentFormat = "text"
	FormatHTML    DocumentFormat = "html"
	FormatMessage DocumentFormat = "message"
	FormatDOCX    DocumentFormat = "docx"
	FormatXLSX    DocumentFormat = "xlsx"
	FormatPDF     DocumentFormat = "pdf"
)

// IsBinary reports whether the format is handled by a binary adapter
func (f DocumentFormat) IsBinary() bool {
	switch f {
	case FormatDOCX, FormatXLSX, FormatPDF:
		return true
	}
	return false
}

// NewRequirements returns an empty Requirements with non-nil collections
func NewRequirements(format DocumentFormat) *Requirements {
	return &Requirements{
		SubjectLines:   []string{},
		CTAs:           []RequiredCTA{},
		Links:          []string{},
		Segments:       make(map[string]Segment),
		ContentModules: []string{},
		SpecialNotes:   []string{},
		EncodingIssues: []string{},
		Format:         format,
	}
}

// AddSubjectLine appends a subject candidate, skipping blanks and duplicates
func (r *Requirements) AddSubjectLine(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	for _, existing := range r.SubjectLines {
		if existing == s {
			return
		}
	}
	r.SubjectLines = append(r.SubjectLines, s)
}

// AddLink records a URL once, preserving first-seen order
func (r *Requirements) AddLink(u string) {
	if u == "" {
		return
	}
	for _, existing := range r.Links {
		if existing == u {
			return
		}
	}
	r.Links = append(r.Links, u)
}

// HasCTA reports whether a CTA with exactly this text is already recorded
func (r *Requirements) HasCTA(text string) bool {
	for _, cta := range r.CTAs {
		if cta.Text == text {
			return true
		}
	}
	return false
}

// AppendSegmentLine adds a requirement line to a segment, creating it if needed
func (r *Requirements) AppendSegmentLine(name, line string) {
	seg := r.Segments[name]
	seg.RequirementLines = append(seg.RequirementLines, line)
	r.Segments[name] = seg
}

// Clone returns a deep copy so callers can derive variants without sharing state
func (r *Requirements) Clone() *Requirements {
	out := *r
	out.SubjectLines = append([]string(nil), r.SubjectLines...)
	out.Links = append([]string(nil), r.Links...)
	out.ContentModules = append([]string(nil), r.ContentModules...)
	out.SpecialNotes = append([]string(nil), r.SpecialNotes...)
	out.EncodingIssues = append([]string(nil), r.EncodingIssues...)
	out.CTAs = make([]RequiredCTA, len(r.CTAs))
	for i, cta := range r.CTAs {
		cta.Classes = append([]string(nil), cta.Classes...)
		out.CTAs[i] = cta
	}
	out.Segments = make(map[string]Segment, len(r.Segments))
	for name, seg := range r.Segments {
		out.Segments[name] = Segment{RequirementLines: append([]string(nil), seg.RequirementLines...)}
	}
	return &out
}
