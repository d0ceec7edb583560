package model

// ValidationResult is the verdict of the rules engine for one email
type ValidationResult struct {
	Client      string      `json:"client"`
	Segment     string      `json:"segment,omitempty"`
	Campaign    string      `json:"campaign,omitempty"`
	Passed      bool        `json:"passed"`
	Issues      []string    `json:"issues"`
	Warnings    []string    `json:"warnings"`
	Validations Validations `json:"validations"`
	Error       string      `json:"error,omitempty"`
}

// Validations carries per-check detail. Skipped checks stay nil.
type Validations struct {
	Segmentation *SegmentationCheck `json:"segmentation,omitempty"`
	Modules      *ModulesCheck      `json:"modules,omitempty"`
	Brand        *BrandCheck        `json:"brand,omitempty"`
	Copywriting  *CopywritingCheck  `json:"copywriting,omitempty"`
	Compliance   *ComplianceCheck   `json:"compliance,omitempty"`
}

// Findings accumulates issues and warnings for one check
type Findings struct {
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
}

// Issue records a blocking finding
func (f *Findings) Issue(msg string) { f.Issues = append(f.Issues, msg) }

// Warn records a non-blocking finding
func (f *Findings) Warn(msg string) { f.Warnings = append(f.Warnings, msg) }

// KeywordCheck reports which keywords were found in a field
type KeywordCheck struct {
	Required []string `json:"required"`
	Found    []string `json:"found"`
	Missing  []string `json:"missing"`
}

// SegmentationCheck is the detail of the segmentation check
type SegmentationCheck struct {
	Findings
	Segment         string        `json:"segment"`
	SubjectKeywords *KeywordCheck `json:"subject_keywords,omitempty"`
	PreviewKeywords *KeywordCheck `json:"preview_keywords,omitempty"`
}

// ModulesCheck is the detail of the modules check
type ModulesCheck struct {
	Findings
	RequiredModules []string `json:"required_modules"`
	FoundModules    []string `json:"found_modules"`
	MissingModules  []string `json:"missing_modules"`
}

// BrandCheck is the detail of the brand check
type BrandCheck struct {
	Findings
	Checks map[string]bool `json:"checks"`
}

// PhraseViolation is a don't-phrase found in the copy
type PhraseViolation struct {
	Phrase   string   `json:"phrase"`
	Reason   string   `json:"reason,omitempty"`
	Severity Severity `json:"severity"`
}

// CopywritingCheck is the detail of the dos and don'ts check
type CopywritingCheck struct {
	Findings
	DontViolations []PhraseViolation `json:"donts_violations"`
	MissingDos     []string          `json:"missing_dos"`
}

// ComplianceCheck is the detail of the compliance check
type ComplianceCheck struct {
	Findings
	Checks        map[string]bool `json:"checks"`
	CTAStyleFails []string        `json:"cta_style_failures,omitempty"`
}
