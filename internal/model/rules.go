package model

// RuleSchema is the per-client rule document. A nil or empty section means
// the matching check is skipped.
type RuleSchema struct {
	ClientName      string                  `json:"clientName"`
	Segmentation    map[string]SegmentRule  `json:"segmentation,omitempty"`
	Modules         map[string][]ModuleRule `json:"modules,omitempty"`
	CTAs            map[string][]string     `json:"ctas,omitempty"`
	UTMRequirements *UTMRequirements        `json:"utmRequirements,omitempty"`
	Brand           *BrandRules             `json:"brand,omitempty"`
	DosAndDonts     *DosAndDonts            `json:"dosAndDonts,omitempty"`
	Compliance      *ComplianceRules        `json:"compliance,omitempty"`
}

// ScopeAll is the modules/ctas key that applies to every segment and campaign
const ScopeAll = "all"

// SegmentRule lists keywords a segment's subject and preview must carry
type SegmentRule struct {
	RequiredSubjectKeywords []string `json:"requiredSubjectKeywords,omitempty"`
	RequiredPreviewKeywords []string `json:"requiredPreviewKeywords,omitempty"`
}

// ModuleRule describes a content block detected by keyword
type ModuleRule struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Required *bool    `json:"required,omitempty"`
}

// IsRequired defaults to true when the rule does not say
func (m ModuleRule) IsRequired() bool {
	return m.Required == nil || *m.Required
}

// UTMRequirements lists tracking parameters every link should carry
type UTMRequirements struct {
	RequiredParams []string          `json:"requiredParams,omitempty"`
	ExpectedValues map[string]string `json:"expectedValues,omitempty"`
}

// BrandRules holds identity values the email must reproduce
type BrandRules struct {
	Phone         string            `json:"phone,omitempty"`
	FromName      string            `json:"fromName,omitempty"`
	FromEmail     string            `json:"fromEmail,omitempty"`
	SocialHandles map[string]string `json:"socialHandles,omitempty"`
	CompanyInfo   map[string]string `json:"companyInfo,omitempty"`
}

// DosAndDonts holds copywriting guidance
type DosAndDonts struct {
	Dos   []DoRule   `json:"dos,omitempty"`
	Donts []DontRule `json:"donts,omitempty"`
}

// DoRule is a recommended phrase
type DoRule struct {
	Phrase        string `json:"phrase"`
	CheckPresence bool   `json:"checkPresence,omitempty"`
	Context       string `json:"context,omitempty"`
}

// DontRule is a forbidden phrase reported at its declared severity
type DontRule struct {
	Phrase   string   `json:"phrase"`
	Reason   string   `json:"reason,omitempty"`
	Severity Severity `json:"severity,omitempty"`
}

// Severity decides whether a finding blocks the verdict
type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

// ComplianceRules lists legally or contractually required elements
type ComplianceRules struct {
	RequiredElements []ComplianceElement `json:"requiredElements,omitempty"`
	CTAStyle         *CTAStyle           `json:"ctaStyle,omitempty"`
}

// ComplianceElement names a required email element
type ComplianceElement string

const (
	ElementUnsubscribeLink ComplianceElement = "unsubscribe_link"
	ElementPhysicalAddress ComplianceElement = "physical_address"
	ElementCompanyName     ComplianceElement = "company_name"
)

// CTAStyle constrains CTA casing
type CTAStyle struct {
	Case CaseStyle `json:"case,omitempty"`
}

// CaseStyle is a text casing convention
type CaseStyle string

const (
	CaseUpper CaseStyle = "UPPERCASE"
	CaseLower CaseStyle = "lowercase"
	CaseTitle CaseStyle = "Title Case"
)
