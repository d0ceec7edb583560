package model

import "time"

// LinkReport is the outcome of checking email links against expectations
type LinkReport struct {
	Passed   bool          `json:"passed"`
	CTA      CTAReport     `json:"cta_validation"`
	UTM      UTMReport     `json:"utm_validation"`
	Phone    PhoneReport   `json:"phone_validation"`
	Social   SocialReport  `json:"social_validation"`
	Probes   []ProbeResult `json:"link_status,omitempty"`
	Issues   []string      `json:"issues"`
	Warnings []string      `json:"warnings"`
}

// CTAReport lists required CTAs and which were missing
type CTAReport struct {
	Findings
	FoundCTAs    []string `json:"found_ctas"`
	RequiredCTAs []string `json:"required_ctas"`
	MissingCTAs  []string `json:"missing_ctas"`
}

// UTMLink describes the tracking state of one link
type UTMLink struct {
	URL     string            `json:"url"`
	Text    string            `json:"text"`
	Params  map[string]string `json:"params,omitempty"`
	Missing []string          `json:"missing,omitempty"`
}

// UTMMismatch is an expected UTM value that differs on a link
type UTMMismatch struct {
	URL      string `json:"url"`
	Param    string `json:"param"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// UTMReport is the detail of the UTM check
type UTMReport struct {
	Findings
	LinksWithUTM    []UTMLink     `json:"links_with_utm"`
	LinksMissingUTM []UTMLink     `json:"links_missing_utm"`
	Errors          []UTMMismatch `json:"utm_errors"`
}

// PhoneLink is a tel: link with its normalized number
type PhoneLink struct {
	Text  string `json:"text"`
	Phone string `json:"phone"`
	URL   string `json:"url"`
}

// PhoneReport is the detail of the phone check
type PhoneReport struct {
	Findings
	Required   string      `json:"required,omitempty"`
	PhoneLinks []PhoneLink `json:"phone_links"`
}

// SocialLink is a link recognised as pointing at a social platform
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Handle   string `json:"handle"`
	Text     string `json:"text"`
}

// SocialReport is the detail of the social handle check
type SocialReport struct {
	Findings
	SocialLinks []SocialLink `json:"social_links"`
}

// ProbeResult is the reachability status of one link. Probing never
// influences the pass/fail verdict.
type ProbeResult struct {
	URL         string        `json:"url"`
	Text        string        `json:"text,omitempty"`
	CheckedURL  string        `json:"checked_url,omitempty"` // destination when unwrapped from a tracking link
	Method      string        `json:"method,omitempty"`
	StatusCode  int           `json:"status_code,omitempty"`
	IsReachable bool          `json:"is_reachable"`
	IsBroken    bool          `json:"is_broken"`
	TimedOut    bool          `json:"timed_out,omitempty"`
	Skipped     bool          `json:"skipped,omitempty"`
	RedirectURL string        `json:"redirect_url,omitempty"`
	Kind        LinkKind      `json:"kind"`
	Duration    time.Duration `json:"duration_ns,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// LinkKind classifies a link destination
type LinkKind string

const (
	LinkKindWeb         LinkKind = "web"
	LinkKindTracking    LinkKind = "tracking"
	LinkKindSocial      LinkKind = "social"
	LinkKindMailto      LinkKind = "mailto"
	LinkKindTel         LinkKind = "tel"
	LinkKindAnchor      LinkKind = "anchor"
	LinkKindUnsubscribe LinkKind = "unsubscribe"
)
