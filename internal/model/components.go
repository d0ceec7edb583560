package model

// EmailComponents is the structured view of one rendered email
type EmailComponents struct {
	Subject            string            `json:"subject"`
	FromName           string            `json:"from_name"`
	FromEmail          string            `json:"from_email"`
	PreviewText        string            `json:"preview_text"`
	HTMLBody           string            `json:"html_body"`
	PlainBody          string            `json:"plain_body"`
	Links              []Link            `json:"links"`
	CTAs               []CTA             `json:"ctas"`
	Images             []Image           `json:"images"`
	Headers            map[string]string `json:"headers"`
	HasUnsubscribe     bool              `json:"has_unsubscribe"`
	UnsubscribeURL     string            `json:"unsubscribe_url,omitempty"`
	HasPhysicalAddress bool              `json:"has_physical_address"`
	EncodingIssues     []string          `json:"encoding_issues"`
	Format             DocumentFormat    `json:"format"`
}

// Link is an anchor found in the email body
type Link struct {
	Text               string            `json:"text"`
	URL                string            `json:"url"`
	UTMParams          map[string]string `json:"utm_params,omitempty"`
	IsTrackingRedirect bool              `json:"is_tracking_redirect"`
	IsUnsubscribe      bool              `json:"is_unsubscribe,omitempty"`
}

// CTA is a link classified as a call-to-action button
type CTA struct {
	Text      string            `json:"text"`
	URL       string            `json:"url"`
	UTMParams map[string]string `json:"utm_params,omitempty"`
}

// Image is an <img> element in the email body
type Image struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
}

// NewEmailComponents returns empty components with non-nil collections
func NewEmailComponents(format DocumentFormat) *EmailComponents {
	return &EmailComponents{
		Links:          []Link{},
		CTAs:           []CTA{},
		Images:         []Image{},
		Headers:        make(map[string]string),
		EncodingIssues: []string{},
		Format:         format,
	}
}

// HasLink reports whether a link with this exact text and URL exists
func (c *EmailComponents) HasLink(text, url string) bool {
	for _, l := range c.Links {
		if l.Text == text && l.URL == url {
			return true
		}
	}
	return false
}
