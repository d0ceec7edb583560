package util

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// trackingHostMarkers are host labels used by email service redirectors
var trackingHostMarkers = []string{
	"click.e.", "link.", "track.", "redirect.", "r.", "go.", "links.", "clicks.",
}

// destinationParams carry the real target of a tracking redirect
var destinationParams = []string{"url", "dest", "destination", "link", "target"}

// Hostname returns the lower-cased host of a URL without port, or ""
func Hostname(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

// RegisteredDomain returns the eTLD+1 of a host (shop.acme.co.uk -> acme.co.uk).
// Hosts without a public suffix are returned as is.
func RegisteredDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

// HostMatches reports whether host is domain or one of its subdomains
func HostMatches(host, domain string) bool {
	host = strings.ToLower(host)
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// IsNonWeb reports whether a link is a mailto:, tel: or in-page anchor
func IsNonWeb(rawURL string) bool {
	lower := strings.ToLower(strings.TrimSpace(rawURL))
	return strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "#")
}

// IsTrackingURL reports whether the URL host looks like an email click
// tracking redirector
func IsTrackingURL(rawURL string) bool {
	host := Hostname(rawURL)
	if host == "" {
		return false
	}
	for _, marker := range trackingHostMarkers {
		if strings.HasPrefix(host, marker) || strings.Contains(host, "."+marker) {
			return true
		}
	}
	return false
}

// UTMParams returns the utm_* query parameters of a URL, first value wins.
// Keys keep their original spelling.
func UTMParams(rawURL string) map[string]string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil
	}
	var params map[string]string
	for key, values := range parsed.Query() {
		if !strings.HasPrefix(strings.ToLower(key), "utm_") || len(values) == 0 {
			continue
		}
		if params == nil {
			params = make(map[string]string)
		}
		params[key] = values[0]
	}
	return params
}

// TrackingDestination returns the target URL carried in a tracking link's
// query string, or "" when none is present
func TrackingDestination(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	query := parsed.Query()
	for _, key := range destinationParams {
		v := query.Get(key)
		if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
			return v
		}
	}
	return ""
}

// NormalizePhone keeps only digits and drops the country code from
// 11-digit North American numbers
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		return digits[1:]
	}
	return digits
}
