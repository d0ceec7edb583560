package validate

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/util"
)

type socialPlatform struct {
	name    string
	title   string
	domains []string
}

var socialPlatforms = []socialPlatform{
	{"instagram", "Instagram", []string{"instagram.com"}},
	{"facebook", "Facebook", []string{"facebook.com"}},
	{"twitter", "Twitter", []string{"twitter.com", "x.com"}},
	{"linkedin", "Linkedin", []string{"linkedin.com"}},
	{"youtube", "Youtube", []string{"youtube.com", "youtu.be"}},
}

var handlePathPrefixes = []string{"profile/", "user/", "channel/"}

// platformFor returns the social platform a URL points at
func platformFor(rawURL string) (socialPlatform, bool) {
	host := util.Hostname(rawURL)
	if host == "" {
		return socialPlatform{}, false
	}
	for _, p := range socialPlatforms {
		for _, d := range p.domains {
			if util.HostMatches(host, d) {
				return p, true
			}
		}
	}
	return socialPlatform{}, false
}

// socialHandle prefers an "@handle" link text, then the first URL path segment
func socialHandle(rawURL, text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if strings.HasPrefix(text, "@") {
		return strings.Trim(text, "@")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := strings.Trim(strings.ToLower(parsed.Path), "/")
	for _, prefix := range handlePathPrefixes {
		path = strings.TrimPrefix(path, prefix)
	}
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return strings.TrimPrefix(path, "@")
}

func platformTitle(name string) string {
	for _, p := range socialPlatforms {
		if p.name == name {
			return p.title
		}
	}
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func checkSocial(links []model.Link, required map[string]string) model.SocialReport {
	report := model.SocialReport{SocialLinks: []model.SocialLink{}}
	present := make(map[string]bool)

	for _, link := range links {
		platform, ok := platformFor(link.URL)
		if !ok {
			continue
		}
		handle := socialHandle(link.URL, link.Text)
		present[platform.name] = true
		report.SocialLinks = append(report.SocialLinks, model.SocialLink{
			Platform: platform.name,
			URL:      link.URL,
			Handle:   handle,
			Text:     link.Text,
		})

		want, ok := required[platform.name]
		if !ok {
			continue
		}
		want = strings.Trim(strings.ToLower(strings.TrimSpace(want)), "@")
		if handle != "" && !strings.Contains(handle, want) {
			report.Issue(fmt.Sprintf("%s handle mismatch: Expected @%s, found %s", platform.title, want, handle))
		}
	}

	for _, name := range sortedKeys(required) {
		if !present[name] {
			report.Warn(fmt.Sprintf("Required %s link not found (@%s)", platformTitle(name), strings.Trim(required[name], "@")))
		}
	}

	return report
}
