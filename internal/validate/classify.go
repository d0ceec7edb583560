package validate

import (
	"strings"

	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/util"
)

// Classify sorts a link by where it leads. Unsubscribe wins over social and
// tracking so preference-centre redirects are not probed as landing pages.
func Classify(link model.Link) model.LinkKind {
	lower := strings.ToLower(strings.TrimSpace(link.URL))

	switch {
	case strings.HasPrefix(lower, "tel:"):
		return model.LinkKindTel
	case strings.HasPrefix(lower, "mailto:"):
		return model.LinkKindMailto
	case strings.HasPrefix(lower, "#") || lower == "":
		return model.LinkKindAnchor
	case link.IsUnsubscribe:
		return model.LinkKindUnsubscribe
	}

	if _, ok := platformFor(link.URL); ok {
		return model.LinkKindSocial
	}
	if link.IsTrackingRedirect || util.IsTrackingURL(link.URL) {
		return model.LinkKindTracking
	}
	return model.LinkKindWeb
}

// probeable reports whether a link kind can be fetched over HTTP
func probeable(kind model.LinkKind) bool {
	switch kind {
	case model.LinkKindTel, model.LinkKindMailto, model.LinkKindAnchor:
		return false
	}
	return true
}
