package resolver

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/linkcleaner/internal/urlhandler"
)

// networkDomains maps an interstitial host to the registrable domains of its
// own network. Links to these are not considered outbound.
var networkDomains = map[string][]string{
	"lnkd.in": {"lnkd.in", "linkedin.com", "licdn.com"},
}

var textURLRegex = regexp.MustCompile(`https?://[^\s"'<>]+`)

const externalLinkSelector = `a[data-tracking-control-name="external_url_click"]`

// findInterstitialTarget looks for the outbound destination of an interstitial
// page: the tagged external link control, then any off-network absolute href,
// then any absolute URL in the visible text.
func findInterstitialTarget(page []byte, current string) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return ""
	}

	currentHost := urlhandler.Hostname(current)

	var target string
	doc.Find(externalLinkSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		resolved, err := urlhandler.ResolveReference(current, href)
		if err != nil || !urlhandler.IsHTTPURL(resolved) {
			return true
		}
		target = resolved
		return false
	})
	if target != "" {
		return target
	}

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		normalized, err := urlhandler.NormalizeURL(href)
		if err != nil || !isAbsoluteRef(href) {
			return true
		}
		if onNetwork(currentHost, urlhandler.Hostname(normalized)) {
			return true
		}
		target = normalized
		return false
	})
	if target != "" {
		return target
	}

	body := doc.Find("body").Clone()
	body.Find("script,style,noscript,template").Remove()
	for _, candidate := range textURLRegex.FindAllString(body.Text(), -1) {
		candidate = strings.TrimRight(candidate, ".,;:!?)]}")
		normalized, err := urlhandler.NormalizeURL(candidate)
		if err != nil || normalized == current {
			continue
		}
		return normalized
	}
	return ""
}

func isAbsoluteRef(href string) bool {
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// onNetwork reports whether host belongs to the same network as the
// interstitial host.
func onNetwork(interstitialHost, host string) bool {
	site := urlhandler.RegistrableDomain(host)
	if domains, ok := networkDomains[strings.ToLower(interstitialHost)]; ok {
		for _, d := range domains {
			if site == d {
				return true
			}
		}
		return false
	}
	return urlhandler.SameSite(interstitialHost, host)
}
