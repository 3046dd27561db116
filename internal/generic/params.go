package generic

import (
	"regexp"
	"strings"
)

var trackingParams = toSet(
	// generic trackers
	"utm_source", "utm_medium", "utm_campaign", "utm_content", "utm_term",
	"fbclid", "gclid", "mc_eid", "mc_cid", "igshid", "si", "ref", "ref_",
	"source", "campaign", "medium", "content", "term", "affiliate",
	"partner", "promo", "discount", "coupon", "tracking", "click_id",
	"clickid", "click", "link", "redirect", "goto", "next", "continue",
	"return", "callback", "success", "error", "status", "result",
	"session", "sessionid", "sid", "token", "key", "uid",
	"user", "member", "account", "profile", "settings", "preferences",
	// retailer
	"tag", "ascsubtag", "linkcode", "creative", "creativeasin", "camp", "smid", "psc", "qid", "sr",
	"referrer", "spm", "scm",
)

var trackingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^utm_`),
	regexp.MustCompile(`^ref_`),
	regexp.MustCompile(`^pf_rd_`),
	regexp.MustCompile(`^creative(?:asin)?$`),
	regexp.MustCompile(`_id$`),
	regexp.MustCompile(`_token$`),
	regexp.MustCompile(`_key$`),
	regexp.MustCompile(`_session$`),
	regexp.MustCompile(`_tracking$`),
	regexp.MustCompile(`_click$`),
	regexp.MustCompile(`_ref$`),
	regexp.MustCompile(`_source$`),
	regexp.MustCompile(`_campaign$`),
	regexp.MustCompile(`_medium$`),
	regexp.MustCompile(`_content$`),
	regexp.MustCompile(`_term$`),
}

// contentEssentialParams change what the page shows. "id" lives here rather
// than in the tracker list.
var contentEssentialParams = toSet(
	"id", "t", "time", "timestamp", "start", "end", "duration", "position",
	"page", "offset", "limit", "size", "width", "height", "quality",
	"format", "type", "lang", "language", "locale", "region", "country",
	"currency", "price", "amount", "quantity", "count", "total",
	"sort", "order", "filter", "search", "query", "q", "term",
	"category", "tag", "label", "name", "title", "description",
	"author", "creator", "publisher", "date", "year", "month", "day",
)

// redirectParamNames commonly carry a wrapped destination URL
var redirectParamNames = []string{"q", "url", "u", "redirect", "target", "r", "dest", "destination", "to", "next", "continue", "link"}

// IsTrackingParam reports whether name is on the blocklist or matches a
// tracking pattern. Matching is case-insensitive.
func IsTrackingParam(name string) bool {
	lower := strings.ToLower(name)
	if _, ok := trackingParams[lower]; ok {
		return true
	}
	for _, re := range trackingPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// IsContentEssential reports whether name is on the content-essential allowlist.
func IsContentEssential(name string) bool {
	_, ok := contentEssentialParams[strings.ToLower(name)]
	return ok
}

func toSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
