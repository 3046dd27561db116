package strategies

import (
	"regexp"
	"strings"
	"sync"

	"github.com/aleister1102/linkcleaner/internal/models"
)

var matcherRegexes sync.Map // "flags|pattern" -> *regexp.Regexp

// MatchesDomain reports whether any matcher of s accepts domain.
func MatchesDomain(s *models.Strategy, domain string) bool {
	for _, m := range s.Matchers {
		if MatchHost(m, domain) {
			return true
		}
	}
	return false
}

// MatchHost tests one matcher against a hostname. Wildcards translate `*` to
// `.*` and are anchored; regex patterns are anchored as well. Patterns that do
// not compile never match.
func MatchHost(m models.Matcher, domain string) bool {
	switch m.Type {
	case models.MatcherExact:
		if m.CaseSensitive {
			return domain == m.Pattern
		}
		return strings.EqualFold(domain, m.Pattern)
	case models.MatcherWildcard:
		parts := strings.Split(m.Pattern, "*")
		for i, p := range parts {
			parts[i] = regexp.QuoteMeta(p)
		}
		return matchAnchored(strings.Join(parts, ".*"), m.CaseSensitive, domain)
	case models.MatcherRegex:
		return matchAnchored(m.Pattern, m.CaseSensitive, domain)
	default:
		return false
	}
}

func matchAnchored(pattern string, caseSensitive bool, domain string) bool {
	expr := "^(?:" + pattern + ")$"
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	if cached, ok := matcherRegexes.Load(expr); ok {
		return cached.(*regexp.Regexp).MatchString(domain)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return false
	}
	matcherRegexes.Store(expr, re)
	return re.MatchString(domain)
}
