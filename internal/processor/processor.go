package processor

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/aleister1102/linkcleaner/internal/common/errorwrapper"
	"github.com/aleister1102/linkcleaner/internal/models"
	"github.com/aleister1102/linkcleaner/internal/urlhandler"
	whatwgUrl "github.com/nlnwa/whatwg-url/url"
	"github.com/rs/zerolog"
)

// URLProcessor applies a strategy's path rules, parameter policies and
// canonical builders to a URL. It performs no I/O.
type URLProcessor struct {
	logger  zerolog.Logger
	regexes sync.Map // pattern -> *regexp.Regexp
}

// NewURLProcessor creates a URL processor
func NewURLProcessor(logger zerolog.Logger) *URLProcessor {
	return &URLProcessor{
		logger: logger.With().Str("component", "URLProcessor").Logger(),
	}
}

// Process rewrites rawURL according to strategy. Errors are returned as
// *errorwrapper.ProcessingError, except for an unparsable URL.
func (p *URLProcessor) Process(rawURL string, strategy *models.Strategy) (string, error) {
	u, err := urlhandler.ParseHTTPURL(rawURL)
	if err != nil {
		return "", err
	}

	if err := p.applyPathRules(u, strategy.PathRules); err != nil {
		return "", errorwrapper.NewProcessingError(strategy.ID, rawURL, err)
	}

	kept, err := p.filterParams(urlhandler.QueryParams(u), strategy.ParamPolicies)
	if err != nil {
		return "", errorwrapper.NewProcessingError(strategy.ID, rawURL, err)
	}
	urlhandler.SetQueryParams(u, kept)

	if err := applyCanonical(u, strategy.Canonical); err != nil {
		return "", errorwrapper.NewProcessingError(strategy.ID, rawURL, err)
	}

	out := u.Href(false)
	p.logger.Debug().Str("strategy_id", strategy.ID).Str("url", rawURL).Str("result", out).Msg("URL processed")
	return out, nil
}

func (p *URLProcessor) applyPathRules(u *whatwgUrl.Url, rules []models.PathRule) error {
	path := u.Pathname()
	for _, rule := range rules {
		switch rule.Type {
		case models.PathRuleExact:
			if path == rule.Pattern {
				path = rule.Replacement
			}
		case models.PathRuleRegex:
			re, err := p.compile(rule.Pattern)
			if err != nil {
				return err
			}
			path = replaceFirst(re, path, rule.Replacement)
		default:
			return fmt.Errorf("unknown path rule type %q", rule.Type)
		}
	}
	if path != u.Pathname() {
		u.SetPathname(path)
	}
	return nil
}

// replaceFirst substitutes only the leftmost match, expanding $1 / ${name}
// references in replacement.
func replaceFirst(re *regexp.Regexp, s, replacement string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	expanded := re.ExpandString(nil, replacement, s, loc)
	return s[:loc[0]] + string(expanded) + s[loc[1]:]
}

func (p *URLProcessor) filterParams(params []urlhandler.QueryParam, policies []models.ParamPolicy) ([]urlhandler.QueryParam, error) {
	kept := make([]urlhandler.QueryParam, 0, len(params))
	for _, param := range params {
		policy, err := p.matchPolicy(param.Name, policies)
		if err != nil {
			return nil, err
		}
		if policy == nil || keepParam(*policy, param.Value) {
			kept = append(kept, param)
		}
	}
	return kept, nil
}

// matchPolicy checks exact names first, then wildcard names, each in
// declaration order. nil means no policy applies.
func (p *URLProcessor) matchPolicy(name string, policies []models.ParamPolicy) (*models.ParamPolicy, error) {
	for i := range policies {
		if !strings.Contains(policies[i].Name, "*") && policies[i].Name == name {
			return &policies[i], nil
		}
	}
	for i := range policies {
		if !strings.Contains(policies[i].Name, "*") {
			continue
		}
		re, err := p.compile(WildcardPattern(policies[i].Name))
		if err != nil {
			return nil, err
		}
		if re.MatchString(name) {
			return &policies[i], nil
		}
	}
	return nil, nil
}

func keepParam(policy models.ParamPolicy, value string) bool {
	switch policy.Action {
	case models.ParamDeny:
		return false
	case models.ParamConditional:
		return EvaluateCondition(policy.Condition, value)
	default:
		return true
	}
}

// EvaluateCondition supports "length > 0", "is_numeric" and "contains:<s>".
// Unrecognized conditions keep the parameter.
func EvaluateCondition(condition, value string) bool {
	cond := strings.TrimSpace(condition)
	switch {
	case cond == "length > 0":
		return len(value) > 0
	case cond == "is_numeric":
		return isNumeric(value)
	case strings.HasPrefix(cond, "contains:"):
		return strings.Contains(value, strings.TrimPrefix(cond, "contains:"))
	default:
		return true
	}
}

func isNumeric(s string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && !math.IsNaN(f)
}

func applyCanonical(u *whatwgUrl.Url, builders []models.CanonicalBuilder) error {
	for _, b := range builders {
		switch b.Type {
		case models.CanonicalDomain:
			if b.Required || u.Hostname() != b.Template {
				u.SetHostname(b.Template)
				if u.Hostname() != strings.ToLower(b.Template) {
					return fmt.Errorf("invalid canonical domain %q", b.Template)
				}
			}
		case models.CanonicalPath:
			if b.Required || u.Pathname() != b.Template {
				u.SetPathname(b.Template)
			}
		case models.CanonicalQuery:
			if !b.Required {
				continue
			}
			for _, param := range urlhandler.ParseQueryString(b.Template) {
				urlhandler.SetQueryParam(u, param.Name, param.Value)
			}
		default:
			return fmt.Errorf("unknown canonical builder type %q", b.Type)
		}
	}
	return nil
}

func (p *URLProcessor) compile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := p.regexes.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errorwrapper.WrapError(err, fmt.Sprintf("invalid pattern '%s'", pattern))
	}
	p.regexes.Store(pattern, re)
	return re, nil
}

// WildcardPattern converts a `*` wildcard into an anchored regular expression.
func WildcardPattern(wildcard string) string {
	parts := strings.Split(wildcard, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return "^" + strings.Join(parts, ".*") + "$"
}
