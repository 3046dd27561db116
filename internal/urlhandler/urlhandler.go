package urlhandler

import (
	"fmt"
	"strings"

	"github.com/aleister1102/linkcleaner/internal/common/errorwrapper"
	whatwgUrl "github.com/nlnwa/whatwg-url/url"
	"golang.org/x/net/publicsuffix"
)

// formPercentEncodeSet is the application/x-www-form-urlencoded set, so that
// serialized query values keep '&', '=' and '+' intact.
var formPercentEncodeSet = whatwgUrl.UserInfoPercentEncodeSet.Set(0x21, 0x24, 0x25, 0x26, 0x27, 0x28, 0x29, 0x2b, 0x2c, 0x7e)

var urlParser = whatwgUrl.NewParser(
	whatwgUrl.WithPercentEncodeSinglePercentSign(),
	whatwgUrl.WithQueryPercentEncodeSet(formPercentEncodeSet),
)

// ParseHTTPURL parses rawURL with WHATWG semantics and requires an absolute
// http(s) URL with a non-empty host. Errors match errorwrapper.ErrInvalidURL.
func ParseHTTPURL(rawURL string) (*whatwgUrl.Url, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, errorwrapper.NewInvalidURLError(rawURL, fmt.Errorf("URL is empty or only whitespace"))
	}

	u, err := urlParser.Parse(trimmed)
	if err != nil {
		return nil, errorwrapper.NewInvalidURLError(rawURL, err)
	}

	switch u.Scheme() {
	case "http", "https":
	default:
		return nil, errorwrapper.NewInvalidURLError(rawURL, fmt.Errorf("unsupported scheme %q", u.Scheme()))
	}
	if u.Hostname() == "" {
		return nil, errorwrapper.NewInvalidURLError(rawURL, fmt.Errorf("URL lacks a valid hostname"))
	}
	return u, nil
}

// IsHTTPURL reports whether rawURL is a valid absolute http(s) URL.
func IsHTTPURL(rawURL string) bool {
	_, err := ParseHTTPURL(rawURL)
	return err == nil
}

// NormalizeURL returns the WHATWG serialization of an absolute http(s) URL.
func NormalizeURL(rawURL string) (string, error) {
	u, err := ParseHTTPURL(rawURL)
	if err != nil {
		return "", err
	}
	return u.Href(false), nil
}

// ResolveReference resolves ref (typically a Location header) against base.
func ResolveReference(base, ref string) (string, error) {
	trimmedRef := strings.TrimSpace(ref)
	if trimmedRef == "" {
		return "", fmt.Errorf("reference is empty")
	}
	resolved, err := urlParser.ParseRef(base, trimmedRef)
	if err != nil {
		return "", errorwrapper.WrapError(err, fmt.Sprintf("could not resolve '%s' against '%s'", trimmedRef, base))
	}
	return resolved.Href(false), nil
}

// CloneURL copies u by reparsing its serialization. whatwg-url's own Clone
// shares the search parameter list with the source URL.
func CloneURL(u *whatwgUrl.Url) *whatwgUrl.Url {
	c, err := urlParser.Parse(u.Href(false))
	if err != nil {
		return u
	}
	return c
}

// Hostname returns the hostname of rawURL, or "" when it does not parse.
func Hostname(rawURL string) string {
	u, err := ParseHTTPURL(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// RegistrableDomain returns the eTLD+1 of hostname ("example.co.uk" for
// "www.example.co.uk"). Hosts without a public suffix are returned unchanged.
func RegistrableDomain(hostname string) string {
	host := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(hostname), "."))
	if host == "" {
		return ""
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return etld1
}

// SameSite reports whether two hostnames share a registrable domain.
func SameSite(hostA, hostB string) bool {
	a, b := RegistrableDomain(hostA), RegistrableDomain(hostB)
	return a != "" && a == b
}

// OriginAndPath returns scheme://host[:port]/path with no query or fragment.
func OriginAndPath(u *whatwgUrl.Url) string {
	return u.Protocol() + "//" + u.Host() + u.Pathname()
}
