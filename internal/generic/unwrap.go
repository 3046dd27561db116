package generic

import (
	"net/url"
	"strings"

	"github.com/aleister1102/linkcleaner/internal/urlhandler"
)

const maxDecodePasses = 3

// ExtractEmbeddedURL returns the destination wrapped inside a redirector URL
// such as https://www.google.com/url?q=..., or "" when there is none.
func ExtractEmbeddedURL(rawURL string) string {
	u, err := urlhandler.ParseHTTPURL(rawURL)
	if err != nil {
		return ""
	}
	params := urlhandler.QueryParams(u)

	path := u.Pathname()
	if path == "/url" || strings.HasPrefix(path, "/url/") {
		candidate := firstValue(params, "q")
		if candidate == "" {
			candidate = firstValue(params, "url")
		}
		if candidate == "" {
			candidate = firstValue(params, "u")
		}
		if extracted := decodeIfURL(candidate); extracted != "" {
			return extracted
		}
	}

	for _, name := range redirectParamNames {
		if extracted := decodeIfURL(firstValue(params, name)); extracted != "" {
			return extracted
		}
	}
	return ""
}

// decodeIfURL percent-decodes value up to maxDecodePasses times and returns
// the normalized URL when the result is an absolute http(s) URL.
func decodeIfURL(value string) string {
	candidate := strings.TrimSpace(value)
	if candidate == "" {
		return ""
	}
	for i := 0; i < maxDecodePasses; i++ {
		decoded, err := url.PathUnescape(candidate)
		if err != nil || decoded == candidate {
			break
		}
		candidate = decoded
	}

	if normalized, err := urlhandler.NormalizeURL(candidate); err == nil {
		return normalized
	}
	if len(candidate) > 2 && strings.HasPrefix(candidate, "<") && strings.HasSuffix(candidate, ">") {
		if normalized, err := urlhandler.NormalizeURL(candidate[1 : len(candidate)-1]); err == nil {
			return normalized
		}
	}
	return ""
}

func firstValue(params []urlhandler.QueryParam, name string) string {
	for _, p := range params {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}
