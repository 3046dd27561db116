package urlhandler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aleister1102/linkcleaner/internal/common/errorwrapper"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "lowercases host", input: "https://Example.COM/a?b=1", expected: "https://example.com/a?b=1"},
		{name: "root gets slash", input: "https://example.com", expected: "https://example.com/"},
		{name: "root with query", input: "https://example.com?id=123", expected: "https://example.com/?id=123"},
		{name: "trims whitespace", input: "  http://example.com/x  ", expected: "http://example.com/x"},
		{name: "keeps fragment", input: "https://example.com/a#frag", expected: "https://example.com/a#frag"},
		{name: "drops default port", input: "https://example.com:443/a", expected: "https://example.com/a"},
		{name: "no scheme", input: "not-a-valid-url", wantErr: true},
		{name: "empty", input: "   ", wantErr: true},
		{name: "ftp scheme", input: "ftp://example.com/file", wantErr: true},
		{name: "mailto", input: "mailto:someone@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errorwrapper.ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveReference(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		ref      string
		expected string
	}{
		{name: "absolute path", base: "https://a.example/x/y", ref: "/z", expected: "https://a.example/z"},
		{name: "relative path", base: "https://a.example/x/y", ref: "z?q=1", expected: "https://a.example/x/z?q=1"},
		{name: "absolute URL", base: "https://a.example/x", ref: "https://b.example/p", expected: "https://b.example/p"},
		{name: "scheme relative", base: "https://a.example/x", ref: "//c.example/", expected: "https://c.example/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveReference(tt.base, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ResolveReference("https://a.example/", "   ")
	assert.Error(t, err)
}

func TestRegistrableDomain(t *testing.T) {
	assert.Equal(t, "example.co.uk", RegistrableDomain("www.example.co.uk"))
	assert.Equal(t, "linkedin.com", RegistrableDomain("WWW.LinkedIn.com"))
	assert.Equal(t, "lnkd.in", RegistrableDomain("lnkd.in"))
	assert.Equal(t, "localhost", RegistrableDomain("localhost"))
	assert.Equal(t, "", RegistrableDomain(""))

	assert.True(t, SameSite("www.linkedin.com", "linkedin.com"))
	assert.False(t, SameSite("lnkd.in", "linkedin.com"))
}

func TestHostname(t *testing.T) {
	assert.Equal(t, "www.instagram.com", Hostname("https://www.instagram.com/p/abc"))
	assert.Equal(t, "", Hostname("not-a-valid-url"))
}

func TestQueryParams_OrderAndDecoding(t *testing.T) {
	u, err := ParseHTTPURL("https://x.example/p?a=1&b=&c=%20d&a=2")
	require.NoError(t, err)

	params := QueryParams(u)
	assert.Equal(t, []QueryParam{
		{Name: "a", Value: "1"},
		{Name: "b", Value: ""},
		{Name: "c", Value: " d"},
		{Name: "a", Value: "2"},
	}, params)

	// reading must not rewrite the URL
	assert.Equal(t, "https://x.example/p?a=1&b=&c=%20d&a=2", u.Href(false))
}

func TestSetQueryParams(t *testing.T) {
	u, err := ParseHTTPURL("https://x.example/p?utm_source=a#top")
	require.NoError(t, err)

	SetQueryParams(u, nil)
	assert.Equal(t, "https://x.example/p#top", u.Href(false))

	SetQueryParams(u, []QueryParam{{Name: "q", Value: "a&b"}, {Name: "r", Value: "x y"}})
	assert.Equal(t, "https://x.example/p?q=a%26b&r=x+y#top", u.Href(false))

	SetQueryParam(u, "q", "1")
	assert.Equal(t, "https://x.example/p?q=1&r=x+y#top", u.Href(false))
	assert.True(t, HasQueryParam(u, "r"))
	assert.False(t, HasQueryParam(u, "s"))
}

func TestCloneURL_IsIndependent(t *testing.T) {
	u, err := ParseHTTPURL("https://x.example/p?a=1")
	require.NoError(t, err)

	c := CloneURL(u)
	SetQueryParams(c, nil)

	assert.Equal(t, "https://x.example/p?a=1", u.Href(false))
	assert.Equal(t, "https://x.example/p", c.Href(false))
	assert.Equal(t, "https://x.example/p", OriginAndPath(u))
}

func TestSortQueryParams(t *testing.T) {
	in := []QueryParam{{Name: "t", Value: "1"}, {Name: "a", Value: "2"}, {Name: "t", Value: "0"}}
	out := SortQueryParams(in)

	assert.Equal(t, []QueryParam{{Name: "a", Value: "2"}, {Name: "t", Value: "1"}, {Name: "t", Value: "0"}}, out)
	assert.Equal(t, "t", in[0].Name)
	assert.Equal(t, []QueryParam{{Name: "k", Value: "v"}}, ParseQueryString("?k=v"))
}

func TestReadURLs(t *testing.T) {
	input := strings.Join([]string{
		"# shortlinks",
		"https://a.co/d/2q0ZfPn",
		"",
		"   https://example.com/?utm_source=x   ",
		"not-a-url",
	}, "\n")

	urls, invalid, err := ReadURLs(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.co/d/2q0ZfPn", "https://example.com/?utm_source=x", "not-a-url"}, urls)
	assert.Equal(t, 1, invalid)
}

func TestReadURLsFromFile(t *testing.T) {
	logger := zerolog.Nop()
	dir := t.TempDir()

	_, err := ReadURLsFromFile(filepath.Join(dir, "missing.txt"), logger)
	assert.ErrorIs(t, err, ErrFileNotFound)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing\n\n"), 0644))
	_, err = ReadURLsFromFile(empty, logger)
	assert.ErrorIs(t, err, ErrFileEmpty)

	good := filepath.Join(dir, "urls.txt")
	require.NoError(t, os.WriteFile(good, []byte("https://example.com/a\nhttps://example.com/b\n"), 0644))
	urls, err := ReadURLsFromFile(good, logger)
	require.NoError(t, err)
	assert.Len(t, urls, 2)

	_, err = ReadURLsFromFile(dir, logger)
	assert.Error(t, err)
}
