package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aleister1102/linkcleaner/internal/common/errorwrapper"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *HTTPClient {
	t.Helper()
	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)
	return client
}

func TestHTTPClient_UserAgentHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["User-Agent"]
		w.Header().Set("X-UA-Present", strconv.FormatBool(present))
		w.Header().Set("X-UA", r.UserAgent())
		w.Header().Set("X-Accept", r.Header.Get("Accept"))
	}))
	defer server.Close()

	client := newTestClient(t)

	tests := []struct {
		name        string
		userAgent   string
		wantPresent string
	}{
		{name: "no user agent", userAgent: "", wantPresent: "false"},
		{name: "curl user agent", userAgent: "curl/8.4.0", wantPresent: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Do(context.Background(), &HTTPRequest{Method: http.MethodHead, URL: server.URL, UserAgent: tt.userAgent})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPresent, resp.Headers.Get("X-UA-Present"))
			assert.Equal(t, tt.userAgent, resp.Headers.Get("X-UA"))
			assert.Equal(t, "*/*", resp.Headers.Get("X-Accept"))
		})
	}
}

func TestHTTPClient_DoesNotFollowRedirects(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/final", http.StatusFound)
			return
		}
		_, _ = w.Write([]byte("final"))
	}))
	defer server.Close()

	client := newTestClient(t)
	resp, err := client.Do(context.Background(), &HTTPRequest{Method: http.MethodGet, URL: server.URL + "/start", MaxBodyBytes: 1024})
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.True(t, resp.IsRedirect())
	assert.Equal(t, "/final", resp.Location())
	assert.Empty(t, resp.Body)
	assert.Equal(t, int32(1), hits.Load())
}

func TestHTTPClient_BoundedBodyRead(t *testing.T) {
	body := strings.Repeat("a", 100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		// flush first so no Content-Length is declared
		w.(http.Flusher).Flush()
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := newTestClient(t)

	resp, err := client.Do(context.Background(), &HTTPRequest{Method: http.MethodGet, URL: server.URL, MaxBodyBytes: 10})
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaaaa", string(resp.Body))
	assert.True(t, resp.BodyTruncated)
	assert.True(t, resp.IsHTML())

	resp, err = client.Do(context.Background(), &HTTPRequest{Method: http.MethodGet, URL: server.URL, MaxBodyBytes: 100})
	require.NoError(t, err)
	assert.Len(t, resp.Body, 100)
	assert.False(t, resp.BodyTruncated)

	resp, err = client.Do(context.Background(), &HTTPRequest{Method: http.MethodGet, URL: server.URL})
	require.NoError(t, err)
	assert.Empty(t, resp.Body)
}

func TestReadBodyPrefix(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		declared int64
		limit    int64
		want     string
		maxCap   int
	}{
		{name: "declared shorter than limit", body: "hello", declared: 5, limit: 11, want: "hello", maxCap: 6},
		{name: "unknown length", body: "hello", declared: -1, limit: 11, want: "hello"},
		{name: "cut at limit", body: strings.Repeat("x", 20), declared: -1, limit: 11, want: strings.Repeat("x", 11)},
		{name: "empty", body: "", declared: 0, limit: 11, want: "", maxCap: 1},
		{name: "declared longer than sent", body: "abc", declared: 8, limit: 11, want: "abc", maxCap: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readBodyPrefix(strings.NewReader(tt.body), tt.declared, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			if tt.maxCap > 0 {
				assert.LessOrEqual(t, cap(got), tt.maxCap)
			}
		})
	}
}

func TestHTTPClient_SkipsDeclaredLargeBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		_, _ = w.Write([]byte(strings.Repeat("b", 1000)))
	}))
	defer server.Close()

	client := newTestClient(t)
	resp, err := client.Do(context.Background(), &HTTPRequest{Method: http.MethodGet, URL: server.URL, MaxBodyBytes: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(1000), resp.ContentLength)
	assert.Nil(t, resp.Body)
	assert.False(t, resp.IsHTML())
}

func TestHTTPClient_PerAttemptTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := newTestClient(t)
	_, err := client.Do(context.Background(), &HTTPRequest{Method: http.MethodGet, URL: server.URL, Timeout: 50 * time.Millisecond})
	require.Error(t, err)

	var netErr *errorwrapper.NetworkError
	assert.True(t, errors.As(err, &netErr))
	assert.Equal(t, server.URL, netErr.URL)
}

func TestHTTPClient_NoCookiesForwarded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Had-Cookie", strconv.FormatBool(r.Header.Get("Cookie") != ""))
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc"})
	}))
	defer server.Close()

	client := newTestClient(t)
	for i := 0; i < 2; i++ {
		resp, err := client.Do(context.Background(), &HTTPRequest{Method: http.MethodGet, URL: server.URL})
		require.NoError(t, err)
		assert.Equal(t, "false", resp.Headers.Get("X-Had-Cookie"))
	}
}

func TestHTTPResponse_IsRedirect(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		location string
		want     bool
	}{
		{name: "302 with location", status: 302, location: "/x", want: true},
		{name: "301 without location", status: 301, want: false},
		{name: "200 with location", status: 200, location: "/x", want: false},
		{name: "308 with location", status: 308, location: "https://a.example/", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.location != "" {
				h.Set("Location", tt.location)
			}
			resp := &HTTPResponse{StatusCode: tt.status, Headers: h}
			assert.Equal(t, tt.want, resp.IsRedirect())
		})
	}
}
