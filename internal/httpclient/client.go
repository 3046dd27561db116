package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aleister1102/linkcleaner/internal/common/errorwrapper"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// HTTPRequest describes a single probing attempt.
type HTTPRequest struct {
	Method string
	URL    string
	// UserAgent is sent verbatim; an empty value omits the header entirely.
	UserAgent string
	Headers   map[string]string
	// Timeout bounds this attempt, including the body read. Zero uses the client default.
	Timeout time.Duration
	// MaxBodyBytes is the size of the body prefix to capture. Zero skips the body.
	MaxBodyBytes int64
}

// HTTPResponse is the outcome of one attempt. The underlying stream is always
// closed before Do returns.
type HTTPResponse struct {
	StatusCode    int
	Headers       http.Header
	ContentLength int64 // -1 when not declared
	Body          []byte
	BodyTruncated bool
}

// Location returns the Location header.
func (r *HTTPResponse) Location() string {
	return r.Headers.Get("Location")
}

// IsRedirect reports a 3xx status that carries a non-empty Location.
func (r *HTTPResponse) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400 && r.Location() != ""
}

// IsHTML reports whether the declared content type is an HTML flavour.
func (r *HTTPResponse) IsHTML() bool {
	ct := r.Headers.Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// HTTPClient wraps net/http.Client for redirect probing
type HTTPClient struct {
	client *http.Client
	config HTTPClientConfig
	logger zerolog.Logger
}

// NewHTTPClient creates a new HTTP client with the given configuration using net/http
func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	transport := &http.Transport{
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		MaxConnsPerHost:       config.MaxConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ExpectContinueTimeout: config.ExpectContinueTimeout,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		},
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		}
	}

	if config.Proxy != "" {
		proxyURL, err := url.Parse(config.Proxy)
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to parse proxy URL")
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		logger.Info().Str("proxy", config.Proxy).Msg("HTTP client configured with proxy")
	}

	// No Jar: cookies are never stored or forwarded between attempts.
	client := &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	logger.Debug().
		Dur("timeout", config.Timeout).
		Bool("insecure_skip_verify", config.InsecureSkipVerify).
		Bool("http2_enabled", config.EnableHTTP2).
		Msg("HTTP client created")

	return &HTTPClient{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// Do performs one request without following redirects. Transport failures
// are returned as *errorwrapper.NetworkError.
func (c *HTTPClient) Do(ctx context.Context, req *HTTPRequest) (*HTTPResponse, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.config.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, nil)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create HTTP request")
	}

	for key, value := range c.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	// An explicitly empty User-Agent stops net/http from sending its default.
	httpReq.Header["User-Agent"] = []string{req.UserAgent}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "*/*")
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errorwrapper.NewNetworkError(req.URL, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	out := &HTTPResponse{
		StatusCode:    resp.StatusCode,
		Headers:       resp.Header,
		ContentLength: resp.ContentLength,
	}

	if !c.shouldReadBody(req, out) {
		return out, nil
	}

	// One extra byte tells a body of exactly MaxBodyBytes from a longer one.
	body, err := readBodyPrefix(resp.Body, resp.ContentLength, req.MaxBodyBytes+1)
	if err != nil && len(body) == 0 {
		return nil, errorwrapper.NewNetworkError(req.URL, "failed to read response body", err)
	}
	if int64(len(body)) > req.MaxBodyBytes {
		out.BodyTruncated = true
		body = body[:req.MaxBodyBytes]
	}
	out.Body = body
	return out, nil
}

// readBodyPrefix reads at most limit bytes. A declared length lets the
// body land in a single exactly sized slice.
func readBodyPrefix(r io.Reader, declared, limit int64) ([]byte, error) {
	lr := io.LimitReader(r, limit)
	if declared < 0 || declared >= limit {
		return io.ReadAll(lr)
	}

	body := make([]byte, declared+1)
	n, err := io.ReadFull(lr, body)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = nil
	}
	return body[:n], err
}

func (c *HTTPClient) shouldReadBody(req *HTTPRequest, resp *HTTPResponse) bool {
	if req.MaxBodyBytes <= 0 || strings.EqualFold(req.Method, http.MethodHead) {
		return false
	}
	if resp.IsRedirect() {
		return false
	}
	// Declared bodies over the budget are not downloaded at all.
	return resp.ContentLength <= req.MaxBodyBytes
}
