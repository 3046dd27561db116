package resolver

import (
	"github.com/aleister1102/linkcleaner/internal/common/errorwrapper"
	"github.com/aleister1102/linkcleaner/internal/config"
	"github.com/aleister1102/linkcleaner/internal/httpclient"
	"github.com/rs/zerolog"
)

// RedirectResolverBuilder builds a RedirectResolver
type RedirectResolverBuilder struct {
	cfg               config.ResolverConfig
	httpCfg           *config.HTTPClientConfig
	client            HTTPDoer
	interstitialHosts []string
	logger            zerolog.Logger
}

// NewRedirectResolverBuilder starts from the default resolver configuration
func NewRedirectResolverBuilder(logger zerolog.Logger) *RedirectResolverBuilder {
	return &RedirectResolverBuilder{
		cfg:    config.NewDefaultResolverConfig(),
		logger: logger.With().Str("component", "RedirectResolver").Logger(),
	}
}

// WithConfig sets the resolver defaults
func (b *RedirectResolverBuilder) WithConfig(cfg config.ResolverConfig) *RedirectResolverBuilder {
	b.cfg = cfg
	return b
}

// WithHTTPClientConfig sets transport settings used when no client is injected
func (b *RedirectResolverBuilder) WithHTTPClientConfig(cfg config.HTTPClientConfig) *RedirectResolverBuilder {
	b.httpCfg = &cfg
	return b
}

// WithClient injects the transport
func (b *RedirectResolverBuilder) WithClient(client HTTPDoer) *RedirectResolverBuilder {
	b.client = client
	return b
}

// WithInterstitialHosts replaces the configured interstitial hosts
func (b *RedirectResolverBuilder) WithInterstitialHosts(hosts ...string) *RedirectResolverBuilder {
	b.interstitialHosts = hosts
	return b
}

// Build creates the resolver, constructing an HTTP client if none was injected
func (b *RedirectResolverBuilder) Build() (*RedirectResolver, error) {
	if b.cfg.MaxDepth <= 0 {
		return nil, errorwrapper.NewValidationError("max_depth", b.cfg.MaxDepth, "max depth must be positive")
	}

	client := b.client
	if client == nil {
		built, err := b.buildClient()
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to create resolver HTTP client")
		}
		client = built
	}

	hosts := b.interstitialHosts
	if hosts == nil {
		hosts = b.cfg.InterstitialHosts
	}

	curl := b.cfg.CurlUserAgent
	if curl == "" {
		curl = config.DefaultCurlUserAgent
	}
	browser := b.cfg.BrowserUserAgent
	if browser == "" {
		browser = config.DefaultBrowserUserAgent
	}

	return &RedirectResolver{
		client:            client,
		defaults:          OptionsFromConfig(b.cfg),
		curlUserAgent:     curl,
		browserUserAgent:  browser,
		interstitialHosts: append([]string(nil), hosts...),
		logger:            b.logger,
	}, nil
}

func (b *RedirectResolverBuilder) buildClient() (*httpclient.HTTPClient, error) {
	cb := httpclient.NewHTTPClientBuilder(b.logger).WithTimeout(b.cfg.Timeout())
	if b.httpCfg != nil {
		cb = cb.WithInsecureSkipVerify(b.httpCfg.InsecureSkipVerify).
			WithProxy(b.httpCfg.Proxy).
			WithHTTP2(b.httpCfg.EnableHTTP2).
			WithConnectionPooling(b.httpCfg.MaxIdleConns, b.httpCfg.MaxIdleConnsPerHost, b.httpCfg.MaxConnsPerHost)
		for k, v := range b.httpCfg.CustomHeaders {
			cb = cb.WithHeader(k, v)
		}
	}
	return cb.Build()
}
