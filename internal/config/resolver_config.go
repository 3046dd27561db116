package config

import "time"

// ResolverConfig holds the redirect resolver defaults. Strategies may override
// depth and timeout per call.
type ResolverConfig struct {
	MaxDepth          int      `json:"max_depth,omitempty" yaml:"max_depth,omitempty" validate:"min=1,max=50"`
	TimeoutMs         int      `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty" validate:"min=1"`
	MaxBodyBytes      int64    `json:"max_body_bytes,omitempty" yaml:"max_body_bytes,omitempty" validate:"min=1024"`
	UserAgent         string   `json:"user_agent,omitempty" yaml:"user_agent,omitempty" validate:"omitempty,uaoption"`
	CurlUserAgent     string   `json:"curl_user_agent,omitempty" yaml:"curl_user_agent,omitempty" validate:"required,uaoption"`
	BrowserUserAgent  string   `json:"browser_user_agent,omitempty" yaml:"browser_user_agent,omitempty" validate:"required,uaoption"`
	InterstitialHosts []string `json:"interstitial_hosts,omitempty" yaml:"interstitial_hosts,omitempty" validate:"dive,hostname"`
}

// NewDefaultResolverConfig creates default resolver configuration
func NewDefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		MaxDepth:          DefaultResolverMaxDepth,
		TimeoutMs:         DefaultResolverTimeoutMs,
		MaxBodyBytes:      DefaultResolverMaxBodyBytes,
		UserAgent:         DefaultResolverUserAgent,
		CurlUserAgent:     DefaultCurlUserAgent,
		BrowserUserAgent:  DefaultBrowserUserAgent,
		InterstitialHosts: append([]string(nil), DefaultInterstitialHosts...),
	}
}

// Timeout returns the per-attempt timeout as a duration
func (rc ResolverConfig) Timeout() time.Duration {
	return time.Duration(rc.TimeoutMs) * time.Millisecond
}
