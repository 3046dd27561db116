package config

// HTTPClientConfig configures the transport used for redirect probing
type HTTPClientConfig struct {
	InsecureSkipVerify  bool              `json:"insecure_skip_verify,omitempty" yaml:"insecure_skip_verify,omitempty"`
	Proxy               string            `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,url"`
	EnableHTTP2         bool              `json:"enable_http2" yaml:"enable_http2"`
	MaxIdleConns        int               `json:"max_idle_conns,omitempty" yaml:"max_idle_conns,omitempty" validate:"omitempty,min=0"`
	MaxIdleConnsPerHost int               `json:"max_idle_conns_per_host,omitempty" yaml:"max_idle_conns_per_host,omitempty" validate:"omitempty,min=0"`
	MaxConnsPerHost     int               `json:"max_conns_per_host,omitempty" yaml:"max_conns_per_host,omitempty" validate:"omitempty,min=0"`
	CustomHeaders       map[string]string `json:"custom_headers,omitempty" yaml:"custom_headers,omitempty"`
}

// NewDefaultHTTPClientConfig creates default HTTP client configuration
func NewDefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		EnableHTTP2:         DefaultHTTPEnableHTTP2,
		MaxIdleConns:        DefaultHTTPMaxIdleConns,
		MaxIdleConnsPerHost: DefaultHTTPMaxIdleConnsPerHost,
	}
}
