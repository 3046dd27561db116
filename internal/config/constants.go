package config

const (
	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// HTTP client Defaults
	DefaultHTTPTimeoutMs           = 8000
	DefaultHTTPMaxIdleConns        = 100
	DefaultHTTPMaxIdleConnsPerHost = 10
	DefaultHTTPEnableHTTP2         = true

	// Resolver Defaults
	DefaultResolverMaxDepth     = 10
	DefaultResolverTimeoutMs    = 8000
	DefaultResolverMaxBodyBytes = 512 * 1024
	DefaultResolverUserAgent    = "curl/8.4.0"
	DefaultCurlUserAgent        = "curl/8.4.0"
	DefaultBrowserUserAgent     = "Mozilla/5.0"

	// Engine Defaults
	DefaultEngineFallbackMaxDepth  = 5
	DefaultEngineFallbackTimeoutMs = 8000
	DefaultGenericMaxDepth         = 10
	DefaultGenericTimeoutMs        = 8000

	// Batch Defaults
	DefaultBatchConcurrency    = 4
	DefaultBatchURLTimeoutSecs = 120

	// ConfigPathEnvVar names the environment variable holding a config file path
	ConfigPathEnvVar = "LINKCLEANER_CONFIG_PATH"
)

// DefaultInterstitialHosts are hosts whose non-redirect HTML pages are scanned
// for an outbound link.
var DefaultInterstitialHosts = []string{"lnkd.in"}
