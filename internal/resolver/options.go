package resolver

import (
	"strings"
	"time"

	"github.com/aleister1102/linkcleaner/internal/config"
)

// Options tunes a single Resolve call. Zero fields fall back to the
// resolver's configured defaults.
type Options struct {
	MaxDepth     int
	Timeout      time.Duration // per HTTP attempt, not per chain
	MaxBodyBytes int64
	UserAgent    string
	// AllowedSchemes limits the schemes a redirect may switch to. Empty means http and https.
	AllowedSchemes []string
}

// OptionsFromConfig converts the resolver config section into default options
func OptionsFromConfig(cfg config.ResolverConfig) Options {
	return Options{
		MaxDepth:     cfg.MaxDepth,
		Timeout:      cfg.Timeout(),
		MaxBodyBytes: cfg.MaxBodyBytes,
		UserAgent:    cfg.UserAgent,
	}
}

func (o Options) withDefaults(def Options) Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = def.MaxDepth
	}
	if o.Timeout <= 0 {
		o.Timeout = def.Timeout
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = def.MaxBodyBytes
	}
	if o.UserAgent == "" {
		o.UserAgent = def.UserAgent
	}
	if len(o.AllowedSchemes) == 0 {
		o.AllowedSchemes = def.AllowedSchemes
	}
	if len(o.AllowedSchemes) == 0 {
		o.AllowedSchemes = []string{"http", "https"}
	}
	return o
}

func (o Options) schemeAllowed(scheme string) bool {
	for _, s := range o.AllowedSchemes {
		if strings.EqualFold(s, scheme) {
			return true
		}
	}
	return false
}
