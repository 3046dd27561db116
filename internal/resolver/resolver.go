package resolver

import (
	"context"
	"strings"

	"github.com/aleister1102/linkcleaner/internal/common/errorwrapper"
	"github.com/aleister1102/linkcleaner/internal/httpclient"
	"github.com/aleister1102/linkcleaner/internal/models"
	"github.com/aleister1102/linkcleaner/internal/urlhandler"
	"github.com/rs/zerolog"
)

// Resolver follows redirect chains. Implementations never return errors;
// failures are reported through RedirectResult.Success and Error.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string, opts Options) models.RedirectResult
}

// HTTPDoer performs one non-following HTTP attempt
type HTTPDoer interface {
	Do(ctx context.Context, req *httpclient.HTTPRequest) (*httpclient.HTTPResponse, error)
}

// RedirectResolver walks redirect chains hop by hop, trying a ladder of user
// agents with HEAD then GET until one of them yields a redirect.
type RedirectResolver struct {
	client            HTTPDoer
	defaults          Options
	curlUserAgent     string
	browserUserAgent  string
	interstitialHosts []string
	logger            zerolog.Logger
}

// DefaultOptions returns the options applied when a caller leaves fields zero
func (r *RedirectResolver) DefaultOptions() Options {
	return r.defaults
}

// Resolve follows rawURL until a hop answers without redirecting. Attempts
// within a call are strictly sequential; ctx bounds the whole call and
// Options.Timeout bounds each attempt.
func (r *RedirectResolver) Resolve(ctx context.Context, rawURL string, opts Options) models.RedirectResult {
	opts = opts.withDefaults(r.defaults)

	start, err := urlhandler.NormalizeURL(rawURL)
	if err != nil {
		return failure([]string{rawURL}, rawURL, err)
	}

	chain := []string{start}
	current := start
	ladder := attemptPlan(userAgentLadder(opts.UserAgent, r.curlUserAgent, r.browserUserAgent))

	for depth := 0; depth < opts.MaxDepth; depth++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return failure(chain, current, ctxErr)
		}

		next, hopErr := r.probeHop(ctx, current, ladder, opts)
		if hopErr != nil {
			r.logger.Debug().Str("url", current).Err(hopErr).Int("hops", len(chain)-1).Msg("Hop probing failed")
			return failure(chain, current, hopErr)
		}
		if next == "" {
			r.logger.Debug().Str("final_url", current).Int("hops", len(chain)-1).Msg("Redirect chain resolved")
			return models.RedirectResult{Chain: chain, FinalURL: current, Success: true}
		}

		if containsURL(chain, next) {
			r.logger.Debug().Str("url", current).Str("next", next).Msg("Redirect loop detected")
			return failure(chain, current, errorwrapper.ErrRedirectLoop)
		}

		r.logger.Debug().Str("from", current).Str("to", next).Msg("Following redirect")
		chain = append(chain, next)
		current = next
	}

	return failure(chain, current, errorwrapper.ErrMaxDepthExceeded)
}

// probeHop runs the attempt ladder for one URL. It returns the next hop, or ""
// when current is final. An error means no attempt reached the server, or a
// redirect target could not be resolved.
func (r *RedirectResolver) probeHop(ctx context.Context, current string, ladder []attempt, opts Options) (string, error) {
	interstitial := r.isInterstitialHost(urlhandler.Hostname(current))

	var lastErr error
	responded := false
	for _, a := range ladder {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		outcome := r.runAttempt(ctx, current, a, opts, interstitial)
		responded = responded || outcome.responded

		switch outcome.kind {
		case outcomeRedirect:
			next, err := urlhandler.NormalizeURL(outcome.next)
			if err != nil || !opts.schemeAllowed(schemeOf(outcome.next)) {
				r.logger.Debug().Str("url", current).Str("location", outcome.next).Msg("Redirect target not followable, treating current URL as final")
				return "", nil
			}
			return next, nil
		case outcomeFinal:
			return "", nil
		case outcomeFailed:
			return "", outcome.err
		default:
			if outcome.err != nil {
				lastErr = outcome.err
				r.logger.Trace().Str("url", current).Str("method", a.method).Str("user_agent", a.userAgent).Err(outcome.err).Msg("Attempt failed")
			}
		}
	}

	if !responded && lastErr != nil {
		return "", lastErr
	}
	return "", nil
}

func (r *RedirectResolver) isInterstitialHost(host string) bool {
	host = strings.ToLower(host)
	for _, h := range r.interstitialHosts {
		h = strings.ToLower(h)
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func failure(chain []string, current string, err error) models.RedirectResult {
	return models.RedirectResult{
		Chain:    chain,
		FinalURL: current,
		Success:  false,
		Error:    err.Error(),
	}
}

func containsURL(chain []string, u string) bool {
	for _, c := range chain {
		if c == u {
			return true
		}
	}
	return false
}

func schemeOf(rawURL string) string {
	if i := strings.Index(rawURL, ":"); i > 0 {
		return strings.ToLower(rawURL[:i])
	}
	return ""
}
