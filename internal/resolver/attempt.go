package resolver

import (
	"context"
	"net/http"

	"github.com/aleister1102/linkcleaner/internal/httpclient"
	"github.com/aleister1102/linkcleaner/internal/urlhandler"
)

type outcomeKind int

const (
	// outcomeInconclusive moves on to the next attempt in the ladder
	outcomeInconclusive outcomeKind = iota
	// outcomeRedirect carries the next hop
	outcomeRedirect
	// outcomeFinal stops the ladder and keeps the current URL
	outcomeFinal
	// outcomeFailed aborts the whole resolve call
	outcomeFailed
)

type attemptOutcome struct {
	kind outcomeKind
	next string
	// err is set for transport failures (inconclusive) and for aborts
	err error
	// responded is true when a server answered, whatever the status
	responded bool
}

type attempt struct {
	method    string
	userAgent string
}

// attemptPlan lists (method, user agent) pairs in the order they are tried for
// a single hop: HEAD then GET for each user agent of the ladder.
func attemptPlan(userAgents []string) []attempt {
	plan := make([]attempt, 0, len(userAgents)*2)
	for _, ua := range userAgents {
		plan = append(plan, attempt{method: http.MethodHead, userAgent: ua}, attempt{method: http.MethodGet, userAgent: ua})
	}
	return plan
}

// userAgentLadder returns: no header, the caller's preference, curl, browser.
func userAgentLadder(preferred, curl, browser string) []string {
	ladder := make([]string, 0, 4)
	seen := make(map[string]struct{}, 4)
	for _, ua := range []string{"", preferred, curl, browser} {
		if _, dup := seen[ua]; dup {
			continue
		}
		seen[ua] = struct{}{}
		ladder = append(ladder, ua)
	}
	return ladder
}

func (r *RedirectResolver) runAttempt(ctx context.Context, current string, a attempt, opts Options, interstitial bool) attemptOutcome {
	req := &httpclient.HTTPRequest{
		Method:    a.method,
		URL:       current,
		UserAgent: a.userAgent,
		Timeout:   opts.Timeout,
	}
	if interstitial && a.method == http.MethodGet {
		req.MaxBodyBytes = opts.MaxBodyBytes
	}

	resp, err := r.client.Do(ctx, req)
	if err != nil {
		return attemptOutcome{kind: outcomeInconclusive, err: err}
	}
	return r.classify(current, a, resp, opts, interstitial)
}

func (r *RedirectResolver) classify(current string, a attempt, resp *httpclient.HTTPResponse, opts Options, interstitial bool) attemptOutcome {
	if resp.IsRedirect() {
		next, err := urlhandler.ResolveReference(current, resp.Location())
		if err != nil {
			return attemptOutcome{kind: outcomeFailed, err: err, responded: true}
		}
		return attemptOutcome{kind: outcomeRedirect, next: next, responded: true}
	}

	if a.method != http.MethodGet {
		return attemptOutcome{kind: outcomeInconclusive, responded: true}
	}

	if interstitial && resp.IsHTML() && len(resp.Body) > 0 {
		if target := findInterstitialTarget(resp.Body, current); target != "" {
			return attemptOutcome{kind: outcomeRedirect, next: target, responded: true}
		}
	}

	if resp.ContentLength > opts.MaxBodyBytes {
		return attemptOutcome{kind: outcomeFinal, responded: true}
	}
	return attemptOutcome{kind: outcomeInconclusive, responded: true}
}
