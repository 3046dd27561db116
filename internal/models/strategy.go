package models

import (
	"time"
)

// MatcherType selects how a Matcher pattern is compared with a hostname
type MatcherType string

const (
	MatcherExact    MatcherType = "exact"
	MatcherWildcard MatcherType = "wildcard"
	MatcherRegex    MatcherType = "regex"
)

// ParamAction is what a ParamPolicy does with a matching query parameter
type ParamAction string

const (
	ParamAllow       ParamAction = "allow"
	ParamDeny        ParamAction = "deny"
	ParamConditional ParamAction = "conditional"
)

// PathRuleType selects regex (single substitution) or exact (full-path) rewriting
type PathRuleType string

const (
	PathRuleRegex PathRuleType = "regex"
	PathRuleExact PathRuleType = "exact"
)

// CanonicalType is the URL component a CanonicalBuilder forces
type CanonicalType string

const (
	CanonicalDomain CanonicalType = "domain"
	CanonicalPath   CanonicalType = "path"
	CanonicalQuery  CanonicalType = "query"
)

// Matcher is tested against a URL hostname only.
type Matcher struct {
	Type          MatcherType `json:"type" yaml:"type" validate:"required,oneof=exact wildcard regex"`
	Pattern       string      `json:"pattern" yaml:"pattern" validate:"required"`
	CaseSensitive bool        `json:"caseSensitive,omitempty" yaml:"case_sensitive,omitempty"`
}

// ParamPolicy governs query parameters whose name matches Name (exact or `*` wildcard).
type ParamPolicy struct {
	Name      string      `json:"name" yaml:"name" validate:"required"`
	Action    ParamAction `json:"action" yaml:"action" validate:"required,oneof=allow deny conditional"`
	Condition string      `json:"condition,omitempty" yaml:"condition,omitempty" validate:"required_if=Action conditional"`
	Reason    string      `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// PathRule rewrites the URL path.
type PathRule struct {
	Pattern     string       `json:"pattern" yaml:"pattern" validate:"required"`
	Replacement string       `json:"replacement" yaml:"replacement"`
	Type        PathRuleType `json:"type" yaml:"type" validate:"required,oneof=regex exact"`
}

// RedirectPolicy overrides resolver defaults for one strategy.
type RedirectPolicy struct {
	Follow         bool     `json:"follow" yaml:"follow"`
	MaxDepth       int      `json:"maxDepth" yaml:"max_depth" validate:"min=0,max=50"`
	TimeoutMs      int      `json:"timeoutMs" yaml:"timeout_ms" validate:"min=0"`
	AllowedSchemes []string `json:"allowedSchemes" yaml:"allowed_schemes" validate:"dive,oneof=http https"`
}

// CanonicalBuilder forces a host, a path or fixed query parameters.
type CanonicalBuilder struct {
	Type     CanonicalType `json:"type" yaml:"type" validate:"required,oneof=domain path query"`
	Template string        `json:"template" yaml:"template" validate:"required"`
	Required bool          `json:"required,omitempty" yaml:"required,omitempty"`
}

// Strategy is the rule bundle for one domain family. Strategies are keyed by ID.
type Strategy struct {
	ID             string             `json:"id" yaml:"id" validate:"required"`
	Name           string             `json:"name" yaml:"name" validate:"required"`
	Version        string             `json:"version" yaml:"version" validate:"required"`
	Enabled        bool               `json:"enabled" yaml:"enabled"`
	Priority       int                `json:"priority" yaml:"priority"`
	Matchers       []Matcher          `json:"matchers" yaml:"matchers" validate:"required,min=1,dive"`
	ParamPolicies  []ParamPolicy      `json:"paramPolicies" yaml:"param_policies" validate:"dive"`
	PathRules      []PathRule         `json:"pathRules" yaml:"path_rules" validate:"dive"`
	RedirectPolicy RedirectPolicy     `json:"redirectPolicy" yaml:"redirect_policy"`
	Canonical      []CanonicalBuilder `json:"canonicalBuilders" yaml:"canonical_builders" validate:"dive"`
	Notes          string             `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" yaml:"-"`
	UpdatedAt      time.Time          `json:"updatedAt" yaml:"-"`
}

// HasExactMatcher reports whether any matcher is of type exact.
func (s *Strategy) HasExactMatcher() bool {
	for _, m := range s.Matchers {
		if m.Type == MatcherExact {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate it without touching the catalog.
func (s *Strategy) Clone() *Strategy {
	if s == nil {
		return nil
	}
	c := *s
	c.Matchers = append([]Matcher(nil), s.Matchers...)
	c.ParamPolicies = append([]ParamPolicy(nil), s.ParamPolicies...)
	c.PathRules = append([]PathRule(nil), s.PathRules...)
	c.Canonical = append([]CanonicalBuilder(nil), s.Canonical...)
	c.RedirectPolicy.AllowedSchemes = append([]string(nil), s.RedirectPolicy.AllowedSchemes...)
	return &c
}
