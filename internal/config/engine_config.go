package config

// ConfidenceConfig holds the scoring heuristics used when ranking clean URLs.
// The defaults are tuning constants, not derived values.
type ConfidenceConfig struct {
	StrategyBase        float64 `json:"strategy_base" yaml:"strategy_base" validate:"gte=0,lte=1"`
	ExactMatchBonus     float64 `json:"exact_match_bonus" yaml:"exact_match_bonus" validate:"gte=0,lte=1"`
	NoParamsBonus       float64 `json:"no_params_bonus" yaml:"no_params_bonus" validate:"gte=0,lte=1"`
	ManyParamsPenalty   float64 `json:"many_params_penalty" yaml:"many_params_penalty" validate:"gte=0,lte=1"`
	ManyParamsThreshold int     `json:"many_params_threshold" yaml:"many_params_threshold" validate:"min=0"`
	AggressiveVariant   float64 `json:"aggressive_variant" yaml:"aggressive_variant" validate:"gte=0,lte=1"`
	OriginalInput       float64 `json:"original_input" yaml:"original_input" validate:"gte=0,lte=1"`
	OriginalReference   float64 `json:"original_reference" yaml:"original_reference" validate:"gte=0,lte=1"`
	RedirectHop         float64 `json:"redirect_hop" yaml:"redirect_hop" validate:"gte=0,lte=1"`
	EssentialCap        float64 `json:"essential_cap" yaml:"essential_cap" validate:"gte=0,lte=1"`
	AllRemoved          float64 `json:"all_removed" yaml:"all_removed" validate:"gte=0,lte=1"`
	DemotionFactor      float64 `json:"demotion_factor" yaml:"demotion_factor" validate:"gte=0,lte=1"`
	Failure             float64 `json:"failure" yaml:"failure" validate:"gte=0,lte=1"`
}

// NewDefaultConfidenceConfig returns the stock scoring constants
func NewDefaultConfidenceConfig() ConfidenceConfig {
	return ConfidenceConfig{
		StrategyBase:        0.8,
		ExactMatchBonus:     0.1,
		NoParamsBonus:       0.1,
		ManyParamsPenalty:   0.1,
		ManyParamsThreshold: 5,
		AggressiveVariant:   0.9,
		OriginalInput:       0.7,
		OriginalReference:   0.55,
		RedirectHop:         0.5,
		EssentialCap:        0.8,
		AllRemoved:          0.95,
		DemotionFactor:      0.95,
		Failure:             0.1,
	}
}

// EngineConfig configures the strategy engine and its generic fallback
type EngineConfig struct {
	CatalogFile       string           `json:"catalog_file,omitempty" yaml:"catalog_file,omitempty" validate:"omitempty,fileexists"`
	DisableBuiltin    bool             `json:"disable_builtin,omitempty" yaml:"disable_builtin,omitempty"`
	FallbackMaxDepth  int              `json:"fallback_max_depth,omitempty" yaml:"fallback_max_depth,omitempty" validate:"min=1,max=50"`
	FallbackTimeoutMs int              `json:"fallback_timeout_ms,omitempty" yaml:"fallback_timeout_ms,omitempty" validate:"min=1"`
	GenericMaxDepth   int              `json:"generic_max_depth,omitempty" yaml:"generic_max_depth,omitempty" validate:"min=1,max=50"`
	GenericTimeoutMs  int              `json:"generic_timeout_ms,omitempty" yaml:"generic_timeout_ms,omitempty" validate:"min=1"`
	Confidence        ConfidenceConfig `json:"confidence" yaml:"confidence"`
}

// NewDefaultEngineConfig creates default engine configuration
func NewDefaultEngineConfig() EngineConfig {
	return EngineConfig{
		FallbackMaxDepth:  DefaultEngineFallbackMaxDepth,
		FallbackTimeoutMs: DefaultEngineFallbackTimeoutMs,
		GenericMaxDepth:   DefaultGenericMaxDepth,
		GenericTimeoutMs:  DefaultGenericTimeoutMs,
		Confidence:        NewDefaultConfidenceConfig(),
	}
}
