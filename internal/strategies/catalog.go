package strategies

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aleister1102/linkcleaner/internal/common/errorwrapper"
	"github.com/aleister1102/linkcleaner/internal/models"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinCatalog []byte

const maxCatalogFileSize = 5 * 1024 * 1024

// Catalog is the on-disk shape of a strategy list
type Catalog struct {
	Strategies []models.Strategy `json:"strategies" yaml:"strategies" validate:"dive"`
}

var validate = validator.New()

// Builtin returns fresh copies of the built-in platform strategies, in catalog order.
func Builtin() ([]*models.Strategy, error) {
	return Parse(builtinCatalog, "catalog.yaml")
}

// LoadFile reads a YAML (.yaml/.yml) or JSON catalog from path.
func LoadFile(path string) ([]*models.Strategy, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to stat strategy catalog")
	}
	if info.Size() > maxCatalogFileSize {
		return nil, errorwrapper.NewValidationError("catalog_file", path, fmt.Sprintf("exceeds maximum size of %d bytes", maxCatalogFileSize))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to read strategy catalog")
	}
	return Parse(data, path)
}

// Parse decodes and validates a catalog. source selects the format by extension.
func Parse(data []byte, source string) ([]*models.Strategy, error) {
	var catalog Catalog
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		if err := json.Unmarshal(data, &catalog); err != nil {
			return nil, errorwrapper.NewError("failed to unmarshal JSON catalog '%s': %w", source, err)
		}
	default:
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return nil, errorwrapper.NewError("failed to unmarshal YAML catalog '%s': %w", source, err)
		}
	}

	now := time.Now().UTC()
	out := make([]*models.Strategy, 0, len(catalog.Strategies))
	for i := range catalog.Strategies {
		s := catalog.Strategies[i]
		if err := Validate(&s); err != nil {
			return nil, errorwrapper.WrapError(err, fmt.Sprintf("invalid strategy #%d in '%s'", i, source))
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}
		out = append(out, &s)
	}
	return out, nil
}

// Validate checks struct constraints and that every pattern compiles.
func Validate(s *models.Strategy) error {
	if s == nil {
		return errorwrapper.NewValidationError("strategy", nil, "strategy is nil")
	}
	if err := validate.Struct(s); err != nil {
		return errorwrapper.WrapError(err, fmt.Sprintf("strategy '%s' failed validation", s.ID))
	}

	for _, m := range s.Matchers {
		if m.Type != models.MatcherRegex {
			continue
		}
		if _, err := regexp.Compile(m.Pattern); err != nil {
			return errorwrapper.NewValidationError("matchers.pattern", m.Pattern, err.Error())
		}
	}
	for _, r := range s.PathRules {
		if r.Type != models.PathRuleRegex {
			continue
		}
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return errorwrapper.NewValidationError("path_rules.pattern", r.Pattern, err.Error())
		}
	}
	return nil
}
