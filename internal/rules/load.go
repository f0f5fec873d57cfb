package rules

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/IbrahimShadi/pdf-analyzer/internal/common"
)

//go:embed rules.yaml
var defaultRules []byte

// rawClass mirrors ClassRules with pointers so absent keys get defaults.
type rawClass struct {
	Keywords    []string   `yaml:"keywords"`
	Phrases     []string   `yaml:"phrases"`
	Regexes     []rawRegex `yaml:"regexes"`
	Temperature *float64   `yaml:"temperature"`
}

type rawRegex struct {
	Pattern string   `yaml:"pattern"`
	Weight  *float64 `yaml:"weight"`
}

// Load reads and validates a YAML rules file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return set, nil
}

// LoadOrDefault loads path, or the embedded rules when path is empty.
func LoadOrDefault(path string) (*Set, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Parse decodes a YAML rules document. Missing built-in classes are added
// with empty rule lists and temperature 1.0; they do not count towards
// MeanTemperature.
func Parse(data []byte) (*Set, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, common.NewAppError("CONFIG_ERROR", "rules are not valid YAML", fmt.Errorf("%w: %v", common.ErrInvalidConfig, err))
	}
	if generic == nil {
		generic = map[string]any{}
	}
	asJSON, err := json.Marshal(generic)
	if err != nil {
		return nil, common.NewAppError("CONFIG_ERROR", "rules cannot be represented as JSON", fmt.Errorf("%w: %v", common.ErrInvalidConfig, err))
	}
	if err := Validate(asJSON); err != nil {
		return nil, common.NewAppError("CONFIG_ERROR", "rules do not match schema", fmt.Errorf("%w: %v", common.ErrInvalidConfig, err))
	}

	var doc map[string]rawClass
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, common.NewAppError("CONFIG_ERROR", "rules decode failed", fmt.Errorf("%w: %v", common.ErrInvalidConfig, err))
	}

	classes := make(map[string]ClassRules, len(doc))
	for name, rc := range doc {
		cr := ClassRules{
			Keywords:    rc.Keywords,
			Phrases:     rc.Phrases,
			Temperature: DefaultTemperature,
		}
		if rc.Temperature != nil {
			cr.Temperature, cr.TemperatureSet = *rc.Temperature, true
		}
		for _, rx := range rc.Regexes {
			w := 1.0
			if rx.Weight != nil {
				w = *rx.Weight
			}
			cr.Regexes = append(cr.Regexes, RegexRule{Pattern: rx.Pattern, Weight: w})
		}
		classes[name] = cr
	}
	return New(classes), nil
}

// Default returns the embedded rule set.
func Default() (*Set, error) {
	return Parse(defaultRules)
}

// DefaultYAML returns a copy of the embedded rules document.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultRules...)
}
