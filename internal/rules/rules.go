// Package rules holds the per-class scoring configuration.
package rules

import (
	"regexp"
	"sort"

	"github.com/IbrahimShadi/pdf-analyzer/constants"
)

// DefaultTemperature applies to classes that do not set one.
const DefaultTemperature = 1.0

// RegexRule is a weighted pattern matched against the original text.
type RegexRule struct {
	Pattern string  `yaml:"pattern" json:"pattern"`
	Weight  float64 `yaml:"weight" json:"weight"`

	re *regexp.Regexp
}

// Matcher returns the compiled case-insensitive pattern, or nil when the
// pattern did not compile.
func (r RegexRule) Matcher() *regexp.Regexp { return r.re }

// ClassRules is the scoring configuration for one class.
type ClassRules struct {
	Keywords    []string    `yaml:"keywords" json:"keywords"`
	Phrases     []string    `yaml:"phrases" json:"phrases"`
	Regexes     []RegexRule `yaml:"regexes" json:"regexes"`
	Temperature float64     `yaml:"temperature" json:"temperature"`
	// TemperatureSet marks a temperature taken from the rules document
	// rather than the 1.0 placeholder.
	TemperatureSet bool `yaml:"-" json:"-"`
}

// Empty reports whether the class can never score above zero.
func (c ClassRules) Empty() bool {
	return len(c.Keywords) == 0 && len(c.Phrases) == 0 && len(c.Regexes) == 0
}

// Set is an immutable collection of class rules. It is safe for concurrent use.
type Set struct {
	classes map[string]ClassRules
	order   []string
	invalid []string
}

// New builds a Set, compiling regexes once and making sure every built-in
// document type has an entry.
func New(classes map[string]ClassRules) *Set {
	s := &Set{classes: make(map[string]ClassRules, len(classes)+4)}
	for name, cr := range classes {
		s.classes[name] = compile(cr, name, &s.invalid)
	}
	for _, dt := range constants.AllDocTypes() {
		if _, ok := s.classes[string(dt)]; !ok {
			s.classes[string(dt)] = ClassRules{Temperature: DefaultTemperature}
		}
	}
	for name := range s.classes {
		s.order = append(s.order, name)
	}
	sort.Slice(s.order, func(i, j int) bool {
		pi, pj := constants.Priority(s.order[i]), constants.Priority(s.order[j])
		if pi != pj {
			return pi < pj
		}
		return s.order[i] < s.order[j]
	})
	return s
}

func compile(cr ClassRules, class string, invalid *[]string) ClassRules {
	out := ClassRules{
		Keywords:    append([]string(nil), cr.Keywords...),
		Phrases:     append([]string(nil), cr.Phrases...),
		Regexes:     make([]RegexRule, 0, len(cr.Regexes)),
		Temperature:    cr.Temperature,
		TemperatureSet: cr.TemperatureSet,
	}
	for _, rx := range cr.Regexes {
		re, err := regexp.Compile("(?i)" + rx.Pattern)
		if err != nil {
			*invalid = append(*invalid, class+": "+rx.Pattern)
			re = nil
		}
		out.Regexes = append(out.Regexes, RegexRule{Pattern: rx.Pattern, Weight: rx.Weight, re: re})
	}
	return out
}

// Classes returns class names in tie-break priority order.
func (s *Set) Classes() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Set) Get(class string) (ClassRules, bool) {
	if s == nil {
		return ClassRules{}, false
	}
	cr, ok := s.classes[class]
	return cr, ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// InvalidPatterns lists "class: pattern" entries whose regex did not compile.
// Those rules stay in the set and contribute nothing.
func (s *Set) InvalidPatterns() []string {
	return append([]string(nil), s.invalid...)
}

// MeanTemperature averages the temperatures the rules document configured,
// or returns fallback when no class sets one.
func (s *Set) MeanTemperature(fallback float64) float64 {
	if s == nil {
		return fallback
	}
	var (
		sum float64
		n   int
	)
	for _, name := range s.order {
		if cr := s.classes[name]; cr.TemperatureSet {
			sum += cr.Temperature
			n++
		}
	}
	if n == 0 {
		return fallback
	}
	return sum / float64(n)
}
