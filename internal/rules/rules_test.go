package rules

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/IbrahimShadi/pdf-analyzer/internal/common"
)

func TestDefaultRules(t *testing.T) {
	set, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	want := []string{"invoice", "flight_ticket", "passport", "other"}
	if got := set.Classes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Classes = %v, want %v", got, want)
	}
	if bad := set.InvalidPatterns(); len(bad) != 0 {
		t.Errorf("embedded rules have invalid patterns: %v", bad)
	}
	other, _ := set.Get("other")
	if !other.Empty() {
		t.Error("other should have no rules")
	}
}

func TestParseFillsMissingClasses(t *testing.T) {
	set, err := Parse([]byte(`
invoice:
  keywords: [invoice]
  regexes:
    - pattern: 'INV-\d+'
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if set.Len() != 4 {
		t.Fatalf("Len = %d, want 4", set.Len())
	}
	inv, ok := set.Get("invoice")
	if !ok {
		t.Fatal("invoice missing")
	}
	if inv.Temperature != 1.0 {
		t.Errorf("Temperature = %v, want default 1.0", inv.Temperature)
	}
	if len(inv.Regexes) != 1 || inv.Regexes[0].Weight != 1.0 {
		t.Errorf("regex weight should default to 1.0: %+v", inv.Regexes)
	}
	if inv.Regexes[0].Matcher() == nil {
		t.Error("regex should be compiled")
	}
	pp, ok := set.Get("passport")
	if !ok || !pp.Empty() || pp.Temperature != 1.0 {
		t.Errorf("passport default = %+v,%v", pp, ok)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	set, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	if set.Len() != 4 {
		t.Errorf("Len = %d, want 4", set.Len())
	}
}

func TestParseKeepsBadRegex(t *testing.T) {
	set, err := Parse([]byte(`
invoice:
  regexes:
    - pattern: '(?<=x)abc'
      weight: 3
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	inv, _ := set.Get("invoice")
	if len(inv.Regexes) != 1 || inv.Regexes[0].Matcher() != nil {
		t.Fatalf("bad regex should be kept uncompiled: %+v", inv.Regexes)
	}
	if len(set.InvalidPatterns()) != 1 {
		t.Errorf("InvalidPatterns = %v", set.InvalidPatterns())
	}
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"keywords not a list", "invoice:\n  keywords: invoice\n"},
		{"unknown key", "invoice:\n  weights: [1]\n"},
		{"regex without pattern", "invoice:\n  regexes:\n    - weight: 2\n"},
		{"negative temperature", "invoice:\n  temperature: -1\n"},
		{"top level list", "- invoice\n"},
		{"bad yaml", "invoice: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, common.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("passport:\n  keywords: [passport]\n  temperature: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	set, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// filled-in classes do not dilute the configured temperature
	if got := set.MeanTemperature(1); got != 2 {
		t.Errorf("MeanTemperature = %v, want 2", got)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMeanTemperatureFallback(t *testing.T) {
	var s *Set
	if got := s.MeanTemperature(0.7); got != 0.7 {
		t.Errorf("nil set MeanTemperature = %v, want 0.7", got)
	}

	tests := []struct {
		name string
		doc  string
		want float64
	}{
		{"no temperatures", "invoice:\n  keywords: [invoice]\n", 0.5},
		{"embedded defaults", string(DefaultYAML()), 0.5},
		{"one configured", "invoice:\n  temperature: 3\npassport:\n  keywords: [passport]\n", 3},
		{"two configured", "invoice:\n  temperature: 2\npassport:\n  temperature: 1\n", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Parse([]byte(tt.doc))
			if err != nil {
				t.Fatal(err)
			}
			if got := set.MeanTemperature(0.5); got != tt.want {
				t.Errorf("MeanTemperature(0.5) = %v, want %v", got, tt.want)
			}
		})
	}
}
