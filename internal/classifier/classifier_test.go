package classifier

import (
	"math"
	"reflect"
	"testing"

	"github.com/IbrahimShadi/pdf-analyzer/internal/rules"
)

func mustRules(t *testing.T, doc string) *rules.Set {
	t.Helper()
	set, err := rules.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("rules.Parse: %v", err)
	}
	return set
}

func sum(p Probabilities) float64 {
	var s float64
	for _, v := range p {
		s += v
	}
	return s
}

func TestClassifyInvoiceEndToEnd(t *testing.T) {
	set := mustRules(t, `
invoice:
  keywords: [invoice, bill to]
`)
	text := "Invoice No: INV-12345\nBill To: ACME GmbH\nAmount Due: € 1.234,56\n"
	got := Classify(text, set, 1.0)
	if got.TopClass != "invoice" {
		t.Fatalf("TopClass = %q, want invoice (%v)", got.TopClass, got.Probabilities)
	}
	if got.Confidence <= 0.5 {
		t.Errorf("Confidence = %v, want > 0.5", got.Confidence)
	}
	if got.Scores["invoice"] != 2 {
		t.Errorf("invoice score = %v, want 2", got.Scores["invoice"])
	}
}

func TestClassifyDefaultRules(t *testing.T) {
	set, err := rules.Default()
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		text string
		want string
	}{
		{"invoice", "TAX INVOICE\nInvoice Number: 2024-17\nBill To: Mega Corp\nSubtotal 100.00\nVAT 20.00\nGrand Total: 120.00", "invoice"},
		{"ticket", "ELECTRONIC TICKET RECEIPT\nBooking Reference: ABC123\nPassenger: SHERIF/TAREK MR\nFlight YL 801 TIP - BEN\nTicket Number: 928-2972010007", "flight_ticket"},
		{"passport", "PASSPORT\nSurname: DOE\nGiven Names: JANE\nNationality: GBR\nDate of Expiry: 01/02/2030\nP<GBRDOE<<JANE<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<", "passport"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text, set, 1.0)
			if got.TopClass != tt.want {
				t.Errorf("TopClass = %q, want %q (%v)", got.TopClass, tt.want, got.Scores)
			}
		})
	}
}

func TestSoftmaxSumsToOne(t *testing.T) {
	inputs := []Scores{
		{"a": 1, "b": 2, "c": 3},
		{"a": 1000, "b": 0},
		{"a": 0.5},
		{"a": 3, "b": 3, "c": 0},
	}
	for _, temp := range []float64{0, 0.1, 1, 5} {
		for _, in := range inputs {
			p := Softmax(in, temp)
			if math.Abs(sum(p)-1) > 1e-6 {
				t.Errorf("Softmax(%v, %v) sums to %v", in, temp, sum(p))
			}
			for k, v := range p {
				if v < 0 || v > 1 || math.IsNaN(v) {
					t.Errorf("Softmax(%v, %v)[%s] = %v out of range", in, temp, k, v)
				}
			}
			if len(p) != len(in) {
				t.Errorf("class set changed: %v vs %v", p, in)
			}
		}
	}
}

func TestSoftmaxAllZeroIsUniform(t *testing.T) {
	p := Softmax(Scores{"invoice": 0, "flight_ticket": 0, "passport": 0, "other": 0}, 1)
	for k, v := range p {
		if v != 0.25 {
			t.Errorf("p[%s] = %v, want 0.25", k, v)
		}
	}
	if len(Softmax(Scores{}, 1)) != 0 {
		t.Error("empty scores should give empty probabilities")
	}
}

func TestTopTieBreakIsDeterministic(t *testing.T) {
	p := Probabilities{"other": 0.25, "passport": 0.25, "flight_ticket": 0.25, "invoice": 0.25}
	for i := 0; i < 20; i++ {
		if top, _ := p.Top(); top != "invoice" {
			t.Fatalf("Top = %q, want invoice", top)
		}
	}
	p = Probabilities{"zeta": 0.5, "alpha": 0.5}
	if top, _ := p.Top(); top != "alpha" {
		t.Errorf("Top = %q, want alpha", top)
	}
}

func TestClassifyNoRulesFiredIsUniform(t *testing.T) {
	set := mustRules(t, "")
	got := Classify("a random document with nothing special", set, 1.0)
	if got.TopClass != "invoice" || got.Confidence != 0.25 {
		t.Errorf("got %q %v, want invoice 0.25", got.TopClass, got.Confidence)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	set, _ := rules.Default()
	text := "Flight ticket and invoice for passenger"
	first := Classify(text, set, 1)
	for i := 0; i < 10; i++ {
		again := Classify(text, set, 1)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("non-deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestScorerWeights(t *testing.T) {
	set := mustRules(t, `
invoice:
  keywords: [total]
  phrases: [amount due]
  regexes:
    - pattern: 'INV-\d+'
      weight: 2.5
    - pattern: '(?<=x)y'
      weight: 100
`)
	s := NewScorer(nil)
	got := s.Score("TOTAL total\nAmount   Due\ninv-1 INV-2", set)
	// 2 keyword hits, 1 phrase (after whitespace collapse), 2 regex matches; bad regex ignored
	want := 2*1.0 + 1.5 + 2*2.5
	if got["invoice"] != want {
		t.Errorf("invoice score = %v, want %v", got["invoice"], want)
	}
	if got["other"] != 0 {
		t.Errorf("other score = %v, want 0", got["other"])
	}
}

type fixedMatcher float64

func (f fixedMatcher) PartialRatio(string, string) float64 { return float64(f) }

func TestFuzzyBoostOnlyWithoutExactHit(t *testing.T) {
	set := mustRules(t, "invoice:\n  keywords: [invoice, receipt]\n")
	got := NewScorer(fixedMatcher(0.95)).Score("invoice", set)
	// invoice hits exactly; receipt gets the boost
	if got["invoice"] != 1.5 {
		t.Errorf("score = %v, want 1.5", got["invoice"])
	}
	got = NewScorer(fixedMatcher(0.9)).Score("invoice", set)
	if got["invoice"] != 1.0 {
		t.Errorf("score at threshold = %v, want 1.0", got["invoice"])
	}
}

func TestLevenshteinPartialRatio(t *testing.T) {
	m := LevenshteinMatcher{}
	if got := m.PartialRatio("passenger", "the passanger name is"); got <= 0.85 {
		t.Errorf("near match = %v", got)
	}
	if got := m.PartialRatio("itinerary", "this is an itinerery copy"); got <= 0.85 {
		t.Errorf("one substitution = %v, want about 0.89", got)
	}
	if got := m.PartialRatio("boarding", "boarding"); got != 1 {
		t.Errorf("exact = %v", got)
	}
	if got := m.PartialRatio("invoice", ""); got != 0 {
		t.Errorf("empty haystack = %v", got)
	}
	strict := LevenshteinMatcher{MinScore: 0.9}
	if got := strict.PartialRatio("itinerary", "this is an itinerery copy"); got != 0 {
		t.Errorf("below MinScore = %v, want 0", got)
	}
	if got := (NoFuzzy{}).PartialRatio("a", "a"); got != 0 {
		t.Errorf("NoFuzzy = %v", got)
	}
}
