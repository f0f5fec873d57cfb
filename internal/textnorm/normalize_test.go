package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"accents", "Café Société", "cafe societe"},
		{"whitespace", "  Bill\tTo:\n\n ACME  ", "bill to: acme"},
		{"compat", "ﬁnal Ｉｎｖｏｉｃｅ", "final invoice"},
		{"upper", "E-TICKET RECEIPT", "e-ticket receipt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrefix(t *testing.T) {
	if got := Prefix("héllo", 2); got != "hé" {
		t.Errorf("Prefix = %q", got)
	}
	if got := Prefix("abc", 10); got != "abc" {
		t.Errorf("Prefix = %q", got)
	}
	if got := Prefix("abc", 0); got != "" {
		t.Errorf("Prefix = %q", got)
	}
}

func TestCleanOCR(t *testing.T) {
	in := "Invoice\r\nNo:\t\tINV-1   \n-----\n\n\n\nTotal  10.00  "
	want := "Invoice\nNo: INV-1\n\nTotal 10.00"
	if got := CleanOCR(in); got != want {
		t.Errorf("CleanOCR = %q, want %q", got, want)
	}
}
