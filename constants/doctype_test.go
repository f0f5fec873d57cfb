package constants

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		want DocType
		ok   bool
	}{
		{"invoice", Invoice, true},
		{"  Flight_Ticket ", FlightTicket, true},
		{"e-ticket", FlightTicket, true},
		{"INV", Invoice, true},
		{"passport", Passport, true},
		{"", Other, false},
		{"menu", Other, false},
	}
	for _, tt := range tests {
		got, ok := Canonicalize(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Canonicalize(%q) = %q,%v want %q,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPriorityOrder(t *testing.T) {
	if !(Priority("invoice") < Priority("flight_ticket") &&
		Priority("flight_ticket") < Priority("passport") &&
		Priority("passport") < Priority("other")) {
		t.Fatal("unexpected priority order")
	}
	if Priority("custom") != len(AllDocTypes()) {
		t.Errorf("unknown class should rank last, got %d", Priority("custom"))
	}
}

func TestMapExtToFormat(t *testing.T) {
	if MapExtToFormat(".PDF") != PDF {
		t.Error("pdf not mapped")
	}
	if MapExtToFormat("txt") != TEXT {
		t.Error("txt not mapped")
	}
	if MapExtToFormat(".docx") != "" {
		t.Error("docx should be unsupported")
	}
}
