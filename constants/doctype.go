package constants

import (
	"strings"
)

// DocType is the document class a text is classified into.
type DocType string

const (
	Invoice      DocType = "invoice"
	FlightTicket DocType = "flight_ticket"
	Passport     DocType = "passport"
	Other        DocType = "other"
)

// allDocTypes is also the tie-break priority for equal probabilities.
var allDocTypes = []DocType{
	Invoice,
	FlightTicket,
	Passport,
	Other,
}

func AllDocTypes() []DocType {
	out := make([]DocType, len(allDocTypes))
	copy(out, allDocTypes)
	return out
}

// Priority returns the rank used to break ties; unknown classes sort after
// every known one.
func Priority(class string) int {
	for i, dt := range allDocTypes {
		if string(dt) == class {
			return i
		}
	}
	return len(allDocTypes)
}

// Tag is the filename prefix for renamed documents of this type.
func (d DocType) Tag() string {
	switch d {
	case Invoice:
		return "Inv"
	case FlightTicket:
		return "Ticket"
	case Passport:
		return "Passport"
	default:
		return ""
	}
}

var synonyms = map[string]DocType{
	"inv":        Invoice,
	"bill":       Invoice,
	"receipt":    Invoice,
	"ticket":     FlightTicket,
	"e-ticket":   FlightTicket,
	"eticket":    FlightTicket,
	"flight":     FlightTicket,
	"itinerary":  FlightTicket,
	"boarding":   FlightTicket,
	"travel_doc": Passport,
}

// Canonicalize maps a class name or common synonym, in any case, to its
// DocType. Unknown input reports false.
func Canonicalize(input string) (DocType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if dt, ok := synonyms[normalized]; ok {
		return dt, true
	}
	for _, dt := range allDocTypes {
		if normalized == string(dt) {
			return dt, true
		}
	}
	return Other, false
}
