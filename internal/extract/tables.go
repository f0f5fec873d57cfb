package extract

import (
	"regexp"
	"strings"
	"time"
)

// Static lookup tables. Built once at init and never mutated.

type tokenSet map[string]struct{}

func newTokenSet(groups ...[]string) tokenSet {
	s := tokenSet{}
	for _, g := range groups {
		for _, t := range g {
			s[strings.ToUpper(t)] = struct{}{}
		}
	}
	return s
}

func (s tokenSet) has(tok string) bool {
	_, ok := s[strings.ToUpper(tok)]
	return ok
}

var monthByName = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var monthTokens = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "SEPT", "OCT", "NOV", "DEC"}

var titleTokens = newTokenSet([]string{"MR", "MRS", "MS", "MISS", "MSTR", "DR", "PROF", "REV", "SIR", "LADY", "MME", "MLLE", "INF", "CHD"})

var fareStopwords = []string{
	"NOSHOW", "REFUND", "REFUNDABLE", "NONREF", "CHANGE", "CHANGES", "PENALTY", "FEE", "FEES",
	"TAX", "TAXES", "BAGGAGE", "RULE", "RULES", "FARE", "FARES", "CONDITION", "CONDITIONS",
	"STATUS", "HK", "OK", "VOID", "LYD", "USD", "EUR", "SAR", "AED", "GBP", "TOTAL", "AMOUNT",
	"PAYMENT", "CASH", "CARD", "ALLOWANCE", "PIECE", "PIECES", "KG",
}

var travelStopwords = []string{
	"FLIGHT", "FLIGHTS", "TICKET", "ETICKET", "ETKT", "BOOKING", "REFERENCE", "RECORD", "LOCATOR",
	"PASSENGER", "PASSENGERS", "NAME", "NAMES", "DATE", "TIME", "FROM", "DEPARTURE", "ARRIVAL",
	"DEPARTING", "ARRIVING", "CLASS", "ECONOMY", "BUSINESS", "FIRST", "AIRLINE", "AIRLINES",
	"AIRWAYS", "AIR", "AGENT", "AGENCY", "CONTACT", "VIEWER", "ISSUED", "ISSUE", "OFFICE",
	"TERMINAL", "SEAT", "GATE", "BOARDING", "RECEIPT", "ELECTRONIC", "ITINERARY", "ADULT",
	"CHILD", "INFANT", "ADT", "PAX", "TRAVELLER", "TRAVELER", "OPERATED", "CONFIRMED",
	"CHECK", "CHECKIN", "ROUTE", "VALID", "BEFORE", "AFTER", "ORIGIN", "DESTINATION",
	"INFORMATION", "DETAILS", "NUMBER", "CODE", "PNR", "CARRIER", "DURATION", "STOP", "STOPS",
	"NONSTOP", "DIRECT", "EMAIL", "PHONE", "TEL", "MOBILE", "ADDRESS", "PRINTED", "DOCUMENT",
}

var englishStopwords = []string{
	"AND", "OR", "THE", "OF", "FOR", "WITH", "IN", "ON", "AT", "BY", "TO", "NO", "NOT", "ALL",
	"ANY", "PER", "VIA", "YOUR", "THIS", "PLEASE",
}

// nameStopwords rejects whole name tokens.
var nameStopwords = newTokenSet(fareStopwords, travelStopwords, englishStopwords, monthTokens, keys(titleTokens))

// codeStopwords are three-letter tokens that look like airport codes but are not.
var codeStopwords = newTokenSet(monthTokens, []string{
	"THE", "AND", "FOR", "PNR", "ETA", "ETD", "STA", "STD", "DEP", "ARR", "USD", "EUR", "GBP",
	"LYD", "SAR", "AED", "TAX", "FEE", "VAT", "MRS", "ADT", "CHD", "INF", "PAX", "REF", "NOT",
	"VIA", "OUT", "DAY", "TKT", "FLT", "AGT", "FOP", "NUC", "ROE", "END", "TBA", "TBD", "ONE",
	"WAY", "NON", "YES", "ALL", "PER", "AIR",
})

// pnrStopwords are six-letter words that can sit next to a booking label.
var pnrStopwords = newTokenSet(travelStopwords, fareStopwords, []string{
	"PLEASE", "NUMBER", "STATUS", "LOCATOR", "AIRLINE", "BOOKED", "AGENCY", "SYSTEM",
})

// airlineNames maps IATA carrier designators to display names.
var airlineNames = map[string]string{
	"YL": "Libyan Wings",
	"LN": "Libyan Airlines",
	"8U": "Afriqiyah Airways",
	"BM": "Medsky Airways",
	"TK": "Turkish Airlines",
	"LH": "Lufthansa",
	"MS": "EgyptAir",
	"EK": "Emirates",
	"QR": "Qatar Airways",
	"AF": "Air France",
	"BA": "British Airways",
	"KL": "KLM",
	"IB": "Iberia",
	"AZ": "ITA Airways",
	"TU": "Tunisair",
	"AT": "Royal Air Maroc",
	"SV": "Saudia",
	"EY": "Etihad Airways",
	"FZ": "flydubai",
	"U2": "easyJet",
	"FR": "Ryanair",
	"W6": "Wizz Air",
	"PC": "Pegasus Airlines",
	"OS": "Austrian Airlines",
	"LX": "SWISS",
	"SN": "Brussels Airlines",
	"UA": "United Airlines",
	"AA": "American Airlines",
	"DL": "Delta Air Lines",
}

// currencySymbols is ordered longest first so multi-rune symbols win.
var currencySymbols = []struct {
	symbol string
	code   string
}{
	{"د.ل", "LYD"},
	{"د.إ", "AED"},
	{"﷼", "SAR"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"¥", "JPY"},
	{"₹", "INR"},
	{"$", "USD"},
}

var isoCurrencies = newTokenSet([]string{
	"USD", "EUR", "GBP", "JPY", "LYD", "AED", "SAR", "CHF", "CAD", "AUD", "INR", "EGP", "TND",
	"TRY", "QAR", "KWD", "BHD", "OMR", "JOD", "MAD", "DZD", "CNY", "SEK", "NOK", "DKK", "PLN",
	"CZK", "HUF", "RUB", "ZAR", "NZD", "SGD", "HKD", "MXN", "BRL",
})

var reAircraft = regexp.MustCompile(`^(A3\d\d|B7\d\d)$`)

func keys(s tokenSet) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}
