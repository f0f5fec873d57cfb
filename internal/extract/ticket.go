package extract

import (
	"regexp"
	"strings"
)

var (
	rePNRLabel = regexp.MustCompile(`(?i:\b(?:booking[ \t]+(?:reference|ref\.?|code|number)|record[ \t]+locator|reservation[ \t]+(?:code|number|reference)|confirmation[ \t]+(?:code|number)|pnr))(?:[ \t]*\((?i:pnr)\))?[ \t]*[:#]?[ \t]*(?:\r?\n[ \t]*)?([A-Z0-9]{5,8})\b`)
	reBookingWord = regexp.MustCompile(`(?i)\b(?:booking|reservation|reference|locator|pnr)\b`)
	rePNRToken    = regexp.MustCompile(`\b[A-Z0-9]{6}\b`)
	reDateToken   = regexp.MustCompile(`^\d{1,2}[A-Z]{3}\d{0,2}$`)

	reTicketLabel = regexp.MustCompile(`(?i:\b(?:e-?tkt|e-?ticket(?:[ \t]+(?:number|no\.?))?|ticket[ \t]*(?:number|no\.?|#)|tkt(?:[ \t]*(?:no\.?|#))?))[^0-9\n]{0,20}(\d{3})[ \-]?(\d{10})(?:/\d{1,2})?\b`)
	reBare13      = regexp.MustCompile(`\b\d{13}\b`)
	reTicketWord  = regexp.MustCompile(`(?i)\b(?:e-?tkt|e-?ticket|ticket|tkt)\b`)
	reDigits13    = regexp.MustCompile(`\d{13}`)

	reFlightLabel      = regexp.MustCompile(`(?i:\bflight[ \t\-]*(?:number|no\.?|#))[^A-Za-z0-9\n]{0,10}([A-Z]{2,3}|[A-Z]\d|\d[A-Z])[ \t]?-?(\d{1,4})\b`)
	reFlightDateHeader = regexp.MustCompile(`(?i)\bflight[ \t]+date\b`)
	reFlightCode       = regexp.MustCompile(`\b([A-Z]{2}|[A-Z]\d|\d[A-Z])[ \t]?-?[ \t]?(\d{2,4})\b`)
)

const (
	pnrFallbackWindow  = 60
	ticketWordWindow   = 80
	flightTableWindow  = 200
	carrierDateWindow  = 80
	issueContextWindow = 120
)

// Ticket extracts flight ticket fields from text. It never fails.
func Ticket(text string) *TicketFields {
	out := &TicketFields{}
	out.PNR = firstMatch(text, labeledToken(rePNRLabel, acceptPNR), pnrNearBookingWord)
	out.TicketNumber = firstMatch(text, ticketNumberLabeled, ticketNumberBare, ticketNumberNearWord)
	out.FlightNumber = firstMatch(text, flightNumberLabeled, flightNumberFromTable, flightNumberGeneric)
	if out.FlightNumber != nil {
		if name, ok := CarrierName(*out.FlightNumber); ok {
			out.Carrier = ptr(name)
		}
	}
	out.PassengerName = PassengerName(text)
	out.DepartureDate = firstMatch(text, departingBlockDate, flightTableDate, bareDayMonthDate, dateNearCarrierCode)
	out.Origin, out.Destination = route(text)
	out.DepartureTime, out.ArrivalTime = times(text)
	out.BookingClass = firstMatch(text, bookingClass)
	out.Status = firstMatch(text, bookingStatus, statusAfterFlight)
	return out
}

// CarrierName looks up the airline for the two-character IATA designator
// that prefixes a flight number. Three-letter ICAO designators have no entry.
func CarrierName(flight string) (string, bool) {
	if len(flight) < 3 || isLetter(flight[2]) {
		return "", false
	}
	name, ok := airlineNames[strings.ToUpper(flight[:2])]
	return name, ok
}

func acceptPNR(v string) bool {
	return hasLetter(v) && !reDateToken.MatchString(v) && !pnrStopwords.has(v)
}

func pnrNearBookingWord(text string) (string, bool) {
	for _, loc := range reBookingWord.FindAllStringIndex(text, -1) {
		w := window(text, loc[1], loc[1], 0, pnrFallbackWindow)
		for _, tok := range rePNRToken.FindAllString(w, -1) {
			if acceptPNR(tok) {
				return tok, true
			}
		}
	}
	return "", false
}

func ticketNumberLabeled(text string) (string, bool) {
	m := reTicketLabel.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1] + m[2], true
}

func ticketNumberBare(text string) (string, bool) {
	v := reBare13.FindString(text)
	return v, v != ""
}

func ticketNumberNearWord(text string) (string, bool) {
	strip := strings.NewReplacer(" ", "", "-", "", "\t", "")
	for _, loc := range reTicketWord.FindAllStringIndex(text, -1) {
		w := strip.Replace(window(text, loc[1], loc[1], 0, ticketWordWindow))
		if v := reDigits13.FindString(w); v != "" {
			return v, true
		}
	}
	return "", false
}

func flightNumberLabeled(text string) (string, bool) {
	m := reFlightLabel.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1] + m[2], true
}

func flightNumberFromTable(text string) (string, bool) {
	for _, loc := range reFlightDateHeader.FindAllStringIndex(text, -1) {
		w := window(text, loc[1], loc[1], 0, flightTableWindow)
		for _, fc := range flightCodes(w) {
			if fc.known {
				return fc.number, true
			}
		}
	}
	return "", false
}

func flightNumberGeneric(text string) (string, bool) {
	codes := flightCodes(text)
	for _, fc := range codes {
		if fc.known {
			return fc.number, true
		}
	}
	if len(codes) > 0 {
		return codes[0].number, true
	}
	return "", false
}

type flightCode struct {
	number     string
	known      bool
	start, end int
}

// flightCodes lists designator+number tokens that are not aircraft types,
// months or common two-letter words.
func flightCodes(s string) []flightCode {
	var out []flightCode
	for _, m := range reFlightCode.FindAllStringSubmatchIndex(s, -1) {
		code, digits := s[m[2]:m[3]], s[m[4]:m[5]]
		number := code + digits
		if reAircraft.MatchString(number) || nameStopwords.has(code) {
			continue
		}
		_, known := airlineNames[code]
		out = append(out, flightCode{number: number, known: known, start: m[0], end: m[1]})
	}
	return out
}
