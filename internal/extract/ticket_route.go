package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reDepartingBlock = regexp.MustCompile(`(?is)\bdepart(?:ing|ure)\b.{0,200}?\bdate\b[ \t:]*([^\n]{0,40})`)
	reIssueContext   = regexp.MustCompile(`(?i)\b(?:issue|issued|issuance|issuing|emission|emitted)\b`)

	reRouteHeader = regexp.MustCompile(`(?im)^[^\n]*\bfrom\b[^\n]*\bto\b[^\n]*$`)
	reOriginLabel = regexp.MustCompile(`(?i)\b(?:from|origin|departure(?:[ \t]+airport)?|departing)\b[ \t]*[:\-]?`)
	reDestLabel   = regexp.MustCompile(`(?i)\b(?:to|destination|arrival(?:[ \t]+airport)?|arriving)\b[ \t]*[:\-]?`)
	reParenCode   = regexp.MustCompile(`\(([A-Z]{3})\)`)
	reCode3       = regexp.MustCompile(`\b[A-Z]{3}\b`)
	reParenPair   = regexp.MustCompile(`\(([A-Z]{3})\)[^\n()]{0,40}?(?:->|-|–|→|/|>|\b[Tt][Oo]\b)[^\n()]{0,40}?\(([A-Z]{3})\)`)
	reBarePair    = regexp.MustCompile(`\b([A-Z]{3})[ \t]*(?:->|-|–|→|/|>)[ \t]*([A-Z]{3})\b`)
	reFromTo      = regexp.MustCompile(`(?i:\bfrom)[ \t]+([A-Z]{3})[ \t]+(?i:to)[ \t]+([A-Z]{3})\b`)

	reTime          = regexp.MustCompile(`\b(\d{1,2}):(\d{2})(?:[ \t]*([AaPp])\.?[Mm]\.?)?`)
	reDepTimeBefore = regexp.MustCompile(`(?i)\b(?:departure|departs?|dep|std|etd)\b[^\n]{0,30}?\b(\d{1,2}):(\d{2})(?:[ \t]*([ap])\.?m\.?)?`)
	reArrTimeBefore = regexp.MustCompile(`(?i)\b(?:arrival|arrives?|arr|sta|eta)\b[^\n]{0,30}?\b(\d{1,2}):(\d{2})(?:[ \t]*([ap])\.?m\.?)?`)
	reDepTimeAfter  = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})(?:[ \t]*([ap])\.?m\.?)?[ \t]*[(\-]?[ \t]*(?:departure|dep|std|etd)\b`)
	reArrTimeAfter  = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})(?:[ \t]*([ap])\.?m\.?)?[ \t]*[(\-]?[ \t]*(?:arrival|arr|sta|eta)\b`)
	reTimeLineHint  = regexp.MustCompile(`(?i)\b(?:flight|route|dep|arr)\b|\b[A-Z]{3}[ \t]*(?:-|→|/)[ \t]*[A-Z]{3}\b`)

	reClassLabel  = regexp.MustCompile(`(?i)\b(?:booking[ \t]+class|cabin[ \t]+class|class|rbd)\b`)
	reStatusLabel = regexp.MustCompile(`(?i)\bstatus\b`)
	reLeadClass   = regexp.MustCompile(`^[ \t]*[:\-]?[ \t]*([A-Z]{1,2})\b`)
	reParenClass  = regexp.MustCompile(`\(([A-Z]{1,2})\)`)
	reLeadStatus  = regexp.MustCompile(`^[ \t]*[:\-]?[ \t]*([A-Z]{2})\b`)
	reFlightHK    = regexp.MustCompile(`\b(?:[A-Z]{2}|[A-Z]\d|\d[A-Z])[ \t]?\d{2,4}[ \t]*\(([A-Z]{2})\)`)
)

// Departure date matchers, tried in order.

func departingBlockDate(text string) (string, bool) {
	for _, m := range reDepartingBlock.FindAllStringSubmatch(text, -1) {
		if d, ok := ParseDate(m[1]); ok {
			return d, true
		}
	}
	return "", false
}

func flightTableDate(text string) (string, bool) {
	for _, loc := range reFlightDateHeader.FindAllStringIndex(text, -1) {
		if hits := findDates(window(text, loc[1], loc[1], 0, flightTableWindow)); len(hits) > 0 {
			return hits[0].iso, true
		}
	}
	return "", false
}

// bareDayMonthDate takes the first "12 AUG" style token not mentioned as an
// issue date.
func bareDayMonthDate(text string) (string, bool) {
	for _, h := range dayMonthHits(text) {
		if reIssueContext.MatchString(window(text, h.start, h.start, issueContextWindow, 0)) {
			continue
		}
		return h.iso, true
	}
	return "", false
}

func dateNearCarrierCode(text string) (string, bool) {
	for _, fc := range flightCodes(text) {
		if !fc.known {
			continue
		}
		if hits := findDates(window(text, fc.start, fc.end, carrierDateWindow, carrierDateWindow)); len(hits) > 0 {
			return hits[0].iso, true
		}
	}
	return "", false
}

// route fills origin and destination from successively looser patterns.
func route(text string) (origin, dest *string) {
	set := func(o, d string) {
		if origin == nil && o != "" {
			origin = ptr(o)
		}
		if dest == nil && d != "" && (origin == nil || *origin != d) {
			dest = ptr(d)
		}
	}

	for _, loc := range reRouteHeader.FindAllStringIndex(text, -1) {
		codes := airportCodes(nextNonEmptyLine(text, loc[0]))
		if len(codes) >= 2 {
			set(codes[0], codes[1])
			break
		}
	}
	if origin == nil {
		set(labeledCode(text, reOriginLabel), "")
	}
	if dest == nil {
		set("", labeledCode(text, reDestLabel))
	}
	for _, re := range []*regexp.Regexp{reParenPair, reBarePair, reFromTo} {
		if origin != nil && dest != nil {
			break
		}
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if isAirportCode(m[1]) && isAirportCode(m[2]) && m[1] != m[2] {
				set(m[1], m[2])
				break
			}
		}
	}
	if origin != nil && dest != nil && *origin == *dest {
		dest = nil
	}
	return origin, dest
}

// labeledCode reads an airport code after a label on the same or next line,
// preferring a parenthesized code.
func labeledCode(text string, label *regexp.Regexp) string {
	for _, loc := range label.FindAllStringIndex(text, -1) {
		for _, line := range []string{lineAt(text, loc[1]), nextNonEmptyLine(text, loc[1])} {
			if len(line) > 40 {
				line = line[:40]
			}
			if m := reParenCode.FindStringSubmatch(line); m != nil && isAirportCode(m[1]) {
				return m[1]
			}
			if codes := airportCodes(line); len(codes) > 0 {
				return codes[0]
			}
		}
	}
	return ""
}

func airportCodes(line string) []string {
	var out []string
	for _, c := range reCode3.FindAllString(line, -1) {
		if isAirportCode(c) {
			out = append(out, c)
		}
	}
	return out
}

func isAirportCode(s string) bool {
	return isCodeShape(s) && !codeStopwords.has(s)
}

// times returns departure and arrival as 24-hour HH:MM.
func times(text string) (dep, arr *string) {
	dep = firstTime(text, reDepTimeBefore, reDepTimeAfter)
	arr = firstTime(text, reArrTimeBefore, reArrTimeAfter)
	if dep != nil && arr != nil {
		return dep, arr
	}
	for _, line := range strings.Split(text, "\n") {
		if !reTimeLineHint.MatchString(line) {
			continue
		}
		var found []string
		for _, m := range reTime.FindAllStringSubmatch(line, -1) {
			if t, ok := clockTime(m[1], m[2], m[3]); ok {
				found = append(found, t)
			}
		}
		if len(found) < 2 {
			continue
		}
		if dep == nil {
			dep = ptr(found[0])
		}
		if arr == nil {
			arr = ptr(found[1])
		}
		break
	}
	return dep, arr
}

func firstTime(text string, res ...*regexp.Regexp) *string {
	for _, re := range res {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if t, ok := clockTime(m[1], m[2], m[3]); ok {
				return ptr(t)
			}
		}
	}
	return nil
}

func clockTime(hs, ms, ampm string) (string, bool) {
	h, err := strconv.Atoi(hs)
	if err != nil {
		return "", false
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m > 59 {
		return "", false
	}
	switch strings.ToLower(ampm) {
	case "a":
		if h < 1 || h > 12 {
			return "", false
		}
		if h == 12 {
			h = 0
		}
	case "p":
		if h < 1 || h > 12 {
			return "", false
		}
		if h < 12 {
			h += 12
		}
	}
	if h > 23 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}

func bookingClass(text string) (string, bool) {
	for _, loc := range reClassLabel.FindAllStringIndex(text, -1) {
		line := lineAt(text, loc[1])
		if m := reLeadClass.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
		if m := reParenClass.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
		if strings.Trim(line, " \t\r:-") == "" {
			if m := reLeadClass.FindStringSubmatch(nextNonEmptyLine(text, loc[1])); m != nil {
				return m[1], true
			}
		}
	}
	return "", false
}

func bookingStatus(text string) (string, bool) {
	for _, loc := range reStatusLabel.FindAllStringIndex(text, -1) {
		line := lineAt(text, loc[1])
		if m := reLeadStatus.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
		if strings.Trim(line, " \t\r:-") == "" {
			if m := reLeadStatus.FindStringSubmatch(nextNonEmptyLine(text, loc[1])); m != nil {
				return m[1], true
			}
		}
	}
	return "", false
}

// statusAfterFlight reads the segment status printed after a flight number,
// as in "YL 801 (HK)".
func statusAfterFlight(text string) (string, bool) {
	m := reFlightHK.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
