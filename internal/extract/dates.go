package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Date parsing is day-first and fuzzy: the first recognizable date inside the
// input wins and surrounding words are ignored.

var (
	reISODate       = regexp.MustCompile(`\b(\d{4})[./\-](\d{1,2})[./\-](\d{1,2})\b`)
	reNumericDate   = regexp.MustCompile(`\b(\d{1,2})[./\-](\d{1,2})[./\-](\d{4}|\d{2})\b`)
	reDayMonthName  = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?[ \t\-./]*([a-z]{3,9})\.?,?(?:[ \t\-./]*(\d{4}|\d{2}))?\b`)
	reMonthNameDay  = regexp.MustCompile(`(?i)\b([a-z]{3,9})\.?[ \t]+(\d{1,2})(?:st|nd|rd|th)?,?[ \t]+(\d{4}|\d{2})\b`)
	dateReferenceFn = time.Now
)

type dateHit struct {
	iso        string
	start, end int
}

// ParseDate returns the first date found in s as YYYY-MM-DD.
func ParseDate(s string) (string, bool) {
	hits := findDates(s)
	if len(hits) == 0 {
		return "", false
	}
	return hits[0].iso, true
}

// findDates returns every valid date in s ordered by position.
func findDates(s string) []dateHit {
	var hits []dateHit
	for _, m := range reISODate.FindAllStringSubmatchIndex(s, -1) {
		y, _ := strconv.Atoi(s[m[2]:m[3]])
		mo, _ := strconv.Atoi(s[m[4]:m[5]])
		d, _ := strconv.Atoi(s[m[6]:m[7]])
		if iso, ok := isoDate(y, mo, d); ok {
			hits = append(hits, dateHit{iso, m[0], m[1]})
		}
	}
	for _, m := range reNumericDate.FindAllStringSubmatchIndex(s, -1) {
		a, _ := strconv.Atoi(s[m[2]:m[3]])
		b, _ := strconv.Atoi(s[m[4]:m[5]])
		y := expandYear(s[m[6]:m[7]])
		day, mon := a, b
		if mon > 12 && day <= 12 {
			day, mon = mon, day
		}
		if iso, ok := isoDate(y, mon, day); ok {
			hits = append(hits, dateHit{iso, m[0], m[1]})
		}
	}
	hits = append(hits, dayMonthHits(s)...)
	for _, m := range reMonthNameDay.FindAllStringSubmatchIndex(s, -1) {
		mon, ok := monthByName[strings.ToLower(s[m[2]:m[3]])]
		if !ok {
			continue
		}
		d, _ := strconv.Atoi(s[m[4]:m[5]])
		if iso, ok := isoDate(expandYear(s[m[6]:m[7]]), int(mon), d); ok {
			hits = append(hits, dateHit{iso, m[0], m[1]})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].start < hits[j].start })
	return hits
}

// dayMonthHits returns dates written with a month name after the day, such
// as "12 AUG 2025" or "12AUG". A missing year is taken from today.
func dayMonthHits(s string) []dateHit {
	var hits []dateHit
	for _, m := range reDayMonthName.FindAllStringSubmatchIndex(s, -1) {
		mon, ok := monthByName[strings.ToLower(s[m[4]:m[5]])]
		if !ok {
			continue
		}
		d, _ := strconv.Atoi(s[m[2]:m[3]])
		y := dateReferenceFn().Year()
		if m[6] >= 0 {
			y = expandYear(s[m[6]:m[7]])
		}
		if iso, ok := isoDate(y, int(mon), d); ok {
			hits = append(hits, dateHit{iso, m[0], m[1]})
		}
	}
	return hits
}

// expandYear maps two-digit years to the century closest to today.
func expandYear(s string) int {
	y, _ := strconv.Atoi(s)
	if len(s) > 2 {
		return y
	}
	now := dateReferenceFn().Year()
	y += now / 100 * 100
	switch {
	case y > now+50:
		y -= 100
	case y <= now-50:
		y += 100
	}
	return y
}

func isoDate(y, m, d int) (string, bool) {
	if y < 1900 || y > 2199 || m < 1 || m > 12 || d < 1 || d > 31 {
		return "", false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != m {
		return "", false
	}
	return t.Format("2006-01-02"), true
}
