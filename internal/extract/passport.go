package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reSurnameLabel     = regexp.MustCompile(`(?i)\b(?:surname|last[ \t]+name|family[ \t]+name)\b[ \t]*[:#/]?[ \t]*`)
	reGivenLabel       = regexp.MustCompile(`(?i)\b(?:given[ \t]+names?|forenames?|first[ \t]+names?)\b[ \t]*[:#/]?[ \t]*`)
	reNationalityLabel = regexp.MustCompile(`(?i)\b(?:nationality|citizenship)\b[ \t]*[:#/]?[ \t]*`)
	reExpiryLabel      = regexp.MustCompile(`(?i)\b(?:date[ \t]+of[ \t]+expiry|expiry[ \t]+date|date[ \t]+of[ \t]+expiration|expiration[ \t]+date|expires|valid[ \t]+until)\b[ \t]*[:#/]?`)

	rePassportValue = regexp.MustCompile(`^\p{L}[\p{L} '\-]*`)
	reNationCode    = regexp.MustCompile(`^([A-Z]{3})\b`)

	reMRZLine1 = regexp.MustCompile(`(?m)^[ \t]*P[A-Z<]([A-Z]{3})([A-Z<]{5,})[ \t]*$`)
	reMRZLine2 = regexp.MustCompile(`(?m)^[ \t]*[A-Z0-9<]{9}[0-9<]([A-Z<]{3})\d{6}[0-9<][MF<X](\d{6})`)
)

// Passport extracts passport fields from text, falling back to the machine
// readable zone for anything the printed labels do not give. It never fails.
func Passport(text string) *PassportFields {
	out := &PassportFields{}
	out.Surname = firstMatch(text, labeledValue(reSurnameLabel, passportName))
	out.GivenNames = firstMatch(text, labeledValue(reGivenLabel, passportName))
	out.Nationality = firstMatch(text, labeledValue(reNationalityLabel, nationality))
	out.DateOfExpiry = firstMatch(text, labeledValue(reExpiryLabel, func(rest string) (string, bool) {
		if d, ok := ParseDate(lineAt(rest, 0)); ok {
			return d, true
		}
		if strings.Trim(lineAt(rest, 0), " \t\r:") == "" {
			return ParseDate(nextNonEmptyLine(rest, 0))
		}
		return "", false
	}))

	mrz, ok := parseMRZ(text)
	if !ok {
		return out
	}
	if out.Surname == nil && mrz.surname != "" {
		out.Surname = ptr(mrz.surname)
	}
	if out.GivenNames == nil && mrz.given != "" {
		out.GivenNames = ptr(mrz.given)
	}
	if out.Nationality == nil && mrz.nationality != "" {
		out.Nationality = ptr(mrz.nationality)
	}
	if out.DateOfExpiry == nil && mrz.expiry != "" {
		out.DateOfExpiry = ptr(mrz.expiry)
	}
	return out
}

// passportName reads a printed name value on the label line, or on the next
// line when the label stands alone.
func passportName(rest string) (string, bool) {
	line := lineAt(rest, 0)
	if strings.TrimSpace(line) == "" {
		line = nextNonEmptyLine(rest, 0)
	}
	return labelCell(line)
}

func nationality(rest string) (string, bool) {
	line := lineAt(rest, 0)
	if strings.TrimSpace(line) == "" {
		line = nextNonEmptyLine(rest, 0)
	}
	line = strings.TrimSpace(line)
	if m := reNationCode.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return labelCell(line)
}

// labelCell returns the first column of a label value, stopping at wide gaps
// that separate printed table cells.
func labelCell(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if i := strings.Index(line, "  "); i >= 0 {
		line = line[:i]
	}
	if i := strings.IndexByte(line, '\t'); i >= 0 {
		line = line[:i]
	}
	v := strings.Trim(collapseSpaces(rePassportValue.FindString(line)), " -'")
	if len([]rune(v)) < 2 {
		return "", false
	}
	return v, true
}

type mrzData struct {
	surname, given, nationality, expiry string
}

// parseMRZ reads a TD3 machine readable zone.
func parseMRZ(text string) (mrzData, bool) {
	var d mrzData
	m1 := reMRZLine1.FindStringSubmatch(text)
	if m1 == nil {
		return d, false
	}
	d.nationality = m1[1]
	surname, given, _ := strings.Cut(m1[2], "<<")
	d.surname = mrzWords(surname)
	d.given = mrzWords(given)

	if m2 := reMRZLine2.FindStringSubmatch(text); m2 != nil {
		if n := strings.Trim(m2[1], "<"); len(n) == 3 {
			d.nationality = n
		}
		d.expiry = mrzDate(m2[2])
	}
	return d, true
}

func mrzWords(s string) string {
	return collapseSpaces(strings.ReplaceAll(s, "<", " "))
}

// mrzDate converts YYMMDD to ISO. Two-digit years below 70 are 20xx.
func mrzDate(s string) string {
	yy, _ := strconv.Atoi(s[0:2])
	mm, _ := strconv.Atoi(s[2:4])
	dd, _ := strconv.Atoi(s[4:6])
	year := 2000 + yy
	if yy >= 70 {
		year = 1900 + yy
	}
	iso, ok := isoDate(year, mm, dd)
	if !ok {
		return ""
	}
	return iso
}
