// Package naming renders canonical filenames from extracted fields and moves
// documents to them.
package naming

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/IbrahimShadi/pdf-analyzer/constants"
	"github.com/IbrahimShadi/pdf-analyzer/internal/extract"
)

// MaxNameLength bounds the sanitized base name, in runes.
const MaxNameLength = 180

// Missing stands in for an absent field.
const Missing = "NA"

var (
	reIllegal    = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F\x7F]`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// Sanitize replaces filesystem-illegal characters with "_", collapses
// whitespace, strips surrounding dots and spaces and truncates the result.
func Sanitize(s string) string {
	s = reIllegal.ReplaceAllString(s, "_")
	s = strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
	s = strings.Trim(s, ". ")
	if utf8.RuneCountInString(s) > MaxNameLength {
		s = strings.TrimRight(string([]rune(s)[:MaxNameLength]), ". ")
	}
	return s
}

// BuildFilename returns the canonical name for fields, ending in ext. It
// returns "" for records without a filename layout.
func BuildFilename(fields extract.Fields, ext string) string {
	var parts []string
	switch f := fields.(type) {
	case *extract.InvoiceFields:
		total := Missing
		if f.TotalValue != nil {
			total = f.TotalValue.StringFixed(2)
		}
		parts = []string{orNA(f.InvoiceNumber), orNA(f.CustomerName), total, orNA(f.InvoiceDate)}
	case *extract.TicketFields:
		if f.Carrier != nil && strings.TrimSpace(*f.Carrier) != "" {
			parts = append(parts, *f.Carrier)
		}
		parts = append(parts, orNA(f.PNR), orNA(f.PassengerName), orNA(f.FlightNumber), orNA(f.DepartureDate))
	case *extract.PassportFields:
		parts = []string{orNA(f.Surname), orNA(f.GivenNames), orNA(f.Nationality), orNA(f.DateOfExpiry)}
	default:
		return ""
	}
	return Build(fields.DocType(), parts, ext)
}

// Build joins tag and parts into a sanitized filename.
func Build(doc constants.DocType, parts []string, ext string) string {
	clean := make([]string, 0, len(parts)+1)
	if tag := doc.Tag(); tag != "" {
		clean = append(clean, tag)
	}
	for _, p := range parts {
		p = Sanitize(p)
		if p == "" {
			p = Missing
		}
		clean = append(clean, p)
	}
	base := Sanitize(strings.Join(clean, "_"))
	if base == "" {
		base = Missing
	}
	return base + normalizeExt(ext)
}

func orNA(p *string) string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return Missing
	}
	return *p
}

func normalizeExt(ext string) string {
	ext = reIllegal.ReplaceAllString(ext, "")
	ext = strings.TrimLeft(reWhitespace.ReplaceAllString(ext, ""), ".")
	if ext == "" {
		return constants.DefaultExtension
	}
	return "." + ext
}
