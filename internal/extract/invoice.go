package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	reInvoiceNumber = regexp.MustCompile(`(?i:\binvoice)[ \t]*(?i:number|no\.?|num\.?|#)?[ \t]*[:#]?[ \t]*([A-Za-z0-9][A-Za-z0-9\-]{2,})`)
	reCustomerLabel = regexp.MustCompile(`(?i)\b(?:bill(?:ed)?[ \t]+to|sold[ \t]+to|customer(?:[ \t]+name)?)[ \t]*(?::|\r?\n)`)
	reNameLabel     = regexp.MustCompile(`(?i)\b(?:passenger[ \t]+name|name)[ \t]*:`)
	reBlankLine     = regexp.MustCompile(`\n[ \t]*\n`)

	reInvoiceDateLabel = regexp.MustCompile(`(?i)\b(?:invoice[ \t]+date|date[ \t]+of[ \t]+issue|issue[ \t]+date|billing[ \t]+date)\b[ \t]*[:#\-]?`)
	reAnyDateLabel     = regexp.MustCompile(`(?i)\bdate\b[ \t]*[:#\-]?`)

	reStrongTotalLabel = regexp.MustCompile(`(?i)\b(?:grand[ \t]+total|total[ \t]+amount|total[ \t]+due|amount[ \t]+due|balance[ \t]+due|amount[ \t]+payable)\b`)
	reTotalLabel       = regexp.MustCompile(`(?i)\btotal\b`)
)

const customerWindow = 80

// Invoice extracts invoice fields from text. It never fails.
func Invoice(text string) *InvoiceFields {
	out := &InvoiceFields{}
	out.InvoiceNumber = firstMatch(text, labeledToken(reInvoiceNumber, hasDigit))
	out.CustomerName = firstMatch(text,
		labeledValue(reCustomerLabel, customerAfter),
		labeledValue(reNameLabel, func(rest string) (string, bool) {
			return cleanCustomer(lineAt(rest, 0))
		}),
	)
	out.InvoiceDate = firstMatch(text,
		labeledValue(reInvoiceDateLabel, dateOnLine),
		labeledValue(reAnyDateLabel, dateOnLine),
	)

	for _, re := range []*regexp.Regexp{reStrongTotalLabel, reTotalLabel} {
		if amount, currency, ok := totalAfter(text, re); ok {
			out.TotalValue = &amount
			if currency != "" {
				out.Currency = ptr(currency)
			}
			break
		}
	}
	if out.Currency == nil && out.TotalValue != nil {
		if c, ok := detectCurrency(text); ok {
			out.Currency = ptr(c)
		}
	}
	return out
}

// labeledValue runs parse on the text following each match of label until one
// succeeds.
func labeledValue(label *regexp.Regexp, parse func(rest string) (string, bool)) matcher {
	return func(text string) (string, bool) {
		for _, loc := range label.FindAllStringIndex(text, -1) {
			if v, ok := parse(text[loc[1]:]); ok {
				return v, true
			}
		}
		return "", false
	}
}

func dateOnLine(rest string) (string, bool) {
	return ParseDate(lineAt(rest, 0))
}

// customerAfter reads the first non-empty line after a customer label, bounded
// by the next blank line and a fixed window.
func customerAfter(rest string) (string, bool) {
	rest = strings.TrimLeft(rest, " \t\r\n")
	if loc := reBlankLine.FindStringIndex(rest); loc != nil {
		rest = rest[:loc[0]]
	}
	if r := []rune(rest); len(r) > customerWindow {
		rest = string(r[:customerWindow])
	}
	return cleanCustomer(lineAt(rest, 0))
}

// cleanCustomer keeps the leading run of name-like characters.
func cleanCustomer(line string) (string, bool) {
	var b strings.Builder
	for _, r := range line {
		if unicode.IsLetter(r) || r == ' ' || r == '\t' || strings.ContainsRune("-.,&'", r) {
			b.WriteRune(r)
			continue
		}
		break
	}
	v := strings.Trim(collapseSpaces(b.String()), " ,-")
	if len([]rune(v)) < 2 || !strings.ContainsFunc(v, unicode.IsLetter) {
		return "", false
	}
	return v, true
}

// totalAfter reads the amount that follows a total label on the same line, or
// on the next non-empty line when the label stands alone.
func totalAfter(text string, label *regexp.Regexp) (decimal.Decimal, string, bool) {
	for _, loc := range label.FindAllStringIndex(text, -1) {
		for _, seg := range []string{lineAt(text, loc[1]), nextNonEmptyLine(text, loc[1])} {
			v, ok := amountIn(seg)
			if !ok {
				continue
			}
			d, ok := ParseMoney(v)
			if !ok {
				continue
			}
			currency, _ := detectCurrency(seg)
			return d, currency, true
		}
	}
	return decimal.Decimal{}, "", false
}
