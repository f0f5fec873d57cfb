package extract

import (
	"regexp"
	"strings"
)

// matcher is one heuristic for one field. Fields hold an ordered list of
// matchers and the first success wins.
type matcher func(text string) (string, bool)

func firstMatch(text string, ms ...matcher) *string {
	for _, m := range ms {
		if v, ok := m(text); ok {
			return ptr(v)
		}
	}
	return nil
}

// labeledToken builds a matcher returning group 1 of the first match of re
// that passes accept (nil accepts everything).
func labeledToken(re *regexp.Regexp, accept func(string) bool) matcher {
	return func(text string) (string, bool) {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v := strings.TrimSpace(m[1])
			if v == "" {
				continue
			}
			if accept == nil || accept(v) {
				return v, true
			}
		}
		return "", false
	}
}

// lineAt returns the text from i to the end of its line.
func lineAt(text string, i int) string {
	if i >= len(text) {
		return ""
	}
	rest := text[i:]
	if j := strings.IndexByte(rest, '\n'); j >= 0 {
		return rest[:j]
	}
	return rest
}

// nextNonEmptyLine returns the first non-blank line after the line holding i.
func nextNonEmptyLine(text string, i int) string {
	j := strings.IndexByte(text[i:], '\n')
	if j < 0 {
		return ""
	}
	for _, ln := range strings.Split(text[i+j+1:], "\n") {
		if strings.TrimSpace(ln) != "" {
			return ln
		}
	}
	return ""
}

// window returns text[start-before : end+after] clamped to the text.
func window(text string, start, end, before, after int) string {
	lo, hi := start-before, end+after
	if lo < 0 {
		lo = 0
	}
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}

func hasLetter(s string) bool {
	for i := 0; i < len(s); i++ {
		if isLetter(s[i]) {
			return true
		}
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
