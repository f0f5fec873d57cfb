package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Passenger name resolution generates every candidate first and ranks them
// afterwards, so a weaker pattern early in the text never shadows a stronger
// one later on.

const (
	tierTitleMixed = iota + 1
	tierRelaxed
	tierPaxType
	tierLabeled
	tierStrictIATA
)

const agentContextWindow = 40

var (
	reStrictIATA   = regexp.MustCompile(`\b([A-Z][A-Z'\-]+)/([A-Z][A-Z'\-]+(?:[ ][A-Z][A-Z'\-]+){0,3})`)
	reTitleUpper   = regexp.MustCompile(`\b(?:MR|MRS|MS|MISS|MSTR|DR|PROF)\.?[ \t]+([A-Z][A-Z'\-]+(?:[ \t]+[A-Z][A-Z'\-]+){1,3})`)
	rePaxLabel     = regexp.MustCompile(`(?i)\b(?:passenger(?:[ \t]+name)?|name[ \t]+of[ \t]+passenger|travell?er[ \t]+name)[ \t]*[:#]?[ \t]*`)
	rePaxType      = regexp.MustCompile(`(?i:\b(?:adult|adt|child|chd|infant|inf|pax|travell?er))\b[ \t]*[:\-]?[ \t]*([A-Z][A-Z'\-]+(?:[ \t]+[A-Z][A-Z'\-]+){1,4})`)
	reRelaxedIATA  = regexp.MustCompile(`(?i)\b([a-z][a-z'\-]+(?:[ ][a-z][a-z'\-]+)*)[ ]*/[ ]*([a-z][a-z'\-]+(?:[ ][a-z][a-z'\-]+)*)`)
	reCommaName    = regexp.MustCompile(`\b([A-Z][A-Z'\-]+(?:[ ][A-Z][A-Z'\-]+)?),[ ]*([A-Z][A-Z'\-]+(?:[ ][A-Z][A-Z'\-]+)?)`)
	reTitleMixed   = regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Miss|Mstr|Dr|Prof)\.?[ \t]+(\p{Lu}[\p{L}'\-]+(?:[ \t]+\p{Lu}[\p{L}'\-]+){1,3})`)
	reAgentContext = regexp.MustCompile(`(?i)\b(?:agent|contact|viewer)\b`)
	reNameShape    = regexp.MustCompile(`^[\p{L}' \-]+$`)
	reLabelValue   = regexp.MustCompile(`^[\p{L}'\-/,. ]+`)
)

// gluedTitles may be fused onto the last given-name token ("TAREKMR").
var gluedTitles = []string{"MSTR", "MISS", "MRS", "MR"}

type nameCandidate struct {
	name   string
	offset int
	tier   int
}

func (c nameCandidate) score() float64 {
	shape := 1.0
	switch len(strings.Fields(c.name)) {
	case 2:
		shape = 2.2
	case 3:
		shape = 1.7
	}
	return shape + 0.8*float64(c.tier) - 0.01*float64(utf8.RuneCountInString(c.name)) - 1e-9*float64(c.offset)
}

// PassengerName returns the best ranked passenger name in text, or nil.
func PassengerName(text string) *string {
	cands := nameCandidates(text)
	if len(cands) == 0 {
		return nil
	}
	sort.SliceStable(cands, func(i, j int) bool {
		si, sj := cands[i].score(), cands[j].score()
		if si != sj {
			return si > sj
		}
		if cands[i].tier != cands[j].tier {
			return cands[i].tier > cands[j].tier
		}
		if cands[i].offset != cands[j].offset {
			return cands[i].offset < cands[j].offset
		}
		return cands[i].name < cands[j].name
	})
	return ptr(cands[0].name)
}

func nameCandidates(text string) []nameCandidate {
	var out []nameCandidate
	add := func(given, surname []string, offset, tier int) {
		name := formatName(given, surname)
		if validName(name) {
			out = append(out, nameCandidate{name: name, offset: offset, tier: tier})
		}
	}

	for _, m := range reStrictIATA.FindAllStringSubmatchIndex(text, -1) {
		if agentContext(text, m[0]) {
			continue
		}
		surname := []string{text[m[2]:m[3]]}
		given := leadingName(strings.Fields(text[m[4]:m[5]]))
		if len(given) > 0 {
			given[len(given)-1] = stripGluedTitle(given[len(given)-1])
		}
		if airportPair(surname, given) {
			continue
		}
		add(given, surname, m[0], tierStrictIATA)
	}

	for _, m := range reTitleUpper.FindAllStringSubmatchIndex(text, -1) {
		toks := leadingName(strings.Fields(text[m[2]:m[3]]))
		if len(toks) >= 2 {
			add(toks[:len(toks)-1], toks[len(toks)-1:], m[0], tierLabeled)
		}
	}

	for _, loc := range rePaxLabel.FindAllStringIndex(text, -1) {
		for _, line := range []string{lineAt(text, loc[1]), nextNonEmptyLine(text, loc[1])} {
			if given, surname, ok := parseLabeledName(line); ok {
				add(given, surname, loc[0], tierLabeled)
				break
			}
		}
	}

	for _, m := range rePaxType.FindAllStringSubmatchIndex(text, -1) {
		toks := leadingName(withoutTitles(strings.Fields(text[m[2]:m[3]])))
		if len(toks) >= 2 {
			add(toks[:len(toks)-1], toks[len(toks)-1:], m[0], tierPaxType)
		}
	}

	for _, m := range reRelaxedIATA.FindAllStringSubmatchIndex(text, -1) {
		if agentContext(text, m[0]) {
			continue
		}
		surname := trailingName(strings.Fields(text[m[2]:m[3]]))
		given := leadingName(strings.Fields(text[m[4]:m[5]]))
		if airportPair(surname, given) {
			continue
		}
		add(given, surname, m[0], tierRelaxed)
	}

	for _, m := range reCommaName.FindAllStringSubmatchIndex(text, -1) {
		if agentContext(text, m[0]) {
			continue
		}
		surname := trailingName(strings.Fields(text[m[2]:m[3]]))
		given := leadingName(strings.Fields(text[m[4]:m[5]]))
		add(given, surname, m[0], tierRelaxed)
	}

	for _, m := range reTitleMixed.FindAllStringSubmatchIndex(text, -1) {
		toks := leadingName(strings.Fields(text[m[2]:m[3]]))
		if len(toks) >= 2 {
			add(toks[:len(toks)-1], toks[len(toks)-1:], m[0], tierTitleMixed)
		}
	}
	return out
}

// parseLabeledName splits the value after a passenger label using slash,
// comma or plain order.
func parseLabeledName(line string) (given, surname []string, ok bool) {
	v := reLabelValue.FindString(strings.TrimSpace(line))
	if i := strings.Index(v, "  "); i >= 0 {
		v = v[:i]
	}
	v = strings.Trim(v, " ,./")
	switch {
	case v == "":
		return nil, nil, false
	case strings.Contains(v, "/"):
		last, first, _ := strings.Cut(v, "/")
		surname = trailingName(withoutTitles(strings.Fields(last)))
		given = leadingName(withoutTitles(strings.Fields(first)))
	case strings.Contains(v, ","):
		last, first, _ := strings.Cut(v, ",")
		surname = trailingName(withoutTitles(strings.Fields(last)))
		given = leadingName(withoutTitles(strings.Fields(first)))
	default:
		toks := leadingName(withoutTitles(strings.Fields(strings.ReplaceAll(v, ".", " "))))
		if len(toks) < 2 {
			return nil, nil, false
		}
		given, surname = toks[:len(toks)-1], toks[len(toks)-1:]
	}
	return given, surname, len(given) > 0 && len(surname) > 0
}

// leadingName keeps tokens up to the first stopword.
func leadingName(toks []string) []string {
	for i, t := range toks {
		if isNameStopword(t) {
			return toks[:i]
		}
	}
	return toks
}

// trailingName keeps the run of tokens after the last stopword.
func trailingName(toks []string) []string {
	for i := len(toks) - 1; i >= 0; i-- {
		if isNameStopword(toks[i]) {
			return toks[i+1:]
		}
	}
	return toks
}

func withoutTitles(toks []string) []string {
	out := toks[:0:0]
	for _, t := range toks {
		if !titleTokens.has(strings.TrimSuffix(t, ".")) {
			out = append(out, t)
		}
	}
	return out
}

func stripGluedTitle(tok string) string {
	for _, t := range gluedTitles {
		if strings.HasSuffix(tok, t) && len(tok)-len(t) >= 2 {
			return tok[:len(tok)-len(t)]
		}
	}
	return tok
}

func agentContext(text string, start int) bool {
	return reAgentContext.MatchString(window(text, start, start, agentContextWindow, 0))
}

// airportPair reports a slash pair of bare three-letter codes such as TIP/IST.
func airportPair(surname, given []string) bool {
	if len(surname) != 1 || len(given) != 1 {
		return false
	}
	return isCodeShape(surname[0]) && isCodeShape(given[0])
}

func isCodeShape(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func isNameStopword(tok string) bool {
	tok = strings.Trim(tok, ".,'-")
	if nameStopwords.has(tok) {
		return true
	}
	for _, part := range strings.Split(tok, "-") {
		if part != "" && nameStopwords.has(part) {
			return true
		}
	}
	return false
}

// formatName renders "Given Surname" in title case.
func formatName(given, surname []string) string {
	if len(given) == 0 || len(surname) == 0 {
		return ""
	}
	toks := make([]string, 0, len(given)+len(surname))
	for _, t := range append(append([]string{}, given...), surname...) {
		if t = strings.Trim(t, " ,./"); t != "" {
			toks = append(toks, titleCaseToken(t))
		}
	}
	return strings.Join(toks, " ")
}

func titleCaseToken(tok string) string {
	parts := strings.Split(strings.ToLower(tok), "-")
	for i, p := range parts {
		switch {
		case strings.HasPrefix(p, "o'") || strings.HasPrefix(p, "d'"):
			parts[i] = strings.ToUpper(p[:1]) + "'" + upperFirst(p[2:])
		case strings.HasPrefix(p, "mc") && len(p) > 2:
			parts[i] = "Mc" + upperFirst(p[2:])
		default:
			parts[i] = upperFirst(p)
		}
	}
	return strings.Join(parts, "-")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// validName applies the name shape rules: bounded length, letters only, two
// to four tokens of at least two letters each, and no stopword tokens.
func validName(name string) bool {
	n := utf8.RuneCountInString(name)
	if n < 4 || n > 80 || !reNameShape.MatchString(name) {
		return false
	}
	toks := strings.Fields(name)
	if len(toks) < 2 || len(toks) > 4 {
		return false
	}
	for _, t := range toks {
		letters := 0
		for _, r := range t {
			if unicode.IsLetter(r) {
				letters++
			}
		}
		if letters < 2 || isNameStopword(t) {
			return false
		}
	}
	return true
}
