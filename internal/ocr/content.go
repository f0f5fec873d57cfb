package ocr

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// tjSpaceThreshold is the TJ kerning adjustment (in thousandths of an em)
// beyond which we assume a word gap.
const tjSpaceThreshold = -200

type operand struct {
	kind byte // 's' string, 'n' number, 'a' array, 'x' other
	str  []byte
	num  float64
	arr  []operand
}

// contentText pulls the strings shown by text operators out of a decoded
// page content stream, keeping line breaks implied by text positioning.
func contentText(data []byte) string {
	lx := &lexer{data: data}
	var (
		out   strings.Builder
		stack []operand
	)
	newline := func() {
		s := out.String()
		if s != "" && !strings.HasSuffix(s, "\n") {
			out.WriteByte('\n')
		}
	}

	for {
		op, ok := lx.next()
		if !ok {
			break
		}
		if op.kind != 'o' {
			stack = append(stack, op.operand)
			continue
		}
		switch op.name {
		case "Tj":
			if s, ok := lastString(stack); ok {
				out.WriteString(decodeText(s))
			}
		case "'", "\"":
			newline()
			if s, ok := lastString(stack); ok {
				out.WriteString(decodeText(s))
			}
		case "TJ":
			if n := len(stack); n > 0 && stack[n-1].kind == 'a' {
				for _, el := range stack[n-1].arr {
					switch el.kind {
					case 's':
						out.WriteString(decodeText(el.str))
					case 'n':
						if el.num < tjSpaceThreshold {
							out.WriteByte(' ')
						}
					}
				}
			}
		case "Td", "TD":
			if n := len(stack); n >= 2 && stack[n-1].kind == 'n' && stack[n-1].num != 0 {
				newline()
			} else if n >= 2 && stack[n-2].kind == 'n' && stack[n-2].num > 0 {
				if s := out.String(); s != "" && !strings.HasSuffix(s, " ") && !strings.HasSuffix(s, "\n") {
					out.WriteByte(' ')
				}
			}
		case "T*", "Tm", "ET":
			newline()
		case "BI":
			lx.skipInlineImage()
		}
		stack = stack[:0]
	}
	return strings.TrimSpace(out.String())
}

func lastString(stack []operand) ([]byte, bool) {
	if n := len(stack); n > 0 && stack[n-1].kind == 's' {
		return stack[n-1].str, true
	}
	return nil, false
}

// decodeText handles the two encodings we can read without font tables:
// UTF-16BE with a byte order mark and single-byte WinAnsi.
func decodeText(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		if s, err := dec.Bytes(b); err == nil {
			return string(s)
		}
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, nil))
	}
	return string(s)
}

type token struct {
	operand
	name string
}

type lexer struct {
	data []byte
	pos  int
}

func isWhite(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isWhite(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		default:
			return
		}
	}
}

// next returns the next operand or operator. Operators come back with kind 'o'.
func (l *lexer) next() (token, bool) {
	for {
		l.skipSpace()
		if l.pos >= len(l.data) {
			return token{}, false
		}
		c := l.data[l.pos]
		switch {
		case c == '(':
			return token{operand: operand{kind: 's', str: l.literal()}}, true
		case c == '<' && l.peek(1) == '<':
			l.skipDict()
			return token{operand: operand{kind: 'x'}}, true
		case c == '<':
			return token{operand: operand{kind: 's', str: l.hex()}}, true
		case c == '[':
			l.pos++
			return token{operand: operand{kind: 'a', arr: l.array()}}, true
		case c == ']' || c == '>' || c == ')' || c == '{' || c == '}':
			l.pos++
			continue
		case c == '/':
			l.pos++
			l.word()
			return token{operand: operand{kind: 'x'}}, true
		}
		w := l.word()
		if w == "" {
			l.pos++
			continue
		}
		if f, err := strconv.ParseFloat(w, 64); err == nil {
			return token{operand: operand{kind: 'n', num: f}}, true
		}
		return token{operand: operand{kind: 'o'}, name: w}, true
	}
}

func (l *lexer) peek(off int) byte {
	if l.pos+off < len(l.data) {
		return l.data[l.pos+off]
	}
	return 0
}

func (l *lexer) word() string {
	start := l.pos
	for l.pos < len(l.data) && !isWhite(l.data[l.pos]) && !isDelim(l.data[l.pos]) {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

func (l *lexer) array() []operand {
	var out []operand
	for {
		l.skipSpace()
		if l.pos >= len(l.data) {
			return out
		}
		if l.data[l.pos] == ']' {
			l.pos++
			return out
		}
		t, ok := l.next()
		if !ok {
			return out
		}
		if t.kind != 'o' {
			out = append(out, t.operand)
		}
	}
}

func (l *lexer) skipDict() {
	depth := 0
	for l.pos < len(l.data) {
		switch {
		case l.data[l.pos] == '<' && l.peek(1) == '<':
			depth++
			l.pos += 2
		case l.data[l.pos] == '>' && l.peek(1) == '>':
			depth--
			l.pos += 2
			if depth == 0 {
				return
			}
		case l.data[l.pos] == '(':
			l.literal()
		default:
			l.pos++
		}
	}
}

func (l *lexer) literal() []byte {
	l.pos++ // (
	var out []byte
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, c)
		case '\\':
			if l.pos >= len(l.data) {
				return out
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; i++ {
						v = v*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

func (l *lexer) hex() []byte {
	l.pos++ // <
	var digits []byte
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		if c := l.data[l.pos]; !isWhite(c) {
			digits = append(digits, c)
		}
		l.pos++
	}
	l.pos++ // >
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i+1 < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			continue
		}
		out = append(out, byte(v))
	}
	return out
}

// skipInlineImage jumps past "ID <binary> EI".
func (l *lexer) skipInlineImage() {
	idx := bytes.Index(l.data[l.pos:], []byte("ID"))
	if idx < 0 {
		l.pos = len(l.data)
		return
	}
	l.pos += idx + 2
	for l.pos < len(l.data) {
		idx := bytes.Index(l.data[l.pos:], []byte("EI"))
		if idx < 0 {
			l.pos = len(l.data)
			return
		}
		at := l.pos + idx
		before := at == 0 || isWhite(l.data[at-1])
		after := at+2 >= len(l.data) || isWhite(l.data[at+2])
		l.pos = at + 2
		if before && after {
			return
		}
	}
}
