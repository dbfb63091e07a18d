package doxygen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// literalParser reads the subset of JavaScript literal syntax that Doxygen
// writes into its search data files: arrays, objects, strings, numbers,
// true/false/null.
//
// Parsed values are []any, map[string]any, string, float64, bool, or nil.
type literalParser struct {
	src string
	pos int
}

// parseAssignment locates "var <name> =" in src and parses the value after it.
func parseAssignment(src, name string) (any, error) {
	idx := findAssignment(src, name)
	if idx < 0 {
		return nil, fmt.Errorf("variable %s not found", name)
	}
	p := &literalParser{src: src, pos: idx}
	return p.parseValue()
}

// findAssignment returns the offset just past "name =", or -1.
func findAssignment(src, name string) int {
	from := 0
	for {
		i := strings.Index(src[from:], name)
		if i < 0 {
			return -1
		}
		i += from
		j := i + len(name)
		// Require an identifier boundary on both sides.
		if i > 0 && isIdentByte(src[i-1]) || j < len(src) && isIdentByte(src[j]) {
			from = j
			continue
		}
		for j < len(src) && isSpaceByte(src[j]) {
			j++
		}
		if j < len(src) && src[j] == '=' {
			return j + 1
		}
		from = j
	}
}

func (p *literalParser) parseValue() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.errorf("unexpected end of input")
	}
	switch c := p.src[p.pos]; {
	case c == '[':
		return p.parseArray()
	case c == '{':
		return p.parseObject()
	case c == '\'' || c == '"':
		return p.parseString()
	case c == '-' || c == '+' || c == '.' || c >= '0' && c <= '9':
		return p.parseNumber()
	case isIdentByte(c):
		word := p.parseIdent()
		switch word {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null", "undefined":
			return nil, nil
		}
		return nil, p.errorf("unexpected identifier %q", word)
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *literalParser) parseArray() ([]any, error) {
	p.pos++ // [
	values := []any{}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated array")
		}
		if p.src[p.pos] == ']' {
			p.pos++
			return values, nil
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if err := p.parseSeparator(']'); err != nil {
			return nil, err
		}
	}
}

func (p *literalParser) parseObject() (map[string]any, error) {
	p.pos++ // {
	obj := map[string]any{}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated object")
		}
		if p.src[p.pos] == '}' {
			p.pos++
			return obj, nil
		}

		var key string
		switch c := p.src[p.pos]; {
		case c == '\'' || c == '"':
			s, err := p.parseString()
			if err != nil {
				return nil, err
			}
			key = s
		case isIdentByte(c):
			key = p.parseIdent()
		default:
			return nil, p.errorf("unexpected character %q in object key", c)
		}

		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != ':' {
			return nil, p.errorf("expected ':' after key %q", key)
		}
		p.pos++

		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj[key] = v
		if err := p.parseSeparator('}'); err != nil {
			return nil, err
		}
	}
}

// parseSeparator consumes a ',' or leaves the closing byte for the caller.
// Trailing commas are accepted.
func (p *literalParser) parseSeparator(closing byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return p.errorf("unexpected end of input")
	}
	switch p.src[p.pos] {
	case ',':
		p.pos++
		return nil
	case closing:
		return nil
	}
	return p.errorf("expected ',' or %q", closing)
}

func (p *literalParser) parseString() (string, error) {
	quote := p.src[p.pos]
	p.pos++
	var sb strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return sb.String(), nil
		case c == '\\':
			if err := p.parseEscape(&sb); err != nil {
				return "", err
			}
		case c == '\n':
			return "", p.errorf("newline in string")
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *literalParser) parseEscape(sb *strings.Builder) error {
	p.pos++ // backslash
	if p.pos >= len(p.src) {
		return p.errorf("unterminated escape")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case '0':
		sb.WriteByte(0)
	case 'x':
		return p.parseHexEscape(sb, 2)
	case 'u':
		return p.parseHexEscape(sb, 4)
	case '\n':
		// line continuation
	default:
		sb.WriteByte(c)
	}
	return nil
}

func (p *literalParser) parseHexEscape(sb *strings.Builder, n int) error {
	if p.pos+n > len(p.src) {
		return p.errorf("short hex escape")
	}
	v, err := strconv.ParseUint(p.src[p.pos:p.pos+n], 16, 32)
	if err != nil {
		return p.errorf("invalid hex escape %q", p.src[p.pos:p.pos+n])
	}
	p.pos += n
	r := rune(v)
	if utf16.IsSurrogate(r) {
		r = p.parseLowSurrogate(r)
	}
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	sb.WriteRune(r)
	return nil
}

// parseLowSurrogate combines the high surrogate hi with a following \uXXXX
// low surrogate. A lone surrogate decodes to U+FFFD.
func (p *literalParser) parseLowSurrogate(hi rune) rune {
	if p.pos+6 > len(p.src) || p.src[p.pos] != '\\' || p.src[p.pos+1] != 'u' {
		return utf8.RuneError
	}
	v, err := strconv.ParseUint(p.src[p.pos+2:p.pos+6], 16, 32)
	if err != nil {
		return utf8.RuneError
	}
	r := utf16.DecodeRune(hi, rune(v))
	if r != utf8.RuneError {
		p.pos += 6
	}
	return r
}

func (p *literalParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= '0' && c <= '9' || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, p.errorf("invalid number %q", p.src[start:p.pos])
	}
	return v, nil
}

func (p *literalParser) parseIdent() string {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case isSpaceByte(c):
			p.pos++
		case strings.HasPrefix(p.src[p.pos:], "//"):
			end := strings.IndexByte(p.src[p.pos:], '\n')
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 1
		case strings.HasPrefix(p.src[p.pos:], "/*"):
			end := strings.Index(p.src[p.pos+2:], "*/")
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 4
		default:
			return
		}
	}
}

func (p *literalParser) errorf(format string, args ...any) error {
	return fmt.Errorf("offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
