package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

var errEmptyTokens = errors.New("empty token cell")

// ParseTokens decodes a serialized token list. It accepts Python list
// literals (['a', "b"]) and JSON arrays (["a","b"]). Nothing in the cell is
// ever evaluated; anything that is not a flat list of quoted strings fails.
func ParseTokens(s string) ([]string, error) {
	p := tokenParser{src: strings.TrimSpace(s)}
	return p.parse()
}

// FormatTokens is the inverse of ParseTokens for valid UTF-8 tokens.
func FormatTokens(tokens []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, t := range tokens {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		for _, r := range t {
			switch r {
			case '\\':
				b.WriteString(`\\`)
			case '\'':
				b.WriteString(`\'`)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			default:
				b.WriteRune(r)
			}
		}
		b.WriteByte('\'')
	}
	b.WriteByte(']')
	return b.String()
}

type tokenParser struct {
	src string
	pos int
}

func (p *tokenParser) parse() ([]string, error) {
	if p.src == "" {
		return nil, errEmptyTokens
	}
	if p.src[0] != '[' {
		return nil, p.errorf("expected '['")
	}
	p.pos++

	out := []string{}
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unterminated list")
		}
		if p.src[p.pos] == ']' {
			p.pos++
			break
		}
		tok, err := p.str()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)

		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unterminated list")
		}
		c := p.src[p.pos]
		p.pos++
		if c == ']' {
			break
		}
		if c != ',' {
			return nil, p.errorf("expected ',' or ']' but found %q", c)
		}
	}

	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected trailing characters")
	}
	return out, nil
}

func (p *tokenParser) str() (string, error) {
	q := p.src[p.pos]
	if q != '\'' && q != '"' {
		return "", p.errorf("expected quoted token but found %q", q)
	}
	p.pos++

	var b strings.Builder
	for !p.eof() {
		c := p.src[p.pos]
		switch c {
		case q:
			p.pos++
			return b.String(), nil
		case '\\':
			if err := p.escape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

// escape consumes one backslash sequence starting at p.pos.
func (p *tokenParser) escape(b *strings.Builder) error {
	p.pos++
	if p.eof() {
		return p.errorf("dangling escape")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case '\\', '\'', '"', '/':
		b.WriteByte(c)
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'x':
		r, err := p.hex(2)
		if err != nil {
			return err
		}
		b.WriteRune(r)
	case 'u':
		r, err := p.hex(4)
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) && strings.HasPrefix(p.src[p.pos:], `\u`) {
			p.pos += 2
			lo, err := p.hex(4)
			if err != nil {
				return err
			}
			r = utf16.DecodeRune(r, lo)
		}
		b.WriteRune(r)
	case 'U':
		r, err := p.hex(8)
		if err != nil {
			return err
		}
		b.WriteRune(r)
	default:
		return p.errorf("unsupported escape \\%c", c)
	}
	return nil
}

func (p *tokenParser) hex(n int) (rune, error) {
	if p.pos+n > len(p.src) {
		return 0, p.errorf("short hex escape")
	}
	v, err := strconv.ParseUint(p.src[p.pos:p.pos+n], 16, 32)
	if err != nil {
		return 0, p.errorf("bad hex escape %q", p.src[p.pos:p.pos+n])
	}
	p.pos += n
	return rune(v), nil
}

func (p *tokenParser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *tokenParser) eof() bool { return p.pos >= len(p.src) }

func (p *tokenParser) errorf(format string, args ...any) error {
	return fmt.Errorf("offset %d: "+format, append([]any{p.pos}, args...)...)
}
