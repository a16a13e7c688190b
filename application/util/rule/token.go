package rule

import (
	"strings"
)

// IsTchar reports whether c may appear inside a token.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.2-2
func IsTchar(c byte) bool {
	if IsAlpha(rune(c)) || IsDigit(rune(c)) {
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+',
		'-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}

func IsValidToken(s string) bool {
	if len(s) == 0 {
		return false
	}
	for idx := 0; idx < len(s); idx++ {
		if !IsTchar(s[idx]) {
			return false
		}
	}
	return true
}

// TrimOWS trims leading and trailing SP / HTAB.
func TrimOWS(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return r < 0x80 && IsOWS(byte(r)) })
}

// Unquote unquotes s if it was quoted with double quotes.
// Quoted pairs inside are un-escaped, so `"a\"b"` becomes `a"b`.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.4
func Unquote(s string) string {
	if len(s) < 2 || s[0] != DQUOTE || s[len(s)-1] != DQUOTE {
		return s
	}
	s = s[1 : len(s)-1]
	if strings.IndexByte(s, Backslash) < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for idx := 0; idx < len(s); idx++ {
		c := s[idx]
		if c == Backslash && idx+1 < len(s) {
			idx++
			c = s[idx]
		}
		b.WriteByte(c)
	}
	return b.String()
}
