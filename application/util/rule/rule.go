package rule

const (
	SP   byte = ' '
	HTAB byte = '\t'

	DQUOTE    byte = '"'
	Backslash byte = '\\'
)

// IsOWS reports whether c is optional whitespace (SP / HTAB).
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.3
func IsOWS(c byte) bool { return c == SP || c == HTAB }

func IsAlpha(r rune) bool { return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') }
func IsDigit(r rune) bool { return '0' <= r && r <= '9' }
