// Package token splits raw header field values into their list elements,
// quoted strings and parameters.
package token

import (
	"message-adapter/application/util/rule"

	"github.com/pkg/errors"
)

// ErrMalformedHeader is reported when a field value breaks its own grammar.
// Whatever could be read before the broken part is still returned.
var ErrMalformedHeader = errors.New("malformed header")

// Reader walks a comma separated field value one element at a time.
// Commas inside quoted strings don't split elements.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.1
type Reader struct {
	s   string
	pos int
	err error
}

func NewReader(s string) *Reader { return &Reader{s: s} }

// Next returns the next non-empty element with surrounding whitespace trimmed.
// ok is false once the input is exhausted or broken.
func (r *Reader) Next() (elem string, ok bool) {
	for r.err == nil && r.pos < len(r.s) {
		end, err := scan(r.s, r.pos, ',')
		if err != nil {
			r.err = errors.Wrapf(err, "element at offset %d", r.pos)
			return "", false
		}

		elem = rule.TrimOWS(r.s[r.pos:end])
		r.pos = end + 1
		if elem != "" {
			return elem, true
		}
	}
	return "", false
}

// Values drains the reader.
func (r *Reader) Values() []string {
	values := make([]string, 0)
	for v, ok := r.Next(); ok; v, ok = r.Next() {
		values = append(values, v)
	}
	return values
}

// Err returns the first grammar violation met, if any.
func (r *Reader) Err() error { return r.err }

// Split splits s on sep outside of quoted strings.
// Parts are trimmed; empty parts are dropped.
func Split(s string, sep byte) ([]string, error) {
	parts := make([]string, 0)
	for pos := 0; pos < len(s); {
		end, err := scan(s, pos, sep)
		if err != nil {
			return parts, err
		}

		if part := rule.TrimOWS(s[pos:end]); part != "" {
			parts = append(parts, part)
		}
		pos = end + 1
	}
	return parts, nil
}

// scan returns the index of the first sep at or after pos that is not inside
// a quoted string, or len(s) when there is none.
func scan(s string, pos int, sep byte) (int, error) {
	quoted := false
	for idx := pos; idx < len(s); idx++ {
		c := s[idx]
		switch {
		case quoted && c == rule.Backslash:
			// quoted-pair
			idx++
		case c == rule.DQUOTE:
			quoted = !quoted
		case !quoted && c == sep:
			return idx, nil
		}
	}

	if quoted {
		return len(s), errors.Wrap(ErrMalformedHeader, "unterminated quoted string")
	}
	return len(s), nil
}
