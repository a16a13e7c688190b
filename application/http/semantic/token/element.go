package token

import (
	"strings"

	"message-adapter/application/util/rule"

	"github.com/pkg/errors"
)

type Param struct{ Name, Value string }

// Element is a single list element with its parameters, e.g. `text/html;level=1`.
type Element struct {
	Value  string
	Params []Param
}

// Param returns the value of the first parameter with the given name.
// Names are compared case-insensitively.
func (e Element) Param(name string) (string, bool) {
	for _, p := range e.Params {
		if strings.EqualFold(p.Name, name) {
			return p.Value, true
		}
	}
	return "", false
}

// ParseElement splits an element into its value and `;name=value` parameters.
// Parameter names are lowercased and values unquoted. On a broken parameter the
// parameters read so far are kept and ErrMalformedHeader is returned.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.6
func ParseElement(s string) (Element, error) {
	parts, err := Split(s, ';')
	if len(parts) == 0 {
		if err == nil {
			err = errors.Wrap(ErrMalformedHeader, "empty element")
		}
		return Element{}, err
	}

	elem := Element{Value: rule.Unquote(parts[0])}
	for _, part := range parts[1:] {
		name, value, _ := strings.Cut(part, "=")
		name = strings.ToLower(rule.TrimOWS(name))
		if !rule.IsValidToken(name) {
			return elem, errors.Wrapf(ErrMalformedHeader, "invalid parameter name %q", name)
		}

		elem.Params = append(elem.Params, Param{
			Name:  name,
			Value: rule.Unquote(rule.TrimOWS(value)),
		})
	}

	return elem, err
}
