// Package cookie reads the Cookie request header.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc6265#section-5.4
package cookie

import (
	"strconv"
	"strings"

	"message-adapter/application/http/semantic/token"
	"message-adapter/application/util/rule"

	"github.com/pkg/errors"
)

type Cookie struct {
	Name  string
	Value string

	// Legacy attributes, only sent by RFC 2109 clients.
	Version int
	Path    string
	Domain  string
}

// Parse reads cookie pairs in the order they were sent.
// A broken pair is skipped; the first problem is returned together with every
// cookie that could be read. An empty value yields no cookies and no error.
func Parse(raw string) ([]Cookie, error) {
	var (
		cookies  = make([]Cookie, 0)
		version  int
		firstErr error
	)

	fail := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	pairs, err := token.Split(raw, ';')
	if err != nil {
		fail(errors.Wrap(err, "cookie"))
	}

	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		name = rule.TrimOWS(name)
		value = rule.Unquote(rule.TrimOWS(value))
		if !found || !rule.IsValidToken(name) {
			fail(errors.Wrapf(token.ErrMalformedHeader, "cookie pair %q", pair))
			continue
		}

		// Reference: https://datatracker.ietf.org/doc/html/rfc2109#section-4.4
		switch last := len(cookies) - 1; {
		case strings.EqualFold(name, "$Version"):
			v, err := strconv.Atoi(value)
			if err != nil {
				fail(errors.Wrapf(token.ErrMalformedHeader, "cookie version %q", value))
				continue
			}
			version = v
		case strings.EqualFold(name, "$Path"):
			if last >= 0 {
				cookies[last].Path = value
			}
		case strings.EqualFold(name, "$Domain"):
			if last >= 0 {
				cookies[last].Domain = value
			}
		case strings.HasPrefix(name, "$"):
			// $Port and friends.
		default:
			cookies = append(cookies, Cookie{Name: name, Value: value, Version: version})
		}
	}

	return cookies, firstErr
}
