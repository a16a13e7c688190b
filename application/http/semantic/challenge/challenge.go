// Package challenge reads the credentials of Authorization and
// Proxy-Authorization header fields. Checking them is someone else's job.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-11.4
package challenge

import (
	"encoding/base64"
	"strings"

	"message-adapter/application/http/semantic/token"
	"message-adapter/application/util/rule"

	"github.com/pkg/errors"
)

const (
	SchemeBasic  = "basic"
	SchemeBearer = "bearer"
	SchemeDigest = "digest"
)

// Response is the client's answer to a challenge.
// Scheme is lowercased. Token holds a token68 when one was sent.
type Response struct {
	Scheme     string
	Identifier string
	Secret     string

	Token  string
	Params map[string]string
}

// Parse reads credentials. A value whose scheme can be read always yields a
// response; problems with the rest are returned next to it.
func Parse(raw string) (*Response, error) {
	raw = rule.TrimOWS(raw)
	scheme, rest, _ := strings.Cut(raw, " ")
	if !rule.IsValidToken(scheme) {
		return nil, errors.Wrapf(token.ErrMalformedHeader, "auth scheme %q", scheme)
	}

	res := &Response{Scheme: strings.ToLower(scheme)}
	rest = rule.TrimOWS(rest)
	if rest == "" {
		return res, nil
	}

	if isToken68(rest) {
		res.Token = rest
	} else if err := res.readParams(rest); err != nil {
		return res, err
	}

	switch res.Scheme {
	case SchemeBasic:
		return res, res.decodeBasic()
	case SchemeBearer:
		res.Secret = res.Token
	default:
		res.Identifier = res.Params["username"]
	}
	return res, nil
}

// Reference: https://datatracker.ietf.org/doc/html/rfc7617#section-2
func (r *Response) decodeBasic() error {
	decoded, err := base64.StdEncoding.DecodeString(r.Token)
	if err != nil {
		return errors.Wrap(token.ErrMalformedHeader, "basic credentials are not base64")
	}

	id, secret, found := strings.Cut(string(decoded), ":")
	if !found {
		return errors.Wrap(token.ErrMalformedHeader, "basic credentials have no colon")
	}
	r.Identifier, r.Secret = id, secret
	return nil
}

func (r *Response) readParams(s string) error {
	reader := token.NewReader(s)
	for v, ok := reader.Next(); ok; v, ok = reader.Next() {
		name, value, found := strings.Cut(v, "=")
		name = strings.ToLower(rule.TrimOWS(name))
		if !found || !rule.IsValidToken(name) {
			return errors.Wrapf(token.ErrMalformedHeader, "auth-param %q", v)
		}

		if r.Params == nil {
			r.Params = make(map[string]string)
		}
		r.Params[name] = rule.Unquote(rule.TrimOWS(value))
	}
	return reader.Err()
}

// token68 = 1*( ALPHA / DIGIT / "-" / "." / "_" / "~" / "+" / "/" ) *"="
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-11.2
func isToken68(s string) bool {
	body := strings.TrimRight(s, "=")
	if body == "" {
		return false
	}
	for idx := 0; idx < len(body); idx++ {
		c := rune(body[idx])
		if rule.IsAlpha(c) || rule.IsDigit(c) {
			continue
		}
		switch c {
		case '-', '.', '_', '~', '+', '/':
			continue
		}
		return false
	}
	return true
}
