package semantic

import "slices"

func defaultPort(scheme string) int {
	switch scheme {
	case "http":
		return 80
	case "https":
		return 443
	}
	return 0
}

type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
	MethodPatch   Method = "PATCH"
)

// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-9.2.1-3
func DefaultSafeMethods() []Method {
	return []Method{
		MethodGet, MethodHead, MethodOptions, MethodTrace,
	}
}

// IsSafe reports whether m is one of [DefaultSafeMethods].
func (m Method) IsSafe() bool {
	return slices.Contains(DefaultSafeMethods(), m)
}
