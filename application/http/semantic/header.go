package semantic

import (
	"sort"
	"strings"

	"message-adapter/application/http"
	"message-adapter/application/util/rule"
)

// Headers is a case-insensitive multi-map of field lines.
// Names keep the order they were first seen in, and values keep arrival order.
// Values are stored as sent; splitting list-based fields is left to the readers.
type Headers struct {
	underlying map[string][]string
	order      []string
}

func NewHeaders(initial map[string][]string) Headers {
	h := Headers{underlying: make(map[string][]string, len(initial))}

	// Map iteration order is random, keep it deterministic.
	keys := make([]string, 0, len(initial))
	for k := range initial {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range initial[k] {
			h.Add(k, v)
		}
		if len(initial[k]) == 0 {
			h.touch(h.canonical(k))
		}
	}

	return h
}

// HeadersFrom creates semantic header from raw fields.
// Repeated field lines are kept as separate values.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.3
func HeadersFrom(fields []http.Field) Headers {
	h := Headers{underlying: make(map[string][]string, len(fields))}
	for _, field := range fields {
		h.Add(string(field.Name), string(field.Value))
	}

	return h
}

// ToRawFields writes one field line per value, in order.
func (h *Headers) ToRawFields() (fields []http.Field) {
	fields = make([]http.Field, 0, len(h.order))
	for _, k := range h.order {
		for _, v := range h.underlying[k] {
			fields = append(fields, http.NewField(k, v))
		}
	}

	return fields
}

// Get assumes the field is a singleton field.
// Even if key has multiple values, it will only return the first element of values.
// For list-based field, use [Headers.Values] or [Headers.Combined].
func (h *Headers) Get(key string) (value string, ok bool) {
	v, ok := h.underlying[h.canonical(key)]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func (h *Headers) Values(key string) (values []string, ok bool) {
	values, ok = h.underlying[h.canonical(key)]
	return
}

// Combined joins every line of a field with sep.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.3-3
func (h *Headers) Combined(key, sep string) (value string, ok bool) {
	values, ok := h.underlying[h.canonical(key)]
	if !ok || len(values) == 0 {
		return "", false
	}
	return strings.Join(values, sep), true
}

// Set assumes the field is a singleton field.
// It overwrites existing value instead of appending to it.
// For list-based field, use [Headers.Add].
func (h *Headers) Set(key, value string) {
	key = h.canonical(key)
	h.touch(key)
	h.underlying[key] = []string{value}
}

func (h *Headers) Add(key, value string) {
	key = h.canonical(key)
	h.touch(key)
	h.underlying[key] = append(h.underlying[key], value)
}

func (h *Headers) Del(key string) {
	key = h.canonical(key)
	if _, ok := h.underlying[key]; !ok {
		return
	}

	delete(h.underlying, key)
	for idx, name := range h.order {
		if name == key {
			h.order = append(h.order[:idx:idx], h.order[idx+1:]...)
			break
		}
	}
}

func (h *Headers) touch(key string) {
	if h.underlying == nil {
		h.underlying = make(map[string][]string)
	}
	if _, ok := h.underlying[key]; !ok {
		h.underlying[key] = nil
		h.order = append(h.order, key)
	}
}

func (h *Headers) canonical(s string) string {
	if rule.IsValidToken(s) {
		s = toCanonicalFieldName(s)
	}
	return s
}

// This only works for valid token.
func toCanonicalFieldName(s string) string {
	const capitalDiff = 'a' - 'A'
	b := []byte(s)
	upper := true
	for i, c := range b {
		if upper && 'a' <= c && c <= 'z' {
			c -= capitalDiff
		} else if !upper && 'A' <= c && c <= 'Z' {
			c += capitalDiff
		}
		b[i] = c
		upper = c == '-'
	}
	return string(b)
}
