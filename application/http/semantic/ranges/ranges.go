// Package ranges reads the Range request header.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-14
package ranges

import (
	"strconv"
	"strings"

	"message-adapter/application/http/semantic/token"
	"message-adapter/application/util/rule"

	"github.com/pkg/errors"
)

// ErrEmptyRangeSet is reported when a Range value holds no usable range.
// Callers should ignore the field and serve the whole representation.
var ErrEmptyRangeSet = errors.New("no valid byte range")

const Unit = "bytes"

// Spec is a single byte range. At least one bound is set.
// With only End set, End is a suffix length: the last End bytes.
// With only Start set, the range runs to the end of the representation.
type Spec struct {
	Start *uint64
	End   *uint64
}

func Between(start, end uint64) Spec { return Spec{Start: &start, End: &end} }
func From(start uint64) Spec         { return Spec{Start: &start} }
func Last(n uint64) Spec             { return Spec{End: &n} }

func (s Spec) IsSuffix() bool { return s.Start == nil }

func (s Spec) String() string {
	var b strings.Builder
	if s.Start != nil {
		b.WriteString(strconv.FormatUint(*s.Start, 10))
	}
	b.WriteByte('-')
	if s.End != nil {
		b.WriteString(strconv.FormatUint(*s.End, 10))
	}
	return b.String()
}

// Resolve places the range onto a representation of size bytes.
// ok is false when the range isn't satisfiable.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-14.1.2
func (s Spec) Resolve(size uint64) (offset, length uint64, ok bool) {
	if s.IsSuffix() {
		if s.End == nil || *s.End == 0 || size == 0 {
			return 0, 0, false
		}
		n := min(*s.End, size)
		return size - n, n, true
	}

	if *s.Start >= size {
		return 0, 0, false
	}

	last := size - 1
	if s.End != nil {
		last = min(*s.End, last)
	}
	return *s.Start, last - *s.Start + 1, true
}

// Parse reads a `bytes=` range set. Units it can't read are skipped; when none
// is left the result is empty and ErrEmptyRangeSet is returned.
func Parse(raw string) ([]Spec, error) {
	specs := make([]Spec, 0)

	unit, set, found := strings.Cut(rule.TrimOWS(raw), "=")
	if !found || !strings.EqualFold(rule.TrimOWS(unit), Unit) {
		return specs, errors.Wrapf(ErrEmptyRangeSet, "unsupported range unit in %q", raw)
	}

	var firstErr error
	r := token.NewReader(set)
	for _, v := range r.Values() {
		spec, err := parseSpec(v)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		specs = append(specs, spec)
	}
	if err := r.Err(); err != nil && firstErr == nil {
		firstErr = err
	}

	if len(specs) == 0 {
		return specs, errors.Wrapf(ErrEmptyRangeSet, "%q", raw)
	}
	return specs, firstErr
}

func parseSpec(raw string) (Spec, error) {
	first, last, found := strings.Cut(raw, "-")
	if !found {
		return Spec{}, errors.Wrapf(token.ErrMalformedHeader, "range %q has no dash", raw)
	}

	first, last = rule.TrimOWS(first), rule.TrimOWS(last)

	var spec Spec
	if first != "" {
		start, err := parseBound(first)
		if err != nil {
			return Spec{}, errors.Wrapf(err, "range %q", raw)
		}
		spec.Start = &start
	}
	if last != "" {
		end, err := parseBound(last)
		if err != nil {
			return Spec{}, errors.Wrapf(err, "range %q", raw)
		}
		spec.End = &end
	}

	switch {
	case spec.Start == nil && spec.End == nil:
		return Spec{}, errors.Wrapf(token.ErrMalformedHeader, "range %q has no bounds", raw)
	case spec.Start != nil && spec.End != nil && *spec.Start > *spec.End:
		return Spec{}, errors.Wrapf(token.ErrMalformedHeader, "range %q ends before it starts", raw)
	}
	return spec, nil
}

func parseBound(s string) (uint64, error) {
	for idx := 0; idx < len(s); idx++ {
		if !rule.IsDigit(rune(s[idx])) {
			return 0, errors.Wrapf(token.ErrMalformedHeader, "bound %q is not a number", s)
		}
	}
	return strconv.ParseUint(s, 10, 64)
}
