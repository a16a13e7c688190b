// Package preference parses the Accept family of header fields into quality
// ordered lists and picks the best candidate a server can offer.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-12.5
package preference

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"message-adapter/application/http/semantic/token"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

// ErrInvalidQuality is reported for a weight that isn't a number.
var ErrInvalidQuality = errors.New("invalid quality value")

type Dimension uint8

const (
	MediaType Dimension = iota
	Charset
	Encoding
	Language
)

func Dimensions() []Dimension { return []Dimension{MediaType, Charset, Encoding, Language} }

// Header returns the name of the field carrying preferences of d.
func (d Dimension) Header() string {
	switch d {
	case MediaType:
		return "Accept"
	case Charset:
		return "Accept-Charset"
	case Encoding:
		return "Accept-Encoding"
	case Language:
		return "Accept-Language"
	}
	return ""
}

func (d Dimension) String() string {
	switch d {
	case MediaType:
		return "media-type"
	case Charset:
		return "charset"
	case Encoding:
		return "encoding"
	case Language:
		return "language"
	}
	return "unknown"
}

const wildcard = "*"

// Entry is a single preferred value and its weight.
// Params holds media type parameters; accept extensions after q are dropped.
type Entry struct {
	Value   string
	Quality float64
	Params  []token.Param
}

// Excluded reports whether the client explicitly refused the value.
func (e Entry) Excluded() bool { return e.Quality == 0 }

// List is ordered by descending quality, then descending specificity.
// Entries of equal rank keep the order they had in the header.
type List struct {
	Dimension Dimension
	Entries   []Entry
}

// Parse reads a raw Accept* value. Every element is handled on its own: an
// element with a broken weight or grammar is dropped and the first such problem
// is returned alongside the remaining entries.
func Parse(d Dimension, raw string) (List, error) {
	var (
		list     = List{Dimension: d, Entries: make([]Entry, 0)}
		firstErr error
	)

	r := token.NewReader(raw)
	for v, ok := r.Next(); ok; v, ok = r.Next() {
		entry, err := parseEntry(d, v)
		if err != nil {
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "%s entry %q", d.Header(), v)
			}
			continue
		}
		list.Entries = append(list.Entries, entry)
	}
	if err := r.Err(); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, d.Header())
	}

	slices.SortStableFunc(list.Entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Quality, a.Quality); c != 0 {
			return c
		}
		return cmp.Compare(specificity(d, b), specificity(d, a))
	})

	return list, firstErr
}

func parseEntry(d Dimension, raw string) (Entry, error) {
	elem, err := token.ParseElement(raw)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{Value: normalize(d, elem.Value), Quality: 1}
	for _, p := range elem.Params {
		if p.Name == "q" {
			entry.Quality, err = parseQuality(p.Value)
			if err != nil {
				return Entry{}, err
			}
			// Anything after the weight is an accept-ext.
			// Reference: https://datatracker.ietf.org/doc/html/rfc2616#section-14.1
			break
		}
		if d == MediaType {
			entry.Params = append(entry.Params, p)
		}
	}

	return entry, nil
}

// parseQuality clamps numeric weights into [0, 1].
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-12.4.2
func parseQuality(raw string) (float64, error) {
	q, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(q) {
		return 0, errors.Wrapf(ErrInvalidQuality, "%q", raw)
	}
	return min(1, max(0, q)), nil
}

func normalize(d Dimension, v string) string {
	if v == wildcard {
		return v
	}

	switch d {
	case Language:
		if tag, err := language.Parse(v); err == nil {
			return tag.String()
		}
		return v
	default:
		return strings.ToLower(v)
	}
}

// specificity ranks how narrow a value is. Wildcards rank lowest.
func specificity(d Dimension, e Entry) int {
	if e.Value == wildcard || e.Value == "*/*" {
		return 0
	}

	switch d {
	case MediaType:
		if strings.HasSuffix(e.Value, "/*") {
			return 1
		}
		return 2 + len(e.Params)
	case Language:
		return 1 + strings.Count(e.Value, "-")
	default:
		return 1
	}
}
