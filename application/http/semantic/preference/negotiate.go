package preference

import (
	"strings"

	"message-adapter/application/http/semantic/token"
)

// Match is the entry a candidate was weighed against.
type Match struct {
	Entry       Entry
	Specificity int
}

// Quality weighs a candidate value against the list.
// The most specific matching entry decides, so `text/html;q=0, */*` still
// refuses text/html. An empty list accepts everything with weight 1.
// ok is false when no entry covers the candidate.
func (l List) Quality(candidate string) (q float64, m Match, ok bool) {
	if len(l.Entries) == 0 {
		return 1, Match{Entry: Entry{Value: wildcard, Quality: 1}}, true
	}

	cand, err := token.ParseElement(candidate)
	if err != nil {
		return 0, Match{}, false
	}
	cand.Value = normalize(l.Dimension, cand.Value)

	best := -1
	for _, e := range l.Entries {
		if !matches(l.Dimension, e, cand) {
			continue
		}

		spec := specificity(l.Dimension, e)
		if spec > best || (spec == best && e.Quality > m.Entry.Quality) {
			best = spec
			m = Match{Entry: e, Specificity: spec}
		}
	}
	if best < 0 {
		return 0, Match{}, false
	}
	return m.Entry.Quality, m, true
}

// Negotiate picks the producible value the client prefers most.
// Values weighted 0 are never picked. Among equal weights the one matched by the
// more specific entry wins, then the one listed first by the server.
func (l List) Negotiate(producible []string) (string, bool) {
	var (
		chosen   string
		bestQ    float64
		bestSpec = -1
	)

	for _, candidate := range producible {
		q, m, ok := l.Quality(candidate)
		if !ok || q == 0 {
			continue
		}
		if q > bestQ || (q == bestQ && m.Specificity > bestSpec) {
			chosen, bestQ, bestSpec = candidate, q, m.Specificity
		}
	}

	return chosen, bestSpec >= 0
}

// Accepts reports whether the client takes value at a non-zero weight.
func (l List) Accepts(value string) bool {
	q, _, ok := l.Quality(value)
	return ok && q > 0
}

func matches(d Dimension, e Entry, cand token.Element) bool {
	if e.Value == wildcard {
		return true
	}

	switch d {
	case MediaType:
		return matchMediaType(e, cand)
	case Language:
		// Basic filtering: a range matches a tag equal to it or prefixed by it.
		// Reference: https://datatracker.ietf.org/doc/html/rfc4647#section-3.3.1
		v := cand.Value
		return strings.EqualFold(e.Value, v) ||
			(len(v) > len(e.Value) && strings.EqualFold(e.Value, v[:len(e.Value)]) && v[len(e.Value)] == '-')
	default:
		return strings.EqualFold(e.Value, cand.Value)
	}
}

func matchMediaType(e Entry, cand token.Element) bool {
	if e.Value == "*/*" {
		return true
	}

	eType, eSub, _ := strings.Cut(e.Value, "/")
	cType, cSub, _ := strings.Cut(cand.Value, "/")
	if eType != cType {
		return false
	}
	if eSub == wildcard {
		return true
	}
	if eSub != cSub {
		return false
	}

	for _, p := range e.Params {
		v, ok := cand.Param(p.Name)
		if !ok || !strings.EqualFold(v, p.Value) {
			return false
		}
	}
	return true
}
