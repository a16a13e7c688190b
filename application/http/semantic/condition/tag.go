package condition

import (
	"strings"

	"message-adapter/application/http/semantic/token"

	"github.com/pkg/errors"
)

// Tag is an entity tag.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-8.8.3
type Tag struct {
	wildcard bool

	Weak   bool
	Opaque string // not including double quotes
}

// AnyTag is the `*` of If-Match and If-None-Match.
var AnyTag = Tag{wildcard: true}

func StrongTag(opaque string) Tag { return Tag{Opaque: opaque} }
func WeakTag(opaque string) Tag   { return Tag{Opaque: opaque, Weak: true} }

func (t Tag) IsWildcard() bool { return t.wildcard }

func ParseTag(raw string) (Tag, error) {
	raw = strings.TrimSpace(raw)
	if raw == "*" {
		return AnyTag, nil
	}

	var tag Tag
	if strings.HasPrefix(raw, "W/") {
		tag.Weak = true
		raw = raw[2:]
	}

	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return Tag{}, errors.Wrapf(token.ErrMalformedHeader, "entity tag %q is not quoted", raw)
	}

	tag.Opaque = raw[1 : len(raw)-1]
	if strings.ContainsRune(tag.Opaque, '"') {
		return Tag{}, errors.Wrapf(token.ErrMalformedHeader, "entity tag %q", raw)
	}

	return tag, nil
}

func (t Tag) String() string {
	if t.wildcard {
		return "*"
	}
	if t.Weak {
		return `W/"` + t.Opaque + `"`
	}
	return `"` + t.Opaque + `"`
}

// StrongMatch compares two tags by strong comparison: both must be strong.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-8.8.3.2
func (t Tag) StrongMatch(other Tag) bool {
	return !t.Weak && !other.Weak && t.Opaque == other.Opaque
}

// WeakMatch ignores the weakness indicator of both sides.
func (t Tag) WeakMatch(other Tag) bool {
	return t.Opaque == other.Opaque
}

// parseTags reads a list of tags. Broken tags are skipped; the first problem is
// returned along with the tags that could be read.
func parseTags(raw string) ([]Tag, error) {
	var (
		tags     = make([]Tag, 0)
		firstErr error
	)

	r := token.NewReader(raw)
	for _, v := range r.Values() {
		tag, err := ParseTag(v)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		tags = append(tags, tag)
	}
	if err := r.Err(); err != nil && firstErr == nil {
		firstErr = err
	}

	return tags, firstErr
}
