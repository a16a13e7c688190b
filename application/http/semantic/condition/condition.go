// Package condition reads conditional request header fields and decides whether
// a request may proceed against the current state of its target.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-13
package condition

import (
	"time"

	"message-adapter/application/http/semantic/httpdate"
	"message-adapter/application/http/semantic/status"

	"github.com/pkg/errors"
)

const (
	HeaderIfMatch           = "If-Match"
	HeaderIfNoneMatch       = "If-None-Match"
	HeaderIfModifiedSince   = "If-Modified-Since"
	HeaderIfUnmodifiedSince = "If-Unmodified-Since"
)

// Conditions is the set of preconditions carried by a request.
// A nil slice or pointer means the client didn't send that condition.
type Conditions struct {
	Match     []Tag
	NoneMatch []Tag

	ModifiedSince   *time.Time
	UnmodifiedSince *time.Time
}

func (c Conditions) IsEmpty() bool {
	return c.Match == nil && c.NoneMatch == nil &&
		c.ModifiedSince == nil && c.UnmodifiedSince == nil
}

// Parse builds conditions out of the header fields returned by lookup.
// Each field is read on its own; a field that yields nothing usable is left
// unset and the first problem met is returned.
func Parse(lookup func(name string) (string, bool)) (Conditions, error) {
	var (
		c        Conditions
		firstErr error
	)

	fail := func(name string, err error) {
		if firstErr == nil {
			firstErr = errors.Wrap(err, name)
		}
	}

	readTags := func(name string) []Tag {
		raw, ok := lookup(name)
		if !ok {
			return nil
		}
		tags, err := parseTags(raw)
		if err != nil {
			fail(name, err)
		}
		if len(tags) == 0 {
			return nil
		}
		return tags
	}

	readDate := func(name string) *time.Time {
		raw, ok := lookup(name)
		if !ok {
			return nil
		}
		t, err := httpdate.Parse(raw)
		if err != nil {
			fail(name, err)
			return nil
		}
		return &t
	}

	c.Match = readTags(HeaderIfMatch)
	c.NoneMatch = readTags(HeaderIfNoneMatch)
	c.ModifiedSince = readDate(HeaderIfModifiedSince)
	c.UnmodifiedSince = readDate(HeaderIfUnmodifiedSince)

	return c, firstErr
}

type Outcome uint8

const (
	Pass Outcome = iota
	NotModified
	PreconditionFailed
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case NotModified:
		return "not modified"
	case PreconditionFailed:
		return "precondition failed"
	}
	return "unknown"
}

// Status maps a negative outcome onto the response status to send.
func (o Outcome) Status() (status.Status, bool) {
	switch o {
	case NotModified:
		return status.NotModified, true
	case PreconditionFailed:
		return status.PreconditionFailed, true
	}
	return status.Status{}, false
}

// Evaluate checks the conditions against the current validators of the target.
// safe tells whether the request method is safe. current is nil and modified is
// zero when the target has no current representation.
//
// Rules are tried in order and the first one that fires decides:
// If-Match, If-Unmodified-Since, If-None-Match, If-Modified-Since.
// A condition whose validator is unknown never fires.
func (c Conditions) Evaluate(safe bool, current *Tag, modified time.Time) Outcome {
	// HTTP dates carry whole seconds only.
	modified = modified.Truncate(time.Second)
	exists := current != nil || !modified.IsZero()

	switch {
	case c.Match != nil && !anyMatch(c.Match, current, true, true):
		return PreconditionFailed

	case c.UnmodifiedSince != nil && !modified.IsZero() && modified.After(*c.UnmodifiedSince):
		return PreconditionFailed

	case c.NoneMatch != nil && anyMatch(c.NoneMatch, current, exists, false):
		// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-13.1.2
		if safe {
			return NotModified
		}
		return PreconditionFailed

	case c.ModifiedSince != nil && !modified.IsZero() && !modified.After(*c.ModifiedSince):
		return NotModified
	}

	return Pass
}

func anyMatch(tags []Tag, current *Tag, wildcardMatches, strong bool) bool {
	for _, t := range tags {
		if t.IsWildcard() {
			if wildcardMatches {
				return true
			}
			continue
		}
		if current == nil {
			continue
		}
		if strong && t.StrongMatch(*current) {
			return true
		}
		if !strong && t.WeakMatch(*current) {
			return true
		}
	}
	return false
}
