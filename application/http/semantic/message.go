package semantic

import (
	"io"
	iolib "message-adapter/lib/io"
	"strconv"

	"github.com/pkg/errors"
)

// Entity is the body of a message together with its representation metadata.
type Entity struct {
	Body io.ReadCloser

	// Length is nil when the message did not declare one.
	Length    *uint
	MediaType string
}

func entityFrom(h Headers, body io.ReadCloser) (Entity, error) {
	entity := Entity{Body: body}
	if v, ok := h.Get("Content-Type"); ok {
		entity.MediaType = v
	}

	var err error
	entity.Length, err = extractContentLength(h)
	if err != nil {
		return entity, errors.Wrap(err, "extracting content length")
	}

	// Transfer codings decide the length on their own.
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-6.3
	if _, chunked := h.Get("Transfer-Encoding"); !chunked && entity.Length != nil {
		// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-8.6
		entity.Body = iolib.LimitReadCloser(entity.Body, *entity.Length)
	}

	return entity, nil
}

// extractContentLength extracts content length from headers.
func extractContentLength(h Headers) (*uint, error) {
	v, ok := h.Get("Content-Length")
	if !ok {
		return nil, nil
	}

	// Any value greater than or equal to 0 is valid.
	// But let's restrict it to 64bit uint.
	// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-8.6-10
	len64, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse Content-Length")
	}

	l := uint(len64)
	return &l, nil
}
