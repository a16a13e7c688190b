// Package httpdate reads and writes HTTP-date values.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.7
package httpdate

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrUnsupportedDate is reported for a date in none of the accepted formats.
var ErrUnsupportedDate = errors.New("unsupported date format")

const (
	// Preferred format: IMF-fixdate
	imfFixDateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"
	// Obsolete RFC 850 format
	rfc850DateFormat = time.RFC850
	// Obsolete asctime format
	asctimeDateFormat = time.ANSIC
)

var layouts = []string{time.RFC1123, rfc850DateFormat, asctimeDateFormat}

// Parse accepts the three formats a recipient must understand.
// Results are always in UTC.
func Parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, errors.Wrapf(ErrUnsupportedDate, "%q", raw)
}

// Format writes t as an IMF-fixdate.
func Format(t time.Time) string {
	return t.UTC().Format(imfFixDateFormat)
}
