package preference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegotiate(t *testing.T) {
	testcases := []struct {
		desc       string
		dimension  Dimension
		header     string
		producible []string
		expected   string
		ok         bool
	}{
		{
			desc:       "highest quality wins",
			dimension:  MediaType,
			header:     "text/html;q=0.8, text/*;q=0.5, */*;q=0.1",
			producible: []string{"application/json", "text/html"},
			expected:   "text/html",
			ok:         true,
		},
		{
			desc:       "wildcard covers what isn't listed",
			dimension:  MediaType,
			header:     "text/html;q=0.8, */*;q=0.1",
			producible: []string{"application/json"},
			expected:   "application/json",
			ok:         true,
		},
		{
			desc:       "zero quality excludes the only candidate",
			dimension:  MediaType,
			header:     "text/html;q=0",
			producible: []string{"text/html"},
			ok:         false,
		},
		{
			desc:       "specific exclusion beats a wildcard",
			dimension:  MediaType,
			header:     "text/html;q=0, */*",
			producible: []string{"text/html"},
			ok:         false,
		},
		{
			desc:       "most specific entry sets the weight",
			dimension:  MediaType,
			header:     "text/*;q=0.9, text/html;q=0.1, application/json;q=0.5",
			producible: []string{"text/html", "application/json"},
			expected:   "application/json",
			ok:         true,
		},
		{
			desc:       "no match at all",
			dimension:  MediaType,
			header:     "image/png",
			producible: []string{"text/html"},
			ok:         false,
		},
		{
			desc:       "equal weight prefers the more specific match",
			dimension:  MediaType,
			header:     "text/*, application/json",
			producible: []string{"text/plain", "application/json"},
			expected:   "application/json",
			ok:         true,
		},
		{
			desc:       "equal weight and specificity keeps server order",
			dimension:  Encoding,
			header:     "gzip, br",
			producible: []string{"br", "gzip"},
			expected:   "br",
			ok:         true,
		},
		{
			desc:       "media type parameters must be present",
			dimension:  MediaType,
			header:     "text/html;level=1, text/html;q=0.2",
			producible: []string{"text/html;level=1", "text/html;level=2"},
			expected:   "text/html;level=1",
			ok:         true,
		},
		{
			desc:       "language prefix matches",
			dimension:  Language,
			header:     "en;q=0.8, de",
			producible: []string{"en-GB", "fr"},
			expected:   "en-GB",
			ok:         true,
		},
		{
			desc:       "language prefix must end on a subtag",
			dimension:  Language,
			header:     "en",
			producible: []string{"eno"},
			ok:         false,
		},
		{
			desc:       "charset is case-insensitive",
			dimension:  Charset,
			header:     "utf-8",
			producible: []string{"UTF-8"},
			expected:   "UTF-8",
			ok:         true,
		},
		{
			desc:       "empty list accepts the first candidate",
			dimension:  Encoding,
			header:     "",
			producible: []string{"identity", "gzip"},
			expected:   "identity",
			ok:         true,
		},
		{
			desc:       "nothing producible",
			dimension:  Encoding,
			header:     "gzip",
			producible: nil,
			ok:         false,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			list, err := Parse(tc.dimension, tc.header)
			require.NoError(t, err)

			got, ok := list.Negotiate(tc.producible)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestQuality(t *testing.T) {
	list, err := Parse(MediaType, "text/html;q=0.8, text/*;q=0.5, */*;q=0.1")
	require.NoError(t, err)

	q, m, ok := list.Quality("text/plain")
	assert.True(t, ok)
	assert.Equal(t, 0.5, q)
	assert.Equal(t, "text/*", m.Entry.Value)
	assert.Equal(t, 1, m.Specificity)

	q, _, ok = list.Quality("text/html")
	assert.True(t, ok)
	assert.Equal(t, 0.8, q)

	assert.True(t, list.Accepts("image/png"))

	excluding, err := Parse(MediaType, "*/*;q=0")
	require.NoError(t, err)
	assert.False(t, excluding.Accepts("image/png"))
}
