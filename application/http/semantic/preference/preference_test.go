package preference

import (
	"testing"

	"message-adapter/application/http/semantic/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testcases := []struct {
		desc      string
		dimension Dimension
		input     string
		expected  []Entry
		wantErr   error
	}{
		{
			desc:      "ordered by quality",
			dimension: MediaType,
			input:     "*/*;q=0.1, text/*;q=0.5, text/html;q=0.8",
			expected: []Entry{
				{Value: "text/html", Quality: 0.8},
				{Value: "text/*", Quality: 0.5},
				{Value: "*/*", Quality: 0.1},
			},
		},
		{
			desc:      "equal quality ordered by specificity",
			dimension: MediaType,
			input:     "*/*, text/*, text/plain, text/plain;format=flowed",
			expected: []Entry{
				{Value: "text/plain", Quality: 1, Params: []token.Param{{Name: "format", Value: "flowed"}}},
				{Value: "text/plain", Quality: 1},
				{Value: "text/*", Quality: 1},
				{Value: "*/*", Quality: 1},
			},
		},
		{
			desc:      "missing quality defaults to one",
			dimension: Encoding,
			input:     "gzip, br;q=0.5",
			expected: []Entry{
				{Value: "gzip", Quality: 1},
				{Value: "br", Quality: 0.5},
			},
		},
		{
			desc:      "quality is clamped",
			dimension: Charset,
			input:     "utf-8;q=7, iso-8859-1;q=-1",
			expected: []Entry{
				{Value: "utf-8", Quality: 1},
				{Value: "iso-8859-1", Quality: 0},
			},
		},
		{
			desc:      "malformed quality drops only its entry",
			dimension: MediaType,
			input:     "text/html;q=abc, text/plain;q=0.9",
			expected: []Entry{
				{Value: "text/plain", Quality: 0.9},
			},
			wantErr: ErrInvalidQuality,
		},
		{
			desc:      "accept extensions after the weight are dropped",
			dimension: MediaType,
			input:     "text/html;level=1;q=0.4;ext=1",
			expected: []Entry{
				{Value: "text/html", Quality: 0.4, Params: []token.Param{{Name: "level", Value: "1"}}},
			},
		},
		{
			desc:      "values are lowercased",
			dimension: Charset,
			input:     "UTF-8",
			expected: []Entry{
				{Value: "utf-8", Quality: 1},
			},
		},
		{
			desc:      "language tags are canonicalised",
			dimension: Language,
			input:     "EN-us;q=0.7, fr, *;q=0.1",
			expected: []Entry{
				{Value: "fr", Quality: 1},
				{Value: "en-US", Quality: 0.7},
				{Value: "*", Quality: 0.1},
			},
		},
		{
			desc:      "broken grammar keeps earlier entries",
			dimension: MediaType,
			input:     `text/html, text/plain;x="oops`,
			expected: []Entry{
				{Value: "text/html", Quality: 1},
			},
			wantErr: token.ErrMalformedHeader,
		},
		{
			desc:      "empty header",
			dimension: Language,
			input:     "",
			expected:  []Entry{},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			list, err := Parse(tc.dimension, tc.input)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.dimension, list.Dimension)
			assert.Equal(t, tc.expected, list.Entries)
		})
	}
}

func TestParseIsPure(t *testing.T) {
	const raw = "text/html;q=0.8, text/*;q=0.5, */*;q=0.1"

	first, err := Parse(MediaType, raw)
	require.NoError(t, err)
	second, err := Parse(MediaType, raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDimensionHeader(t *testing.T) {
	assert.Equal(t, "Accept", MediaType.Header())
	assert.Equal(t, "Accept-Charset", Charset.Header())
	assert.Equal(t, "Accept-Encoding", Encoding.Header())
	assert.Equal(t, "Accept-Language", Language.Header())
	assert.Equal(t, "language", Language.String())
	assert.Len(t, Dimensions(), 4)
}
