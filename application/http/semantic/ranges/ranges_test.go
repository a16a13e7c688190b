package ranges

import (
	"testing"

	"message-adapter/application/http/semantic/token"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		expected []Spec
		wantErr  error
	}{
		{
			desc:     "closed, open and suffix ranges",
			input:    "bytes=0-499,1000-,-200",
			expected: []Spec{Between(0, 499), From(1000), Last(200)},
		},
		{
			desc:     "whitespace and unit case",
			input:    " Bytes = 0-0 , 5-9",
			expected: []Spec{Between(0, 0), Between(5, 9)},
		},
		{
			desc:     "invalid units are skipped",
			input:    "bytes=5-1, a-b, 10-20, -",
			expected: []Spec{Between(10, 20)},
			wantErr:  token.ErrMalformedHeader,
		},
		{
			desc:     "nothing valid",
			input:    "bytes=9-3,x",
			expected: []Spec{},
			wantErr:  ErrEmptyRangeSet,
		},
		{
			desc:     "unknown unit",
			input:    "pages=1-2",
			expected: []Spec{},
			wantErr:  ErrEmptyRangeSet,
		},
		{
			desc:     "no unit",
			input:    "0-10",
			expected: []Spec{},
			wantErr:  ErrEmptyRangeSet,
		},
		{
			desc:     "empty set",
			input:    "bytes=",
			expected: []Spec{},
			wantErr:  ErrEmptyRangeSet,
		},
		{
			desc:     "signs are not digits",
			input:    "bytes=+1-2",
			expected: []Spec{},
			wantErr:  ErrEmptyRangeSet,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			specs, err := Parse(tc.input)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expected, specs)
		})
	}
}

func TestParseIsPure(t *testing.T) {
	first, _ := Parse("bytes=0-499,1000-,-200")
	second, _ := Parse("bytes=0-499,1000-,-200")
	assert.Equal(t, first, second)
}

func TestSpecString(t *testing.T) {
	assert.Equal(t, "0-499", Between(0, 499).String())
	assert.Equal(t, "1000-", From(1000).String())
	assert.Equal(t, "-200", Last(200).String())
	assert.True(t, Last(200).IsSuffix())
	assert.False(t, From(1).IsSuffix())
}

func TestResolve(t *testing.T) {
	testcases := []struct {
		desc           string
		spec           Spec
		size           uint64
		offset, length uint64
		ok             bool
	}{
		{"closed", Between(0, 499), 1000, 0, 500, true},
		{"closed past the end", Between(900, 2000), 1000, 900, 100, true},
		{"open", From(1000), 1500, 1000, 500, true},
		{"open beyond size", From(1000), 1000, 0, 0, false},
		{"suffix", Last(200), 1000, 800, 200, true},
		{"suffix longer than size", Last(2000), 1000, 0, 1000, true},
		{"zero suffix", Last(0), 1000, 0, 0, false},
		{"empty representation", Last(10), 0, 0, 0, false},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			offset, length, ok := tc.spec.Resolve(tc.size)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.offset, offset)
			assert.Equal(t, tc.length, length)
		})
	}
}
