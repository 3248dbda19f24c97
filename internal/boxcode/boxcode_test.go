package boxcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  string
		expectErr bool
	}{
		{name: "plain code", raw: "GRN042", expected: "GRN042"},
		{name: "lower case normalized", raw: "grn-042", expected: "GRN-042"},
		{name: "surrounding whitespace trimmed", raw: "  box7 \n", expected: "BOX7"},
		{name: "multiple hyphen groups", raw: "a1-b2-c3", expected: "A1-B2-C3"},
		{name: "too short", raw: "ab", expectErr: true},
		{name: "too long", raw: "ABCDEFGHIJKLMNOPQ", expectErr: true},
		{name: "leading hyphen", raw: "-GRN042", expectErr: true},
		{name: "trailing hyphen", raw: "GRN042-", expectErr: true},
		{name: "inner whitespace", raw: "GRN 042", expectErr: true},
		{name: "symbols rejected", raw: "GRN_042", expectErr: true},
		{name: "empty", raw: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, err := Parse(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, code)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "GRN042", Normalize(" grn042 "))
}
