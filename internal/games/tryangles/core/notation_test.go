package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		text     string
		expected Point
		valid    bool
	}{
		{"A1", P(0, 0), true},
		{"C7", P(2, 6), true},
		{"c7", P(2, 6), true},
		{" Z20 ", P(25, 19), true},
		{"7C", Point{}, false},
		{"", Point{}, false},
		{"A", Point{}, false},
		{"A0", Point{}, false},
		{"A21", Point{}, false},
		{"Ax", Point{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			p, err := ParsePoint(tc.text)
			if !tc.valid {
				assert.ErrorIs(t, err, ErrBadNotation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, p)
		})
	}
}

func TestParseMove(t *testing.T) {
	s, err := ParseMove("A1-C3")
	require.NoError(t, err)
	assert.Equal(t, Seg(0, 0, 2, 2), s)

	s, err = ParseMove("j10-a1")
	require.NoError(t, err)
	assert.Equal(t, Seg(9, 9, 0, 0), s)

	for _, bad := range []string{"A1", "A1-", "-C3", "A1-C0", "A1 C3"} {
		_, err := ParseMove(bad)
		assert.ErrorIs(t, err, ErrBadNotation, "ParseMove(%q)", bad)
	}
}

func TestNotationString(t *testing.T) {
	assert.Equal(t, "C7", P(2, 6).String())
	assert.Equal(t, "A1-C3", Seg(0, 0, 2, 2).String())
	assert.Equal(t, "(-1,0)", P(-1, 0).String())

	for _, s := range []Segment{Seg(0, 0, 25, 19), Seg(3, 4, 1, 0)} {
		parsed, err := ParseMove(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}
