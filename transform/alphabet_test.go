package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cwbwt "github.com/cwbwt-go/cwbwt"
)

func presentFrom(bs ...byte) [256]bool {
	var p [256]bool
	for _, b := range bs {
		p[b] = true
	}
	return p
}

func TestAlphabetRejectsTerminatorByte(t *testing.T) {
	_, err := NewAlphabet(presentFrom('a', 0, 'b'))
	require.Error(t, err)

	be, ok := err.(*cwbwt.BuildError)
	require.True(t, ok)
	assert.Equal(t, cwbwt.InvalidInput, be.Kind)
}

func TestAlphabetAssignsDenseAscendingCodes(t *testing.T) {
	a, err := NewAlphabet(presentFrom('c', 'a', 'b'))
	require.NoError(t, err)

	assert.Equal(t, 4, a.Sigma()) // terminator + 3 distinct bytes

	assert.Equal(t, cwbwt.Symbol(1), a.Encode('a'))
	assert.Equal(t, cwbwt.Symbol(2), a.Encode('b'))
	assert.Equal(t, cwbwt.Symbol(3), a.Encode('c'))
}

func TestAlphabetRoundTrips(t *testing.T) {
	a, err := NewAlphabet(presentFrom('x', 'y', 'z'))
	require.NoError(t, err)

	for _, b := range []byte{'x', 'y', 'z'} {
		assert.Equal(t, b, a.Decode(a.Encode(b)))
	}
	assert.Equal(t, byte(0), a.Decode(0))
}
