package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cwbwt "github.com/cwbwt-go/cwbwt"
)

func TestBuildHuffmanAssignsShorterCodesToMoreFrequentSymbols(t *testing.T) {
	freq := make([]uint64, 4)
	freq[1] = 100
	freq[2] = 10
	freq[3] = 1

	h, err := BuildHuffman(freq)
	require.NoError(t, err)

	assert.LessOrEqual(t, h.Code(cwbwt.Symbol(1)).length, h.Code(cwbwt.Symbol(2)).length)
	assert.LessOrEqual(t, h.Code(cwbwt.Symbol(2)).length, h.Code(cwbwt.Symbol(3)).length)
}

func TestBuildHuffmanCodesArePrefixFree(t *testing.T) {
	freq := make([]uint64, 6)
	freq[1] = 5
	freq[2] = 9
	freq[3] = 12
	freq[4] = 13
	freq[5] = 16

	h, err := BuildHuffman(freq)
	require.NoError(t, err)

	var codes []huffmanCode
	for s := 1; s < 6; s++ {
		codes = append(codes, h.Code(cwbwt.Symbol(s)))
	}

	for i := range codes {
		for j := range codes {
			if i == j {
				continue
			}
			assert.False(t, isPrefixOf(codes[i], codes[j]), "code %d is a prefix of code %d", i, j)
		}
	}
}

func isPrefixOf(a, b huffmanCode) bool {
	if a.length >= b.length {
		return false
	}
	shift := uint(b.length - a.length)
	return (b.bits >> shift) == a.bits
}

func TestEntropyIsAtMostAverageCodeLength(t *testing.T) {
	freq := []uint64{0, 50, 30, 15, 5}

	h, err := BuildHuffman(freq)
	require.NoError(t, err)

	entropy := h.Entropy(freq)
	assert.LessOrEqual(t, empiricalEntropy0(freq, 100), entropy)
	assert.Greater(t, entropy, 0.0)
	assert.Less(t, entropy, 8.0)
}

func TestBuildHuffmanSingleSymbolStillProducesACode(t *testing.T) {
	freq := []uint64{0, 42}

	h, err := BuildHuffman(freq)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Code(cwbwt.Symbol(1)).length)
}
