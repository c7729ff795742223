package transform

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbwt-go/cwbwt/internal/reference"

	cwbwt "github.com/cwbwt-go/cwbwt"
)

func buildString(t *testing.T, text string, k int) []byte {
	t.Helper()

	opts := cwbwt.DefaultBuildOptions()
	opts.KSelect = cwbwt.KExplicit
	opts.K = uint(k)

	b, err := Build(strings.NewReader(text), int64(len(text)), opts)
	require.NoError(t, err)

	return drainBWT(t, b)
}

func drainBWT(t *testing.T, b *Builder) []byte {
	t.Helper()

	it := b.Iterator()
	out := make([]byte, 0, b.Size())
	for it.HasNext() {
		s, err := it.Next()
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func TestWorkedExampleBanana(t *testing.T) {
	got := buildString(t, "banana", 2)
	assert.Equal(t, []byte("annb\x00aa"), got)
}

func TestWorkedExampleMississippi(t *testing.T) {
	got := buildString(t, "mississippi", 2)
	assert.Equal(t, []byte("ipssm\x00pissii"), got)
}

func TestWorkedExampleRepeatedSymbol(t *testing.T) {
	got := buildString(t, "aaaa", 1)
	assert.Equal(t, []byte("aaaa\x00"), got)
}

func TestWorkedExampleAbracadabra(t *testing.T) {
	got := buildString(t, "abracadabra", 3)
	assert.Equal(t, []byte("ard\x00rcaaaabb"), got)
}

// maxTestK mirrors validateK's bound: the largest k with k < log2(n).
func maxTestK(text string) int {
	n := len(text)
	maxK := int(math.Ceil(math.Log2(float64(n)))) - 1
	if maxK < 1 {
		maxK = 1
	}
	return maxK
}

func TestMatchesReferenceBWTAcrossK(t *testing.T) {
	texts := []string{
		"banana", "mississippi", "abracadabra", "aaaa",
		"the quick brown fox jumps over the lazy dog",
		"abababababab",
	}

	for _, text := range texts {
		want := reference.BWT([]byte(text))

		for k := 1; k <= maxTestK(text); k++ {
			got := buildString(t, text, k)
			assert.Equal(t, want, got, "text=%q k=%d", text, k)
		}
	}
}

func TestOutputLengthAndSingleTerminator(t *testing.T) {
	text := "mississippi"
	got := buildString(t, text, 2)

	assert.Len(t, got, len(text)+1)

	zeros := 0
	for _, b := range got {
		if b == 0 {
			zeros++
		}
	}
	assert.Equal(t, 1, zeros)
}

func TestIteratorIsIdempotent(t *testing.T) {
	opts := cwbwt.DefaultBuildOptions()
	opts.KSelect = cwbwt.KExplicit
	opts.K = 2

	text := "mississippi"
	b, err := Build(strings.NewReader(text), int64(len(text)), opts)
	require.NoError(t, err)

	first := drainBWT(t, b)
	second := drainBWT(t, b)
	assert.Equal(t, first, second)
}

func TestSingleCharacterAlphabet(t *testing.T) {
	got := buildString(t, "aaaaaaaa", 1)
	want := reference.BWT([]byte("aaaaaaaa"))
	assert.Equal(t, want, got)
}

func TestMinimalValidInputForK(t *testing.T) {
	// k < log2(n) forces n >= 3 before k=1 is admissible at all, regardless
	// of alphabet size; "aaa" is the shortest input that admits k=1.
	text := "aaa"
	got := buildString(t, text, 1)
	want := reference.BWT([]byte(text))
	assert.Equal(t, want, got)
}

func TestZeroByteInInputIsInvalidInput(t *testing.T) {
	text := []byte{'a', 'b', 0, 'c'}
	opts := cwbwt.DefaultBuildOptions()

	_, err := Build(bytes.NewReader(text), int64(len(text)), opts)
	require.Error(t, err)

	be, ok := err.(*cwbwt.BuildError)
	require.True(t, ok)
	assert.Equal(t, cwbwt.InvalidInput, be.Kind)
}

func TestKTooLargeIsInvalidParameter(t *testing.T) {
	opts := cwbwt.DefaultBuildOptions()
	opts.KSelect = cwbwt.KExplicit
	opts.K = 3

	_, err := Build(strings.NewReader("ab"), 2, opts)
	require.Error(t, err)

	be, ok := err.(*cwbwt.BuildError)
	require.True(t, ok)
	assert.Equal(t, cwbwt.InvalidParameter, be.Kind)
}

func TestZeroKIsInvalidParameter(t *testing.T) {
	opts := cwbwt.DefaultBuildOptions()
	opts.KSelect = cwbwt.KExplicit
	opts.K = 0

	_, err := Build(strings.NewReader("banana"), 6, opts)
	require.Error(t, err)

	be, ok := err.(*cwbwt.BuildError)
	require.True(t, ok)
	assert.Equal(t, cwbwt.InvalidParameter, be.Kind)
}

func TestEmptyInputIsInvalidInput(t *testing.T) {
	opts := cwbwt.DefaultBuildOptions()
	_, err := Build(strings.NewReader(""), 0, opts)
	require.Error(t, err)

	be, ok := err.(*cwbwt.BuildError)
	require.True(t, ok)
	assert.Equal(t, cwbwt.InvalidInput, be.Kind)
}

func TestAutoKSelectionProducesCorrectBWT(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog, the quick brown fox runs away"
	opts := cwbwt.DefaultBuildOptions()

	b, err := Build(strings.NewReader(text), int64(len(text)), opts)
	require.NoError(t, err)

	got := drainBWT(t, b)
	want := reference.BWT([]byte(text))
	assert.Equal(t, want, got)
}

func TestOverheadKSelectionProducesCorrectBWT(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog, the quick brown fox runs away"
	opts := cwbwt.DefaultBuildOptions()
	opts.KSelect = cwbwt.KOverhead
	opts.OverheadPercent = 10

	b, err := Build(strings.NewReader(text), int64(len(text)), opts)
	require.NoError(t, err)

	got := drainBWT(t, b)
	want := reference.BWT([]byte(text))
	assert.Equal(t, want, got)
}

func TestEntropyOrderingHoldsAcrossContexts(t *testing.T) {
	opts := cwbwt.DefaultBuildOptions()
	opts.KSelect = cwbwt.KExplicit
	opts.K = 2

	text := "mississippi"
	b, err := Build(strings.NewReader(text), int64(len(text)), opts)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, b.ActualEntropy(), b.EmpiricalEntropy())
	assert.GreaterOrEqual(t, b.EmpiricalEntropy(), 0.0)
}

func TestStatsAndHistogramCoverEveryContext(t *testing.T) {
	opts := cwbwt.DefaultBuildOptions()
	opts.KSelect = cwbwt.KExplicit
	opts.K = 2

	text := "mississippi"
	b, err := Build(strings.NewReader(text), int64(len(text)), opts)
	require.NoError(t, err)

	stats := b.Stats()
	total := 0
	for _, s := range stats {
		total += s.Length
		assert.GreaterOrEqual(t, s.ActualEntropy, s.EmpiricalEntropy)
	}
	assert.Equal(t, len(text)+1, total)

	hist := b.ContextLengthHistogram(5)
	sum := 0
	for _, c := range hist {
		sum += c
	}
	assert.Equal(t, b.NumContexts(), sum)
}
