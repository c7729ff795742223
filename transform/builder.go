/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package transform

import (
	"io"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/cwbwt-go/cwbwt/internal/counters"
	"github.com/cwbwt-go/cwbwt/ioutil"

	cwbwt "github.com/cwbwt-go/cwbwt"
)

// symbolSource adapts a BackwardReader (raw bytes) plus an Alphabet
// (byte -> dense code) into the ContextAutomaton's SymbolSource contract.
type symbolSource struct {
	br *ioutil.BackwardReader
	al *Alphabet
}

func (s *symbolSource) Read() (cwbwt.Symbol, error) {
	b, err := s.br.Read()
	if err != nil {
		return 0, err
	}
	return s.al.Encode(b), nil
}

func (s *symbolSource) IsBeginOfFile() bool { return s.br.IsBeginOfFile() }

// ContextStat reports one context's size and entropy, a supplemented
// statistic surfaced by the CLI's --verbose output (SPEC_FULL.md
// SUPPLEMENTED FEATURES: mirrors cw_bwt.h's per-context entropy loop).
type ContextStat struct {
	Length           int
	EmpiricalEntropy float64
	ActualEntropy    float64
}

// Builder runs the two-pass cw-bwt construction (spec.md §4.7) over a
// fixed-length byte source and holds the finished per-context structures
// until an Iterator walks them.
type Builder struct {
	opts      cwbwt.BuildOptions
	listeners []cwbwt.Listener

	n     int64
	k     int
	sigma int

	alphabet  *Alphabet
	automaton *ContextAutomaton

	counters []*counters.CumulativeCounters
	dyn      []DynamicString
	lastCtx  int

	contextLen    []int
	entropyH0     []float64
	entropyActual []float64
	hk            float64
	bitsPerSymbol float64
	peakBytes     uint64
}

// BuildFromFile opens path and runs the full build. Convenience wrapper
// around Build for the CLI.
func BuildFromFile(path string, opts cwbwt.BuildOptions, listeners ...cwbwt.Listener) (*Builder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cwbwt.NewError(cwbwt.IoError, err.Error())
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, cwbwt.NewError(cwbwt.IoError, err.Error())
	}

	return Build(f, fi.Size(), opts, listeners...)
}

// Build runs the full build over src, a fixed-length random-access byte
// source (spec.md §2's pipeline A through G).
func Build(src io.ReaderAt, n int64, opts cwbwt.BuildOptions, listeners ...cwbwt.Listener) (*Builder, error) {
	if n <= 0 {
		return nil, cwbwt.NewError(cwbwt.InvalidInput, "input is empty")
	}

	b := &Builder{opts: opts, listeners: listeners, n: n}

	present, err := scanAlphabet(src, n)
	if err != nil {
		return nil, err
	}

	b.alphabet, err = NewAlphabet(present)
	if err != nil {
		return nil, err
	}
	b.sigma = b.alphabet.Sigma()

	k, err := b.selectK(src)
	if err != nil {
		return nil, err
	}
	b.k = k

	if int64(k) >= n {
		return nil, cwbwt.NewErrorParam(cwbwt.InvalidInput, "input must be longer than the context length k", int64(k))
	}

	br, err := ioutil.NewFromReaderAt(src, n, opts.SkipTrailingNewline)
	if err != nil {
		return nil, cwbwt.NewError(cwbwt.IoError, err.Error())
	}
	defer br.Close()

	ss := &symbolSource{br: br, al: b.alphabet}

	automaton, err := Discover(b.sigma, k, ss)
	if err != nil {
		return nil, err
	}
	b.automaton = automaton

	b.emit(cwbwt.NewEventFromString(cwbwt.EVT_PASS1_START, "", time.Time{}))

	if err := br.Rewind(); err != nil {
		return nil, cwbwt.NewError(cwbwt.IoError, err.Error())
	}
	if err := b.pass1(ss); err != nil {
		return nil, err
	}

	b.emit(cwbwt.NewEventFromString(cwbwt.EVT_PASS1_END, "", time.Time{}))
	b.emit(cwbwt.NewEventFromString(cwbwt.EVT_STRUCT_BUILD, "", time.Time{}))

	if err := br.Rewind(); err != nil {
		return nil, cwbwt.NewError(cwbwt.IoError, err.Error())
	}
	b.emit(cwbwt.NewEventFromString(cwbwt.EVT_PASS2_START, "", time.Time{}))

	if err := b.pass2(ss); err != nil {
		return nil, err
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	b.peakBytes = ms.Sys

	b.emit(cwbwt.NewProgressEvent(cwbwt.EVT_BUILD_END, 100, int64(b.peakBytes), time.Time{}))

	return b, nil
}

func (b *Builder) emit(evt *cwbwt.Event) {
	if !b.opts.Verbose {
		return
	}
	for _, l := range b.listeners {
		l.ProcessEvent(evt)
	}
}

// scanAlphabet records the set of distinct bytes present in src (spec.md
// §4.2). byte 0 is tracked too, purely so NewAlphabet can reject it.
func scanAlphabet(src io.ReaderAt, n int64) ([256]bool, error) {
	var present [256]bool

	br, err := ioutil.NewFromReaderAt(src, n, false)
	if err != nil {
		return present, cwbwt.NewError(cwbwt.IoError, err.Error())
	}
	defer br.Close()

	for !br.IsBeginOfFile() {
		b, err := br.Read()
		if err != nil {
			return present, cwbwt.NewError(cwbwt.IoError, err.Error())
		}
		present[b] = true
	}

	return present, nil
}

// selectK picks the context length according to opts.KSelect (spec.md
// §4.3).
func (b *Builder) selectK(src io.ReaderAt) (int, error) {
	switch b.opts.KSelect {
	case cwbwt.KExplicit:
		k := int(b.opts.K)
		if err := validateK(k, b.n); err != nil {
			return 0, err
		}
		return k, nil
	case cwbwt.KOverhead:
		return b.selectKByOverhead(src)
	default:
		return b.selectKAuto(), nil
	}
}

// validateK enforces spec.md §7's InvalidParameter rule: k <= 0 or
// k >= log2(n). This is checked before (and so takes priority over) the
// n <= k InvalidInput rule — the original source (cw_bwt.h) tests n<=k
// first, but a valid k always satisfies k < log2(n) <= n, which makes
// n<=k unreachable once this passes; see spec.md §8's boundary case 6
// (n=2, k=3), which the distillation classifies as InvalidParameter even
// though n<=k also holds.
func validateK(k int, n int64) error {
	if k <= 0 {
		return cwbwt.NewErrorParam(cwbwt.InvalidParameter, "context length k must be positive", int64(k))
	}

	log2N := math.Log2(float64(n))
	if float64(k) >= log2N {
		return cwbwt.NewErrorParam(cwbwt.InvalidParameter, "context length k must be < log2(n)", int64(k))
	}

	return nil
}

// maxValidK returns the largest k that satisfies k < log2(n).
func maxValidK(n int64) int {
	maxK := int(math.Ceil(math.Log2(float64(n)))) - 1
	if maxK < 1 {
		maxK = 1
	}
	return maxK
}

// selectKAuto picks the largest k with sigma^k <= n/log^3(n) (spec.md
// §4.3's default), clamped below log2(n) so it never comes back
// InvalidParameter.
func (b *Builder) selectKAuto() int {
	logN := math.Log2(float64(b.n))
	if logN < 1 {
		logN = 1
	}
	bound := float64(b.n) / (logN * logN * logN)

	k := 1
	pow := float64(b.sigma)
	for pow*float64(b.sigma) <= bound {
		pow *= float64(b.sigma)
		k++
	}

	if maxK := maxValidK(b.n); k >= maxK {
		k = maxK
	}
	if k < 1 {
		k = 1
	}

	return k
}

// selectKByOverhead picks the largest k whose discovered automaton stays
// within opts.OverheadPercent of n bits. This runs one full discovery
// scan per candidate k, bounded to 20 candidates.
func (b *Builder) selectKByOverhead(src io.ReaderAt) (int, error) {
	maxK := maxValidK(b.n)
	if maxK > 20 {
		maxK = 20
	}

	targetBits := float64(b.n) * float64(b.opts.OverheadPercent) / 100.0
	best := 1

	for k := 1; k <= maxK; k++ {
		br, err := ioutil.NewFromReaderAt(src, b.n, b.opts.SkipTrailingNewline)
		if err != nil {
			return 0, cwbwt.NewError(cwbwt.IoError, err.Error())
		}

		ss := &symbolSource{br: br, al: b.alphabet}
		automaton, err := Discover(b.sigma, k, ss)
		br.Close()
		if err != nil {
			return 0, err
		}

		bitsPerState := math.Log2(float64(automaton.NumStates()) + 1)
		footprint := float64(automaton.NumStates()) * float64(b.sigma) * bitsPerState

		if footprint > targetBits {
			break
		}
		best = k
	}

	return best, nil
}

// pass1 performs the frequency-counting backward scan (spec.md §4.7 pass 1).
func (b *Builder) pass1(ss *symbolSource) error {
	b.automaton.Rewind()

	numStates := b.automaton.NumStates()
	length := make([]int, numStates)
	freq := make([][]uint64, numStates)
	for i := range freq {
		freq[i] = make([]uint64, b.sigma)
	}

	for !ss.IsBeginOfFile() {
		s, err := ss.Read()
		if err != nil {
			return cwbwt.NewError(cwbwt.IoError, err.Error())
		}

		ctx := b.automaton.CurrentState()
		length[ctx]++
		freq[ctx][s]++

		if err := b.automaton.GoTo(s); err != nil {
			return err
		}
	}

	lastCtx := b.automaton.CurrentState()
	length[lastCtx]++
	freq[lastCtx][0]++
	b.lastCtx = lastCtx

	b.counters = make([]*counters.CumulativeCounters, numStates)
	b.dyn = make([]DynamicString, numStates)
	b.entropyH0 = make([]float64, numStates)
	b.entropyActual = make([]float64, numStates)

	for c := 0; c < numStates; c++ {
		b.counters[c] = counters.New(b.sigma, uint64(length[c]))

		ds, err := NewDynamicString(freq[c], length[c], b.opts.Allocation)
		if err != nil {
			return err
		}
		b.dyn[c] = ds

		b.entropyH0[c] = empiricalEntropy0(freq[c], length[c])
		b.entropyActual[c] = ds.Entropy()
	}

	// No context gets SetBaseCounter: with contexts built from the symbols
	// following a position, every row except the terminator row is counted
	// by its context's Increment in pass 2, and the terminator row is alone
	// in state 0, which pass 2 never enters as newCtx.
	b.contextLen = length

	for c := 0; c < numStates; c++ {
		if length[c] == 0 {
			continue
		}
		w := float64(length[c]) / float64(b.n)
		b.hk += w * b.entropyH0[c]
		b.bitsPerSymbol += w * b.entropyActual[c]
	}

	return nil
}

func empiricalEntropy0(freq []uint64, length int) float64 {
	if length == 0 {
		return 0
	}
	var h float64
	for _, f := range freq {
		if f == 0 {
			continue
		}
		p := float64(f) / float64(length)
		h += -p * math.Log2(p)
	}
	return h
}

// pass2 performs the incremental insertion backward scan (spec.md §4.7
// pass 2), the cw-bwt algorithm itself.
func (b *Builder) pass2(ss *symbolSource) error {
	b.automaton.Rewind()

	ctxChars := make([]cwbwt.Symbol, b.k)
	termCtx := b.automaton.CurrentState()
	termPos := 0
	p := b.n - 1

	for !ss.IsBeginOfFile() {
		head, err := ss.Read()
		if err != nil {
			return cwbwt.NewError(cwbwt.IoError, err.Error())
		}

		idx := int(p % int64(b.k))
		tail := ctxChars[idx]
		ctxChars[idx] = head

		if err := b.automaton.GoTo(head); err != nil {
			return err
		}
		newCtx := b.automaton.CurrentState()

		b.counters[newCtx].Increment(int(tail))
		newPos := int(b.counters[newCtx].Prefix(int(tail))) + b.dyn[termCtx].Rank(head, termPos)

		if err := b.dyn[termCtx].Insert(head, termPos); err != nil {
			return err
		}

		termCtx = newCtx
		termPos = newPos
		p--
	}

	return b.dyn[termCtx].Insert(0, termPos)
}

// Size returns n+1, the length of the finished BWT.
func (b *Builder) Size() int64 { return b.n + 1 }

// EmpiricalEntropy returns the k-th order empirical entropy of the input.
func (b *Builder) EmpiricalEntropy() float64 { return b.hk }

// ActualEntropy returns the bits/symbol the per-context Huffman coding
// achieves; always >= EmpiricalEntropy.
func (b *Builder) ActualEntropy() float64 { return b.bitsPerSymbol }

// ContextLength returns k.
func (b *Builder) ContextLength() int { return b.k }

// NumContexts returns the number of reachable context states.
func (b *Builder) NumContexts() int { return b.automaton.NumStates() }

// Stats returns per-context length and entropy, a supplemented feature
// (SPEC_FULL.md SUPPLEMENTED FEATURES) mirroring cw_bwt.h's per-context
// entropy loop.
func (b *Builder) Stats() []ContextStat {
	out := make([]ContextStat, len(b.dyn))
	for c := range out {
		out[c] = ContextStat{
			Length:           b.contextLen[c],
			EmpiricalEntropy: b.entropyH0[c],
			ActualEntropy:    b.entropyActual[c],
		}
	}
	return out
}

// PeakBytes returns the process's peak system memory usage observed at
// the end of the build, a supplemented feature standing in for the
// source's getRSS() (SPEC_FULL.md SUPPLEMENTED FEATURES).
func (b *Builder) PeakBytes() uint64 { return b.peakBytes }

// ContextLengthHistogram buckets context lengths into `buckets` equal-
// width bins plus an overflow bin, a supplemented feature mirroring
// cw_bwt.h's initStructures() console histogram.
func (b *Builder) ContextLengthHistogram(buckets int) []int {
	if buckets <= 0 {
		buckets = 20
	}

	hist := make([]int, buckets+1)

	maxLen := 0
	for _, l := range b.contextLen {
		if l > maxLen {
			maxLen = l
		}
	}
	if maxLen == 0 {
		return hist
	}

	step := maxLen / buckets
	if step == 0 {
		step = 1
	}

	for _, l := range b.contextLen {
		idx := l / step
		if idx > buckets {
			idx = buckets
		}
		hist[idx]++
	}

	return hist
}

// Iterator streams the finished BWT, one decoded byte at a time (spec.md
// §4.8).
type Iterator struct {
	b   *Builder
	ctx int
	i   int
	pos int64
	n   int64
}

// Iterator returns a fresh streaming view of the finished BWT. Calling it
// more than once yields identical sequences (spec.md §8's idempotence
// property).
func (b *Builder) Iterator() *Iterator {
	it := &Iterator{b: b, n: b.n + 1}
	it.skipEmpty()
	return it
}

func (it *Iterator) skipEmpty() {
	for it.ctx < len(it.b.dyn) && it.b.dyn[it.ctx].Size() == 0 {
		it.ctx++
	}
}

// HasNext reports whether Next has more bytes to yield.
func (it *Iterator) HasNext() bool { return it.pos < it.n }

// Next returns the next decoded byte of the BWT.
func (it *Iterator) Next() (byte, error) {
	if !it.HasNext() {
		return 0, cwbwt.NewError(cwbwt.InternalError, "iterator exhausted")
	}

	code := it.b.dyn[it.ctx].Access(it.i)
	it.i++

	if it.i >= it.b.dyn[it.ctx].Size() {
		it.ctx++
		it.skipEmpty()
		it.i = 0
	}

	it.pos++
	return it.b.alphabet.Decode(code), nil
}
