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
	"container/heap"

	cwbwt "github.com/cwbwt-go/cwbwt"
)

// huffmanCode is a codeword: the low length bits of bits, read MSB-first.
type huffmanCode struct {
	bits   uint64
	length int
}

// Huffman is a canonical Huffman tree built over one context's per-symbol
// frequency vector (spec.md §4.9). Ties in the construction's priority
// queue are broken by insertion order, matching the multiset<Node> the
// tree this is grounded on uses.
type Huffman struct {
	codes  map[cwbwt.Symbol]huffmanCode
	leaves int // number of symbols with frequency > 0
	root   *huffmanNode
}

type huffmanNode struct {
	freq  uint64
	seq   int // tie-break: order this node entered the queue
	leaf  bool
	sym   cwbwt.Symbol
	left  *huffmanNode
	right *huffmanNode
}

// huffmanQueue is a min-heap ordered by (freq, seq).
type huffmanQueue []*huffmanNode

func (q huffmanQueue) Len() int { return len(q) }
func (q huffmanQueue) Less(i, j int) bool {
	if q[i].freq != q[j].freq {
		return q[i].freq < q[j].freq
	}
	return q[i].seq < q[j].seq
}
func (q huffmanQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *huffmanQueue) Push(x any)        { *q = append(*q, x.(*huffmanNode)) }
func (q *huffmanQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// maxCodewordBits is the largest codeword length this module accepts; a
// codeword must fit in a machine word minus one bit (spec.md §4.9).
const maxCodewordBits = 63

// BuildHuffman builds the canonical Huffman tree over freq, a per-symbol
// occurrence count indexed by dense code. Every s with freq[s] > 0 gets a
// codeword. Fails with InternalError if a codeword would need more than
// maxCodewordBits bits.
func BuildHuffman(freq []uint64) (*Huffman, error) {
	q := make(huffmanQueue, 0, len(freq))
	seq := 0

	for s, f := range freq {
		if f == 0 {
			continue
		}
		q = append(q, &huffmanNode{freq: f, seq: seq, leaf: true, sym: cwbwt.Symbol(s)})
		seq++
	}

	h := &Huffman{codes: make(map[cwbwt.Symbol]huffmanCode, len(q)), leaves: len(q)}

	if len(q) == 0 {
		return h, nil
	}

	if len(q) == 1 {
		// The caller is expected to special-case the single-symbol
		// context as the unary DynamicString variant (spec.md §4.5);
		// BuildHuffman still hands back a trivial one-bit code so
		// callers that do reach this path (e.g. direct tests of this
		// package) get a well-formed tree.
		h.codes[q[0].sym] = huffmanCode{bits: 0, length: 1}
		return h, nil
	}

	heap.Init(&q)

	for q.Len() > 1 {
		a := heap.Pop(&q).(*huffmanNode)
		b := heap.Pop(&q).(*huffmanNode)
		parent := &huffmanNode{freq: a.freq + b.freq, seq: seq, left: a, right: b}
		seq++
		heap.Push(&q, parent)
	}

	root := q[0]
	h.root = root

	if err := h.storeTree(root, 0, 0); err != nil {
		return nil, err
	}

	return h, nil
}

// Root returns the internal Huffman tree root, for wavelet tree
// construction. Only valid when Huffman was built over 2 or more symbols.
func (h *Huffman) Root() *huffmanNode { return h.root }

func (h *Huffman) storeTree(n *huffmanNode, bits uint64, length int) error {
	if length > maxCodewordBits {
		return cwbwt.NewError(cwbwt.InternalError, "huffman codeword exceeds machine word capacity")
	}

	if n.leaf {
		h.codes[n.sym] = huffmanCode{bits: bits, length: length}
		return nil
	}

	if err := h.storeTree(n.left, bits<<1, length+1); err != nil {
		return err
	}
	return h.storeTree(n.right, (bits<<1)|1, length+1)
}

// Code returns the codeword for s. Callers must only ask for symbols that
// had nonzero frequency.
func (h *Huffman) Code(s cwbwt.Symbol) huffmanCode { return h.codes[s] }

// Entropy returns the bits-per-symbol this Huffman tree achieves over the
// frequency distribution it was built from.
func (h *Huffman) Entropy(freq []uint64) float64 {
	var total uint64
	for _, f := range freq {
		total += f
	}
	if total == 0 {
		return 0
	}

	var bits float64
	for s, f := range freq {
		if f == 0 {
			continue
		}
		bits += float64(f) * float64(h.codes[cwbwt.Symbol(s)].length)
	}
	return bits / float64(total)
}
