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
	"github.com/cwbwt-go/cwbwt/internal/bitvector"

	cwbwt "github.com/cwbwt-go/cwbwt"
)

// DynamicString is the per-context compressed string of spec.md §4.5: a
// sequence of symbols supporting Insert/Access/Rank, stored in space
// close to H0 bits/symbol. Three variants share this contract (spec.md §9
// represents the source's polymorphism as a tagged sum rather than
// virtual dispatch): empty, unary, and the general Huffman-shaped
// wavelet tree.
type DynamicString interface {
	// Insert places s at position i, 0 <= i <= Size().
	Insert(s cwbwt.Symbol, i int) error
	// Access returns the symbol at position i, 0 <= i < Size().
	Access(i int) cwbwt.Symbol
	// Rank returns the number of occurrences of s in positions [0, i).
	Rank(s cwbwt.Symbol, i int) int
	// Size returns the current length.
	Size() int
	// Entropy returns the bits/symbol the underlying coding achieves.
	Entropy() float64
}

// NewDynamicString builds the DynamicString variant appropriate for freq,
// a per-symbol occurrence count over the context's local alphabet;
// capacity, the maximum number of symbols this string will ever hold
// (spec.md §4.6's "Capacity N ... known per node at construction" — the
// builder passes the context's pass-1 occurrence count); and alloc, the
// caller's eager-vs-on-demand policy for the bitvectors backing the
// wavelet tree. The degenerate cases (spec.md §4.5) avoid building a
// Huffman tree, and so never touch a bitvector, at all.
func NewDynamicString(freq []uint64, capacity int, alloc cwbwt.Allocation) (DynamicString, error) {
	var nonZero int
	var onlySym cwbwt.Symbol
	var total uint64

	for s, f := range freq {
		if f == 0 {
			continue
		}
		nonZero++
		onlySym = cwbwt.Symbol(s)
		total += f
	}

	if total == 0 {
		return &emptyString{}, nil
	}

	if nonZero == 1 {
		return &unaryString{sym: onlySym}, nil
	}

	h, err := BuildHuffman(freq)
	if err != nil {
		return nil, err
	}

	// No context bitvector can ever hold more bits than the context's own
	// capacity: every symbol contributes at most one bit to each wavelet
	// node it passes through, so capacity bounds every node in the tree.
	return &waveletString{
		huffman: h,
		root:    buildWaveletNode(h.Root(), capacity, bvAlloc(alloc)),
		entropy: h.Entropy(freq),
	}, nil
}

// bvAlloc translates the public allocation policy to the bitvector
// package's own enum, keeping internal/bitvector free of a dependency on
// the root package.
func bvAlloc(a cwbwt.Allocation) bitvector.Allocation {
	if a == cwbwt.AllocationEager {
		return bitvector.Eager
	}
	return bitvector.OnDemand
}

// emptyString is the L=0 degenerate DynamicString: Access, Rank, Size and
// Entropy return zero, and Insert fails with InternalError, since a context
// with no pass-1 occurrences never receives a pass-2 insert.
type emptyString struct{}

func (e *emptyString) Insert(s cwbwt.Symbol, i int) error {
	return cwbwt.NewError(cwbwt.InternalError, "insert into a context with zero frequency budget")
}
func (e *emptyString) Access(i int) cwbwt.Symbol   { return 0 }
func (e *emptyString) Rank(s cwbwt.Symbol, i int) int { return 0 }
func (e *emptyString) Size() int                   { return 0 }
func (e *emptyString) Entropy() float64            { return 0 }

// unaryString is the single-nonzero-frequency degenerate DynamicString: it
// records only a length, since every inserted symbol is the same one
// (spec.md §4.5).
type unaryString struct {
	sym    cwbwt.Symbol
	length int
}

func (u *unaryString) Insert(s cwbwt.Symbol, i int) error {
	if s != u.sym {
		return cwbwt.NewError(cwbwt.InternalError, "unary dynamic string: symbol outside its fixed alphabet")
	}
	u.length++
	return nil
}

func (u *unaryString) Access(i int) cwbwt.Symbol { return u.sym }

func (u *unaryString) Rank(s cwbwt.Symbol, i int) int {
	if s != u.sym {
		return 0
	}
	return i
}

func (u *unaryString) Size() int        { return u.length }
func (u *unaryString) Entropy() float64 { return 0 }

// waveletNode is one internal node of the Huffman-shaped wavelet tree: a
// dynamic bitvector recording, for every symbol routed through this node
// so far, which branch (0 or 1) its codeword took at this depth.
type waveletNode struct {
	bv *bitvector.Bitvector

	child0, child1   *waveletNode
	isLeaf0, isLeaf1 bool
	leaf0, leaf1     cwbwt.Symbol
}

func buildWaveletNode(n *huffmanNode, capacity int, alloc bitvector.Allocation) *waveletNode {
	wn := &waveletNode{bv: bitvector.New(capacity, alloc)}

	if n.left.leaf {
		wn.isLeaf0 = true
		wn.leaf0 = n.left.sym
	} else {
		wn.child0 = buildWaveletNode(n.left, capacity, alloc)
	}

	if n.right.leaf {
		wn.isLeaf1 = true
		wn.leaf1 = n.right.sym
	} else {
		wn.child1 = buildWaveletNode(n.right, capacity, alloc)
	}

	return wn
}

// waveletString is the general-case DynamicString of spec.md §4.5/§4.6.
type waveletString struct {
	huffman *Huffman
	root    *waveletNode
	entropy float64
	size    int
}

func (w *waveletString) Insert(s cwbwt.Symbol, i int) error {
	code, ok := w.huffman.codes[s]
	if !ok {
		return cwbwt.NewError(cwbwt.InternalError, "wavelet string: symbol outside its context's Huffman alphabet")
	}

	node := w.root
	cur := i

	for pos := 0; pos < code.length; pos++ {
		bit := byte((code.bits >> uint(code.length-1-pos)) & 1)
		if err := node.bv.Insert(cur, bit); err != nil {
			return cwbwt.NewError(cwbwt.CapacityExceeded, "wavelet string: "+err.Error())
		}

		if bit == 0 {
			if node.isLeaf0 {
				break
			}
			cur = node.bv.Rank(cur, 0)
			node = node.child0
		} else {
			if node.isLeaf1 {
				break
			}
			cur = node.bv.Rank(cur, 1)
			node = node.child1
		}
	}

	w.size++
	return nil
}

func (w *waveletString) Access(i int) cwbwt.Symbol {
	node := w.root
	cur := i

	for {
		bit := node.bv.Access(cur)

		if bit == 0 {
			if node.isLeaf0 {
				return node.leaf0
			}
			cur = node.bv.Rank(cur, 0)
			node = node.child0
		} else {
			if node.isLeaf1 {
				return node.leaf1
			}
			cur = node.bv.Rank(cur, 1)
			node = node.child1
		}
	}
}

func (w *waveletString) Rank(s cwbwt.Symbol, i int) int {
	code, ok := w.huffman.codes[s]
	if !ok {
		return 0
	}

	node := w.root
	cur := i

	for pos := 0; pos < code.length; pos++ {
		bit := byte((code.bits >> uint(code.length-1-pos)) & 1)
		r := node.bv.Rank(cur, bit)

		if pos == code.length-1 {
			return r
		}

		cur = r
		if bit == 0 {
			node = node.child0
		} else {
			node = node.child1
		}
	}

	return cur
}

func (w *waveletString) Size() int        { return w.size }
func (w *waveletString) Entropy() float64 { return w.entropy }
