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

// Package cwbwt defines the top level types shared by the cw-bwt
// construction engine and its sub-packages.
//
// The data structures that back the engine live in internal/counters and
// internal/bitvector. The engine itself (alphabet remapping, the context
// automaton, the Huffman-shaped dynamic string and the two-pass builder)
// lives in the transform package. A backward byte source lives in ioutil.
package cwbwt

// Symbol is a single byte of input, or its dense remapped code. Code 0 is
// always reserved for the text terminator.
type Symbol = byte

// Allocation selects how the dynamic bitvectors backing each context's
// wavelet tree reserve their leaf word storage.
type Allocation int

const (
	// AllocationOnDemand grows a leaf's word storage only as bits are
	// actually written into it, which keeps memory close to what is used
	// but pays more allocator traffic as leaves fill.
	AllocationOnDemand Allocation = iota

	// AllocationEager reserves every leaf's full word storage as soon as
	// the leaf is created, trading that allocator traffic for memory
	// committed up front.
	AllocationEager
)

// KSelection chooses how the builder picks the context length k.
type KSelection int

const (
	// KAuto picks the largest k such that sigma^k <= n / log^3(n), the
	// default described in spec.md §4.3.
	KAuto KSelection = iota

	// KOverhead picks k so the context automaton's footprint is
	// approximately a target percentage of n bits (the "overhead"
	// variant of spec.md §4.3).
	KOverhead

	// KExplicit uses the caller-supplied k verbatim.
	KExplicit
)
