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

// Package transform implements the cw-bwt construction engine: alphabet
// remapping, the context automaton, the Huffman-shaped dynamic compressed
// string, and the two-pass builder that drives them.
package transform

import cwbwt "github.com/cwbwt-go/cwbwt"

// Alphabet maps the input's distinct bytes to dense codes 1..sigma-1,
// reserving code 0 for the text terminator (spec.md §4.2).
type Alphabet struct {
	encodeTable [256]cwbwt.Symbol // 0 means "absent"; valid codes are >= 1
	decodeTable []byte            // decodeTable[code] for code in [1, sigma)
	sigma       int
}

// NewAlphabet builds the remapping table from the set of distinct bytes
// present in the input. Returns InvalidInput if byte 0 occurs.
func NewAlphabet(present [256]bool) (*Alphabet, error) {
	if present[0] {
		return nil, cwbwt.NewError(cwbwt.InvalidInput, "input contains the reserved terminator byte 0x00")
	}

	a := &Alphabet{decodeTable: make([]byte, 1, 256)}
	a.decodeTable[0] = 0 // terminator, never produced by Encode

	code := cwbwt.Symbol(1)
	for b := 0; b < 256; b++ {
		if !present[b] {
			continue
		}
		a.encodeTable[b] = code
		a.decodeTable = append(a.decodeTable, byte(b))
		code++
	}

	a.sigma = int(code)
	return a, nil
}

// Sigma returns the alphabet size, including the terminator code 0.
func (a *Alphabet) Sigma() int { return a.sigma }

// Encode maps an original input byte to its dense code (always >= 1).
func (a *Alphabet) Encode(b byte) cwbwt.Symbol { return a.encodeTable[b] }

// Decode maps a dense code (including 0, the terminator) back to a byte.
func (a *Alphabet) Decode(code cwbwt.Symbol) byte { return a.decodeTable[code] }
