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

// Package reference implements a brute-force sorted-rotation BWT, used only
// by tests as an independent cross-check of the cw-bwt engine's output
// (spec.md §8 sanctions exactly this: "Reference BWTs ... may be
// cross-checked with a brute-force sorted-rotation implementation").
//
// It is never used outside _test.go files: it holds the whole text plus an
// index for every rotation of T$ and sorts them with O(n)-time comparisons
// (O(n^2 log n) overall), which is precisely the space/time the engine
// under test is built to avoid.
package reference

import "sort"

// BWT returns BWT(text + "\x00") computed by sorting all rotations of the
// terminated text, the textbook definition the rest of this module is
// built to approximate without ever forming a rotation or a suffix array.
func BWT(text []byte) []byte {
	t := make([]byte, len(text)+1)
	copy(t, text)
	t[len(text)] = 0

	n := len(t)
	rotIdx := make([]int, n)
	for i := range rotIdx {
		rotIdx[i] = i
	}

	sort.Slice(rotIdx, func(a, b int) bool {
		return less(t, rotIdx[a], rotIdx[b])
	})

	out := make([]byte, n)
	for i, start := range rotIdx {
		out[i] = t[(start+n-1)%n]
	}
	return out
}

// less compares the rotations of t starting at a and at b.
func less(t []byte, a, b int) bool {
	n := len(t)
	for i := 0; i < n; i++ {
		ca := t[(a+i)%n]
		cb := t[(b+i)%n]
		if ca != cb {
			return ca < cb
		}
	}
	return false
}
