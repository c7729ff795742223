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
	"bytes"
	"sort"

	cwbwt "github.com/cwbwt-go/cwbwt"
)

// SymbolSource feeds remapped symbols to the context automaton's discovery
// scan, backward from the end of the text. It is satisfied by a
// BackwardReader wrapped with an Alphabet.
type SymbolSource interface {
	Read() (cwbwt.Symbol, error)
	IsBeginOfFile() bool
}

// ContextAutomaton enumerates the k-mers reachable by scanning the text
// backward and gives O(1) transitions between them (spec.md §4.3).
//
// Context windows here hold up to k symbols of T[p..p+k-1] (the suffix
// following a position), not the preceding k symbols the spec's prose
// describes — see SPEC_FULL.md's open-question resolution #4: go_to(s)
// prepends s to the window and drops its oldest (rightmost) entry, which
// is what makes state 0 (the rewind state, k terminators) sort first and
// produces a literal, verifiable BWT.
type ContextAutomaton struct {
	sigma int
	k     int

	// states[i] is the k-symbol window of state i, in ascending
	// lexicographic order; ascending id is ascending context by
	// construction (SPEC_FULL.md resolution #3).
	states [][]cwbwt.Symbol

	// transitions[state*sigma+s] is the next state id, or -1 if that
	// (state, s) pair never leads to a reachable state.
	transitions []int

	current int
}

// Discover runs the preliminary backward scan (spec.md §4.3) to enumerate
// every k-mer reachable in src, then assigns dense, lexicographically
// sorted state ids and precomputes every (state, symbol) transition.
func Discover(sigma, k int, src SymbolSource) (*ContextAutomaton, error) {
	window := make([]cwbwt.Symbol, k)

	seen := make(map[string]bool)
	var windows [][]cwbwt.Symbol

	record := func(w []cwbwt.Symbol) {
		key := string(w)
		if seen[key] {
			return
		}
		seen[key] = true
		cp := make([]cwbwt.Symbol, k)
		copy(cp, w)
		windows = append(windows, cp)
	}

	record(window)

	for !src.IsBeginOfFile() {
		s, err := src.Read()
		if err != nil {
			return nil, err
		}
		slideWindow(window, s)
		record(window)
	}

	sort.Slice(windows, func(i, j int) bool {
		return bytes.Compare(windows[i], windows[j]) < 0
	})

	ids := make(map[string]int, len(windows))
	for i, w := range windows {
		ids[string(w)] = i
	}

	ca := &ContextAutomaton{
		sigma:       sigma,
		k:           k,
		states:      windows,
		transitions: make([]int, len(windows)*sigma),
	}

	next := make([]cwbwt.Symbol, k)
	for state, w := range windows {
		for s := 0; s < sigma; s++ {
			copy(next, w)
			slideWindow(next, cwbwt.Symbol(s))
			if id, ok := ids[string(next)]; ok {
				ca.transitions[state*sigma+s] = id
			} else {
				ca.transitions[state*sigma+s] = -1
			}
		}
	}

	return ca, nil
}

// slideWindow prepends s to w and drops w's last (rightmost) entry, the
// go_to transition's effect on the k-symbol context window.
func slideWindow(w []cwbwt.Symbol, s cwbwt.Symbol) {
	copy(w[1:], w[:len(w)-1])
	w[0] = s
}

// NumStates returns the number of reachable context states.
func (ca *ContextAutomaton) NumStates() int { return len(ca.states) }

// AlphabetSize returns sigma, including the terminator code.
func (ca *ContextAutomaton) AlphabetSize() int { return ca.sigma }

// ContextLength returns k.
func (ca *ContextAutomaton) ContextLength() int { return ca.k }

// CurrentState returns the automaton's current state id.
func (ca *ContextAutomaton) CurrentState() int { return ca.current }

// Rewind resets the automaton to its initial state: the window of k
// terminators, the context of the last text position, where the backward
// scan starts. Lexicographically that window is always
// the smallest, so the initial state is always id 0.
func (ca *ContextAutomaton) Rewind() {
	ca.current = 0
}

// GoTo transitions on remapped symbol s. Fails with InternalError if the
// window that s leads to was never observed during discovery.
func (ca *ContextAutomaton) GoTo(s cwbwt.Symbol) error {
	next := ca.transitions[ca.current*ca.sigma+int(s)]
	if next < 0 {
		return cwbwt.NewError(cwbwt.InternalError, "context automaton: transition on uninitialized edge")
	}
	ca.current = next
	return nil
}
