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

package cwbwt

// BuildOptions configures a cw-bwt build (spec.md §6: "options = { k:
// auto|explicit, verbose: bool, allocation: eager|on_demand }").
type BuildOptions struct {
	// KSelect chooses how the context length is picked.
	KSelect KSelection

	// K is used verbatim when KSelect == KExplicit.
	K uint

	// OverheadPercent is used when KSelect == KOverhead: the context
	// automaton targets roughly this percentage of n bits of footprint.
	OverheadPercent uint

	// Allocation picks eager vs on-demand leaf word storage for the
	// dynamic bitvectors backing each context's compressed string.
	Allocation Allocation

	// Verbose, when true, causes a stdout Listener to be registered by
	// the CLI (app/Kanzi.go's --verbose convention); the library itself
	// only ever emits Events, it never prints.
	Verbose bool

	// SkipTrailingNewline controls whether the backward byte source
	// discards the first byte it reads after rewind() — see spec.md §9's
	// open question about the original's "skip newline at end of file"
	// behavior. Defaults to false: no byte is ever silently dropped
	// unless the caller opts in.
	SkipTrailingNewline bool
}

// DefaultBuildOptions returns the default options: automatic k, on-demand
// allocation, no verbose output, no newline skipping.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		KSelect:         KAuto,
		OverheadPercent: 5,
		Allocation:      AllocationOnDemand,
	}
}
