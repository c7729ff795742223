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

import "fmt"

// ErrorKind classifies a BuildError per spec.md §7.
type ErrorKind int

const (
	// InvalidInput: input contains byte 0, is empty, or is not longer than k.
	InvalidInput ErrorKind = iota
	// InvalidParameter: k <= 0 or k >= log2(n).
	InvalidParameter
	// CapacityExceeded: a context's dynamic bitvector would exceed the
	// capacity it was sized with at construction (its context's pass-1
	// occurrence count).
	CapacityExceeded
	// InternalError: an invariant was violated (uninitialized automaton edge,
	// Huffman codeword too long, ...). Indicates a bug, not bad input.
	InternalError
	// IoError: file open/read/write failure.
	IoError
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case InvalidParameter:
		return "InvalidParameter"
	case CapacityExceeded:
		return "CapacityExceeded"
	case InternalError:
		return "InternalError"
	case IoError:
		return "IoError"
	default:
		return "Unknown"
	}
}

// BuildError is the single error type surfaced by the core. No error is
// ever discarded or retried internally; every failure propagates to the
// caller wrapped in one of these.
type BuildError struct {
	Kind ErrorKind
	Msg  string
	// Pos and Param carry the offending byte position or parameter value
	// when relevant; both are -1 when not applicable.
	Pos   int64
	Param int64
}

func (e *BuildError) Error() string {
	switch {
	case e.Pos >= 0:
		return fmt.Sprintf("%s: %s (position %d)", e.Kind, e.Msg, e.Pos)
	case e.Param >= 0:
		return fmt.Sprintf("%s: %s (value %d)", e.Kind, e.Msg, e.Param)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
}

// NewError builds a BuildError with no offending position/parameter attached.
func NewError(kind ErrorKind, msg string) *BuildError {
	return &BuildError{Kind: kind, Msg: msg, Pos: -1, Param: -1}
}

// NewErrorAt builds a BuildError that names the offending byte position.
func NewErrorAt(kind ErrorKind, msg string, pos int64) *BuildError {
	return &BuildError{Kind: kind, Msg: msg, Pos: pos, Param: -1}
}

// NewErrorParam builds a BuildError that names the offending parameter value.
func NewErrorParam(kind ErrorKind, msg string, param int64) *BuildError {
	return &BuildError{Kind: kind, Msg: msg, Pos: -1, Param: param}
}
