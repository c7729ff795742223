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

// Package ioutil implements the chunked backward byte source the cw-bwt
// builder's pass 2 reads from (spec.md §4.1): a bounded-memory view of the
// text that serves bytes from T[n-1] down to T[0] without ever holding the
// whole text in RAM.
//
// Only O(log^2 n) bytes are buffered at a time and only O(n / log^2 n)
// seeks are issued over the life of a full backward scan, both bounds straight
// from BackwardFileReader's chunking scheme.
package ioutil

import (
	"io"
	"math"
	"os"
)

// BackwardReader serves the bytes of a fixed-length source back to front,
// one Read call at a time, buffering one chunk from src at a time.
type BackwardReader struct {
	src    io.ReaderAt
	closer io.Closer
	n      int64

	bufferSize int64
	buffer     []byte
	offset     int64 // file offset of buffer[0]
	ptr        int64 // index of the next byte to serve within buffer

	beginOfFile bool

	// skipTrailingNewline reproduces the original reader's behavior of
	// discarding the very first byte served after a rewind (see
	// spec.md §9's resolved open question); default false.
	skipTrailingNewline bool
}

// Open opens path and returns a BackwardReader over its contents.
func Open(path string, skipTrailingNewline bool) (*BackwardReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	r, err := NewFromReaderAt(f, fi.Size(), skipTrailingNewline)
	if err != nil {
		f.Close()
		return nil, err
	}

	r.closer = f
	return r, nil
}

// NewFromReaderAt wraps any io.ReaderAt of known length n as a backward
// byte source. Useful for in-memory buffers and tests.
func NewFromReaderAt(src io.ReaderAt, n int64, skipTrailingNewline bool) (*BackwardReader, error) {
	if n <= 0 {
		return nil, io.ErrUnexpectedEOF
	}

	bufSize := int64(math.Log2(float64(n+1)) * math.Log2(float64(n+1)))
	if bufSize < 1 {
		bufSize = 1
	}
	if bufSize > n {
		bufSize = n
	}

	r := &BackwardReader{
		src:                 src,
		n:                   n,
		bufferSize:          bufSize,
		skipTrailingNewline: skipTrailingNewline,
	}

	if err := r.Rewind(); err != nil {
		return nil, err
	}

	return r, nil
}

// Length returns the total number of bytes in the source.
func (r *BackwardReader) Length() int64 { return r.n }

// IsBeginOfFile reports whether the most recent Read served T[0], i.e.
// there are no more bytes left to read until the next Rewind.
func (r *BackwardReader) IsBeginOfFile() bool { return r.beginOfFile }

// Rewind repositions the reader at EOF, ready to serve T[n-1] on the next
// Read. Equivalent to constructing a fresh reader over the same source.
func (r *BackwardReader) Rewind() error {
	r.offset = (r.n / r.bufferSize) * r.bufferSize
	if r.offset == r.n {
		r.offset = r.n - r.bufferSize
	}

	size := r.n - r.offset
	buf := make([]byte, size)
	if err := readFullAt(r.src, buf, r.offset); err != nil {
		return err
	}

	r.buffer = buf
	r.beginOfFile = false
	r.ptr = size - 1

	if r.skipTrailingNewline {
		if _, err := r.Read(); err != nil {
			return err
		}
	}

	return nil
}

// Read returns the next byte, scanning from the end of the source towards
// the beginning. Callers must not call Read again once IsBeginOfFile
// reports true without calling Rewind first.
func (r *BackwardReader) Read() (byte, error) {
	s := r.buffer[r.ptr]

	if r.ptr == 0 {
		if r.offset == 0 {
			r.beginOfFile = true
			return s, nil
		}

		r.offset -= r.bufferSize
		buf := make([]byte, r.bufferSize)
		if err := readFullAt(r.src, buf, r.offset); err != nil {
			return 0, err
		}
		r.buffer = buf
		r.ptr = r.bufferSize - 1
	} else {
		r.ptr--
	}

	return s, nil
}

// Close releases the underlying file, if one was opened via Open.
func (r *BackwardReader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func readFullAt(src io.ReaderAt, buf []byte, offset int64) error {
	_, err := src.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return err
	}
	return nil
}
