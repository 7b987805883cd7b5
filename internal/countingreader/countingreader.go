/*
 * Copyright 2021 National Library of Norway.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *       http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package countingreader tracks the position of a reader in its underlying stream.
package countingreader

import (
	"io"
)

// Reader counts the bytes read through it, starting from a base position.
type Reader struct {
	src  io.Reader
	base int64
	n    int64
}

// New returns a Reader positioned at base.
func New(r io.Reader, base int64) *Reader {
	return &Reader{src: r, base: base}
}

func (r *Reader) Read(p []byte) (n int, err error) {
	n, err = r.src.Read(p)
	r.n += int64(n)
	return
}

// Reset moves the position to base, for use after the underlying stream is repositioned.
func (r *Reader) Reset(base int64) {
	r.base = base
	r.n = 0
}

// N is the number of bytes read since the last reset.
func (r *Reader) N() int64 {
	return r.n
}

// Offset is the position in the underlying stream.
func (r *Reader) Offset() int64 {
	return r.base + r.n
}
