// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package codec serializes benchmark payloads into wire records: a 4-byte
// big-endian length prefix followed by exactly that many payload bytes.
// Wire records are the values stored in the benchmarked maps.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the length prefix size in bytes.
const HeaderSize = 4

// DefaultSizeHint is the initial scratch capacity used by Encoder. It covers
// the default maximum payload (2000 bytes) plus header with room to spare.
const DefaultSizeHint = 2100

// ErrTruncated is returned when a record is shorter than its declared length.
var ErrTruncated = errors.New("codec: truncated record")

// Buffer is a growable output buffer. Bytes returns an exact-length copy of
// what was written, never the oversized scratch slice.
type Buffer struct {
	buf []byte
}

// NewBuffer returns an empty buffer with sizeHint bytes of capacity.
func NewBuffer(sizeHint int) *Buffer {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Buffer{buf: make([]byte, 0, sizeHint)}
}

// WriteLengthPrefixed appends the length of p followed by p.
func (b *Buffer) WriteLengthPrefixed(p []byte) {
	b.buf = binary.BigEndian.AppendUint32(b.buf, uint32(len(p)))
	b.buf = append(b.buf, p...)
}

// Len returns the number of bytes written since the last Reset.
func (b *Buffer) Len() int { return len(b.buf) }

// Bytes returns a copy of the written bytes, trimmed to Len.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	return out
}

// Reset discards written bytes and keeps the capacity.
func (b *Buffer) Reset() { b.buf = b.buf[:0] }

// Encoder reuses one scratch Buffer across Encode calls. Not safe for
// concurrent use.
type Encoder struct {
	scratch *Buffer
}

// NewEncoder returns an Encoder whose scratch buffer starts at sizeHint bytes.
func NewEncoder(sizeHint int) *Encoder {
	return &Encoder{scratch: NewBuffer(sizeHint)}
}

// Encode returns the wire record for p. The result does not alias the scratch buffer.
func (e *Encoder) Encode(p []byte) []byte {
	e.scratch.Reset()
	e.scratch.WriteLengthPrefixed(p)
	return e.scratch.Bytes()
}

// Encode returns the wire record for p.
func Encode(p []byte) []byte {
	out := make([]byte, HeaderSize+len(p))
	binary.BigEndian.PutUint32(out, uint32(len(p)))
	copy(out[HeaderSize:], p)
	return out
}

// DecodedLen reads only the length prefix.
func DecodedLen(rec []byte) (int, error) {
	if len(rec) < HeaderSize {
		return 0, fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncated, len(rec), HeaderSize)
	}
	return int(binary.BigEndian.Uint32(rec)), nil
}

// Decode returns the payload carried by rec. The returned slice aliases rec.
// Trailing bytes past the declared length are ignored.
func Decode(rec []byte) ([]byte, error) {
	n, err := DecodedLen(rec)
	if err != nil {
		return nil, err
	}
	if avail := len(rec) - HeaderSize; n > avail {
		return nil, fmt.Errorf("%w: declared %d bytes, %d available", ErrTruncated, n, avail)
	}
	return rec[HeaderSize : HeaderSize+n], nil
}
