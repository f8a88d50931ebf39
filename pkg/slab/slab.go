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

// Package slab provides a segmented slab map: integer keys mapped to byte
// values packed into a fixed number of pre-allocated, fixed-capacity segments.
//
// Segment memory is either an ordinary Go byte slice (on-heap) or an
// anonymous memory mapping that the garbage collector never scans
// (off-heap). Off-heap memory is only returned to the OS by Destroy.
//
// A Map is not safe for concurrent use.
package slab

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

var (
	// ErrSegmentFull is returned by Put when a segment has no room for a value
	// even after compaction.
	ErrSegmentFull = errors.New("slab: segment full")
	// ErrValueTooLarge is returned by Put for values larger than a segment.
	ErrValueTooLarge = errors.New("slab: value larger than segment capacity")
	// ErrDestroyed is returned by Put after Destroy.
	ErrDestroyed = errors.New("slab: map destroyed")
	// ErrOffHeapUnsupported is returned by New when off-heap segments are
	// requested on a platform without anonymous mappings.
	ErrOffHeapUnsupported = errors.New("slab: off-heap memory not supported on this platform")
	// ErrInvalidOptions wraps every Options validation failure.
	ErrInvalidOptions = errors.New("slab: invalid options")
)

// Options configures a Map.
//   - OffHeap selects mmap-backed segments instead of Go byte slices.
//   - ExpectedEntries pre-sizes the per-segment indexes. It is a hint, not a limit.
//   - Segments is the number of segments.
//   - CapacityPerSegment is the byte capacity of each segment.
type Options struct {
	OffHeap            bool
	ExpectedEntries    int
	Segments           int
	CapacityPerSegment int
}

func (o Options) validate() error {
	if o.Segments <= 0 {
		return fmt.Errorf("%w: segments must be > 0, got %d", ErrInvalidOptions, o.Segments)
	}
	if o.CapacityPerSegment <= 0 || int64(o.CapacityPerSegment) > math.MaxInt32 {
		return fmt.Errorf("%w: capacity per segment must be in [1, %d], got %d",
			ErrInvalidOptions, math.MaxInt32, o.CapacityPerSegment)
	}
	if o.ExpectedEntries < 0 {
		return fmt.Errorf("%w: expected entries must be >= 0, got %d", ErrInvalidOptions, o.ExpectedEntries)
	}
	return nil
}

// Stats is a point-in-time summary of a Map.
type Stats struct {
	Entries     int
	LiveBytes   int64 // bytes referenced by current entries
	UsedBytes   int64 // bytes consumed in segments, including garbage
	Capacity    int64 // total segment bytes
	Compactions int64
}

// Map is a segmented slab map keyed by int.
type Map struct {
	segments  []*segment
	offHeap   bool
	destroyed bool
}

// New allocates all segments up front and returns an empty map.
func New(opts Options) (*Map, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	perSegmentHint := opts.ExpectedEntries / opts.Segments
	m := &Map{
		segments: make([]*segment, 0, opts.Segments),
		offHeap:  opts.OffHeap,
	}
	for i := 0; i < opts.Segments; i++ {
		a, err := newArena(opts.OffHeap, opts.CapacityPerSegment)
		if err != nil {
			// Give back whatever was mapped before the failure.
			_ = m.Destroy()
			return nil, fmt.Errorf("allocate segment %d of %d (%d bytes): %w", i, opts.Segments, opts.CapacityPerSegment, err)
		}
		m.segments = append(m.segments, newSegment(a, perSegmentHint))
	}
	return m, nil
}

// OffHeap reports whether segment memory lives outside the Go heap.
func (m *Map) OffHeap() bool { return m.offHeap }

// Put stores value under key. The bytes are copied into the owning segment.
// If the value does not fit, the key is left absent.
func (m *Map) Put(key int, value []byte) error {
	if m.destroyed {
		return ErrDestroyed
	}
	s := m.segmentFor(key)
	if err := s.put(key, value); err != nil {
		return fmt.Errorf("put key=%d len=%d: %w", key, len(value), err)
	}
	return nil
}

// Get returns a copy of the value stored under key.
func (m *Map) Get(key int) ([]byte, bool) {
	if m.destroyed {
		return nil, false
	}
	return m.segmentFor(key).get(key)
}

// Delete removes key. It reports whether the key was present.
func (m *Map) Delete(key int) bool {
	if m.destroyed {
		return false
	}
	return m.segmentFor(key).del(key)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	n := 0
	for _, s := range m.segments {
		n += len(s.index)
	}
	return n
}

// Clear removes all entries. Segment memory and index capacity are retained.
func (m *Map) Clear() {
	for _, s := range m.segments {
		s.reset()
	}
}

// Destroy releases all segment memory. The map must not be used afterwards
// except for further Destroy calls, which are no-ops.
func (m *Map) Destroy() error {
	if m.destroyed {
		return nil
	}
	m.destroyed = true
	var errs []error
	for _, s := range m.segments {
		if err := s.release(); err != nil {
			errs = append(errs, err)
		}
	}
	m.segments = nil
	return errors.Join(errs...)
}

// Stats summarizes the map's occupancy.
func (m *Map) Stats() Stats {
	var st Stats
	for _, s := range m.segments {
		st.Entries += len(s.index)
		st.LiveBytes += s.live
		st.UsedBytes += int64(s.tail)
		st.Capacity += int64(len(s.buf))
		st.Compactions += s.compactions
	}
	return st
}

func (m *Map) segmentFor(key int) *segment {
	if len(m.segments) == 1 {
		return m.segments[0]
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(key))
	return m.segments[xxhash.Sum64(b[:])%uint64(len(m.segments))]
}
