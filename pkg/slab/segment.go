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

package slab

import "slices"

// slot locates one record inside a segment. capacity can exceed size after an
// in-place overwrite with a shorter value.
type slot struct {
	off      uint32
	size     uint32
	capacity uint32
}

// segment is one fixed-capacity arena plus the index of the records packed in it.
// Records are bump-allocated from tail; space freed by deletes and relocating
// overwrites is reclaimed only by compact.
type segment struct {
	mem         arena
	buf         []byte
	tail        int
	live        int64
	index       map[int]slot
	compactions int64
}

func newSegment(a arena, hint int) *segment {
	return &segment{
		mem:   a,
		buf:   a.bytes(),
		index: make(map[int]slot, hint),
	}
}

func (s *segment) put(key int, value []byte) error {
	n := len(value)
	if n > len(s.buf) {
		return ErrValueTooLarge
	}

	if old, ok := s.index[key]; ok {
		if uint32(n) <= old.capacity {
			copy(s.buf[old.off:], value)
			s.live += int64(n) - int64(old.size)
			old.size = uint32(n)
			s.index[key] = old
			return nil
		}
		// Relocate: the old bytes become garbage.
		delete(s.index, key)
		s.live -= int64(old.size)
	}

	if s.tail+n > len(s.buf) {
		s.compact()
		if s.tail+n > len(s.buf) {
			return ErrSegmentFull
		}
	}

	off := s.tail
	copy(s.buf[off:], value)
	s.tail += n
	s.live += int64(n)
	s.index[key] = slot{off: uint32(off), size: uint32(n), capacity: uint32(n)}
	return nil
}

func (s *segment) get(key int) ([]byte, bool) {
	sl, ok := s.index[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, sl.size)
	copy(out, s.buf[sl.off:sl.off+sl.size])
	return out, true
}

func (s *segment) del(key int) bool {
	sl, ok := s.index[key]
	if !ok {
		return false
	}
	delete(s.index, key)
	s.live -= int64(sl.size)
	if len(s.index) == 0 {
		s.tail = 0
	}
	return true
}

// compact slides live records to the front of the arena in offset order.
// Moves only go towards lower offsets so copy never clobbers unread data.
func (s *segment) compact() {
	if int64(s.tail) == s.live {
		return
	}
	type rec struct {
		key int
		sl  slot
	}
	recs := make([]rec, 0, len(s.index))
	for k, sl := range s.index {
		recs = append(recs, rec{key: k, sl: sl})
	}
	slices.SortFunc(recs, func(a, b rec) int { return int(a.sl.off) - int(b.sl.off) })

	tail := 0
	for _, r := range recs {
		if int(r.sl.off) != tail {
			copy(s.buf[tail:], s.buf[r.sl.off:r.sl.off+r.sl.size])
		}
		s.index[r.key] = slot{off: uint32(tail), size: r.sl.size, capacity: r.sl.size}
		tail += int(r.sl.size)
	}
	s.tail = tail
	s.compactions++
}

func (s *segment) reset() {
	clear(s.index)
	s.tail = 0
	s.live = 0
}

func (s *segment) release() error {
	s.index = nil
	s.buf = nil
	s.tail = 0
	s.live = 0
	return s.mem.release()
}
