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

// arena is the backing memory of one segment.
type arena interface {
	bytes() []byte
	release() error
}

// heapArena is an ordinary Go byte slice; release just drops the reference.
type heapArena struct {
	buf []byte
}

func (h *heapArena) bytes() []byte { return h.buf }

func (h *heapArena) release() error {
	h.buf = nil
	return nil
}

func newArena(offHeap bool, size int) (arena, error) {
	if offHeap {
		return newMappedArena(size)
	}
	return &heapArena{buf: make([]byte, size)}, nil
}
