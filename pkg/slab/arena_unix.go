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

//go:build unix

package slab

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mappedArena is an anonymous private mapping. The pages are invisible to the
// garbage collector and are touched lazily by the kernel on first write.
type mappedArena struct {
	buf []byte
}

func newMappedArena(size int) (arena, error) {
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", size, err)
	}
	return &mappedArena{buf: buf}, nil
}

func (m *mappedArena) bytes() []byte { return m.buf }

func (m *mappedArena) release() error {
	if m.buf == nil {
		return nil
	}
	buf := m.buf
	m.buf = nil
	if err := unix.Munmap(buf); err != nil {
		return fmt.Errorf("munmap %d bytes: %w", len(buf), err)
	}
	return nil
}
