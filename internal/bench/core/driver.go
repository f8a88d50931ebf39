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

// Package core drives the benchmark: the timed put/get loop, the trial and
// iteration lifecycle around it, and the runner used by the standalone command.
package core

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"

	"slabbench/internal/bench/codec"
	"slabbench/internal/bench/config"
	"slabbench/internal/bench/maps"
)

// ErrInternalConsistency is returned when a key just written reads back absent.
var ErrInternalConsistency = errors.New("internal consistency error")

// Driver generates payloads and drives put/get pairs against a map.
// It owns its random source and codec scratch space; it is not safe for
// concurrent use.
type Driver struct {
	sizes config.SizeConfig
	src   *rand.ChaCha8
	rng   *rand.Rand
	enc   *codec.Encoder
}

// NewDriver returns a driver drawing lengths and payload bytes from src.
func NewDriver(sizes config.SizeConfig, src *rand.ChaCha8) *Driver {
	return &Driver{
		sizes: sizes,
		src:   src,
		rng:   rand.New(src),
		enc:   codec.NewEncoder(codec.DefaultSizeHint),
	}
}

// NewSeededDriver returns a driver whose workload is fully determined by seed.
func NewSeededDriver(sizes config.SizeConfig, seed uint64) *Driver {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:8], seed)
	return NewDriver(sizes, rand.NewChaCha8(s))
}

// NextPayload returns a fresh payload of uniformly random length in the
// configured range, filled with random bytes.
func (d *Driver) NextPayload() []byte {
	n := d.sizes.MinSize + d.rng.IntN(d.sizes.Span())
	p := make([]byte, n)
	_, _ = d.src.Read(p) // ChaCha8.Read never fails
	return p
}

// RunOnce performs exactly n put/get pairs on keys 0..n-1 in ascending order
// and returns the summed length of the records read back. The loop stops only
// on error.
func (d *Driver) RunOnce(m maps.Handle, n int) (int64, error) {
	var total int64
	for i := 0; i < n; i++ {
		rec := d.enc.Encode(d.NextPayload())
		if err := m.Put(i, rec); err != nil {
			return total, fmt.Errorf("%s put key %d: %w", m.Variant(), i, err)
		}
		got, ok := m.Get(i)
		if !ok {
			return total, fmt.Errorf("%w: %s map lost key %d right after put", ErrInternalConsistency, m.Variant(), i)
		}
		total += int64(len(got))
	}
	return total, nil
}
