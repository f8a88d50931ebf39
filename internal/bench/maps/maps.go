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

// Package maps is the single seam between the workload and the benchmarked
// key-value backends. Every variant is constructed here once and then used
// only through Handle.
package maps

import (
	"fmt"

	"slabbench/internal/bench/config"
	"slabbench/pkg/slab"
)

// Variant names one of the benchmarked backends.
type Variant string

const (
	SlabOnHeap  Variant = "SLAB"
	SlabOffHeap Variant = "OFFHEAP"
	Baseline    Variant = "BASELINE"
)

// Variants lists every backend in reporting order.
var Variants = []Variant{SlabOnHeap, SlabOffHeap, Baseline}

// ParseVariant maps a configuration tag to a Variant. "JDK" is accepted as a
// legacy name for the baseline.
func ParseVariant(tag string) (Variant, error) {
	switch tag {
	case string(SlabOnHeap):
		return SlabOnHeap, nil
	case string(SlabOffHeap):
		return SlabOffHeap, nil
	case string(Baseline), "JDK":
		return Baseline, nil
	default:
		return "", fmt.Errorf("%w: unknown map type %q (want SLAB, OFFHEAP or BASELINE)", config.ErrConfiguration, tag)
	}
}

// IsSlab reports whether the variant is backed by slab segments that must be
// released with Destroy.
func (v Variant) IsSlab() bool { return v == SlabOnHeap || v == SlabOffHeap }

func (v Variant) String() string { return string(v) }

// Handle is the map contract the workload driver relies on.
//
// Get must return a value for any key whose Put succeeded and that was not
// cleared since. Clear keeps allocated capacity. Destroy releases backing
// memory and is a no-op for the baseline.
type Handle interface {
	Put(key int, value []byte) error
	Get(key int) ([]byte, bool)
	Clear()
	Destroy() error
	Len() int
	Variant() Variant
}

// New builds the backend for variant. expectedEntries, segments and
// capacityPerSegment are only used by the slab variants.
func New(variant Variant, expectedEntries, segments, capacityPerSegment int) (Handle, error) {
	switch variant {
	case SlabOnHeap, SlabOffHeap:
		m, err := slab.New(slab.Options{
			OffHeap:            variant == SlabOffHeap,
			ExpectedEntries:    expectedEntries,
			Segments:           segments,
			CapacityPerSegment: capacityPerSegment,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s map: %w", variant, err)
		}
		return &slabHandle{m: m, variant: variant}, nil
	case Baseline:
		return newBaseline(), nil
	default:
		return nil, fmt.Errorf("%w: unknown map type %q", config.ErrConfiguration, string(variant))
	}
}

type slabHandle struct {
	m       *slab.Map
	variant Variant
}

func (h *slabHandle) Put(key int, value []byte) error { return h.m.Put(key, value) }
func (h *slabHandle) Get(key int) ([]byte, bool)      { return h.m.Get(key) }
func (h *slabHandle) Clear()                          { h.m.Clear() }
func (h *slabHandle) Destroy() error                  { return h.m.Destroy() }
func (h *slabHandle) Len() int                        { return h.m.Len() }
func (h *slabHandle) Variant() Variant                { return h.variant }

// Stats exposes the slab occupancy for reporting.
func (h *slabHandle) Stats() slab.Stats { return h.m.Stats() }

// StatsReporter is implemented by handles that can report slab occupancy.
type StatsReporter interface {
	Stats() slab.Stats
}
