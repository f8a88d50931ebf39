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

package core

import (
	"errors"
	"testing"

	"slabbench/internal/bench/config"
	"slabbench/internal/bench/maps"
	"slabbench/pkg/slab"
)

func smallConfig(variant string) config.Config {
	return config.Config{
		Type:             variant,
		MinObjectSize:    10,
		MaxObjectSize:    50,
		Segments:         4,
		Capacity:         "1m",
		OpsPerInvocation: 500,
		Seed:             11,
	}
}

func setUpTrial(t *testing.T, cfg config.Config) *Trial {
	t.Helper()
	tr := &Trial{}
	if err := tr.Setup(cfg); err != nil {
		if errors.Is(err, slab.ErrOffHeapUnsupported) {
			t.Skip("off-heap unsupported")
		}
		t.Fatalf("Setup: %v", err)
	}
	t.Cleanup(func() { _ = tr.TeardownTrial() })
	return tr
}

func TestTrial_SetupResolvesParameters(t *testing.T) {
	tr := setUpTrial(t, smallConfig("OFFHEAP"))
	if tr.Variant != maps.SlabOffHeap {
		t.Fatalf("variant: got %s", tr.Variant)
	}
	if tr.CapacityPerSegment != (1<<20)/4 {
		t.Fatalf("capacity per segment: got %d", tr.CapacityPerSegment)
	}
	if tr.Sizes != (config.SizeConfig{MinSize: 10, MaxSize: 50}) {
		t.Fatalf("sizes: got %+v", tr.Sizes)
	}
	if tr.Seed != 11 || tr.OpsPerInvocation != 500 || tr.Segments != 4 {
		t.Fatalf("unexpected trial fields: %+v", tr)
	}
	if tr.Map() == nil || tr.Map().Variant() != maps.SlabOffHeap {
		t.Fatalf("map not built for variant")
	}
}

func TestTrial_BaselineSkipsCapacityPlanning(t *testing.T) {
	cfg := smallConfig("BASELINE")
	cfg.Capacity = "100g" // would overflow with one segment
	cfg.Segments = 1
	tr := setUpTrial(t, cfg)
	if tr.CapacityPerSegment != 0 {
		t.Fatalf("baseline should not plan capacity, got %d", tr.CapacityPerSegment)
	}
}

func TestTrial_SetupErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"unknown type", func(c *config.Config) { c.Type = "TREE" }, config.ErrConfiguration},
		{"missing type", func(c *config.Config) { c.Type = "" }, config.ErrConfiguration},
		{"bad sizes", func(c *config.Config) { c.MinObjectSize, c.MaxObjectSize = 2000, 1000 }, config.ErrConfiguration},
		{"capacity overflow", func(c *config.Config) { c.Capacity, c.Segments = "100g", 1 }, config.ErrOverflow},
		{"zero ops", func(c *config.Config) { c.OpsPerInvocation = 0 }, config.ErrConfiguration},
		{"zero segments default capacity", func(c *config.Config) { c.Segments, c.Capacity = 0, "" }, config.ErrConfiguration},
		{"negative segments default capacity", func(c *config.Config) { c.Segments, c.Capacity = -2, "" }, config.ErrConfiguration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := smallConfig("SLAB")
			tc.mutate(&cfg)
			var tr Trial
			err := tr.Setup(cfg)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if tr.Map() != nil {
				t.Fatalf("failed setup must leave the trial unset")
			}
			// Teardown after a failed setup is a no-op.
			tr.TeardownIteration()
			if err := tr.TeardownTrial(); err != nil {
				t.Fatalf("teardown on unset trial: %v", err)
			}
		})
	}
}

func TestTrial_SetupOnlyOnce(t *testing.T) {
	tr := setUpTrial(t, smallConfig("SLAB"))
	if err := tr.Setup(smallConfig("SLAB")); !errors.Is(err, ErrAlreadySetUp) {
		t.Fatalf("expected ErrAlreadySetUp, got %v", err)
	}
}

func TestTrial_LifecycleClearsAndDestroys(t *testing.T) {
	for _, v := range []string{"SLAB", "OFFHEAP", "BASELINE"} {
		t.Run(v, func(t *testing.T) {
			tr := setUpTrial(t, smallConfig(v))
			sum, err := tr.TestInternal()
			if err != nil {
				t.Fatalf("TestInternal: %v", err)
			}
			if sum <= 0 {
				t.Fatalf("checksum should be positive, got %d", sum)
			}
			m := tr.Map()
			if m.Len() != 500 {
				t.Fatalf("len: got %d want 500", m.Len())
			}

			tr.TeardownIteration()
			for i := 0; i < 500; i++ {
				if _, ok := m.Get(i); ok {
					t.Fatalf("key %d survived iteration teardown", i)
				}
			}

			// A second invocation after clear works on the same map.
			if _, err := tr.TestInternal(); err != nil {
				t.Fatalf("second TestInternal: %v", err)
			}

			if err := tr.TeardownTrial(); err != nil {
				t.Fatalf("TeardownTrial: %v", err)
			}
			if tr.Map() != nil {
				t.Fatalf("map should be dropped after trial teardown")
			}
			if err := tr.TeardownTrial(); err != nil {
				t.Fatalf("second TeardownTrial: %v", err)
			}
			if _, err := tr.TestInternal(); err == nil {
				t.Fatalf("TestInternal after teardown should fail")
			}
			if m.Variant().IsSlab() {
				if err := m.Put(0, []byte("x")); !errors.Is(err, slab.ErrDestroyed) {
					t.Fatalf("slab map should be destroyed, put returned %v", err)
				}
			} else if err := m.Put(0, []byte("x")); err != nil {
				t.Fatalf("baseline ignores destroy, put returned %v", err)
			}
		})
	}
}

func TestTrial_TestInternalBeforeSetup(t *testing.T) {
	var tr Trial
	if _, err := tr.TestInternal(); err == nil {
		t.Fatalf("expected error before setup")
	}
}
