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
	"fmt"
	"time"

	"slabbench/internal/bench/config"
	"slabbench/internal/bench/maps"
)

// ErrAlreadySetUp is returned by a second Setup on the same Trial.
var ErrAlreadySetUp = errors.New("trial already set up")

// Trial holds the state of one measurement run: the resolved parameters, the
// map under test and the driver. The zero value is an unset trial; both
// teardown hooks are no-ops on it.
//
// Lifecycle:
//   - Setup once per trial
//   - TestInternal once per measured invocation
//   - TeardownIteration after every iteration (clears the map)
//   - TeardownTrial once at the end (destroys slab maps)
type Trial struct {
	Variant            maps.Variant
	Sizes              config.SizeConfig
	Segments           int
	CapacityPerSegment int
	OpsPerInvocation   int
	Seed               uint64

	m      maps.Handle
	driver *Driver
	setUp  bool
}

// Setup resolves the trial parameters and builds the map. On error the trial
// stays unset and Setup may be retried.
func (t *Trial) Setup(cfg config.Config) error {
	if t.setUp {
		return ErrAlreadySetUp
	}

	variant, err := maps.ParseVariant(cfg.Type)
	if err != nil {
		return err
	}
	sizes, err := cfg.Sizes()
	if err != nil {
		return err
	}
	if cfg.OpsPerInvocation <= 0 {
		return fmt.Errorf("%w: operations per invocation must be > 0 (ops=%d)", config.ErrConfiguration, cfg.OpsPerInvocation)
	}
	var perSegment int
	if variant.IsSlab() {
		if cfg.Segments <= 0 {
			return fmt.Errorf("%w: no. of segments must be > 0 (segments=%d)", config.ErrConfiguration, cfg.Segments)
		}
		if perSegment, err = cfg.CapacityPerSegment(); err != nil {
			return err
		}
	}
	m, err := maps.New(variant, cfg.ExpectedEntries(), cfg.Segments, perSegment)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	t.Variant = variant
	t.Sizes = sizes
	t.Segments = cfg.Segments
	t.CapacityPerSegment = perSegment
	t.OpsPerInvocation = cfg.OpsPerInvocation
	t.Seed = seed
	t.m = m
	t.driver = NewSeededDriver(sizes, seed)
	t.setUp = true
	return nil
}

// Map returns the map under test, or nil before Setup and after TeardownTrial.
func (t *Trial) Map() maps.Handle { return t.m }

// TestInternal is the measured operation: OpsPerInvocation put/get pairs.
// The returned checksum is the summed record length.
func (t *Trial) TestInternal() (int64, error) {
	if t.m == nil {
		return 0, errors.New("trial not set up")
	}
	return t.driver.RunOnce(t.m, t.OpsPerInvocation)
}

// TeardownIteration clears the map between iterations.
func (t *Trial) TeardownIteration() {
	if t.m != nil {
		t.m.Clear()
	}
}

// TeardownTrial releases slab memory and drops the map. Safe to call on an
// unset trial and more than once.
func (t *Trial) TeardownTrial() error {
	m := t.m
	if m == nil {
		return nil
	}
	t.m = nil
	t.driver = nil
	if !m.Variant().IsSlab() {
		return nil
	}
	if err := m.Destroy(); err != nil {
		return fmt.Errorf("destroy %s map: %w", m.Variant(), err)
	}
	return nil
}
