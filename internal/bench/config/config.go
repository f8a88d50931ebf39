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

// Package config resolves the benchmark parameters: payload size range,
// segment count, per-segment capacity and the process-level settings that
// are read once at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

var (
	// ErrConfiguration marks invalid or contradictory parameters.
	ErrConfiguration = errors.New("configuration error")
	// ErrOverflow marks a computed capacity that does not fit its target type.
	ErrOverflow = errors.New("capacity overflow")
)

const (
	DefaultOpsPerInvocation   = 3221200
	DefaultSegments           = 10
	DefaultCapacityPerSegment = 1 << 30
	DefaultMinObjectSize      = 1000
	DefaultMaxObjectSize      = 2000
)

// Environment variable names. They play the role of process-wide system
// properties and are read once by Load.
const (
	EnvType             = "SLABBENCH_TYPE"
	EnvMinObjectSize    = "SLABBENCH_MIN_OBJECT_SIZE"
	EnvMaxObjectSize    = "SLABBENCH_MAX_OBJECT_SIZE"
	EnvSegments         = "SLABBENCH_NO_OF_SEGMENTS"
	EnvCapacity         = "SLABBENCH_CAPACITY"
	EnvOpsPerInvocation = "SLABBENCH_OPS_PER_INVOCATION"
	EnvSeed             = "SLABBENCH_SEED"
)

// Config is the explicit, immutable parameter set of one benchmark process.
// Type holds the raw map variant tag; it is validated by the map factory.
type Config struct {
	Type             string
	MinObjectSize    int
	MaxObjectSize    int
	Segments         int
	Capacity         string // total capacity with optional g/m suffix; empty means default per segment
	OpsPerInvocation int
	Seed             uint64 // 0 picks a time-based seed
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		MinObjectSize:    DefaultMinObjectSize,
		MaxObjectSize:    DefaultMaxObjectSize,
		Segments:         DefaultSegments,
		OpsPerInvocation: DefaultOpsPerInvocation,
	}
}

// Load builds a Config from lookup, typically os.LookupEnv. Unset or empty
// variables keep their defaults. Values are parsed, not range-checked; the
// size range is validated by Sizes and the capacity by PlanCapacityPerSegment.
func Load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if v, ok := lookup(EnvType); ok {
		cfg.Type = v
	}
	if v, ok := lookup(EnvCapacity); ok {
		cfg.Capacity = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{EnvMinObjectSize, &cfg.MinObjectSize},
		{EnvMaxObjectSize, &cfg.MaxObjectSize},
		{EnvSegments, &cfg.Segments},
		{EnvOpsPerInvocation, &cfg.OpsPerInvocation},
	}
	for _, e := range ints {
		v, ok := lookup(e.name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q is not an integer", ErrConfiguration, e.name, v)
		}
		*e.dst = n
	}

	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q is not an unsigned integer", ErrConfiguration, EnvSeed, v)
		}
		cfg.Seed = seed
	}
	return cfg, nil
}

// FromEnv is Load over the process environment.
func FromEnv() (Config, error) { return Load(os.LookupEnv) }

// Sizes validates and returns the payload size range.
func (c Config) Sizes() (SizeConfig, error) {
	return NewSizeConfig(c.MinObjectSize, c.MaxObjectSize)
}

// CapacityPerSegment plans the per-segment capacity from Capacity and Segments.
func (c Config) CapacityPerSegment() (int, error) {
	return PlanCapacityPerSegment(c.Capacity, c.Segments, DefaultCapacityPerSegment)
}

// ExpectedEntries is the pre-sizing hint handed to slab maps: the key space of
// one invocation plus a small margin.
func (c Config) ExpectedEntries() int {
	return c.OpsPerInvocation + 100
}
