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

package config

import (
	"fmt"
	"math"
	"strconv"
)

const (
	gib = int64(1) << 30
	mib = int64(1) << 20
)

// SizeConfig is the inclusive payload length range [MinSize, MaxSize].
type SizeConfig struct {
	MinSize int
	MaxSize int
}

// NewSizeConfig validates min and max: 0 <= min <= max and max > 0.
func NewSizeConfig(minSize, maxSize int) (SizeConfig, error) {
	if maxSize < minSize {
		return SizeConfig{}, fmt.Errorf("%w: max object size cannot be < min object size (max=%d, min=%d)",
			ErrConfiguration, maxSize, minSize)
	}
	if maxSize <= 0 {
		return SizeConfig{}, fmt.Errorf("%w: max object size must be > 0 (max=%d)", ErrConfiguration, maxSize)
	}
	if minSize < 0 {
		return SizeConfig{}, fmt.Errorf("%w: min object size must be >= 0 (min=%d)", ErrConfiguration, minSize)
	}
	return SizeConfig{MinSize: minSize, MaxSize: maxSize}, nil
}

// ResolveSizes applies the defaults (1000, 2000) to absent overrides and validates.
func ResolveSizes(minOverride, maxOverride *int) (SizeConfig, error) {
	minSize, maxSize := DefaultMinObjectSize, DefaultMaxObjectSize
	if minOverride != nil {
		minSize = *minOverride
	}
	if maxOverride != nil {
		maxSize = *maxOverride
	}
	return NewSizeConfig(minSize, maxSize)
}

// Span is the number of distinct lengths in the range.
func (s SizeConfig) Span() int { return s.MaxSize - s.MinSize + 1 }

// ParseCapacity parses a total capacity: digits with an optional trailing
// "g" (GiB) or "m" (MiB). Suffixes are case-sensitive.
func ParseCapacity(s string) (int64, error) {
	digits, unit := s, int64(1)
	switch {
	case len(s) > 0 && s[len(s)-1] == 'g':
		digits, unit = s[:len(s)-1], gib
	case len(s) > 0 && s[len(s)-1] == 'm':
		digits, unit = s[:len(s)-1], mib
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: capacity %q: %v", ErrConfiguration, s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: capacity %q must be positive", ErrConfiguration, s)
	}
	if n > math.MaxInt64/unit {
		return 0, fmt.Errorf("%w: capacity %q exceeds %d bytes", ErrOverflow, s, int64(math.MaxInt64))
	}
	return n * unit, nil
}

// PlanCapacityPerSegment splits a total capacity over segments, rounding up.
//
// An empty capacity returns defaultPerSegment unchanged and ignores segments.
// The result must fit in an int32, otherwise ErrOverflow is returned.
func PlanCapacityPerSegment(capacity string, segments, defaultPerSegment int) (int, error) {
	if capacity == "" {
		return defaultPerSegment, nil
	}
	if segments <= 0 {
		return 0, fmt.Errorf("%w: number of segments must be > 0 (segments=%d)", ErrConfiguration, segments)
	}
	total, err := ParseCapacity(capacity)
	if err != nil {
		return 0, err
	}

	seg := int64(segments)
	perSegment := total / seg
	if total%seg != 0 {
		perSegment++
	}
	if perSegment > math.MaxInt32 {
		return 0, fmt.Errorf("%w: capacity per segment cannot be more than %d; total capacity configured as %d, "+
			"no. of segments: %d, so capacity per segment would be %d",
			ErrOverflow, math.MaxInt32, total, segments, perSegment)
	}
	return int(perSegment), nil
}
