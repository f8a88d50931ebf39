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
	"context"
	"fmt"
	"sort"
	"time"

	"slabbench/internal/bench/config"
	"slabbench/internal/bench/maps"
)

// Observer receives trial events. Implementations must be cheap; they are
// called between iterations, never inside the measured loop.
type Observer interface {
	ObserveSetup(t *Trial)
	ObserveIteration(v maps.Variant, ops int, checksum int64, d time.Duration)
	ObserveError(v maps.Variant, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveSetup(*Trial)                                      {}
func (nopObserver) ObserveIteration(maps.Variant, int, int64, time.Duration) {}
func (nopObserver) ObserveError(maps.Variant, error)                         {}

// RunOptions controls a standalone trial.
//   - Warmups are unmeasured invocations run first.
//   - Iterations are measured invocations; each is followed by TeardownIteration.
type RunOptions struct {
	Warmups    int
	Iterations int
	Observer   Observer
}

// Result summarizes one trial.
type Result struct {
	Variant            string          `json:"variant"`
	OpsPerInvocation   int             `json:"opsPerInvocation"`
	Warmups            int             `json:"warmups"`
	Iterations         int             `json:"iterations"`
	Segments           int             `json:"segments"`
	CapacityPerSegment int             `json:"capacityPerSegment"`
	MinObjectSize      int             `json:"minObjectSize"`
	MaxObjectSize      int             `json:"maxObjectSize"`
	Seed               uint64          `json:"seed"`
	Checksum           int64           `json:"checksum"`
	Durations          []time.Duration `json:"iterationNanos"`
	OpsPerSec          float64         `json:"opsPerSec"`
	NsPerOp            float64         `json:"nsPerOp"`
	P50                time.Duration   `json:"p50Nanos"`
	P99                time.Duration   `json:"p99Nanos"`
	Started            time.Time       `json:"started"`
	Elapsed            time.Duration   `json:"elapsedNanos"`

	// Slab occupancy, zero for the baseline. UsedBytes and LiveBytes are the
	// peaks seen at the end of a measured invocation; Compactions counts only
	// measured invocations.
	UsedBytes   int64 `json:"usedBytes"`
	LiveBytes   int64 `json:"liveBytes"`
	Compactions int64 `json:"compactions"`
}

// RunTrial runs Setup, the warmup and measured iterations, and TeardownTrial.
// ctx is checked between iterations; an invocation in progress always completes.
func RunTrial(ctx context.Context, cfg config.Config, opts RunOptions) (res Result, err error) {
	obs := opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	variant := maps.Variant(cfg.Type)
	defer func() {
		if err != nil {
			recordFailure()
			obs.ObserveError(variant, err)
		}
	}()

	if opts.Iterations <= 0 {
		return Result{}, fmt.Errorf("%w: iterations must be > 0 (iterations=%d)", config.ErrConfiguration, opts.Iterations)
	}
	if opts.Warmups < 0 {
		return Result{}, fmt.Errorf("%w: warmups must be >= 0 (warmups=%d)", config.ErrConfiguration, opts.Warmups)
	}

	var t Trial
	if err := t.Setup(cfg); err != nil {
		return Result{}, err
	}
	variant = t.Variant
	defer func() {
		if derr := t.TeardownTrial(); derr != nil && err == nil {
			err = derr
		}
	}()
	recordTrial()
	obs.ObserveSetup(&t)

	res = Result{
		Variant:            t.Variant.String(),
		OpsPerInvocation:   t.OpsPerInvocation,
		Warmups:            opts.Warmups,
		Iterations:         opts.Iterations,
		Segments:           t.Segments,
		CapacityPerSegment: t.CapacityPerSegment,
		MinObjectSize:      t.Sizes.MinSize,
		MaxObjectSize:      t.Sizes.MaxSize,
		Seed:               t.Seed,
		Durations:          make([]time.Duration, 0, opts.Iterations),
		Started:            time.Now(),
	}

	for i := 0; i < opts.Warmups; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := t.TestInternal(); err != nil {
			return res, fmt.Errorf("warmup %d: %w", i, err)
		}
		t.TeardownIteration()
	}

	stats, _ := t.Map().(maps.StatsReporter)
	var compactionsBefore int64
	if stats != nil {
		compactionsBefore = stats.Stats().Compactions
	}

	var measured time.Duration
	for i := 0; i < opts.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		start := time.Now()
		sum, err := t.TestInternal()
		d := time.Since(start)
		if err != nil {
			return res, fmt.Errorf("iteration %d: %w", i, err)
		}
		if stats != nil {
			st := stats.Stats()
			res.UsedBytes = max(res.UsedBytes, st.UsedBytes)
			res.LiveBytes = max(res.LiveBytes, st.LiveBytes)
			res.Compactions = st.Compactions - compactionsBefore
		}
		t.TeardownIteration()

		res.Checksum += sum
		res.Durations = append(res.Durations, d)
		measured += d
		recordIteration(int64(t.OpsPerInvocation), sum)
		obs.ObserveIteration(t.Variant, t.OpsPerInvocation, sum, d)
	}

	res.Elapsed = time.Since(res.Started)
	totalOps := float64(t.OpsPerInvocation) * float64(opts.Iterations)
	if measured > 0 {
		res.OpsPerSec = totalOps / measured.Seconds()
		res.NsPerOp = float64(measured.Nanoseconds()) / totalOps
	}
	res.P50 = percentile(res.Durations, 50)
	res.P99 = percentile(res.Durations, 99)
	return res, nil
}

// percentile returns the nearest-rank percentile of ds without reordering it.
func percentile(ds []time.Duration, p int) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	cp := append([]time.Duration(nil), ds...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	idx := (p*len(cp) + 99) / 100
	if idx < 1 {
		idx = 1
	}
	if idx > len(cp) {
		idx = len(cp)
	}
	return cp[idx-1]
}
