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

package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"slabbench/internal/bench/config"
	"slabbench/internal/bench/maps"
	"slabbench/internal/bench/results"
)

func TestParseVariants(t *testing.T) {
	got, err := parseVariants(" SLAB, JDK ,BASELINE,,OFFHEAP")
	if err != nil {
		t.Fatalf("parseVariants: %v", err)
	}
	want := []maps.Variant{maps.SlabOnHeap, maps.Baseline, maps.SlabOffHeap}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	if _, err := parseVariants("SLAB,TREE"); !errors.Is(err, config.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if _, err := parseVariants(" , "); !errors.Is(err, config.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for empty list, got %v", err)
	}
}

func TestParseFlags_EnvDefaults(t *testing.T) {
	t.Setenv(config.EnvType, "OFFHEAP")
	t.Setenv(config.EnvSegments, "3")
	t.Setenv(config.EnvCapacity, "3m")
	opts, err := parseFlags([]string{"-ops", "42"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if len(opts.variants) != 1 || opts.variants[0] != maps.SlabOffHeap {
		t.Fatalf("variants: %v", opts.variants)
	}
	if opts.cfg.Segments != 3 || opts.cfg.Capacity != "3m" || opts.cfg.OpsPerInvocation != 42 {
		t.Fatalf("cfg: %+v", opts.cfg)
	}
	if opts.iterations != 100 || opts.warmups != 0 || opts.sink != "log" {
		t.Fatalf("defaults: %+v", opts)
	}
}

func TestParseFlags_BadEnv(t *testing.T) {
	t.Setenv(config.EnvSegments, "ten")
	if _, err := parseFlags(nil, &bytes.Buffer{}); !errors.Is(err, config.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestRun_SmallTrials(t *testing.T) {
	var out bytes.Buffer
	args := []string{
		"-type", "BASELINE,SLAB",
		"-ops", "200",
		"-iterations", "2",
		"-segments", "2",
		"-capacity", "1m",
		"-min_object_size", "1",
		"-max_object_size", "16",
		"-seed", "3",
	}
	if err := run(context.Background(), args, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	s := out.String()
	for _, want := range []string{"[BASELINE]", "[SLAB]", "slabbench summary", "put_get_pairs"} {
		if !strings.Contains(s, want) {
			t.Fatalf("output missing %q:\n%s", want, s)
		}
	}
}

func TestRun_TrialErrorFailsRun(t *testing.T) {
	var out bytes.Buffer
	args := []string{"-type", "SLAB", "-segments", "1", "-capacity", "100g", "-ops", "10", "-iterations", "1"}
	err := run(context.Background(), args, &out)
	if !errors.Is(err, config.ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
	if !strings.Contains(out.String(), "failed_trials") {
		t.Fatalf("summary should still print:\n%s", out.String())
	}
}

func TestRun_UnknownSink(t *testing.T) {
	err := run(context.Background(), []string{"-type", "BASELINE", "-sink", "kafka"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "unknown results sink") {
		t.Fatalf("expected unknown sink error, got %v", err)
	}
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := run(ctx, []string{"-type", "BASELINE", "-ops", "10", "-iterations", "1"}, &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_JSONLSinkWritesEveryVariant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	args := []string{
		"-type", "SLAB,BASELINE",
		"-ops", "50",
		"-iterations", "1",
		"-segments", "1",
		"-capacity", "1m",
		"-min_object_size", "4",
		"-max_object_size", "8",
		"-seed", "9",
		"-sink", "jsonl",
		"-jsonl_path", path,
	}
	if err := run(context.Background(), args, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := results.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 2 || got[0].Variant != "SLAB" || got[1].Variant != "BASELINE" {
		t.Fatalf("results: %+v", got)
	}
	if got[0].Checksum != got[1].Checksum {
		t.Fatalf("same seed should give the same checksum: %d vs %d", got[0].Checksum, got[1].Checksum)
	}
}
