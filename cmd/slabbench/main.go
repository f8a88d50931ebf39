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

// Package main runs the slab map benchmark as a standalone program.
//
// Each variant listed in -type gets its own trial: one map, an optional
// number of warmup invocations, then -iterations measured invocations of
// -ops put/get pairs, clearing the map after each. Results go to the sink
// selected with -sink and a summary is printed at exit.
//
//	slabbench -type SLAB,OFFHEAP,BASELINE -ops 100000 -iterations 20
//
// Flag defaults are read from SLABBENCH_* environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"slabbench/internal/bench/config"
	"slabbench/internal/bench/core"
	"slabbench/internal/bench/maps"
	"slabbench/internal/bench/results"
	"slabbench/internal/bench/telemetry"
)

// options is the parsed command line.
type options struct {
	cfg         config.Config
	variants    []maps.Variant
	iterations  int
	warmups     int
	sink        string
	redisAddr   string
	sqlitePath  string
	jsonlPath   string
	metricsAddr string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Printf("slabbench: %v", err)
		stop()
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	env, err := config.FromEnv()
	if err != nil {
		return options{}, err
	}
	typeDefault := env.Type
	if typeDefault == "" {
		typeDefault = joinVariants(maps.Variants)
	}

	fs := flag.NewFlagSet("slabbench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	types := fs.String("type", typeDefault, "Comma-separated map types to benchmark: SLAB, OFFHEAP, BASELINE (JDK is an alias)")
	minSize := fs.Int("min_object_size", env.MinObjectSize, "Smallest payload in bytes")
	maxSize := fs.Int("max_object_size", env.MaxObjectSize, "Largest payload in bytes (inclusive)")
	segments := fs.Int("segments", env.Segments, "Number of slab segments")
	capacity := fs.String("capacity", env.Capacity, "Total slab capacity with optional g/m suffix (e.g. 4g). Empty uses 1 GiB per segment")
	ops := fs.Int("ops", env.OpsPerInvocation, "Put/get pairs per invocation")
	iterations := fs.Int("iterations", 100, "Measured invocations per trial")
	warmups := fs.Int("warmups", 0, "Unmeasured invocations before measuring")
	seed := fs.Uint64("seed", env.Seed, "Payload generator seed; 0 picks one from the clock")
	sink := fs.String("sink", "log", "Where results go: log, redis, sqlite, jsonl")
	redisAddr := fs.String("redis_addr", "", "Redis address for -sink redis; empty logs the pushes instead")
	sqlitePath := fs.String("sqlite_path", results.DefaultSQLitePath, "Database file for -sink sqlite")
	jsonlPath := fs.String("jsonl_path", results.DefaultJSONLPath, "Results file for -sink jsonl")
	metricsAddr := fs.String("metrics_addr", "", "If non-empty, expose Prometheus /metrics on this address (e.g., :9090)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	variants, err := parseVariants(*types)
	if err != nil {
		return options{}, err
	}
	cfg := env
	cfg.MinObjectSize = *minSize
	cfg.MaxObjectSize = *maxSize
	cfg.Segments = *segments
	cfg.Capacity = *capacity
	cfg.OpsPerInvocation = *ops
	cfg.Seed = *seed

	return options{
		cfg:         cfg,
		variants:    variants,
		iterations:  *iterations,
		warmups:     *warmups,
		sink:        *sink,
		redisAddr:   *redisAddr,
		sqlitePath:  *sqlitePath,
		jsonlPath:   *jsonlPath,
		metricsAddr: *metricsAddr,
	}, nil
}

func parseVariants(list string) ([]maps.Variant, error) {
	var out []maps.Variant
	seen := make(map[maps.Variant]bool)
	for _, tag := range strings.Split(list, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		v, err := maps.ParseVariant(tag)
		if err != nil {
			return nil, err
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no map type selected", config.ErrConfiguration)
	}
	return out, nil
}

func joinVariants(vs []maps.Variant) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ",")
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	core.SetParam("type", joinVariants(opts.variants))
	core.SetParamInt("min_object_size", opts.cfg.MinObjectSize)
	core.SetParamInt("max_object_size", opts.cfg.MaxObjectSize)
	core.SetParamInt("segments", opts.cfg.Segments)
	core.SetParam("capacity", opts.cfg.Capacity)
	core.SetParamInt("ops", opts.cfg.OpsPerInvocation)
	core.SetParamInt("iterations", opts.iterations)
	core.SetParamInt("warmups", opts.warmups)
	core.SetParamUint64("seed", opts.cfg.Seed)
	core.SetParam("sink", opts.sink)
	core.SetParam("metrics_addr", opts.metricsAddr)

	telemetry.Enable(telemetry.Config{MetricsAddr: opts.metricsAddr})

	sink, err := results.BuildSink(opts.sink, results.Options{
		Out:        stdout,
		RedisAddr:  opts.redisAddr,
		SQLitePath: opts.sqlitePath,
		JSONLPath:  opts.jsonlPath,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			log.Printf("closing %s sink: %v", opts.sink, cerr)
		}
	}()

	start := time.Now()
	var errs []error
	for _, v := range opts.variants {
		if ctx.Err() != nil {
			break
		}
		cfg := opts.cfg
		cfg.Type = v.String()
		fmt.Fprintf(stdout, "Running %s: %d iterations of %d put/get pairs\n", v, opts.iterations, cfg.OpsPerInvocation)
		res, err := core.RunTrial(ctx, cfg, core.RunOptions{
			Warmups:    opts.warmups,
			Iterations: opts.iterations,
			Observer:   telemetry.Observer(v),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", v, err))
			continue
		}
		if err := sink.Publish(ctx, res); err != nil {
			errs = append(errs, fmt.Errorf("%s: publish: %w", v, err))
		}
	}
	core.SetParamDuration("elapsed", time.Since(start).Round(time.Millisecond))
	core.PrintSummary(stdout)

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
