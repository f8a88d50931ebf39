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
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Process-level totals for the end-of-run summary. Updated between
// iterations only, so atomics are plenty.
var (
	trials       atomic.Int64
	iterations   atomic.Int64
	operations   atomic.Int64
	recordBytes  atomic.Int64
	failedTrials atomic.Int64

	// params holds the human-readable run parameters captured at startup.
	paramsMu sync.RWMutex
	params   = make(map[string]string)
)

func recordTrial()   { trials.Add(1) }
func recordFailure() { failedTrials.Add(1) }

func recordIteration(ops, bytes int64) {
	iterations.Add(1)
	operations.Add(ops)
	recordBytes.Add(bytes)
}

// SetParam records a run parameter for the final summary.
func SetParam(name, value string) {
	paramsMu.Lock()
	params[name] = value
	paramsMu.Unlock()
}

func SetParamInt(name string, v int)                { SetParam(name, fmt.Sprintf("%d", v)) }
func SetParamUint64(name string, v uint64)          { SetParam(name, fmt.Sprintf("%d", v)) }
func SetParamDuration(name string, d time.Duration) { SetParam(name, d.String()) }

// Totals is a snapshot of the process-level counters.
type Totals struct {
	Trials       int64
	FailedTrials int64
	Iterations   int64
	Operations   int64
	RecordBytes  int64
}

// Snapshot returns the current totals.
func Snapshot() Totals {
	return Totals{
		Trials:       trials.Load(),
		FailedTrials: failedTrials.Load(),
		Iterations:   iterations.Load(),
		Operations:   operations.Load(),
		RecordBytes:  recordBytes.Load(),
	}
}

func paramSnapshot() map[string]string {
	paramsMu.RLock()
	defer paramsMu.RUnlock()
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// PrintSummary writes the parameters and totals in a stable order.
func PrintSummary(w io.Writer) {
	p := paramSnapshot()
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "=== slabbench summary ===")
	fmt.Fprintln(w, "parameters:")
	for _, k := range names {
		fmt.Fprintf(w, "  %-20s %s\n", k, p[k])
	}
	t := Snapshot()
	fmt.Fprintln(w, "totals:")
	fmt.Fprintf(w, "  %-20s %d\n", "trials", t.Trials)
	fmt.Fprintf(w, "  %-20s %d\n", "failed_trials", t.FailedTrials)
	fmt.Fprintf(w, "  %-20s %d\n", "iterations", t.Iterations)
	fmt.Fprintf(w, "  %-20s %d\n", "put_get_pairs", t.Operations)
	fmt.Fprintf(w, "  %-20s %d\n", "record_bytes", t.RecordBytes)
}

// resetForTests clears counters and parameters.
func resetForTests() {
	trials.Store(0)
	iterations.Store(0)
	operations.Store(0)
	recordBytes.Store(0)
	failedTrials.Store(0)
	paramsMu.Lock()
	clear(params)
	paramsMu.Unlock()
}
