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
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestPrintSummary_SortedParamsAndTotals(t *testing.T) {
	resetForTests()
	SetParam("type", "SLAB")
	SetParamInt("segments", 10)
	SetParamUint64("seed", 42)
	SetParamDuration("elapsed", 1500*time.Millisecond)
	recordTrial()
	recordIteration(100, 4200)
	recordIteration(100, 4300)
	recordFailure()

	var buf bytes.Buffer
	PrintSummary(&buf)
	out := buf.String()

	for _, want := range []string{"elapsed", "1.5s", "segments", "10", "seed", "42", "type", "SLAB"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "elapsed") > strings.Index(out, "type") {
		t.Fatalf("parameters not sorted:\n%s", out)
	}
	tot := Snapshot()
	if tot != (Totals{Trials: 1, FailedTrials: 1, Iterations: 2, Operations: 200, RecordBytes: 8500}) {
		t.Fatalf("totals: %+v", tot)
	}
	if !strings.Contains(out, "8500") || !strings.Contains(out, "put_get_pairs") {
		t.Fatalf("totals not printed:\n%s", out)
	}
}

func TestResetForTests_ClearsState(t *testing.T) {
	SetParam("x", "y")
	recordTrial()
	resetForTests()
	if Snapshot() != (Totals{}) {
		t.Fatalf("totals not cleared")
	}
	if len(paramSnapshot()) != 0 {
		t.Fatalf("params not cleared")
	}
}
