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

package results

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"slabbench/internal/bench/core"
)

// LogSink prints a short human summary of each result.
type LogSink struct {
	mu  sync.Mutex
	out io.Writer
}

func NewLogSink(out io.Writer) *LogSink { return &LogSink{out: out} }

func (s *LogSink) Publish(ctx context.Context, res core.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.out,
		"[%s] %d iterations x %s ops: %s ops/s, %.1f ns/op, p50=%v p99=%v, %s record bytes/iteration, capacity/segment=%s%s, elapsed=%v\n",
		res.Variant,
		res.Iterations,
		humanize.Comma(int64(res.OpsPerInvocation)),
		humanize.CommafWithDigits(res.OpsPerSec, 0),
		res.NsPerOp,
		res.P50.Round(time.Microsecond),
		res.P99.Round(time.Microsecond),
		humanize.Bytes(bytesPerIteration(res)),
		capacityLabel(res.CapacityPerSegment),
		occupancyLabel(res),
		res.Elapsed.Round(time.Millisecond),
	)
	return err
}

func (s *LogSink) Close() error { return nil }

func bytesPerIteration(res core.Result) uint64 {
	if res.Iterations <= 0 || res.Checksum <= 0 {
		return 0
	}
	return uint64(res.Checksum / int64(res.Iterations))
}

func capacityLabel(n int) string {
	if n <= 0 {
		return "n/a"
	}
	return humanize.IBytes(uint64(n))
}

func occupancyLabel(res core.Result) string {
	if res.UsedBytes <= 0 {
		return ""
	}
	return fmt.Sprintf(", slab used=%s live=%s compactions=%d",
		humanize.IBytes(uint64(res.UsedBytes)), humanize.IBytes(uint64(res.LiveBytes)), res.Compactions)
}
