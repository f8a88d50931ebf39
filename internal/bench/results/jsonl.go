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
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/sugawarayuuta/sonnet"

	"slabbench/internal/bench/core"
)

// DefaultJSONLPath is used when no path is configured.
const DefaultJSONLPath = "slabbench_results.jsonl"

// JSONLSink appends one JSON document per result to a file. It is safe for
// concurrent use.
type JSONLSink struct {
	mu   sync.Mutex
	f    *os.File
	w    *bufio.Writer
	path string
}

// OpenJSONLSink opens (or creates) path in append mode.
func OpenJSONLSink(path string) (*JSONLSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open results log %s: %w", path, err)
	}
	return &JSONLSink{f: f, w: bufio.NewWriterSize(f, 64<<10), path: path}, nil
}

// Publish writes res as one line and flushes, so a crash loses at most the
// result in flight.
func (s *JSONLSink) Publish(ctx context.Context, res core.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := sonnet.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result variant=%s: %w", res.Variant, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(append(doc, '\n')); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return s.w.Flush()
}

// Close flushes and closes the underlying file.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Join(s.w.Flush(), s.f.Close())
}

// ReadAll reads every result stored at path. Lines that fail to decode are
// skipped.
func ReadAll(path string) ([]core.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []core.Result
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<26)
	for scanner.Scan() {
		var res core.Result
		if err := sonnet.Unmarshal(scanner.Bytes(), &res); err == nil {
			out = append(out, res)
		}
	}
	return out, scanner.Err()
}
