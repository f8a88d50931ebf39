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

// Package results publishes finished trial results to a selectable sink.
package results

import (
	"context"
	"fmt"
	"io"
	"os"

	"slabbench/internal/bench/core"
)

// Sink receives one Result per finished trial.
type Sink interface {
	Publish(ctx context.Context, res core.Result) error
	Close() error
}

// Options holds the knobs for BuildSink. Unused fields are ignored by the
// selected kind.
type Options struct {
	Out        io.Writer // log sink and logging pusher destination; defaults to os.Stdout
	RedisAddr  string    // empty selects the logging pusher
	RedisKey   string    // key prefix; defaults to DefaultRedisKeyPrefix
	SQLitePath string    // defaults to DefaultSQLitePath
	JSONLPath  string    // defaults to DefaultJSONLPath
}

func (o Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

// BuildSink constructs a Sink from a string selector.
// Supported kinds:
//   - "log": human-readable summary (default)
//   - "redis": JSON results pushed to a per-variant list
//   - "sqlite": one row per result in a local database file
//   - "jsonl": one JSON line per result appended to a file
func BuildSink(kind string, opts Options) (Sink, error) {
	switch kind {
	case "", "log":
		return NewLogSink(opts.out()), nil
	case "redis":
		var pusher RedisPusher
		if opts.RedisAddr != "" {
			pusher = NewGoRedisPusher(opts.RedisAddr)
		} else {
			pusher = LoggingRedisPusher{Out: opts.out()}
		}
		return NewRedisSink(pusher, opts.RedisKey), nil
	case "sqlite":
		path := opts.SQLitePath
		if path == "" {
			path = DefaultSQLitePath
		}
		return OpenSQLiteSink(path)
	case "jsonl":
		path := opts.JSONLPath
		if path == "" {
			path = DefaultJSONLPath
		}
		return OpenJSONLSink(path)
	default:
		return nil, fmt.Errorf("unknown results sink: %s", kind)
	}
}
