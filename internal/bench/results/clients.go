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
	"os"

	redis "github.com/redis/go-redis/v9"
)

// LoggingRedisPusher just prints the push to Out (os.Stdout when nil). It
// lets the redis sink be selected without a running server.
type LoggingRedisPusher struct {
	Out io.Writer
}

func (l LoggingRedisPusher) RPush(ctx context.Context, key string, values ...interface{}) (int64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}
	out := l.Out
	if out == nil {
		out = os.Stdout
	}
	for _, v := range values {
		if b, ok := v.([]byte); ok {
			fmt.Fprintf(out, "[redis-demo] RPUSH %s %s\n", key, truncate(string(b), 256))
			continue
		}
		fmt.Fprintf(out, "[redis-demo] RPUSH %s %v\n", key, v)
	}
	return int64(len(values)), nil
}

// GoRedisPusher implements RedisPusher on top of github.com/redis/go-redis/v9.
type GoRedisPusher struct{ c *redis.Client }

// NewGoRedisPusher connects lazily to addr, e.g. "127.0.0.1:6379".
func NewGoRedisPusher(addr string) *GoRedisPusher {
	opt := &redis.Options{Addr: addr}
	return &GoRedisPusher{c: redis.NewClient(opt)}
}

func (g *GoRedisPusher) RPush(ctx context.Context, key string, values ...interface{}) (int64, error) {
	return g.c.RPush(ctx, key, values...).Result()
}

func (g *GoRedisPusher) Close() error { return g.c.Close() }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
