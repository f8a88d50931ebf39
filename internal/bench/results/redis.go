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

	"github.com/sugawarayuuta/sonnet"

	"slabbench/internal/bench/core"
)

// DefaultRedisKeyPrefix is prepended to the variant to form the list key.
const DefaultRedisKeyPrefix = "slabbench:results:"

// RedisPusher abstracts the minimal surface we need from a Redis client.
// Implementations may wrap github.com/redis/go-redis/v9 (Cmdable.RPush) or any equivalent.
type RedisPusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) (int64, error)
}

// RedisSink appends each result as a JSON document to <prefix><variant>.
type RedisSink struct {
	client RedisPusher
	prefix string
}

// NewRedisSink returns a sink pushing through client. An empty prefix selects
// DefaultRedisKeyPrefix.
func NewRedisSink(client RedisPusher, prefix string) *RedisSink {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisSink{client: client, prefix: prefix}
}

// RedisResultsKey returns the list key for variant.
func (r *RedisSink) RedisResultsKey(variant string) string { return r.prefix + variant }

func (r *RedisSink) Publish(ctx context.Context, res core.Result) error {
	doc, err := sonnet.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result variant=%s: %w", res.Variant, err)
	}
	key := r.RedisResultsKey(res.Variant)
	if _, err := r.client.RPush(ctx, key, doc); err != nil {
		return fmt.Errorf("redis rpush key=%s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client when it supports it.
func (r *RedisSink) Close() error {
	if c, ok := r.client.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
