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
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sugawarayuuta/sonnet"

	"slabbench/internal/bench/core"
)

// DefaultSQLitePath is used when no path is configured.
const DefaultSQLitePath = "slabbench_results.db"

const createResultsTable = `
CREATE TABLE IF NOT EXISTS results (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	variant              TEXT    NOT NULL,
	started              TEXT    NOT NULL,
	ops_per_invocation   INTEGER NOT NULL,
	warmups              INTEGER NOT NULL,
	iterations           INTEGER NOT NULL,
	segments             INTEGER NOT NULL,
	capacity_per_segment INTEGER NOT NULL,
	min_object_size      INTEGER NOT NULL,
	max_object_size      INTEGER NOT NULL,
	seed                 TEXT    NOT NULL,
	checksum             INTEGER NOT NULL,
	ops_per_sec          REAL    NOT NULL,
	ns_per_op            REAL    NOT NULL,
	p50_nanos            INTEGER NOT NULL,
	p99_nanos            INTEGER NOT NULL,
	elapsed_nanos        INTEGER NOT NULL,
	iteration_nanos      TEXT    NOT NULL,
	used_bytes           INTEGER NOT NULL,
	live_bytes           INTEGER NOT NULL,
	compactions          INTEGER NOT NULL
)`

const insertResult = `
INSERT INTO results (
	variant, started, ops_per_invocation, warmups, iterations, segments,
	capacity_per_segment, min_object_size, max_object_size, seed, checksum,
	ops_per_sec, ns_per_op, p50_nanos, p99_nanos, elapsed_nanos, iteration_nanos,
	used_bytes, live_bytes, compactions
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteSink stores one row per result.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLiteSink opens (or creates) the database at path and ensures the
// results table exists.
func OpenSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(createResultsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create results table in %s: %w", path, err)
	}
	return &SQLiteSink{db: db}, nil
}

func (s *SQLiteSink) Publish(ctx context.Context, res core.Result) error {
	durations, err := sonnet.Marshal(res.Durations)
	if err != nil {
		return fmt.Errorf("encode iteration durations: %w", err)
	}
	_, err = s.db.ExecContext(ctx, insertResult,
		res.Variant,
		res.Started.UTC().Format(time.RFC3339Nano),
		res.OpsPerInvocation,
		res.Warmups,
		res.Iterations,
		res.Segments,
		res.CapacityPerSegment,
		res.MinObjectSize,
		res.MaxObjectSize,
		strconv.FormatUint(res.Seed, 10),
		res.Checksum,
		res.OpsPerSec,
		res.NsPerOp,
		int64(res.P50),
		int64(res.P99),
		int64(res.Elapsed),
		string(durations),
		res.UsedBytes,
		res.LiveBytes,
		res.Compactions,
	)
	if err != nil {
		return fmt.Errorf("insert result variant=%s: %w", res.Variant, err)
	}
	return nil
}

func (s *SQLiteSink) Close() error { return s.db.Close() }
