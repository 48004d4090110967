// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

// Package snapshotter assembles inventory snapshots from the registered
// collectors and caches the result.
//
// HostSnapshotter runs every collector once per run, sequentially by
// default or concurrently when Parallel is set. A collector that returns an
// error or panics is recorded as an unavailable section; the run itself
// still succeeds. The assembled snapshot is cached for CacheTTL (5 minutes
// by default):
//
//	snap := snapshotter.NewHostSnapshotter(version, collectors)
//	s, err := snap.Collect(ctx, false) // cached while valid
//	s, err = snap.Collect(ctx, true)   // always collects
//
// The cache holds a single entry that is swapped atomically, so concurrent
// callers never observe a partially built snapshot. Errors returned by
// Collect are StructuredErrors: TIMEOUT for a canceled context and INTERNAL
// for faults in the pipeline itself.
//
// The host identity is a UUIDv5 of hostname and primary MAC address,
// computed once per process.
//
// # Observability
//
// Prometheus metrics:
//   - inventory_snapshot_collection_duration_seconds
//   - inventory_snapshot_collection_total{status}
//   - inventory_snapshot_provider_duration_seconds{provider}
//   - inventory_snapshot_provider_failures_total{provider}
//   - inventory_snapshot_sections{state}
package snapshotter
