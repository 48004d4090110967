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

// Package defaults provides centralized configuration constants for the agent.
//
// This package defines timeout values, retry parameters, and scheduling
// tunables used across the codebase. Centralizing these values ensures
// consistency and makes tuning easier.
//
// # Categories
//
//   - Collector timeouts: provider runs and the commands they spawn
//   - Scheduler timings: poll interval, stop timeout, time of day
//   - Sender settings: per-attempt timeout, retry count and delay
//   - Server timeouts: control surface HTTP server
//   - HTTP client timeouts: outbound delivery transport
//
// # Usage
//
//	import "github.com/NVIDIA/inventory-agent/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CollectorTimeout)
//	defer cancel()
package defaults
