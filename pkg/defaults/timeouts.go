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

package defaults

import "time"

// Collector timeouts for data collection operations.
const (
	// CollectorTimeout bounds a single provider run.
	// Providers should respect parent context deadlines when shorter.
	CollectorTimeout = 30 * time.Second

	// CollectorCommandTimeout bounds an external command spawned by a provider
	// (package managers, dmidecode-like tools).
	CollectorCommandTimeout = 30 * time.Second

	// SnapshotCacheTTL is how long a collected snapshot is served from cache.
	SnapshotCacheTTL = 5 * time.Minute
)

// Scheduler timings.
const (
	// SchedulerPollInterval is how often the background timeline wakes to
	// check whether the next trigger is due.
	SchedulerPollInterval = 60 * time.Second

	// SchedulerStopTimeout bounds how long Stop waits for the timeline to exit.
	SchedulerStopTimeout = 5 * time.Second

	// SchedulerFireHour and SchedulerFireMinute are the time of day used by
	// the daily, weekly and monthly policies.
	SchedulerFireHour   = 2
	SchedulerFireMinute = 0
)

// Delivery settings for the transport sender.
const (
	// SenderTimeout is the default per-attempt timeout.
	SenderTimeout = 30 * time.Second

	// SenderMaxRetries is the default number of retries after the first attempt.
	SenderMaxRetries = 3

	// SenderRetryDelay is the default fixed delay between attempts.
	SenderRetryDelay = 10 * time.Second

	// SenderErrorBodyLimit caps how much of an error response body is kept.
	SenderErrorBodyLimit = 200
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	// Control actions collect and deliver inline, so it spans a full
	// collection plus the retry budget.
	ServerWriteTimeout = 5 * time.Minute

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPExpectContinueTimeout is the timeout for Expect: 100-continue.
	HTTPExpectContinueTimeout = 1 * time.Second
)

// CLI timeouts for command-line operations.
const (
	// CLISnapshotTimeout is the default timeout for a one-shot collection.
	CLISnapshotTimeout = 5 * time.Minute
)
