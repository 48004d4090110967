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

// Package server provides the local HTTP control surface of the agent.
//
// Handlers are supplied by the caller and keyed by route pattern; the
// server wraps each one with the middleware chain below and adds /health,
// /ready and /metrics on its own:
//
//	s := server.New(
//		server.WithName("inventoryd"),
//		server.WithVersion(version),
//		server.WithAddress("127.0.0.1", 18743),
//		server.WithHandler(map[string]http.HandlerFunc{
//			"POST /collect": a.HandleCollect,
//		}),
//	)
//	err := s.Run(ctx) // blocks until ctx is done
//
// Middleware, outermost first:
//
//   - metrics: request count, latency and in-flight gauge by route
//   - version: X-API-Version from the Accept vendor media type
//   - request ID: X-Request-Id echoed or generated
//   - panic recovery: 500 with a structured body, never a stack trace
//   - rate limit: token bucket with X-RateLimit-* headers, 429 on reject
//   - logging: one debug record per request
//
// Errors are written as ErrorResponse bodies; WriteErrorFromErr maps a
// StructuredError code to its HTTP status.
package server
