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

// Package agent is the runtime that ties collection, delivery and
// scheduling together.
//
// An Agent owns one snapshotter, one sender and one scheduler built from
// the configuration. The scheduler fires CollectAndSend on the reporting
// frequency; the control handlers returned by Routes run the same
// operations on demand and answer 409 while another one is in flight.
//
//	a := agent.New(cfg, version, agent.WithConfigPath(path))
//	srv := server.New(server.WithHandler(a.Routes()))
//	loader.Watch(ctx, a.ApplyConfig)
//	go srv.Run(ctx)
//	return a.Run(ctx)
//
// Run reports READY=1 and STOPPING=1 to systemd and keeps the watchdog fed
// when the unit sets WatchdogSec.
package agent
