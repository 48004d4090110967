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

// Package api bootstraps the inventory agent daemon.
//
//	func main() {
//		if err := api.Serve(); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// Serve reads the config file named by INVENTORY_CONFIG (default
// /etc/inventory-agent/config.yaml), configures structured logging, builds
// the agent and runs it next to the local control server until SIGINT or
// SIGTERM. Edits to the config file are applied live.
//
// Control endpoints, served on web_interface.host:port:
//   - POST /collect, /send, /collect-and-send
//   - GET /status
//   - POST /test-connection
//   - GET, POST /config/server
//   - GET /health, /ready, /metrics
package api
