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

// Package network collects the host's network interfaces, addresses, DNS
// servers and default gateway.
//
// Interfaces are discovered through the net package. On Linux an enricher
// adds per-link traffic counters and operational state from netlink, link
// speed from /sys/class/net and the IPv4 default route. Enrichment failures
// are logged and never fail the section.
//
// Interfaces are ordered so that the most useful entries come first: up
// before down, physical before virtual, loopback last.
//
// PrimaryIP and PrimaryMAC are shared with the system collector and the host
// identity computation.
package network
