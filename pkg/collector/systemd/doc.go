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

// Package systemd reports systemd service states for the platform section
// of a snapshot on Linux hosts.
//
// The collector talks to systemd over D-Bus and returns a measurement of
// type SystemD with:
//
//   - summary: counts of service units by state (total, active, failed, inactive)
//   - failed: failed service units and their sub-state, when any exist
//   - one subtype per configured service with its Description, LoadState,
//     ActiveState, SubState, UnitFileState and FragmentPath
//
// Services that are not installed are omitted. Usage:
//
//	c := &systemd.Collector{Services: []string{"containerd.service"}}
//	m, err := c.Collect(ctx)
package systemd
