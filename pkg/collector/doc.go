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

// Package collector defines the provider contract used to build inventory
// snapshots and wires the per-domain collectors together.
//
// # Core Interface
//
// Every snapshot section is produced by a Collector:
//
//	type Collector interface {
//	    Name() string
//	    Collect(ctx context.Context) (any, error)
//	}
//
// A returned error marks the section unavailable; it never aborts the
// snapshot.
//
// # Factory and Registry
//
// The Factory interface abstracts collector creation for testing. The
// DefaultFactory provides production implementations:
//
//	factory := collector.NewDefaultFactory(
//	    collector.WithSystemDServices([]string{"sshd.service", "docker.service"}),
//	)
//
// The Registry maps a platform tag to the sections available on it and is
// consulted once at startup:
//
//	collectors := collector.DefaultRegistry().Collectors(runtime.GOOS, factory, collector.AllSections())
//
// # Sections
//
//   - system: hostname, OS, architecture, primary IP and MAC (always on)
//   - hardware: CPU, memory, storage, DMI, display adapters
//   - software: installed packages
//   - network: interfaces, DNS, default gateway
//   - platform_extra: os and systemd measurements on Linux, macos on darwin
//
// # Subpackages
//   - collector/file - bounded file parser shared by the collectors
//   - collector/hardware, collector/software, collector/network, collector/system
//   - collector/os, collector/systemd, collector/macos - platform_extra parts
package collector
