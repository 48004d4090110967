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

// Package hardware collects the hardware section of a snapshot: processors,
// memory, mounted storage, DMI firmware identifiers and display adapters.
//
// Data comes from /proc/cpuinfo, /proc/meminfo, /proc/mounts, statfs(2),
// /sys/class/dmi/id and /sys/bus/pci/devices. Components are independent;
// a missing source is noted in Hardware.Errors and the rest is still returned.
package hardware
