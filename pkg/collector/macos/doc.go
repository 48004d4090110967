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

// Package macos collects the platform_extra details of a macOS host.
//
// Three sources are read, each with its own command timeout:
//
//   - sw_vers: product name, version and build
//   - sysctl: kernel, hardware and CPU identifiers (kern.*, hw.*, machdep.cpu.*)
//   - launchctl list: counts of loaded, running and failed launchd jobs
//
// A source that fails is logged and skipped. Collect fails only when none
// of them produce data.
package macos
