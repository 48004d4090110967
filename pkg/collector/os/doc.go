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

// Package os collects Linux operating system details for the platform
// section of a snapshot.
//
// The collector returns one measurement of type OS with these subtypes:
//
//   - release: os-release fields (NAME, VERSION_ID, PRETTY_NAME, ...)
//   - kernel: kernel release, type and build version from /proc/sys/kernel
//   - grub: kernel command line parameters, with disk identifiers removed
//   - kmod: loaded kernel modules and their size
//   - sysctl: parameters under /proc/sys/kernel, vm and fs
//
// Sources that cannot be read are skipped, so containers and minimal hosts
// still report what is available. Set Root to read a host filesystem mounted
// elsewhere:
//
//	c := &os.Collector{Root: "/host"}
//	m, err := c.Collect(ctx)
package os
