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

// Package software collects installed packages for the software section of
// a snapshot.
//
// On Linux the collector queries dpkg, rpm, pacman, snap and flatpak; on
// macOS it queries Homebrew. Each query runs as an external command bounded
// by a timeout. Managers that are not installed are skipped. The resulting
// list is deduplicated by case-insensitive name and version and sorted by
// name.
package software
