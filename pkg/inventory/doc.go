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

// Package inventory defines the data model shared by the collection pipeline.
//
// A Snapshot is produced by one collection run. It carries the time the run
// started, how long it took, a host identity, and one Section per provider.
// A Section either holds the provider payload or an unavailable marker with
// the provider error, so a failing provider never hides the others.
//
// Payload types (SystemInfo, Hardware, Application, Network, PlatformInfo)
// describe what the built-in providers return. Asset flattens a Snapshot into
// the per-host record sent to the collection endpoint.
package inventory
