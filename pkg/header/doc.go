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

// Package header provides the common document header carried by agent outputs.
//
// Snapshots, status reports and rendered configuration all embed Header so
// that consumers can identify the document type and schema version:
//
//	snap.Init(header.KindSnapshot, inventory.APIVersion, version, collectedAt)
//
// Metadata holds a small set of string key/value pairs such as the
// collection timestamp, agent version and hostname.
package header
