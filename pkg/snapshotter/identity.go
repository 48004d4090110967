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

package snapshotter

import (
	"github.com/google/uuid"
)

// identityNamespace scopes the name-based host identity UUIDs.
var identityNamespace = uuid.MustParse("6f1d3c5e-8a4b-4e0f-9c2d-7b1a5e3f9d80")

// HostIdentity derives a deterministic UUIDv5 from the hostname and primary
// MAC address. Equal inputs always yield the same identity; distinct hosts
// may collide.
func HostIdentity(hostname, primaryMAC string) string {
	return uuid.NewSHA1(identityNamespace, []byte(hostname+"_"+primaryMAC)).String()
}
