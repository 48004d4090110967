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
	"context"
	"time"

	"github.com/NVIDIA/inventory-agent/pkg/inventory"
)

// Snapshotter produces inventory snapshots. Implementations cache the last
// snapshot and must be safe for concurrent use.
type Snapshotter interface {
	// Collect returns the cached snapshot while it is valid unless force is
	// set, otherwise runs every collector and caches the new snapshot.
	Collect(ctx context.Context, force bool) (*inventory.Snapshot, error)

	// Stats describes the last snapshot without collecting.
	Stats() Stats

	// ClearCache drops the cached snapshot.
	ClearCache()
}

// Stats summarizes the last collection run.
type Stats struct {
	HasSnapshot        bool              `json:"has_snapshot" yaml:"has_snapshot"`
	CollectedAt        time.Time         `json:"collected_at,omitempty" yaml:"collected_at,omitempty"`
	DurationSeconds    float64           `json:"duration_seconds" yaml:"duration_seconds"`
	CacheValid         bool              `json:"cache_valid" yaml:"cache_valid"`
	CacheAgeSeconds    float64           `json:"cache_age_seconds" yaml:"cache_age_seconds"`
	CacheTTLSeconds    float64           `json:"cache_ttl_seconds" yaml:"cache_ttl_seconds"`
	Sections           int               `json:"sections" yaml:"sections"`
	AvailableSections  int               `json:"available_sections" yaml:"available_sections"`
	Unavailable        map[string]string `json:"unavailable,omitempty" yaml:"unavailable,omitempty"`
	Applications       int               `json:"applications_count" yaml:"applications_count"`
	Interfaces         int               `json:"network_interfaces_count" yaml:"network_interfaces_count"`
	HardwareComponents int               `json:"hardware_components" yaml:"hardware_components"`
	Runs               uint64            `json:"runs" yaml:"runs"`
	CacheHits          uint64            `json:"cache_hits" yaml:"cache_hits"`
}
