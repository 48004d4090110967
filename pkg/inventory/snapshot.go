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

package inventory

import (
	"sort"
	"time"

	"github.com/NVIDIA/inventory-agent/pkg/header"
)

// APIVersion is the schema version stamped on every Snapshot header.
const APIVersion = "inventory.nvidia.com/v1"

// Well-known section names.
const (
	SectionSystem        = "system"
	SectionHardware      = "hardware"
	SectionSoftware      = "software"
	SectionNetwork       = "network"
	SectionPlatformExtra = "platform_extra"
)

// Section is one provider's contribution to a Snapshot: either its payload
// or an unavailable marker carrying the provider error.
type Section struct {
	Name      string        `json:"name" yaml:"name"`
	Available bool          `json:"available" yaml:"available"`
	Data      any           `json:"data,omitempty" yaml:"data,omitempty"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// NewSection returns an available section holding data.
func NewSection(name string, data any, d time.Duration) Section {
	return Section{Name: name, Available: true, Data: data, Duration: d}
}

// UnavailableSection returns a section marking the provider as failed.
func UnavailableSection(name string, err error, d time.Duration) Section {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Section{Name: name, Error: msg, Duration: d}
}

// Snapshot is the result of one collection run.
// A Snapshot is never modified after the orchestrator returns it; callers
// that need a variant must build a new one.
type Snapshot struct {
	header.Header `json:",inline" yaml:",inline"`

	CollectedAt  time.Time          `json:"collected_at" yaml:"collected_at"`
	Duration     time.Duration      `json:"duration" yaml:"duration"`
	HostIdentity string             `json:"host_identity" yaml:"host_identity"`
	Sections     map[string]Section `json:"sections" yaml:"sections"`
}

// Section returns the named section.
func (s *Snapshot) Section(name string) (Section, bool) {
	sec, ok := s.Sections[name]
	return sec, ok
}

// SectionNames returns the section names in sorted order.
func (s *Snapshot) SectionNames() []string {
	names := make([]string, 0, len(s.Sections))
	for n := range s.Sections {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Unavailable returns the failed sections keyed by name with their errors.
func (s *Snapshot) Unavailable() map[string]string {
	out := make(map[string]string)
	for n, sec := range s.Sections {
		if !sec.Available {
			out[n] = sec.Error
		}
	}
	return out
}

// AvailableCount returns the number of populated sections.
func (s *Snapshot) AvailableCount() int {
	n := 0
	for _, sec := range s.Sections {
		if sec.Available {
			n++
		}
	}
	return n
}

// Applications returns the software payload, or nil when unavailable.
func (s *Snapshot) Applications() []Application {
	if sec, ok := s.Sections[SectionSoftware]; ok && sec.Available {
		if apps, ok := sec.Data.([]Application); ok {
			return apps
		}
	}
	return nil
}

// Hardware returns the hardware payload, or nil when unavailable.
func (s *Snapshot) Hardware() *Hardware {
	if sec, ok := s.Sections[SectionHardware]; ok && sec.Available {
		if hw, ok := sec.Data.(*Hardware); ok {
			return hw
		}
	}
	return nil
}

// Network returns the network payload, or nil when unavailable.
func (s *Snapshot) Network() *Network {
	if sec, ok := s.Sections[SectionNetwork]; ok && sec.Available {
		if nw, ok := sec.Data.(*Network); ok {
			return nw
		}
	}
	return nil
}

// System returns the system payload, or nil when unavailable.
func (s *Snapshot) System() *SystemInfo {
	if sec, ok := s.Sections[SectionSystem]; ok && sec.Available {
		if si, ok := sec.Data.(*SystemInfo); ok {
			return si
		}
	}
	return nil
}
