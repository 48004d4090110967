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

package collector

import (
	"runtime"
	"sort"

	"github.com/NVIDIA/inventory-agent/pkg/inventory"
)

// AnyPlatform registers a builder for every platform.
const AnyPlatform = "*"

// Builder creates the collector for one section.
type Builder func(f Factory) Collector

// Registry maps a platform tag (a GOOS value) to the section builders
// available on it. Platform-specific entries override AnyPlatform ones.
type Registry struct {
	builders map[string]map[string]Builder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: map[string]map[string]Builder{}}
}

// DefaultRegistry registers the system, hardware, software and network
// sections everywhere and platform_extra on Linux and macOS.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(AnyPlatform, inventory.SectionSystem, Factory.CreateSystemCollector)
	r.Register(AnyPlatform, inventory.SectionHardware, Factory.CreateHardwareCollector)
	r.Register(AnyPlatform, inventory.SectionSoftware, Factory.CreateSoftwareCollector)
	r.Register(AnyPlatform, inventory.SectionNetwork, Factory.CreateNetworkCollector)
	r.Register("linux", inventory.SectionPlatformExtra, Factory.CreatePlatformCollector)
	r.Register("darwin", inventory.SectionPlatformExtra, Factory.CreatePlatformCollector)
	return r
}

// Register adds or replaces the builder of section on platform.
func (r *Registry) Register(platform, section string, b Builder) {
	m, ok := r.builders[platform]
	if !ok {
		m = map[string]Builder{}
		r.builders[platform] = m
	}
	m[section] = b
}

// Sections returns the sorted section names available on platform.
func (r *Registry) Sections(platform string) []string {
	merged := r.merged(platform)
	names := make([]string, 0, len(merged))
	for n := range merged {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Collectors builds the selected collectors for platform in section name
// order. An empty platform means the running one.
func (r *Registry) Collectors(platform string, f Factory, sel Selection) []Collector {
	if platform == "" {
		platform = runtime.GOOS
	}
	merged := r.merged(platform)

	out := make([]Collector, 0, len(merged))
	for _, name := range r.Sections(platform) {
		if !sel.Enabled(name) {
			continue
		}
		if c := merged[name](f); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (r *Registry) merged(platform string) map[string]Builder {
	merged := map[string]Builder{}
	for n, b := range r.builders[AnyPlatform] {
		merged[n] = b
	}
	for n, b := range r.builders[platform] {
		merged[n] = b
	}
	return merged
}
