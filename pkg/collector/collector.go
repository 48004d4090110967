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
	"context"

	"github.com/NVIDIA/inventory-agent/pkg/inventory"
)

// Collector produces the payload of one snapshot section. Implementations
// must honor ctx and return an error rather than panic; the snapshotter
// records the error as an unavailable section.
type Collector interface {
	Name() string
	Collect(ctx context.Context) (any, error)
}

// Func adapts a function into a Collector.
type Func struct {
	name string
	fn   func(ctx context.Context) (any, error)
}

// NewFunc returns a Collector named name that calls fn.
func NewFunc(name string, fn func(ctx context.Context) (any, error)) *Func {
	return &Func{name: name, fn: fn}
}

// Name returns the section name.
func (f *Func) Name() string { return f.name }

// Collect calls the wrapped function.
func (f *Func) Collect(ctx context.Context) (any, error) { return f.fn(ctx) }

// Selection toggles optional sections. The system and platform_extra
// sections are always enabled.
type Selection struct {
	Hardware bool
	Software bool
	Network  bool
}

// AllSections enables every optional section.
func AllSections() Selection {
	return Selection{Hardware: true, Software: true, Network: true}
}

// Enabled reports whether the named section should be collected.
func (s Selection) Enabled(section string) bool {
	switch section {
	case inventory.SectionHardware:
		return s.Hardware
	case inventory.SectionSoftware:
		return s.Software
	case inventory.SectionNetwork:
		return s.Network
	default:
		return true
	}
}
