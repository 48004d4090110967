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
	"time"

	"github.com/NVIDIA/inventory-agent/pkg/collector/hardware"
	"github.com/NVIDIA/inventory-agent/pkg/collector/macos"
	"github.com/NVIDIA/inventory-agent/pkg/collector/network"
	osc "github.com/NVIDIA/inventory-agent/pkg/collector/os"
	"github.com/NVIDIA/inventory-agent/pkg/collector/software"
	"github.com/NVIDIA/inventory-agent/pkg/collector/system"
	"github.com/NVIDIA/inventory-agent/pkg/collector/systemd"
	"github.com/NVIDIA/inventory-agent/pkg/defaults"
)

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateSystemCollector() Collector
	CreateHardwareCollector() Collector
	CreateSoftwareCollector() Collector
	CreateNetworkCollector() Collector
	CreatePlatformCollector() Collector
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	SystemDServices []string
	Root            string
	GOOS            string
	CommandTimeout  time.Duration
}

// Option configures a DefaultFactory.
type Option func(*DefaultFactory)

// WithSystemDServices sets the services inspected by the systemd collector.
func WithSystemDServices(services []string) Option {
	return func(f *DefaultFactory) {
		f.SystemDServices = services
	}
}

// WithRoot reads host files under root instead of /.
func WithRoot(root string) Option {
	return func(f *DefaultFactory) {
		f.Root = root
	}
}

// WithGOOS overrides the platform used to pick package managers.
func WithGOOS(goos string) Option {
	return func(f *DefaultFactory) {
		f.GOOS = goos
	}
}

// WithCommandTimeout bounds each external command a collector runs.
func WithCommandTimeout(d time.Duration) Option {
	return func(f *DefaultFactory) {
		f.CommandTimeout = d
	}
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory(opts ...Option) *DefaultFactory {
	f := &DefaultFactory{
		SystemDServices: systemd.DefaultServices,
		GOOS:            runtime.GOOS,
		CommandTimeout:  defaults.CollectorCommandTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateSystemCollector creates the always-on system collector.
func (f *DefaultFactory) CreateSystemCollector() Collector {
	return f.SystemCollector()
}

// SystemCollector returns the concrete system collector, which also
// provides the host facts used for identity.
func (f *DefaultFactory) SystemCollector() *system.Collector {
	return &system.Collector{Root: f.Root}
}

// CreateHardwareCollector creates a hardware collector.
func (f *DefaultFactory) CreateHardwareCollector() Collector {
	return &hardware.Collector{Root: f.Root}
}

// CreateSoftwareCollector creates a package manager collector.
func (f *DefaultFactory) CreateSoftwareCollector() Collector {
	c := software.NewCollector(f.GOOS)
	c.Timeout = f.CommandTimeout
	return c
}

// CreateNetworkCollector creates a network collector.
func (f *DefaultFactory) CreateNetworkCollector() Collector {
	return &network.Collector{Root: f.Root}
}

// CreatePlatformCollector creates the platform_extra composite: sysctl,
// sw_vers and launchd on darwin, the os and systemd collectors elsewhere.
func (f *DefaultFactory) CreatePlatformCollector() Collector {
	if f.GOOS == "darwin" {
		return &PlatformCollector{
			Platform: f.GOOS,
			Parts: []MeasurementCollector{
				&macos.Collector{Timeout: f.CommandTimeout},
			},
		}
	}
	return &PlatformCollector{
		Platform: f.GOOS,
		Parts: []MeasurementCollector{
			&osc.Collector{Root: f.Root},
			&systemd.Collector{Services: f.SystemDServices},
		},
	}
}
