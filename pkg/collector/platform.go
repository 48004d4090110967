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
	"fmt"
	"log/slog"

	"github.com/NVIDIA/inventory-agent/pkg/inventory"
	"github.com/NVIDIA/inventory-agent/pkg/measurement"
)

// MeasurementCollector is implemented by the os and systemd collectors.
type MeasurementCollector interface {
	Name() string
	Collect(ctx context.Context) (*measurement.Measurement, error)
}

// PlatformCollector combines OS-specific measurement collectors into the
// platform_extra section. A failing part is noted in PlatformInfo.Errors.
type PlatformCollector struct {
	Platform string
	Parts    []MeasurementCollector
}

// Name returns the section name.
func (p *PlatformCollector) Name() string { return inventory.SectionPlatformExtra }

// Collect runs every part in order and returns an *inventory.PlatformInfo.
// It fails only when every part fails.
func (p *PlatformCollector) Collect(ctx context.Context) (any, error) {
	info := &inventory.PlatformInfo{
		Platform:     p.Platform,
		Measurements: make([]*measurement.Measurement, 0, len(p.Parts)),
	}
	errs := map[string]string{}

	for _, part := range p.Parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := part.Collect(ctx)
		if err != nil {
			slog.Warn("platform collector failed",
				slog.String("platform", p.Platform),
				slog.String("collector", part.Name()),
				slog.String("error", err.Error()))
			errs[part.Name()] = err.Error()
			continue
		}
		info.Measurements = append(info.Measurements, m)
	}

	if len(errs) > 0 {
		info.Errors = errs
	}
	if len(p.Parts) > 0 && len(info.Measurements) == 0 {
		return nil, fmt.Errorf("all %d platform collectors failed on %s", len(p.Parts), p.Platform)
	}
	return info, nil
}
