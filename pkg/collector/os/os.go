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

package os

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NVIDIA/inventory-agent/pkg/collector/file"
	"github.com/NVIDIA/inventory-agent/pkg/measurement"
)

// Name identifies this collector inside the platform section.
const Name = "os"

// Collector gathers Linux operating system details: release, kernel,
// boot parameters, loaded modules and sysctl settings.
type Collector struct {
	// Root is prepended to every path read; empty reads the live host.
	Root string
}

// Name returns the collector name.
func (c *Collector) Name() string { return Name }

type subtypeFunc func(ctx context.Context, p *file.Parser) (*measurement.Subtype, error)

// Collect returns a measurement with one subtype per source that could be
// read. Unreadable sources are logged and skipped; Collect fails only when
// none succeed or ctx is done.
func (c *Collector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	slog.Debug("collecting OS configuration", slog.String("root", c.Root))

	sources := []struct {
		name string
		fn   subtypeFunc
	}{
		{subtypeRelease, c.collectRelease},
		{subtypeKernel, c.collectKernel},
		{subtypeGrub, c.collectGRUB},
		{subtypeKMod, c.collectKMod},
		{subtypeSysctl, c.collectSysctl},
	}

	res := &measurement.Measurement{Type: measurement.TypeOS}
	var lastErr error
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st, err := src.fn(ctx, file.NewParser(file.WithRoot(c.Root)))
		if err != nil {
			slog.Warn("os source unavailable",
				slog.String("source", src.name),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}
		res.Subtypes = append(res.Subtypes, *st)
	}

	if len(res.Subtypes) == 0 {
		return nil, fmt.Errorf("no OS sources readable: %w", lastErr)
	}
	return res, nil
}
