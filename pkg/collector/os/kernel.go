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

	"github.com/NVIDIA/inventory-agent/pkg/collector/file"
	"github.com/NVIDIA/inventory-agent/pkg/measurement"
)

const subtypeKernel = "kernel"

var kernelFiles = map[string]string{
	"release":  "/proc/sys/kernel/osrelease",
	"type":     "/proc/sys/kernel/ostype",
	"version":  "/proc/sys/kernel/version",
	"hostname": "/proc/sys/kernel/hostname",
}

// collectKernel reads kernel identity values from /proc/sys/kernel.
func (c *Collector) collectKernel(_ context.Context, p *file.Parser) (*measurement.Subtype, error) {
	readings := make(map[string]measurement.Reading, len(kernelFiles))
	for key, path := range kernelFiles {
		v, err := p.GetValue(path)
		if err != nil {
			continue
		}
		readings[key] = measurement.Str(v)
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("no kernel information under %s", p.Path("/proc/sys/kernel"))
	}
	return &measurement.Subtype{Name: subtypeKernel, Data: readings}, nil
}
