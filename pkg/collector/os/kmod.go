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
	"strconv"

	"github.com/NVIDIA/inventory-agent/pkg/collector/file"
	"github.com/NVIDIA/inventory-agent/pkg/measurement"
)

const subtypeKMod = "kmod"

var filePathKMod = "/proc/modules"

// collectKMod lists loaded kernel modules keyed by name with their size in bytes.
//
//	nvidia 56705024 2 nvidia_uvm,nvidia_modeset, Live 0x0000000000000000
func (c *Collector) collectKMod(_ context.Context, p *file.Parser) (*measurement.Subtype, error) {
	rows, err := p.GetFields(filePathKMod)
	if err != nil {
		return nil, fmt.Errorf("failed to read kernel modules: %w", err)
	}

	readings := make(map[string]measurement.Reading, len(rows))
	for _, f := range rows {
		if len(f) == 0 {
			continue
		}
		var size uint64
		if len(f) > 1 {
			size, _ = strconv.ParseUint(f[1], 10, 64)
		}
		readings[f[0]] = measurement.Uint64(size)
	}
	return &measurement.Subtype{
		Name:    subtypeKMod,
		Data:    readings,
		Context: map[string]string{"count": strconv.Itoa(len(readings))},
	}, nil
}
