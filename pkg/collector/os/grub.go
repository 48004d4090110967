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

const subtypeGrub = "grub"

var (
	filePathGrub = "/proc/cmdline"

	// boot parameters that identify disks or carry secrets
	filterOutGrubKeys = []string{
		"root",
		"resume",
		"*password*",
	}
)

// collectGRUB parses the kernel command line into key/value boot parameters.
// Flags without a value (e.g. "quiet") map to an empty string.
func (c *Collector) collectGRUB(_ context.Context, _ *file.Parser) (*measurement.Subtype, error) {
	parser := file.NewParser(
		file.WithRoot(c.Root),
		file.WithDelimiter(" "),
	)

	params, err := parser.GetMap(filePathGrub)
	if err != nil {
		return nil, fmt.Errorf("failed to read boot parameters: %w", err)
	}

	props := make(map[string]measurement.Reading, len(params))
	for k, v := range params {
		props[k] = measurement.Str(v)
	}
	return &measurement.Subtype{
		Name: subtypeGrub,
		Data: measurement.FilterOut(props, filterOutGrubKeys),
	}, nil
}
