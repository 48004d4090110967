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
	"os"

	"github.com/NVIDIA/inventory-agent/pkg/collector/file"
	"github.com/NVIDIA/inventory-agent/pkg/measurement"
)

const subtypeRelease = "release"

var (
	filePathReleasePrimary  = "/etc/os-release"
	filePathReleaseFallback = "/usr/lib/os-release"
)

// collectRelease reads os-release key/value pairs, falling back to
// /usr/lib/os-release when /etc/os-release is absent.
//
//	NAME="Ubuntu"
//	VERSION_ID="24.04"
//	PRETTY_NAME="Ubuntu 24.04.1 LTS"
func (c *Collector) collectRelease(_ context.Context, _ *file.Parser) (*measurement.Subtype, error) {
	parser := file.NewParser(
		file.WithRoot(c.Root),
		file.WithVTrimChars(`"'`),
		file.WithSkipEmptyValues(true),
	)

	path := filePathReleasePrimary
	if _, err := os.Stat(parser.Path(path)); os.IsNotExist(err) {
		path = filePathReleaseFallback
	}

	params, err := parser.GetMap(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read os release: %w", err)
	}

	readings := make(map[string]measurement.Reading, len(params))
	for k, v := range params {
		readings[k] = measurement.Str(v)
	}
	return &measurement.Subtype{Name: subtypeRelease, Data: readings}, nil
}

// PrettyName returns the human readable OS name from os-release under root:
// PRETTY_NAME, else NAME plus VERSION, else an empty string.
func PrettyName(root string) string {
	c := &Collector{Root: root}
	st, err := c.collectRelease(context.Background(), nil)
	if err != nil {
		return ""
	}
	if v, err := st.GetString("PRETTY_NAME"); err == nil && v != "" {
		return v
	}
	name, _ := st.GetString("NAME")
	version, _ := st.GetString("VERSION")
	if name == "" {
		return ""
	}
	if version == "" {
		return name
	}
	return name + " " + version
}
