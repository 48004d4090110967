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
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/inventory-agent/pkg/collector/file"
	"github.com/NVIDIA/inventory-agent/pkg/measurement"
)

const subtypeSysctl = "sysctl"

var (
	sysctlRoot = "/proc/sys"

	// subtrees worth reporting in an inventory; net is large and volatile
	sysctlPrefixes = []string{
		"/proc/sys/kernel",
		"/proc/sys/vm",
		"/proc/sys/fs",
	}

	filterOutSysctlKeys = []string{
		"/proc/sys/kernel/random/*",
		"/proc/sys/fs/binfmt_misc/*",
		"/proc/sys/dev/cdrom/*",
	}
)

// collectSysctl walks selected /proc/sys subtrees and returns each readable
// parameter keyed by its /proc/sys path.
func (c *Collector) collectSysctl(ctx context.Context, p *file.Parser) (*measurement.Subtype, error) {
	base := p.Path(sysctlRoot)
	params := make(map[string]measurement.Reading)

	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == base {
				return err
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		key := "/" + strings.TrimPrefix(filepath.ToSlash(strings.TrimPrefix(path, c.Root)), "/")
		if d.IsDir() {
			if key != sysctlRoot && !hasAnyPrefix(key, sysctlPrefixes) {
				return fs.SkipDir
			}
			return nil
		}
		if !hasAnyPrefix(key, sysctlPrefixes) {
			return nil
		}

		lines, err := p.GetLines(key)
		if err != nil {
			// write-only and restricted entries are common under /proc/sys
			return nil
		}
		params[key] = measurement.Str(strings.Join(lines, "\n"))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect sysctl parameters: %w", err)
	}

	return &measurement.Subtype{
		Name: subtypeSysctl,
		Data: measurement.FilterOut(params, filterOutSysctlKeys),
	}, nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if s == p || strings.HasPrefix(s, p+"/") {
			return true
		}
	}
	return false
}
