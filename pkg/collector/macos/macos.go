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

package macos

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/NVIDIA/inventory-agent/pkg/defaults"
	"github.com/NVIDIA/inventory-agent/pkg/measurement"
)

// Name identifies this collector inside the platform section.
const Name = "macos"

const (
	subtypeSwVers  = "sw_vers"
	subtypeSysctl  = "sysctl"
	subtypeLaunchd = "launchd"
)

// SysctlKeys are the sysctl names reported. Keys missing on the running
// hardware (machdep.cpu.* on Apple silicon) are skipped.
var SysctlKeys = []string{
	"kern.ostype",
	"kern.osrelease",
	"kern.osrevision",
	"kern.version",
	"kern.hostname",
	"hw.model",
	"hw.machine",
	"hw.ncpu",
	"hw.physicalcpu",
	"hw.logicalcpu",
	"hw.memsize",
	"hw.pagesize",
	"machdep.cpu.brand_string",
	"machdep.cpu.vendor",
	"machdep.cpu.family",
	"machdep.cpu.model",
	"machdep.cpu.stepping",
}

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Collector gathers macOS release, sysctl and launchd details.
type Collector struct {
	Runner  Runner
	Timeout time.Duration
}

// Name returns the collector name.
func (c *Collector) Name() string { return Name }

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Collect returns a measurement with one subtype per readable source.
func (c *Collector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	sources := []struct {
		name string
		fn   func(context.Context) (map[string]measurement.Reading, error)
	}{
		{subtypeSwVers, c.collectSwVers},
		{subtypeSysctl, c.collectSysctl},
		{subtypeLaunchd, c.collectLaunchd},
	}

	res := &measurement.Measurement{Type: measurement.TypeMacOS}
	var lastErr error
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := src.fn(ctx)
		if err == nil && len(data) == 0 {
			err = fmt.Errorf("%s returned no data", src.name)
		}
		if err != nil {
			slog.Warn("macos source unavailable",
				slog.String("source", src.name),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}
		res.Subtypes = append(res.Subtypes, measurement.Subtype{Name: src.name, Data: data})
	}

	if len(res.Subtypes) == 0 {
		return nil, fmt.Errorf("no macOS sources readable: %w", lastErr)
	}
	return res, nil
}

func (c *Collector) run(ctx context.Context, name string, args ...string) (string, error) {
	runner := c.Runner
	if runner == nil {
		runner = execRunner
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaults.CollectorCommandTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := runner(cctx, name, args...)
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", name, err)
	}
	return string(out), nil
}

// collectSwVers parses "ProductVersion:\t14.5" style lines into
// product_version style keys.
func (c *Collector) collectSwVers(ctx context.Context) (map[string]measurement.Reading, error) {
	out, err := c.run(ctx, "sw_vers")
	if err != nil {
		return nil, err
	}
	return ParseSwVers(out), nil
}

// ParseSwVers parses sw_vers output.
func ParseSwVers(out string) map[string]measurement.Reading {
	data := make(map[string]measurement.Reading)
	for _, line := range strings.Split(out, "\n") {
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key := snakeCase(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		data[key] = measurement.Str(strings.TrimSpace(v))
	}
	return data
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r >= 'A' && r <= 'Z':
			if i > 0 && s[i-1] != ' ' {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// collectSysctl reads each key with sysctl -n. Numeric values are kept as
// integers.
func (c *Collector) collectSysctl(ctx context.Context) (map[string]measurement.Reading, error) {
	data := make(map[string]measurement.Reading, len(SysctlKeys))
	var lastErr error
	for _, key := range SysctlKeys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := c.run(ctx, "sysctl", "-n", key)
		if err != nil {
			lastErr = err
			continue
		}
		v := strings.TrimSpace(out)
		if v == "" {
			continue
		}
		if n, perr := strconv.ParseInt(v, 10, 64); perr == nil {
			data[key] = measurement.Int64(n)
		} else {
			data[key] = measurement.Str(v)
		}
	}
	if len(data) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return data, nil
}

func (c *Collector) collectLaunchd(ctx context.Context) (map[string]measurement.Reading, error) {
	out, err := c.run(ctx, "launchctl", "list")
	if err != nil {
		return nil, err
	}
	return ParseLaunchctlList(out), nil
}

// ParseLaunchctlList counts the jobs in "PID\tStatus\tLabel" output. A job
// with a PID is running; one without a PID and a non-zero last exit status
// has failed.
func ParseLaunchctlList(out string) map[string]measurement.Reading {
	var loaded, running, failed int
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] == "PID" {
			continue
		}
		loaded++
		switch {
		case fields[0] != "-":
			running++
		case fields[1] != "0":
			failed++
		}
	}
	if loaded == 0 {
		return nil
	}
	return map[string]measurement.Reading{
		"jobs_loaded":  measurement.Int(loaded),
		"jobs_running": measurement.Int(running),
		"jobs_failed":  measurement.Int(failed),
	}
}
