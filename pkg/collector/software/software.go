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

package software

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/NVIDIA/inventory-agent/pkg/defaults"
	"github.com/NVIDIA/inventory-agent/pkg/inventory"
)

// Name is the section this collector fills.
const Name = inventory.SectionSoftware

// ErrNoPackageManager is returned when none of the known package managers
// is installed on the host.
var ErrNoPackageManager = errors.New("no supported package manager found")

// Runner executes a command and returns its standard output. It returns an
// error wrapping exec.ErrNotFound when the binary is not installed.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Source is one package manager query.
type Source struct {
	Name    string
	Command string
	Args    []string
	Vendor  string
	Type    string
	// Parse turns command output into name/version pairs.
	Parse func(out string) [][2]string
}

// Collector enumerates installed packages from every available package
// manager, then deduplicates and sorts them.
type Collector struct {
	Sources []Source
	Runner  Runner
	Timeout time.Duration
}

// NewCollector returns a collector with the sources known for goos.
func NewCollector(goos string) *Collector {
	return &Collector{
		Sources: SourcesFor(goos),
		Runner:  execRunner,
		Timeout: defaults.CollectorCommandTimeout,
	}
}

// Name returns the section name.
func (c *Collector) Name() string { return Name }

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, err
	}
	return exec.CommandContext(ctx, name, args...).Output()
}

// Collect returns []inventory.Application. A source that is missing or
// fails is logged and skipped; Collect fails only when no source is installed.
func (c *Collector) Collect(ctx context.Context) (any, error) {
	runner := c.Runner
	if runner == nil {
		runner = execRunner
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaults.CollectorCommandTimeout
	}
	sources := c.Sources
	if sources == nil {
		sources = SourcesFor(runtime.GOOS)
	}

	var apps []inventory.Application
	found := 0
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cctx, cancel := context.WithTimeout(ctx, timeout)
		out, err := runner(cctx, src.Command, src.Args...)
		cancel()
		if err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				continue
			}
			found++
			slog.Warn("package query failed",
				slog.String("source", src.Name),
				slog.String("error", err.Error()))
			continue
		}
		found++

		pairs := src.Parse(string(out))
		for _, p := range pairs {
			apps = append(apps, inventory.Application{
				Name:    cleanString(p[0]),
				Version: parseVersion(p[1]),
				Vendor:  src.Vendor,
				Type:    src.Type,
			})
		}
		slog.Debug("packages found", slog.String("source", src.Name), slog.Int("count", len(pairs)))
	}

	if found == 0 {
		return nil, fmt.Errorf("%w (tried %d sources)", ErrNoPackageManager, len(sources))
	}
	return Cleanup(apps), nil
}

// Cleanup drops nameless entries, removes duplicates by case-insensitive
// name plus version, and sorts by name.
func Cleanup(apps []inventory.Application) []inventory.Application {
	seen := make(map[string]struct{}, len(apps))
	out := make([]inventory.Application, 0, len(apps))
	for _, a := range apps {
		if strings.TrimSpace(a.Name) == "" {
			continue
		}
		key := strings.ToLower(a.Name) + "_" + a.Version
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func cleanString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}

func parseVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == "(none)" {
		return "Unknown"
	}
	return v
}
