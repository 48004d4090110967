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
	"strings"
)

// SourcesFor returns the package manager queries for a GOOS value.
func SourcesFor(goos string) []Source {
	switch goos {
	case "linux":
		return []Source{dpkg, rpm, pacman, snap, flatpak}
	case "darwin":
		return []Source{brew}
	default:
		return nil
	}
}

var (
	dpkg = Source{
		Name:    "dpkg",
		Command: "dpkg-query",
		Args:    []string{"-W", "-f", `${db:Status-Abbrev}\t${Package}\t${Version}\n`},
		Vendor:  "Debian Package",
		Type:    "package",
		Parse:   parseDpkg,
	}
	rpm = Source{
		Name:    "rpm",
		Command: "rpm",
		Args:    []string{"-qa", "--queryformat", `%{NAME} %{VERSION}-%{RELEASE}\n`},
		Vendor:  "RPM Package",
		Type:    "package",
		Parse:   parseSpaced(0),
	}
	pacman = Source{
		Name:    "pacman",
		Command: "pacman",
		Args:    []string{"-Q"},
		Vendor:  "Arch Package",
		Type:    "package",
		Parse:   parseSpaced(0),
	}
	snap = Source{
		Name:    "snap",
		Command: "snap",
		Args:    []string{"list"},
		Vendor:  "Snap Package",
		Type:    "snap",
		Parse:   parseSpaced(1),
	}
	flatpak = Source{
		Name:    "flatpak",
		Command: "flatpak",
		Args:    []string{"list", "--app", "--columns=name,version"},
		Vendor:  "Flatpak",
		Type:    "flatpak",
		Parse:   parseTabbed,
	}
	brew = Source{
		Name:    "homebrew",
		Command: "brew",
		Args:    []string{"list", "--versions"},
		Vendor:  "Homebrew",
		Type:    "package",
		Parse:   parseSpaced(0),
	}
)

// parseDpkg keeps only installed ("ii") packages.
func parseDpkg(out string) [][2]string {
	var res [][2]string
	for _, line := range strings.Split(out, "\n") {
		f := strings.Split(line, "\t")
		if len(f) < 3 || strings.TrimSpace(f[0]) != "ii" {
			continue
		}
		res = append(res, [2]string{f[1], f[2]})
	}
	return res
}

// parseSpaced reads "name version ..." lines after skipping header lines.
func parseSpaced(header int) func(string) [][2]string {
	return func(out string) [][2]string {
		var res [][2]string
		for i, line := range strings.Split(out, "\n") {
			if i < header {
				continue
			}
			f := strings.Fields(line)
			if len(f) < 2 {
				continue
			}
			res = append(res, [2]string{f[0], f[1]})
		}
		return res
	}
}

func parseTabbed(out string) [][2]string {
	var res [][2]string
	for _, line := range strings.Split(out, "\n") {
		name, version, ok := strings.Cut(line, "\t")
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		res = append(res, [2]string{name, version})
	}
	return res
}
