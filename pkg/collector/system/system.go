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

package system

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	osc "github.com/NVIDIA/inventory-agent/pkg/collector/os"
	"github.com/NVIDIA/inventory-agent/pkg/collector/network"
	"github.com/NVIDIA/inventory-agent/pkg/inventory"
)

// Name is the section this collector fills.
const Name = inventory.SectionSystem

const (
	utmpRecordSize  = 384
	utmpUserProcess = 7
	utmpUserOffset  = 44
	utmpUserSize    = 32
)

var utmpPaths = []string{"/var/run/utmp", "/run/utmp"}

// Facts are the host attributes the identity is derived from.
type Facts struct {
	Hostname   string
	PrimaryMAC string
}

// HostStats holds load figures read from the kernel.
type HostStats struct {
	UptimeSeconds int64
	LoadAverage   []float64
	Processes     int
}

// Collector gathers the always-on system section.
type Collector struct {
	// Root is prepended to release and utmp paths; empty reads the live host.
	Root string

	// Interfaces lists host interfaces; nil uses net.Interfaces.
	Interfaces func() ([]net.Interface, error)

	// PrimaryIP resolves the outbound address; nil uses network.PrimaryIP.
	PrimaryIP func([]net.Interface) string
}

// Name returns the section name.
func (c *Collector) Name() string { return Name }

// Collect returns an *inventory.SystemInfo. Only a missing hostname is fatal;
// every other field degrades to a best-effort value.
func (c *Collector) Collect(ctx context.Context) (any, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("failed to read hostname: %w", err)
	}

	ifaces := c.interfaces()
	ipFn := c.PrimaryIP
	if ipFn == nil {
		ipFn = network.PrimaryIP
	}

	kernel, machine := uname()
	info := &inventory.SystemInfo{
		Hostname:     host,
		OS:           c.osName(),
		Platform:     runtime.GOOS,
		Kernel:       kernel,
		Machine:      machine,
		Architecture: ArchitectureLabel(machine),
		PrimaryIP:    ipFn(ifaces),
		PrimaryMAC:   network.PrimaryMAC(ifaces),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if st, err := hostStats(); err == nil {
		info.UptimeSeconds = st.UptimeSeconds
		info.LoadAverage = st.LoadAverage
		info.Processes = st.Processes
	} else {
		slog.Debug("host stats unavailable", slog.String("error", err.Error()))
	}

	info.UserCount = c.userCount()
	return info, nil
}

// HostFacts reads the hostname and primary MAC address.
func (c *Collector) HostFacts() (Facts, error) {
	host, err := os.Hostname()
	if err != nil {
		return Facts{}, fmt.Errorf("failed to read hostname: %w", err)
	}
	return Facts{Hostname: host, PrimaryMAC: network.PrimaryMAC(c.interfaces())}, nil
}

func (c *Collector) interfaces() []net.Interface {
	list := c.Interfaces
	if list == nil {
		list = net.Interfaces
	}
	ifaces, err := list()
	if err != nil {
		slog.Debug("failed to list interfaces", slog.String("error", err.Error()))
		return nil
	}
	return ifaces
}

func (c *Collector) osName() string {
	if runtime.GOOS == "linux" {
		if n := osc.PrettyName(c.Root); n != "" {
			return n
		}
	}
	return runtime.GOOS
}

func (c *Collector) userCount() int {
	for _, p := range utmpPaths {
		b, err := os.ReadFile(filepath.Join(c.Root, p))
		if err != nil {
			continue
		}
		return CountUsers(b)
	}
	return 0
}

// CountUsers counts USER_PROCESS records with a non-empty user in a
// Linux utmp image.
func CountUsers(b []byte) int {
	n := 0
	for off := 0; off+utmpRecordSize <= len(b); off += utmpRecordSize {
		rec := b[off : off+utmpRecordSize]
		if int16(binary.LittleEndian.Uint16(rec[0:2])) != utmpUserProcess {
			continue
		}
		user := rec[utmpUserOffset : utmpUserOffset+utmpUserSize]
		if len(bytes.TrimRight(user, "\x00")) == 0 {
			continue
		}
		n++
	}
	return n
}

// ArchitectureLabel maps a machine name to "64-bit" or "32-bit", or returns
// the machine name when the width is unknown.
func ArchitectureLabel(machine string) string {
	m := strings.ToLower(machine)
	switch {
	case m == "":
		return "unknown"
	case strings.Contains(m, "64") || m == "s390x":
		return "64-bit"
	case m == "i386" || m == "i486" || m == "i586" || m == "i686" || m == "x86" || m == "386" ||
		strings.HasPrefix(m, "armv7") || strings.HasPrefix(m, "armv6") || m == "arm":
		return "32-bit"
	default:
		return machine
	}
}
