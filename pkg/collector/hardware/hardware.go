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

package hardware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/NVIDIA/inventory-agent/pkg/collector/file"
	"github.com/NVIDIA/inventory-agent/pkg/inventory"
)

// Name is the section this collector fills.
const Name = inventory.SectionHardware

var (
	filePathCPUInfo = "/proc/cpuinfo"
	filePathMemInfo = "/proc/meminfo"
	filePathMounts  = "/proc/mounts"
	dirDMI          = "/sys/class/dmi/id"
	dirPCIDevices   = "/sys/bus/pci/devices"

	// PCI vendor ids of common display controller makers
	pciVendors = map[string]string{
		"0x10de": "NVIDIA Corporation",
		"0x1002": "Advanced Micro Devices, Inc. [AMD/ATI]",
		"0x8086": "Intel Corporation",
		"0x1a03": "ASPEED Technology, Inc.",
		"0x15ad": "VMware",
		"0x1234": "QEMU",
	}
)

// StatFunc reports total, free and available bytes of the filesystem at path.
type StatFunc func(path string) (total, free, avail uint64, err error)

// Collector gathers CPU, memory, storage, firmware and display adapter facts.
type Collector struct {
	// Root is prepended to every /proc and /sys path; empty reads the live host.
	Root string

	// Stat queries mounted filesystems; nil uses statfs(2).
	Stat StatFunc
}

// Name returns the section name.
func (c *Collector) Name() string { return Name }

// Collect returns an *inventory.Hardware. Each component is gathered
// independently; failures are listed in Hardware.Errors and Collect fails
// only when no component could be read.
func (c *Collector) Collect(ctx context.Context) (any, error) {
	slog.Debug("collecting hardware information")

	p := file.NewParser(file.WithRoot(c.Root))
	hw := &inventory.Hardware{Errors: map[string]string{}}

	record := func(component string, err error) {
		hw.Errors[component] = err.Error()
		slog.Debug("hardware component unavailable",
			slog.String("component", component),
			slog.String("error", err.Error()))
	}

	if cpu, err := c.collectCPU(p); err != nil {
		record("cpu", err)
	} else {
		hw.CPU = cpu
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if mem, err := c.collectMemory(p); err != nil {
		record("memory", err)
	} else {
		hw.Memory = mem
	}

	if st, err := c.collectStorage(ctx, p); err != nil {
		record("storage", err)
	} else {
		hw.Storage = st
	}

	if dmi, err := c.collectDMI(p); err != nil {
		record("system", err)
	} else {
		hw.System = dmi
	}

	if gfx, err := c.collectGraphics(p); err != nil {
		record("graphics", err)
	} else {
		hw.Graphics = gfx
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if hw.ComponentCount() == 0 {
		return nil, errors.New("no hardware information available")
	}
	if len(hw.Errors) == 0 {
		hw.Errors = nil
	}
	return hw, nil
}

// collectCPU parses /proc/cpuinfo. On hosts without it the runtime's view of
// logical CPUs and architecture is reported instead.
func (c *Collector) collectCPU(p *file.Parser) (*inventory.CPU, error) {
	cpu := &inventory.CPU{
		Architecture: runtime.GOARCH,
		LogicalCores: runtime.NumCPU(),
	}

	lines, err := p.GetLines(filePathCPUInfo)
	if err != nil {
		return cpu, nil //nolint:nilerr // runtime fallback is still useful
	}

	sockets := map[string]struct{}{}
	cores := map[string]struct{}{}
	logical := 0
	var physID string
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "processor":
			logical++
		case "model name", "Model":
			if cpu.Model == "" {
				cpu.Model = value
			}
		case "vendor_id", "CPU implementer":
			if cpu.Vendor == "" {
				cpu.Vendor = value
			}
		case "cpu family", "CPU architecture":
			if cpu.Family == "" {
				cpu.Family = value
			}
		case "stepping", "CPU revision":
			if cpu.Stepping == "" {
				cpu.Stepping = value
			}
		case "cpu MHz":
			if cpu.FrequencyMHz == 0 {
				cpu.FrequencyMHz, _ = strconv.ParseFloat(value, 64)
			}
		case "physical id":
			physID = value
			sockets[value] = struct{}{}
		case "core id":
			cores[physID+"/"+value] = struct{}{}
		case "flags", "Features":
			for _, f := range strings.Fields(value) {
				if f == "hypervisor" {
					cpu.Virtualized = true
				}
			}
		}
	}

	if logical > 0 {
		cpu.LogicalCores = logical
	}
	cpu.Sockets = len(sockets)
	cpu.PhysicalCores = len(cores)
	return cpu, nil
}

// collectMemory reads total and available memory and swap from /proc/meminfo.
func (c *Collector) collectMemory(_ *file.Parser) (*inventory.Memory, error) {
	kv := file.NewParser(file.WithRoot(c.Root), file.WithKVDelimiter(":"))
	m, err := kv.GetMap(filePathMemInfo)
	if err != nil {
		return nil, err
	}

	total := parseKB(m["MemTotal"])
	if total == 0 {
		return nil, fmt.Errorf("MemTotal missing from %s", filePathMemInfo)
	}
	return &inventory.Memory{
		TotalBytes:     total,
		TotalFormatted: inventory.FormatBytes(total),
		AvailableBytes: parseKB(m["MemAvailable"]),
		SwapTotalBytes: parseKB(m["SwapTotal"]),
		SwapFreeBytes:  parseKB(m["SwapFree"]),
	}, nil
}

// parseKB converts a meminfo value such as "16318412 kB" into bytes.
func parseKB(v string) uint64 {
	f := strings.Fields(v)
	if len(f) == 0 {
		return 0
	}
	n, err := strconv.ParseUint(f[0], 10, 64)
	if err != nil {
		return 0
	}
	if len(f) > 1 && strings.EqualFold(f[1], "kB") {
		return n * 1024
	}
	return n
}

// collectStorage lists block-device backed mounts from /proc/mounts and
// queries their capacity. A device mounted more than once is reported once.
func (c *Collector) collectStorage(ctx context.Context, p *file.Parser) (*inventory.Storage, error) {
	rows, err := p.GetFields(filePathMounts)
	if err != nil {
		return nil, err
	}

	stat := c.Stat
	if stat == nil {
		stat = statfs
	}

	st := &inventory.Storage{Devices: []inventory.Disk{}}
	seen := map[string]struct{}{}
	for _, f := range rows {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if len(f) < 3 || !strings.HasPrefix(f[0], "/dev/") || strings.HasPrefix(f[0], "/dev/loop") {
			continue
		}
		if _, ok := seen[f[0]]; ok {
			continue
		}

		total, free, avail, err := stat(f[1])
		if err != nil {
			slog.Debug("skipping mount", slog.String("mountpoint", f[1]), slog.String("error", err.Error()))
			continue
		}
		seen[f[0]] = struct{}{}

		d := inventory.Disk{
			Device:         f[0],
			Mountpoint:     f[1],
			Filesystem:     f[2],
			TotalBytes:     total,
			TotalFormatted: inventory.FormatBytes(total),
			FreeBytes:      avail,
		}
		if total >= free {
			d.UsedBytes = total - free
		}
		if total > 0 {
			d.UsagePercent = float64(int(float64(d.UsedBytes)/float64(total)*1000+0.5)) / 10
		}
		st.Devices = append(st.Devices, d)
		st.TotalCapacityBytes += total
	}

	sort.Slice(st.Devices, func(i, j int) bool { return st.Devices[i].Mountpoint < st.Devices[j].Mountpoint })
	return st, nil
}

// collectDMI reads firmware identifiers exposed under /sys/class/dmi/id.
// Fields readable only by root are left empty.
func (c *Collector) collectDMI(p *file.Parser) (*inventory.DMI, error) {
	read := func(name string) string {
		v, _ := p.GetValue(filepath.Join(dirDMI, name))
		return v
	}
	d := &inventory.DMI{
		Manufacturer: read("sys_vendor"),
		Product:      read("product_name"),
		Version:      read("product_version"),
		Serial:       read("product_serial"),
		UUID:         read("product_uuid"),
		BoardVendor:  read("board_vendor"),
		BoardName:    read("board_name"),
		BIOSVendor:   read("bios_vendor"),
		BIOSVersion:  read("bios_version"),
		BIOSDate:     read("bios_date"),
		ChassisType:  read("chassis_type"),
	}
	if *d == (inventory.DMI{}) {
		return nil, fmt.Errorf("no DMI data under %s", p.Path(dirDMI))
	}
	return d, nil
}

// collectGraphics finds display controllers (PCI class 0x03xxxx).
func (c *Collector) collectGraphics(p *file.Parser) ([]inventory.PCIDevice, error) {
	entries, err := filepath.Glob(filepath.Join(p.Path(dirPCIDevices), "*"))
	if err != nil {
		return nil, err
	}

	var out []inventory.PCIDevice
	for _, dir := range entries {
		addr := filepath.Base(dir)
		rel := filepath.Join(dirPCIDevices, addr)
		class, err := p.GetValue(filepath.Join(rel, "class"))
		if err != nil || !strings.HasPrefix(class, "0x03") {
			continue
		}
		vendor, _ := p.GetValue(filepath.Join(rel, "vendor"))
		device, _ := p.GetValue(filepath.Join(rel, "device"))
		dev := inventory.PCIDevice{
			Address:  addr,
			VendorID: vendor,
			DeviceID: device,
			Vendor:   pciVendors[vendor],
		}
		if dev.Vendor == "" {
			dev.Vendor = "Unknown"
		}
		if link, err := filepath.EvalSymlinks(filepath.Join(dir, "driver")); err == nil {
			dev.Driver = filepath.Base(link)
		}
		out = append(out, dev)
	}
	return out, nil
}
