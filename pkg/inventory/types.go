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

package inventory

import (
	"github.com/NVIDIA/inventory-agent/pkg/measurement"
)

// Application is one installed software package.
type Application struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Vendor  string `json:"vendor" yaml:"vendor"`
	Type    string `json:"type" yaml:"type"`
}

// Hardware is the payload of the hardware section.
type Hardware struct {
	CPU      *CPU              `json:"cpu,omitempty" yaml:"cpu,omitempty"`
	Memory   *Memory           `json:"memory,omitempty" yaml:"memory,omitempty"`
	Storage  *Storage          `json:"storage,omitempty" yaml:"storage,omitempty"`
	System   *DMI              `json:"system,omitempty" yaml:"system,omitempty"`
	Graphics []PCIDevice       `json:"graphics,omitempty" yaml:"graphics,omitempty"`
	Errors   map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ComponentCount returns how many hardware components were gathered.
func (h *Hardware) ComponentCount() int {
	if h == nil {
		return 0
	}
	n := len(h.Graphics)
	if h.CPU != nil {
		n++
	}
	if h.Memory != nil {
		n++
	}
	if h.Storage != nil {
		n += len(h.Storage.Devices)
	}
	if h.System != nil {
		n++
	}
	return n
}

// CPU describes the host processors.
type CPU struct {
	Model         string  `json:"model" yaml:"model"`
	Vendor        string  `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Family        string  `json:"family,omitempty" yaml:"family,omitempty"`
	Stepping      string  `json:"stepping,omitempty" yaml:"stepping,omitempty"`
	Architecture  string  `json:"architecture" yaml:"architecture"`
	Sockets       int     `json:"sockets,omitempty" yaml:"sockets,omitempty"`
	PhysicalCores int     `json:"physical_cores,omitempty" yaml:"physical_cores,omitempty"`
	LogicalCores  int     `json:"logical_cores" yaml:"logical_cores"`
	FrequencyMHz  float64 `json:"frequency_mhz,omitempty" yaml:"frequency_mhz,omitempty"`
	Virtualized   bool    `json:"virtualized" yaml:"virtualized"`
}

// Memory describes physical memory and swap in bytes.
type Memory struct {
	TotalBytes     uint64 `json:"total_bytes" yaml:"total_bytes"`
	TotalFormatted string `json:"total_formatted" yaml:"total_formatted"`
	AvailableBytes uint64 `json:"available_bytes" yaml:"available_bytes"`
	SwapTotalBytes uint64 `json:"swap_total_bytes" yaml:"swap_total_bytes"`
	SwapFreeBytes  uint64 `json:"swap_free_bytes" yaml:"swap_free_bytes"`
}

// Storage lists mounted block devices.
type Storage struct {
	Devices            []Disk `json:"devices" yaml:"devices"`
	TotalCapacityBytes uint64 `json:"total_capacity_bytes" yaml:"total_capacity_bytes"`
}

// Disk is one mounted filesystem backed by a block device.
type Disk struct {
	Device         string  `json:"device" yaml:"device"`
	Mountpoint     string  `json:"mountpoint" yaml:"mountpoint"`
	Filesystem     string  `json:"filesystem" yaml:"filesystem"`
	TotalBytes     uint64  `json:"total_bytes" yaml:"total_bytes"`
	TotalFormatted string  `json:"total_formatted" yaml:"total_formatted"`
	FreeBytes      uint64  `json:"free_bytes" yaml:"free_bytes"`
	UsedBytes      uint64  `json:"used_bytes" yaml:"used_bytes"`
	UsagePercent   float64 `json:"usage_percent" yaml:"usage_percent"`
}

// DMI holds firmware-reported system, board and BIOS identifiers.
type DMI struct {
	Manufacturer string `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Product      string `json:"product,omitempty" yaml:"product,omitempty"`
	Version      string `json:"version,omitempty" yaml:"version,omitempty"`
	Serial       string `json:"serial,omitempty" yaml:"serial,omitempty"`
	UUID         string `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	BoardVendor  string `json:"board_vendor,omitempty" yaml:"board_vendor,omitempty"`
	BoardName    string `json:"board_name,omitempty" yaml:"board_name,omitempty"`
	BIOSVendor   string `json:"bios_vendor,omitempty" yaml:"bios_vendor,omitempty"`
	BIOSVersion  string `json:"bios_version,omitempty" yaml:"bios_version,omitempty"`
	BIOSDate     string `json:"bios_date,omitempty" yaml:"bios_date,omitempty"`
	ChassisType  string `json:"chassis_type,omitempty" yaml:"chassis_type,omitempty"`
}

// PCIDevice is a display controller found on the PCI bus.
type PCIDevice struct {
	Address  string `json:"bus_info" yaml:"bus_info"`
	VendorID string `json:"vendor_id" yaml:"vendor_id"`
	DeviceID string `json:"device_id" yaml:"device_id"`
	Vendor   string `json:"manufacturer" yaml:"manufacturer"`
	Driver   string `json:"driver,omitempty" yaml:"driver,omitempty"`
}

// Network is the payload of the network section.
type Network struct {
	Hostname       string             `json:"hostname" yaml:"hostname"`
	Interfaces     []NetworkInterface `json:"interfaces" yaml:"interfaces"`
	DNSServers     []string           `json:"dns_servers,omitempty" yaml:"dns_servers,omitempty"`
	DefaultGateway string             `json:"default_gateway,omitempty" yaml:"default_gateway,omitempty"`
}

// NetworkInterface describes one network interface.
type NetworkInterface struct {
	Name       string        `json:"name" yaml:"name"`
	Index      int           `json:"index" yaml:"index"`
	Type       string        `json:"type" yaml:"type"`
	MACAddress string        `json:"mac_address,omitempty" yaml:"mac_address,omitempty"`
	MTU        int           `json:"mtu" yaml:"mtu"`
	IsUp       bool          `json:"is_up" yaml:"is_up"`
	IsRunning  bool          `json:"is_running" yaml:"is_running"`
	SpeedMbps  int           `json:"speed_mbps,omitempty" yaml:"speed_mbps,omitempty"`
	Addresses  []Address     `json:"addresses" yaml:"addresses"`
	Traffic    *TrafficStats `json:"traffic_stats,omitempty" yaml:"traffic_stats,omitempty"`
}

// Address is an IP address bound to an interface.
type Address struct {
	Family  string `json:"family" yaml:"family"`
	Address string `json:"address" yaml:"address"`
	Netmask string `json:"netmask,omitempty" yaml:"netmask,omitempty"`
}

// TrafficStats are cumulative interface counters.
type TrafficStats struct {
	BytesSent   uint64 `json:"bytes_sent" yaml:"bytes_sent"`
	BytesRecv   uint64 `json:"bytes_recv" yaml:"bytes_recv"`
	PacketsSent uint64 `json:"packets_sent" yaml:"packets_sent"`
	PacketsRecv uint64 `json:"packets_recv" yaml:"packets_recv"`
	ErrorsIn    uint64 `json:"errors_in" yaml:"errors_in"`
	ErrorsOut   uint64 `json:"errors_out" yaml:"errors_out"`
	DropsIn     uint64 `json:"drops_in" yaml:"drops_in"`
	DropsOut    uint64 `json:"drops_out" yaml:"drops_out"`
}

// SystemInfo is the payload of the always-collected system section.
type SystemInfo struct {
	Hostname      string    `json:"hostname" yaml:"hostname"`
	OS            string    `json:"os" yaml:"os"`
	Platform      string    `json:"platform" yaml:"platform"`
	Kernel        string    `json:"kernel,omitempty" yaml:"kernel,omitempty"`
	Machine       string    `json:"machine" yaml:"machine"`
	Architecture  string    `json:"architecture" yaml:"architecture"`
	PrimaryIP     string    `json:"ip" yaml:"ip"`
	PrimaryMAC    string    `json:"mac" yaml:"mac"`
	UptimeSeconds int64     `json:"uptime_seconds,omitempty" yaml:"uptime_seconds,omitempty"`
	LoadAverage   []float64 `json:"load_average,omitempty" yaml:"load_average,omitempty"`
	Processes     int       `json:"processes_count,omitempty" yaml:"processes_count,omitempty"`
	UserCount     int       `json:"user_count" yaml:"user_count"`
}

// PlatformInfo is the payload of the platform_extra section.
type PlatformInfo struct {
	Platform     string                     `json:"platform" yaml:"platform"`
	Measurements []*measurement.Measurement `json:"measurements" yaml:"measurements"`
	Errors       map[string]string          `json:"errors,omitempty" yaml:"errors,omitempty"`
}
