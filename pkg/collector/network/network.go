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

package network

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sort"
	"strings"

	"github.com/NVIDIA/inventory-agent/pkg/collector/file"
	"github.com/NVIDIA/inventory-agent/pkg/inventory"
)

// Name is the section this collector fills.
const Name = inventory.SectionNetwork

// Interface types reported in NetworkInterface.Type.
const (
	TypeLoopback = "loopback"
	TypeEthernet = "ethernet"
	TypeWireless = "wifi"
	TypeVirtual  = "virtual"
	TypeVPN      = "vpn"
	TypeOther    = "other"
)

var filePathResolvConf = "/etc/resolv.conf"

// Enricher adds platform-specific details (traffic counters, link speed,
// default gateway) to interfaces discovered through the net package.
type Enricher interface {
	Enrich(ctx context.Context, ifaces []inventory.NetworkInterface) (gateway string, err error)
}

// Collector gathers interfaces, addresses, DNS servers and the default gateway.
type Collector struct {
	// Root is prepended to resolv.conf and sysfs paths; empty reads the live host.
	Root string

	// Interfaces lists host interfaces; nil uses net.Interfaces.
	Interfaces func() ([]net.Interface, error)

	// Addrs lists addresses of an interface; nil uses iface.Addrs.
	Addrs func(iface net.Interface) ([]net.Addr, error)

	// Enricher adds platform details; nil uses the platform default.
	Enricher Enricher
}

// Name returns the section name.
func (c *Collector) Name() string { return Name }

// Collect returns an *inventory.Network with interfaces ordered so that
// up, physical interfaces come first and loopback comes last.
func (c *Collector) Collect(ctx context.Context) (any, error) {
	slog.Debug("collecting network information")

	list := c.Interfaces
	if list == nil {
		list = net.Interfaces
	}
	raw, err := list()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	addrs := c.Addrs
	if addrs == nil {
		addrs = func(i net.Interface) ([]net.Addr, error) { return i.Addrs() }
	}

	ifaces := make([]inventory.NetworkInterface, 0, len(raw))
	for _, ri := range raw {
		ni := inventory.NetworkInterface{
			Name:       ri.Name,
			Index:      ri.Index,
			Type:       DetectType(ri.Name, ri.Flags),
			MACAddress: ri.HardwareAddr.String(),
			MTU:        ri.MTU,
			IsUp:       ri.Flags&net.FlagUp != 0,
			IsRunning:  ri.Flags&net.FlagRunning != 0,
			Addresses:  []inventory.Address{},
		}
		if as, err := addrs(ri); err == nil {
			ni.Addresses = convertAddrs(as)
		} else {
			slog.Debug("failed to list addresses", slog.String("interface", ri.Name), slog.String("error", err.Error()))
		}
		ifaces = append(ifaces, ni)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &inventory.Network{
		Interfaces: ifaces,
		DNSServers: c.dnsServers(),
	}
	res.Hostname, _ = os.Hostname()

	enricher := c.Enricher
	if enricher == nil {
		enricher = defaultEnricher(c.Root)
	}
	gw, err := enricher.Enrich(ctx, res.Interfaces)
	if err != nil {
		slog.Debug("interface enrichment incomplete", slog.String("error", err.Error()))
	}
	res.DefaultGateway = gw

	SortInterfaces(res.Interfaces)
	return res, nil
}

func convertAddrs(as []net.Addr) []inventory.Address {
	out := make([]inventory.Address, 0, len(as))
	for _, a := range as {
		ipn, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		fam := "IPv6"
		if ipn.IP.To4() != nil {
			fam = "IPv4"
		}
		out = append(out, inventory.Address{
			Family:  fam,
			Address: ipn.IP.String(),
			Netmask: net.IP(ipn.Mask).String(),
		})
	}
	return out
}

func (c *Collector) dnsServers() []string {
	p := file.NewParser(file.WithRoot(c.Root))
	fields, err := p.GetFields(filePathResolvConf)
	if err != nil {
		return nil
	}
	var out []string
	for _, f := range fields {
		if len(f) >= 2 && f[0] == "nameserver" {
			out = append(out, f[1])
		}
	}
	return out
}

// DetectType classifies an interface from its name and flags.
func DetectType(name string, flags net.Flags) string {
	n := strings.ToLower(name)
	switch {
	case flags&net.FlagLoopback != 0 || n == "lo" || strings.HasPrefix(n, "lo0"):
		return TypeLoopback
	case hasPrefix(n, "wl", "wlan", "wifi", "ath"):
		return TypeWireless
	case hasPrefix(n, "tun", "tap", "wg", "ppp", "utun", "ipsec"):
		return TypeVPN
	case hasPrefix(n, "docker", "br-", "veth", "virbr", "vmnet", "vbox", "cni", "flannel", "cali", "bridge", "bond", "vxlan"):
		return TypeVirtual
	case hasPrefix(n, "eth", "en", "em", "eno", "ens", "enp", "ib"):
		return TypeEthernet
	default:
		return TypeOther
	}
}

func hasPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func typeRank(t string) int {
	switch t {
	case TypeEthernet, TypeWireless:
		return 0
	case TypeLoopback:
		return 3
	case TypeOther:
		return 2
	default:
		return 1
	}
}

// SortInterfaces orders interfaces: up before down, physical before
// virtual, loopback last, then by index.
func SortInterfaces(ifaces []inventory.NetworkInterface) {
	sort.SliceStable(ifaces, func(i, j int) bool {
		a, b := ifaces[i], ifaces[j]
		aLo, bLo := a.Type == TypeLoopback, b.Type == TypeLoopback
		if aLo != bLo {
			return bLo
		}
		if a.IsUp != b.IsUp {
			return a.IsUp
		}
		if ra, rb := typeRank(a.Type), typeRank(b.Type); ra != rb {
			return ra < rb
		}
		return a.Index < b.Index
	})
}

// PrimaryMAC returns the hardware address of the lowest-index non-loopback
// interface that has one, or an empty string.
func PrimaryMAC(ifaces []net.Interface) string {
	sorted := make([]net.Interface, len(ifaces))
	copy(sorted, ifaces)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })
	for _, i := range sorted {
		if i.Flags&net.FlagLoopback != 0 || len(i.HardwareAddr) == 0 {
			continue
		}
		return i.HardwareAddr.String()
	}
	return ""
}

// PrimaryIP returns the source address the host would use for outbound
// traffic, falling back to the first non-loopback IPv4 address.
func PrimaryIP(ifaces []net.Interface) string {
	// UDP dial sends no packets; it only selects a route
	if conn, err := net.Dial("udp", "8.8.8.8:80"); err == nil {
		defer conn.Close()
		if a, ok := conn.LocalAddr().(*net.UDPAddr); ok && !a.IP.IsUnspecified() {
			return a.IP.String()
		}
	}
	for _, i := range ifaces {
		if i.Flags&net.FlagLoopback != 0 || i.Flags&net.FlagUp == 0 {
			continue
		}
		as, err := i.Addrs()
		if err != nil {
			continue
		}
		for _, a := range convertAddrs(as) {
			if a.Family == "IPv4" {
				return a.Address
			}
		}
	}
	return "127.0.0.1"
}

type noopEnricher struct{}

func (noopEnricher) Enrich(context.Context, []inventory.NetworkInterface) (string, error) {
	return "", nil
}
