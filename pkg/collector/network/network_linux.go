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

//go:build linux

package network

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"

	"github.com/NVIDIA/inventory-agent/pkg/collector/file"
	"github.com/NVIDIA/inventory-agent/pkg/inventory"
	"github.com/vishvananda/netlink"
)

// netlinkEnricher reads link statistics and the IPv4 default route over
// netlink and link speed from sysfs.
type netlinkEnricher struct {
	root string
}

func defaultEnricher(root string) Enricher {
	return &netlinkEnricher{root: root}
}

func (e *netlinkEnricher) Enrich(ctx context.Context, ifaces []inventory.NetworkInterface) (string, error) {
	var errs []error
	p := file.NewParser(file.WithRoot(e.root))

	for i := range ifaces {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if v, err := p.GetValue(filepath.Join("/sys/class/net", ifaces[i].Name, "speed")); err == nil {
			if s, err := strconv.Atoi(v); err == nil && s > 0 {
				ifaces[i].SpeedMbps = s
			}
		}

		link, err := netlink.LinkByIndex(ifaces[i].Index)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		attrs := link.Attrs()
		if attrs.OperState == netlink.OperUp {
			ifaces[i].IsRunning = true
		}
		if s := attrs.Statistics; s != nil {
			ifaces[i].Traffic = &inventory.TrafficStats{
				BytesSent:   s.TxBytes,
				BytesRecv:   s.RxBytes,
				PacketsSent: s.TxPackets,
				PacketsRecv: s.RxPackets,
				ErrorsIn:    s.RxErrors,
				ErrorsOut:   s.TxErrors,
				DropsIn:     s.RxDropped,
				DropsOut:    s.TxDropped,
			}
		}
		if link.Type() == "bridge" || link.Type() == "veth" || link.Type() == "vxlan" {
			if ifaces[i].Type == TypeEthernet || ifaces[i].Type == TypeOther {
				ifaces[i].Type = TypeVirtual
			}
		}
	}

	gw, err := defaultGateway()
	if err != nil {
		errs = append(errs, err)
	}
	return gw, errors.Join(errs...)
}

func defaultGateway() (string, error) {
	routes, err := netlink.RouteList(nil, netlink.FAMILY_V4)
	if err != nil {
		return "", err
	}
	for _, r := range routes {
		if r.Gw == nil {
			continue
		}
		if r.Dst == nil {
			return r.Gw.String(), nil
		}
		if ones, _ := r.Dst.Mask.Size(); ones == 0 {
			return r.Gw.String(), nil
		}
	}
	return "", nil
}
