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

package systemd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/NVIDIA/inventory-agent/pkg/measurement"
	"github.com/coreos/go-systemd/v22/dbus"
)

// Name identifies this collector inside the platform section.
const Name = "systemd"

const (
	subtypeSummary = "summary"
	subtypeFailed  = "failed"
)

var (
	// DefaultServices are inspected when no services are configured.
	DefaultServices = []string{
		"sshd.service",
		"cron.service",
		"containerd.service",
		"docker.service",
	}

	unitPropertyKeys = []string{
		"Description",
		"LoadState",
		"ActiveState",
		"SubState",
		"UnitFileState",
		"FragmentPath",
	}
)

// Conn is the subset of the systemd D-Bus connection the collector uses.
type Conn interface {
	ListUnitsContext(ctx context.Context) ([]dbus.UnitStatus, error)
	GetUnitPropertiesContext(ctx context.Context, unit string) (map[string]interface{}, error)
	Close()
}

// Collector reports service unit counts, failed units and the state of a
// configured list of services.
type Collector struct {
	Services []string

	// Connect opens the systemd connection; nil uses the system bus.
	Connect func(ctx context.Context) (Conn, error)
}

// Name returns the collector name.
func (c *Collector) Name() string { return Name }

func connectSystemBus(ctx context.Context) (Conn, error) {
	return dbus.NewSystemdConnectionContext(ctx)
}

// Collect gathers unit states over D-Bus.
func (c *Collector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	slog.Debug("collecting systemd unit states")

	connect := c.Connect
	if connect == nil {
		connect = connectSystemBus
	}
	conn, err := connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	defer conn.Close()

	units, err := conn.ListUnitsContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	var total, active, failedCount int
	failed := make(map[string]measurement.Reading)
	for _, u := range units {
		if !strings.HasSuffix(u.Name, ".service") {
			continue
		}
		total++
		switch u.ActiveState {
		case "active":
			active++
		case "failed":
			failedCount++
			failed[u.Name] = measurement.Str(u.SubState)
		}
	}

	subs := []measurement.Subtype{
		{
			Name: subtypeSummary,
			Data: map[string]measurement.Reading{
				"total":    measurement.Int(total),
				"active":   measurement.Int(active),
				"failed":   measurement.Int(failedCount),
				"inactive": measurement.Int(total - active - failedCount),
			},
		},
	}
	if len(failed) > 0 {
		subs = append(subs, measurement.Subtype{Name: subtypeFailed, Data: failed})
	}

	services := c.Services
	if len(services) == 0 {
		services = DefaultServices
	}
	for _, svc := range services {
		props, err := conn.GetUnitPropertiesContext(ctx, svc)
		if err != nil {
			slog.Debug("failed to get unit properties",
				slog.String("unit", svc),
				slog.String("error", err.Error()))
			continue
		}

		readings := make(map[string]measurement.Reading, len(props))
		for k, v := range props {
			readings[k] = measurement.ToReading(v)
		}
		kept := measurement.FilterIn(readings, unitPropertyKeys)
		if r, ok := kept["LoadState"]; ok && r.Any() == "not-found" {
			continue
		}
		subs = append(subs, measurement.Subtype{
			Name:    svc,
			Data:    kept,
			Context: map[string]string{"properties": strconv.Itoa(len(props))},
		})
	}

	return &measurement.Measurement{
		Type:     measurement.TypeSystemD,
		Subtypes: subs,
	}, nil
}
