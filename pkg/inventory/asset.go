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
	"fmt"
	"hash/fnv"
	"math"
	"time"
)

// maxComputerID bounds the numeric computer id to 0..999998.
const maxComputerID = 999999

// Asset is the flattened per-host record carried in the outbound envelope.
type Asset struct {
	CollectionTimestamp       string             `json:"collection_timestamp"`
	AgentVersion              string             `json:"agent_version"`
	CollectionDurationSeconds float64            `json:"collection_duration_seconds"`
	ComputerID                uint32             `json:"computer_id"`
	HostIdentity              string             `json:"host_identity"`
	Hostname                  string             `json:"hostname"`
	Architecture              string             `json:"architecture"`
	OS                        string             `json:"os"`
	IP                        string             `json:"ip"`
	MAC                       string             `json:"mac"`
	Applications              []Application      `json:"applications"`
	Hardware                  *Hardware          `json:"hardware"`
	NetworkInterfaces         []NetworkInterface `json:"network_interfaces"`
	SystemInfo                map[string]any     `json:"system_info"`
	UnavailableSections       map[string]string  `json:"unavailable_sections,omitempty"`
}

// NewAsset flattens a Snapshot into its wire asset form.
func NewAsset(s *Snapshot, agentVersion string) Asset {
	a := Asset{
		CollectionTimestamp:       s.CollectedAt.Format(time.RFC3339),
		AgentVersion:              agentVersion,
		CollectionDurationSeconds: math.Round(s.Duration.Seconds()*100) / 100,
		ComputerID:                ComputerID(s.HostIdentity),
		HostIdentity:              s.HostIdentity,
		Applications:              s.Applications(),
		Hardware:                  s.Hardware(),
		SystemInfo:                make(map[string]any),
	}

	if a.Applications == nil {
		a.Applications = []Application{}
	}
	if a.Hardware == nil {
		a.Hardware = &Hardware{}
	}
	a.NetworkInterfaces = []NetworkInterface{}
	if nw := s.Network(); nw != nil {
		a.NetworkInterfaces = nw.Interfaces
		a.SystemInfo["network"] = map[string]any{
			"dns_servers":     nw.DNSServers,
			"default_gateway": nw.DefaultGateway,
		}
	}

	if si := s.System(); si != nil {
		a.Hostname = si.Hostname
		a.Architecture = si.Architecture
		a.OS = si.OS
		a.IP = si.PrimaryIP
		a.MAC = si.PrimaryMAC
		a.SystemInfo[SectionSystem] = si
	}

	// sections without a dedicated asset field land in system_info
	for name, sec := range s.Sections {
		if !sec.Available {
			continue
		}
		switch name {
		case SectionSystem, SectionHardware, SectionSoftware, SectionNetwork:
		default:
			a.SystemInfo[name] = sec.Data
		}
	}

	if u := s.Unavailable(); len(u) > 0 {
		a.UnavailableSections = u
	}
	return a
}

// ComputerID derives a best-effort numeric id from the host identity.
// Distinct hosts may collide.
func ComputerID(hostIdentity string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(hostIdentity))
	return h.Sum32() % maxComputerID
}

// FormatBytes renders a byte count with binary units, e.g. "15.6 GB".
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit && exp < 4; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTP"[exp])
}
