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

package system

import (
	"runtime"

	"golang.org/x/sys/unix"
)

const loadShift = 1 << 16

func uname() (kernel, machine string) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "", runtime.GOARCH
	}
	return unix.ByteSliceToString(u.Release[:]), unix.ByteSliceToString(u.Machine[:])
}

func hostStats() (HostStats, error) {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return HostStats{}, err
	}
	return HostStats{
		UptimeSeconds: int64(si.Uptime),
		LoadAverage: []float64{
			float64(si.Loads[0]) / loadShift,
			float64(si.Loads[1]) / loadShift,
			float64(si.Loads[2]) / loadShift,
		},
		Processes: int(si.Procs),
	}, nil
}
