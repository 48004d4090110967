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
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/NVIDIA/inventory-agent/pkg/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cpuinfo = `processor	: 0
vendor_id	: GenuineIntel
cpu family	: 6
model name	: Intel(R) Xeon(R) Platinum 8480+
stepping	: 8
cpu MHz		: 2000.000
physical id	: 0
core id		: 0
flags		: fpu vme hypervisor avx512f

processor	: 1
vendor_id	: GenuineIntel
model name	: Intel(R) Xeon(R) Platinum 8480+
physical id	: 0
core id		: 1

processor	: 2
physical id	: 1
core id		: 0

processor	: 3
physical id	: 1
core id		: 0
`

func writeFixture(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

func fakeStat(sizes map[string][3]uint64) StatFunc {
	return func(path string) (uint64, uint64, uint64, error) {
		s, ok := sizes[path]
		if !ok {
			return 0, 0, 0, errors.New("not mounted")
		}
		return s[0], s[1], s[2], nil
	}
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{
		"proc/cpuinfo": cpuinfo,
		"proc/meminfo": "MemTotal:       16318412 kB\nMemAvailable:    8159206 kB\nSwapTotal:       2097148 kB\nSwapFree:        2097148 kB\n",
		"proc/mounts": "/dev/nvme0n1p2 / ext4 rw,relatime 0 0\n" +
			"proc /proc proc rw 0 0\n" +
			"/dev/nvme0n1p1 /boot/efi vfat rw 0 0\n" +
			"/dev/nvme0n1p2 /var/snap ext4 rw 0 0\n" +
			"/dev/loop0 /snap/core squashfs ro 0 0\n" +
			"/dev/sdb1 /mnt/gone xfs rw 0 0\n",
		"sys/class/dmi/id/sys_vendor":                     "NVIDIA\n",
		"sys/class/dmi/id/product_name":                   "DGX H100\n",
		"sys/class/dmi/id/bios_version":                   "1.2.3\n",
		"sys/bus/pci/devices/0000:1b:00.0/class":          "0x030200\n",
		"sys/bus/pci/devices/0000:1b:00.0/vendor":         "0x10de\n",
		"sys/bus/pci/devices/0000:1b:00.0/device":         "0x2330\n",
		"sys/bus/pci/devices/0000:00:1f.0/class":          "0x060100\n",
		"sys/bus/pci/devices/0000:03:00.0/class":          "0x030000\n",
		"sys/bus/pci/devices/0000:03:00.0/vendor":         "0xabcd\n",
	})

	c := &Collector{
		Root: root,
		Stat: fakeStat(map[string][3]uint64{
			"/":         {1000, 250, 200},
			"/boot/efi": {100, 100, 100},
		}),
	}
	out, err := c.Collect(context.Background())
	require.NoError(t, err)
	hw, ok := out.(*inventory.Hardware)
	require.True(t, ok)

	require.NotNil(t, hw.CPU)
	assert.Equal(t, "Intel(R) Xeon(R) Platinum 8480+", hw.CPU.Model)
	assert.Equal(t, "GenuineIntel", hw.CPU.Vendor)
	assert.Equal(t, "6", hw.CPU.Family)
	assert.Equal(t, 4, hw.CPU.LogicalCores)
	assert.Equal(t, 2, hw.CPU.Sockets)
	assert.Equal(t, 3, hw.CPU.PhysicalCores)
	assert.InDelta(t, 2000.0, hw.CPU.FrequencyMHz, 0.001)
	assert.True(t, hw.CPU.Virtualized)

	require.NotNil(t, hw.Memory)
	assert.Equal(t, uint64(16318412*1024), hw.Memory.TotalBytes)
	assert.Equal(t, "15.6 GB", hw.Memory.TotalFormatted)
	assert.Equal(t, uint64(2097148*1024), hw.Memory.SwapFreeBytes)

	require.NotNil(t, hw.Storage)
	require.Len(t, hw.Storage.Devices, 2)
	assert.Equal(t, "/", hw.Storage.Devices[0].Mountpoint)
	assert.Equal(t, uint64(750), hw.Storage.Devices[0].UsedBytes)
	assert.InDelta(t, 75.0, hw.Storage.Devices[0].UsagePercent, 0.001)
	assert.Equal(t, "/boot/efi", hw.Storage.Devices[1].Mountpoint)
	assert.Equal(t, uint64(1100), hw.Storage.TotalCapacityBytes)

	require.NotNil(t, hw.System)
	assert.Equal(t, "NVIDIA", hw.System.Manufacturer)
	assert.Equal(t, "DGX H100", hw.System.Product)
	assert.Empty(t, hw.System.Serial)

	require.Len(t, hw.Graphics, 2)
	byAddr := map[string]inventory.PCIDevice{}
	for _, g := range hw.Graphics {
		byAddr[g.Address] = g
	}
	assert.Equal(t, "NVIDIA Corporation", byAddr["0000:1b:00.0"].Vendor)
	assert.Equal(t, "Unknown", byAddr["0000:03:00.0"].Vendor)

	assert.Nil(t, hw.Errors)
}

func TestCollectMinimalHost(t *testing.T) {
	out, err := (&Collector{Root: t.TempDir()}).Collect(context.Background())
	require.NoError(t, err)
	hw := out.(*inventory.Hardware)

	require.NotNil(t, hw.CPU)
	assert.Equal(t, runtime.NumCPU(), hw.CPU.LogicalCores)
	assert.Equal(t, runtime.GOARCH, hw.CPU.Architecture)
	assert.Nil(t, hw.Memory)
	assert.Nil(t, hw.Storage)
	assert.Nil(t, hw.System)
	assert.Contains(t, hw.Errors, "memory")
	assert.Contains(t, hw.Errors, "storage")
	assert.Contains(t, hw.Errors, "system")
}

func TestCollectCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Collector{Root: t.TempDir()}).Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseKB(t *testing.T) {
	assert.Equal(t, uint64(2048), parseKB("2 kB"))
	assert.Equal(t, uint64(7), parseKB("7"))
	assert.Equal(t, uint64(0), parseKB(""))
	assert.Equal(t, uint64(0), parseKB("abc kB"))
}
