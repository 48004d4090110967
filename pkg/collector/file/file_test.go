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

package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestNewParserDefaults(t *testing.T) {
	p := NewParser()
	assert.Equal(t, "\n", p.delimiter)
	assert.Equal(t, defaultMaxSize, p.maxSize)
	assert.True(t, p.skipComments)
	assert.Equal(t, "=", p.kvDelimiter)
	assert.Empty(t, p.root)

	p = NewParser(WithDelimiter(" "), WithMaxSize(10), WithSkipComments(false),
		WithKVDelimiter(":"), WithVDefault("n/a"), WithVTrimChars(`"`), WithSkipEmptyValues(true), WithRoot("/host"))
	assert.Equal(t, " ", p.delimiter)
	assert.Equal(t, 10, p.maxSize)
	assert.False(t, p.skipComments)
	assert.Equal(t, ":", p.kvDelimiter)
	assert.Equal(t, "n/a", p.vDefault)
	assert.Equal(t, `"`, p.vTrimChars)
	assert.True(t, p.skipEmptyValues)
	assert.Equal(t, filepath.Join("/host", "proc/meminfo"), p.Path("proc/meminfo"))
}

func TestGetMapOSRelease(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "os-release", `# comment
NAME="Ubuntu"
VERSION_ID="24.04"
PRETTY_NAME="Ubuntu 24.04 LTS"
EMPTY=
MALFORMED
`)

	p := NewParser(WithVTrimChars(`"'`), WithSkipEmptyValues(true))
	m, err := p.GetMap(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"NAME":        "Ubuntu",
		"VERSION_ID":  "24.04",
		"PRETTY_NAME": "Ubuntu 24.04 LTS",
	}, m)
}

func TestGetMapCmdline(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cmdline", "BOOT_IMAGE=/vmlinuz root=UUID=abc ro quiet iommu=pt\n")

	m, err := NewParser(WithDelimiter(" ")).GetMap(path)
	require.NoError(t, err)
	assert.Equal(t, "UUID=abc", m["root"])
	assert.Equal(t, "", m["ro"])
	assert.Equal(t, "pt", m["iommu"])
}

func TestGetMapMeminfo(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "proc/meminfo", "MemTotal:       16318412 kB\nMemAvailable:    8123456 kB\n")

	m, err := NewParser(WithRoot(dir), WithKVDelimiter(":")).GetMap("proc/meminfo")
	require.NoError(t, err)
	assert.Equal(t, "16318412 kB", m["MemTotal"])
}

func TestGetLinesErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewParser().GetLines("")
	assert.Error(t, err)

	_, err = NewParser().GetLines(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	big := writeFile(t, dir, "big", strings.Repeat("x", 64))
	_, err = NewParser(WithMaxSize(16)).GetLines(big)
	assert.ErrorContains(t, err, "exceeds maximum size")

	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(bad, []byte{0xff, 0xfe, 0xfd}, 0o600))
	_, err = NewParser().GetLines(bad)
	assert.ErrorContains(t, err, "UTF-8")
}

func TestGetLinesComments(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "resolv.conf", "# generated\nnameserver 1.1.1.1\n\n  nameserver 8.8.8.8  \n")

	lines, err := NewParser().GetLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"nameserver 1.1.1.1", "nameserver 8.8.8.8"}, lines)

	lines, err = NewParser(WithSkipComments(false)).GetLines(path)
	require.NoError(t, err)
	assert.Len(t, lines, 3)
}

func TestGetFields(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "modules", "nvidia 56705024 2 nvidia_uvm, Live 0x0\nloop 32768 0 - Live 0x0\n")

	fields, err := NewParser().GetFields(path)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "nvidia", fields[0][0])
	assert.Equal(t, "nvidia_uvm,", fields[0][3])
}

func TestGetValue(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sys/class/dmi/id/sys_vendor", "NVIDIA\n")
	writeFile(t, dir, "sys/class/dmi/id/empty", "\n")

	p := NewParser(WithRoot(dir))
	v, err := p.GetValue("sys/class/dmi/id/sys_vendor")
	require.NoError(t, err)
	assert.Equal(t, "NVIDIA", v)

	_, err = p.GetValue("sys/class/dmi/id/empty")
	assert.Error(t, err)
}
