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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type testRecord struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

type testTable struct{}

func (testTable) TableHeader() []string { return []string{"NAME", "VERSION"} }
func (testTable) TableRows() [][]string {
	return [][]string{{"openssl", "3.0.2"}, {"curl", "7.81.0"}}
}

func TestWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatJSON, &buf)
	require.NoError(t, w.Serialize(context.Background(), []testRecord{{"a", 1}, {"b", 2}}))

	var got []testRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []testRecord{{"a", 1}, {"b", 2}}, got)
	assert.Contains(t, buf.String(), "\n  ")
}

func TestWriter_YAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatYAML, &buf)
	require.NoError(t, w.Serialize(context.Background(), testRecord{"a", 1}))

	var got testRecord
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, testRecord{"a", 1}, got)
}

func TestWriter_TableFlattens(t *testing.T) {
	type nested struct {
		Record testRecord
		Tags   []string
		When   time.Time
	}
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)
	require.NoError(t, w.Serialize(context.Background(), nested{
		Record: testRecord{"a", 1},
		Tags:   []string{"x"},
		When:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "FIELD"))
	assert.Contains(t, out, "Record.Name")
	assert.Contains(t, out, "Tags.[0]")
	assert.Contains(t, out, "2025-01-02 03:04:05")
}

func TestWriter_TableUsesTabular(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)
	require.NoError(t, w.Serialize(context.Background(), testTable{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.True(t, strings.HasPrefix(lines[1], "----"))
	assert.Contains(t, lines[2], "openssl")
	assert.Contains(t, lines[3], "7.81.0")
}

func TestWriter_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), map[string]string{}))
	assert.Equal(t, "<empty>\n", buf.String())
}

func TestWriter_UnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("xml"), &buf)
	require.NoError(t, w.Serialize(context.Background(), testRecord{"a", 1}))
	assert.True(t, json.Valid(buf.Bytes()))
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	w := NewFileWriterOrStdout(FormatYAML, path)
	require.NoError(t, w.Serialize(context.Background(), testRecord{"a", 1}))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: a")
}

func TestNewFileWriterOrStdout_BadPath(t *testing.T) {
	w := NewFileWriterOrStdout(FormatJSON, filepath.Join(t.TempDir(), "missing", "out.json"))
	assert.Equal(t, os.Stdout, w.output)
	assert.Nil(t, w.closer)
}

func TestFormat(t *testing.T) {
	assert.False(t, FormatTable.IsUnknown())
	assert.True(t, Format("").IsUnknown())
	assert.Equal(t, []string{"json", "yaml", "table"}, SupportedFormats())
	assert.Equal(t, FormatYAML, FormatFromPath("snapshot.YML"))
	assert.Equal(t, FormatTable, FormatFromPath("snapshot.txt"))
	assert.Equal(t, FormatJSON, FormatFromPath("snapshot"))
}
