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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// defaultMaxSize caps how much of a file the parser will load.
const defaultMaxSize = 1 << 20

// Option configures a Parser.
type Option func(*Parser)

// Parser reads small text files such as /proc entries, os-release and
// sysfs attributes and splits them into lines, fields or key/value pairs.
type Parser struct {
	root            string
	delimiter       string
	maxSize         int
	skipComments    bool
	kvDelimiter     string
	vDefault        string
	vTrimChars      string
	skipEmptyValues bool
}

// WithRoot resolves every path relative to root. Used to read a mounted host
// filesystem or a test fixture tree.
func WithRoot(root string) Option {
	return func(p *Parser) {
		p.root = root
	}
}

// WithDelimiter sets the entry delimiter. Default is newline.
func WithDelimiter(delim string) Option {
	return func(p *Parser) {
		p.delimiter = delim
	}
}

// WithMaxSize sets the maximum accepted file size in bytes. Default is 1MB.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments controls whether entries starting with '#' are dropped.
// Default is true.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithKVDelimiter sets the key/value delimiter used by GetMap. Default is "=".
func WithKVDelimiter(kvDelim string) Option {
	return func(p *Parser) {
		p.kvDelimiter = kvDelim
	}
}

// WithVDefault sets the value used for entries without a delimiter.
func WithVDefault(vDefault string) Option {
	return func(p *Parser) {
		p.vDefault = vDefault
	}
}

// WithVTrimChars sets characters trimmed from both ends of values.
func WithVTrimChars(trimChars string) Option {
	return func(p *Parser) {
		p.vTrimChars = trimChars
	}
}

// WithSkipEmptyValues drops entries whose value ends up empty.
func WithSkipEmptyValues(skip bool) Option {
	return func(p *Parser) {
		p.skipEmptyValues = skip
	}
}

// NewParser creates a parser with newline entries, "=" pairs, comment
// skipping and a 1MB size cap, then applies opts.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		delimiter:    "\n",
		maxSize:      defaultMaxSize,
		skipComments: true,
		kvDelimiter:  "=",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Path returns path resolved against the parser root.
func (p *Parser) Path(path string) string {
	if p.root == "" {
		return path
	}
	return filepath.Join(p.root, path)
}

// GetMap parses the file into key/value pairs. Entries without the delimiter
// map to the default value unless empty values are skipped. Later keys win.
func (p *Parser) GetMap(path string) (map[string]string, error) {
	entries, err := p.GetLines(path)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, p.kvDelimiter)
		key = strings.TrimSpace(key)
		if !found {
			value = p.vDefault
		} else {
			value = strings.TrimSpace(value)
			if p.vTrimChars != "" {
				value = strings.Trim(value, p.vTrimChars)
			}
		}

		if p.skipEmptyValues && value == "" {
			slog.Debug("skipping entry with empty value", slog.String("key", key), slog.String("path", path))
			continue
		}
		result[key] = value
	}
	return result, nil
}

// GetLines reads the file and returns its non-empty, trimmed entries.
// It fails when the file is missing, larger than the size cap or not UTF-8.
func (p *Parser) GetLines(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}
	full := p.Path(path)

	b, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", full, err)
	}
	if len(b) > p.maxSize {
		return nil, fmt.Errorf("file %q exceeds maximum size of %d bytes", full, p.maxSize)
	}
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("content of file %q is not valid UTF-8", full)
	}

	parts := strings.Split(string(b), p.delimiter)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		if p.skipComments && strings.HasPrefix(clean, "#") {
			continue
		}
		result = append(result, clean)
	}
	return result, nil
}

// GetFields returns each entry split on whitespace.
func (p *Parser) GetFields(path string) ([][]string, error) {
	lines, err := p.GetLines(path)
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, strings.Fields(l))
	}
	return out, nil
}

// GetValue returns the first entry of a single-value file such as a sysfs
// attribute. Missing or empty files yield an empty string and an error.
func (p *Parser) GetValue(path string) (string, error) {
	lines, err := p.GetLines(path)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("file %q is empty", p.Path(path))
	}
	return lines[0], nil
}
