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

package measurement

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Type represents the source of a platform measurement.
type Type string

// String returns the string representation of the measurement Type.
func (mt Type) String() string {
	return string(mt)
}

const (
	TypeOS      Type = "OS"
	TypeSystemD Type = "SystemD"
	TypeMacOS   Type = "macOS"
)

// Measurement groups named subtypes gathered from one platform source.
type Measurement struct {
	Type     Type      `json:"type" yaml:"type"`
	Subtypes []Subtype `json:"subtypes,omitempty" yaml:"subtypes,omitempty"`
}

// Subtype is a named set of readings, e.g. "release" or "kmod".
type Subtype struct {
	Name    string             `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Data    map[string]Reading `json:"data" yaml:"data"`
	Context map[string]string  `json:"context,omitempty" yaml:"context,omitempty"`
}

// AllowedScalar is the compile-time constraint for reading values.
type AllowedScalar interface {
	~int | ~int64 | ~uint | ~uint32 | ~uint64 | ~float64 | ~bool | ~string
}

// Reading is a scalar value stored in a Subtype.
type Reading interface {
	Any() any
	String() string

	json.Marshaler
	yaml.Marshaler
}

// Scalar wraps an allowed scalar type so it can be stored as a Reading.
type Scalar[T AllowedScalar] struct {
	V T
}

func (s Scalar[T]) Any() any { return s.V }

func (s Scalar[T]) String() string {
	return fmt.Sprintf("%v", s.V)
}

// MarshalJSON emits the bare scalar.
func (s Scalar[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.V)
}

// MarshalYAML emits the bare scalar.
func (s Scalar[T]) MarshalYAML() (any, error) {
	return s.V, nil
}

func Int(v int) Reading         { return Scalar[int]{V: v} }
func Int64(v int64) Reading     { return Scalar[int64]{V: v} }
func Uint64(v uint64) Reading   { return Scalar[uint64]{V: v} }
func Float64(v float64) Reading { return Scalar[float64]{V: v} }
func Bool(v bool) Reading       { return Scalar[bool]{V: v} }
func Str(v string) Reading      { return Scalar[string]{V: v} }

// ToReading converts v into a Reading, falling back to its string form for
// types that are not scalars (dbus variants, slices).
func ToReading(v any) Reading {
	switch val := v.(type) {
	case int:
		return Int(val)
	case int32:
		return Int64(int64(val))
	case int64:
		return Int64(val)
	case uint32:
		return Uint64(uint64(val))
	case uint64:
		return Uint64(val)
	case float64:
		return Float64(val)
	case bool:
		return Bool(val)
	case string:
		return Str(val)
	case []byte:
		return Str(string(val))
	default:
		return Str(fmt.Sprintf("%v", val))
	}
}

// Validate checks if the measurement is properly formed.
func (m *Measurement) Validate() error {
	if m.Type == "" {
		return errors.New("measurement type cannot be empty")
	}
	if len(m.Subtypes) == 0 {
		return errors.New("measurement must have at least one subtype")
	}
	for i := range m.Subtypes {
		if m.Subtypes[i].Name == "" {
			return fmt.Errorf("subtype[%d]: name cannot be empty", i)
		}
	}
	return nil
}

// GetSubtype retrieves a subtype by name, returning nil if not found.
func (m *Measurement) GetSubtype(name string) *Subtype {
	for i := range m.Subtypes {
		if m.Subtypes[i].Name == name {
			return &m.Subtypes[i]
		}
	}
	return nil
}

// SubtypeNames returns all subtype names in collection order.
func (m *Measurement) SubtypeNames() []string {
	names := make([]string, len(m.Subtypes))
	for i, st := range m.Subtypes {
		names[i] = st.Name
	}
	return names
}

// Has reports whether key is present.
func (st *Subtype) Has(key string) bool {
	_, ok := st.Data[key]
	return ok
}

// Get retrieves a reading by key, returning nil if not found.
func (st *Subtype) Get(key string) Reading {
	return st.Data[key]
}

// GetString returns the string value stored under key.
func (st *Subtype) GetString(key string) (string, error) {
	r := st.Data[key]
	if r == nil {
		return "", fmt.Errorf("key %q not found", key)
	}
	v, ok := r.Any().(string)
	if !ok {
		return "", fmt.Errorf("key %q is not a string", key)
	}
	return v, nil
}

// Keys returns the sorted keys of the subtype data.
func (st *Subtype) Keys() []string {
	keys := make([]string, 0, len(st.Data))
	for k := range st.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
