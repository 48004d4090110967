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

package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/NVIDIA/inventory-agent/pkg/defaults"
)

// Frequency is a reporting recurrence.
type Frequency string

// Supported frequencies. Daily, weekly and monthly runs fire at 02:00 local
// time; weekly on Sunday, monthly on the 1st.
const (
	Hourly  Frequency = "hourly"
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// DefaultFrequency is used when the configured value is invalid.
const DefaultFrequency = Daily

// Frequencies lists the supported values.
func Frequencies() []Frequency {
	return []Frequency{Hourly, Daily, Weekly, Monthly}
}

// ParseFrequency parses s case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if f.IsValid() {
		return f, nil
	}
	return "", fmt.Errorf("unsupported reporting frequency %q, expected one of %v", s, Frequencies())
}

// IsValid reports whether f is a supported frequency.
func (f Frequency) IsValid() bool {
	switch f {
	case Hourly, Daily, Weekly, Monthly:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (f Frequency) String() string { return string(f) }

// Describe returns a human readable description of the recurrence.
func (f Frequency) Describe() string {
	at := fmt.Sprintf("%02d:%02d", defaults.SchedulerFireHour, defaults.SchedulerFireMinute)
	switch f {
	case Hourly:
		return "every hour"
	case Daily:
		return "daily at " + at
	case Weekly:
		return "weekly on Sunday at " + at
	case Monthly:
		return "monthly on the 1st at " + at
	default:
		return "unknown"
	}
}

// Next returns the first trigger strictly after t, in t's location.
func (f Frequency) Next(t time.Time) time.Time {
	if f == Hourly {
		return t.Add(time.Hour)
	}

	c := time.Date(t.Year(), t.Month(), t.Day(),
		defaults.SchedulerFireHour, defaults.SchedulerFireMinute, 0, 0, t.Location())
	if !c.After(t) {
		c = c.AddDate(0, 0, 1)
	}
	switch f {
	case Weekly:
		for c.Weekday() != time.Sunday {
			c = c.AddDate(0, 0, 1)
		}
	case Monthly:
		for c.Day() != 1 {
			c = c.AddDate(0, 0, 1)
		}
	}
	return c
}

// advance returns the first trigger after now that follows scheduled,
// skipping triggers missed while the host was busy or asleep.
func (f Frequency) advance(scheduled, now time.Time) time.Time {
	n := f.Next(scheduled)
	for !n.After(now) {
		n = f.Next(n)
	}
	return n
}
