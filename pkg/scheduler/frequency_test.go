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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(month time.Month, day, hour, minute int) time.Time {
	return time.Date(2026, month, day, hour, minute, 0, 0, time.UTC)
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		in      string
		want    Frequency
		wantErr bool
	}{
		{"hourly", Hourly, false},
		{"Daily", Daily, false},
		{" weekly ", Weekly, false},
		{"MONTHLY", Monthly, false},
		{"yearly", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFrequency(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFrequencyNext(t *testing.T) {
	// 2026-03-04 is a Wednesday
	tests := []struct {
		name string
		f    Frequency
		from time.Time
		want time.Time
	}{
		{"hourly", Hourly, at(3, 4, 10, 30), at(3, 4, 11, 30)},
		{"daily before fire time", Daily, at(3, 4, 1, 0), at(3, 4, 2, 0)},
		{"daily at fire time", Daily, at(3, 4, 2, 0), at(3, 5, 2, 0)},
		{"daily after fire time", Daily, at(3, 4, 10, 0), at(3, 5, 2, 0)},
		{"weekly midweek", Weekly, at(3, 4, 10, 0), at(3, 8, 2, 0)},
		{"weekly sunday before fire time", Weekly, at(3, 8, 1, 0), at(3, 8, 2, 0)},
		{"weekly sunday after fire time", Weekly, at(3, 8, 3, 0), at(3, 15, 2, 0)},
		{"monthly midmonth", Monthly, at(3, 4, 10, 0), at(4, 1, 2, 0)},
		{"monthly first before fire time", Monthly, at(3, 1, 1, 0), at(3, 1, 2, 0)},
		{"monthly year end", Monthly, time.Date(2026, 12, 15, 0, 0, 0, 0, time.UTC), time.Date(2027, 1, 1, 2, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Next(tt.from))
		})
	}
}

func TestFrequencyAdvanceSkipsMissed(t *testing.T) {
	assert.Equal(t, at(3, 4, 13, 0), Hourly.advance(at(3, 4, 10, 0), at(3, 4, 12, 30)))
	assert.Equal(t, at(5, 1, 2, 0), Monthly.advance(at(4, 1, 2, 0), at(4, 3, 0, 0)))
	assert.Equal(t, at(3, 5, 2, 0), Daily.advance(at(3, 4, 2, 0), at(3, 4, 2, 1)))
}

func TestFrequencyDescribe(t *testing.T) {
	assert.Equal(t, "every hour", Hourly.Describe())
	assert.Equal(t, "daily at 02:00", Daily.Describe())
	assert.Equal(t, "weekly on Sunday at 02:00", Weekly.Describe())
	assert.Equal(t, "monthly on the 1st at 02:00", Monthly.Describe())
	assert.Equal(t, "unknown", Frequency("x").Describe())
}
