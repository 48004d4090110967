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

package defaults

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		// Collector timeouts
		{"CollectorTimeout", CollectorTimeout, 5 * time.Second, 60 * time.Second},
		{"CollectorCommandTimeout", CollectorCommandTimeout, 5 * time.Second, 60 * time.Second},
		{"SnapshotCacheTTL", SnapshotCacheTTL, 1 * time.Minute, 30 * time.Minute},

		// Scheduler
		{"SchedulerPollInterval", SchedulerPollInterval, 1 * time.Second, 5 * time.Minute},
		{"SchedulerStopTimeout", SchedulerStopTimeout, 1 * time.Second, 30 * time.Second},

		// Sender
		{"SenderTimeout", SenderTimeout, 5 * time.Second, 300 * time.Second},
		{"SenderRetryDelay", SenderRetryDelay, 0, 60 * time.Second},

		// Server timeouts
		{"ServerReadTimeout", ServerReadTimeout, 5 * time.Second, 30 * time.Second},
		{"ServerWriteTimeout", ServerWriteTimeout, time.Minute, 10 * time.Minute},
		{"ServerIdleTimeout", ServerIdleTimeout, 30 * time.Second, 300 * time.Second},
		{"ServerShutdownTimeout", ServerShutdownTimeout, 10 * time.Second, 60 * time.Second},

		// HTTP client timeouts
		{"HTTPConnectTimeout", HTTPConnectTimeout, 1 * time.Second, 15 * time.Second},
		{"HTTPTLSHandshakeTimeout", HTTPTLSHandshakeTimeout, 1 * time.Second, 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) exceeds maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestSchedulerTimingRelationships(t *testing.T) {
	if SchedulerStopTimeout >= SchedulerPollInterval {
		t.Errorf("SchedulerStopTimeout (%v) should be less than SchedulerPollInterval (%v)",
			SchedulerStopTimeout, SchedulerPollInterval)
	}
	if SchedulerFireHour < 0 || SchedulerFireHour > 23 {
		t.Errorf("SchedulerFireHour out of range: %d", SchedulerFireHour)
	}
	if SchedulerFireMinute < 0 || SchedulerFireMinute > 59 {
		t.Errorf("SchedulerFireMinute out of range: %d", SchedulerFireMinute)
	}
}

func TestSenderSettings(t *testing.T) {
	if SenderMaxRetries < 0 {
		t.Errorf("SenderMaxRetries must not be negative: %d", SenderMaxRetries)
	}
	if SenderErrorBodyLimit <= 0 {
		t.Errorf("SenderErrorBodyLimit must be positive: %d", SenderErrorBodyLimit)
	}
}
