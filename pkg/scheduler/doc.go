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

// Package scheduler runs inventory collection on a recurring timeline.
//
// A Scheduler translates a reporting frequency (hourly, daily, weekly or
// monthly) into concrete trigger times and fires a callback when they are
// due. The background timeline wakes on a poll interval (60s by default)
// instead of sleeping until the trigger, so Stop and frequency updates take
// effect promptly:
//
//	s := scheduler.New("daily", func(ctx context.Context) error {
//	    return agent.CollectAndSend(ctx)
//	})
//	s.Start(ctx)
//	defer s.Stop()
//
// Daily, weekly (Sunday) and monthly (1st) runs fire at 02:00 local time.
// Missed triggers are skipped rather than replayed. Callback errors and
// panics are logged and counted; they never stop the timeline.
//
// ForceRun invokes the callback immediately on the caller's goroutine
// without touching the next trigger. UpdateFrequency recomputes the next
// trigger at once; a run already in flight completes normally.
//
// The clock is injectable through WithClock so tests can drive the timeline
// with k8s.io/utils/clock/testing.FakeClock.
package scheduler
