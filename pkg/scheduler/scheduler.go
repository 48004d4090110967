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
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/NVIDIA/inventory-agent/pkg/defaults"
	"k8s.io/utils/clock"
)

// Callback runs one collection. Errors are logged and never stop the
// scheduler.
type Callback func(ctx context.Context) error

// Trigger identifies what started a callback run.
type Trigger string

const (
	TriggerScheduled Trigger = "scheduled"
	TriggerForced    Trigger = "forced"
)

// Status is a point-in-time view of the scheduler.
type Status struct {
	Running     bool      `json:"running" yaml:"running"`
	Frequency   Frequency `json:"frequency" yaml:"frequency"`
	Description string    `json:"description" yaml:"description"`
	NextRun     time.Time `json:"next_run,omitempty" yaml:"next_run,omitempty"`
	NextRunIn   string    `json:"next_run_in,omitempty" yaml:"next_run_in,omitempty"`
	LastRun     time.Time `json:"last_run,omitempty" yaml:"last_run,omitempty"`
	LastError   string    `json:"last_error,omitempty" yaml:"last_error,omitempty"`
	Runs        uint64    `json:"runs" yaml:"runs"`
	Failures    uint64    `json:"failures" yaml:"failures"`
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the time source. Tests pass a fake clock.
func WithClock(c clock.WithTicker) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithPollInterval sets how often the timeline checks for due runs.
func WithPollInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithStopTimeout bounds how long Stop waits for the timeline to exit.
// The wait uses wall-clock time regardless of the configured clock.
func WithStopTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.stopTimeout = d
		}
	}
}

// WithLocation sets the time zone trigger times are computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// Scheduler fires a callback on a recurring timeline. The timeline runs in
// one goroutine, so at most one scheduled callback is active at a time.
type Scheduler struct {
	callback     Callback
	clock        clock.WithTicker
	pollInterval time.Duration
	stopTimeout  time.Duration
	loc          *time.Location

	mu        sync.Mutex
	frequency Frequency
	next      time.Time
	gen       uint64
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	lastRun   time.Time
	lastErr   string
	runs      uint64
	failures  uint64
}

// New returns a stopped scheduler for frequency. An invalid frequency is
// replaced by DefaultFrequency with a warning.
func New(frequency string, cb Callback, opts ...Option) *Scheduler {
	s := &Scheduler{
		callback:     cb,
		clock:        clock.RealClock{},
		pollInterval: defaults.SchedulerPollInterval,
		stopTimeout:  defaults.SchedulerStopTimeout,
		loc:          time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}

	f, err := ParseFrequency(frequency)
	if err != nil {
		slog.Warn("invalid reporting frequency, using default",
			slog.String("frequency", frequency),
			slog.String("default", DefaultFrequency.String()))
		f = DefaultFrequency
	}
	s.frequency = f
	s.next = f.Next(s.now())
	schedulerNextRun.Set(float64(s.next.Unix()))

	slog.Info("schedule configured", slog.String("frequency", f.Describe()))
	return s
}

func (s *Scheduler) now() time.Time {
	return s.clock.Now().In(s.loc)
}

// Start launches the background timeline. It is a no-op if already running
// or if the timeline of a timed out Stop has not exited yet.
// The timeline exits on Stop or when ctx is canceled; ctx is also passed to
// every scheduled callback.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		slog.Warn("scheduler already running")
		return
	}
	if s.doneCh != nil {
		select {
		case <-s.doneCh:
		default:
			// a Stop timed out and the previous timeline is still in a callback
			slog.Warn("previous scheduler timeline still running, start ignored")
			return
		}
	}
	if s.next.IsZero() {
		s.next = s.frequency.Next(s.now())
	}

	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.loop(ctx, s.stopCh, s.doneCh)

	slog.Info("scheduler started",
		slog.String("frequency", s.frequency.String()),
		slog.Time("next_run", s.next))
}

// Stop signals the timeline to exit and waits for it, including any
// in-flight callback, up to the stop timeout. It is idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	done := s.doneCh
	s.mu.Unlock()

	t := time.NewTimer(s.stopTimeout)
	defer t.Stop()
	select {
	case <-done:
		slog.Info("scheduler stopped")
	case <-t.C:
		slog.Warn("scheduler did not stop in time", slog.Duration("timeout", s.stopTimeout))
	}
}

func (s *Scheduler) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := s.clock.NewTicker(s.pollInterval)
	defer ticker.Stop()

	slog.Debug("scheduler loop started", slog.Duration("poll_interval", s.pollInterval))
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			return
		case <-ticker.C():
			s.tick(ctx)
		}
	}
}

// tick runs the callback when the next trigger is due.
func (s *Scheduler) tick(ctx context.Context) {
	s.mu.Lock()
	now := s.now()
	if s.next.IsZero() || now.Before(s.next) {
		s.mu.Unlock()
		return
	}
	gen, freq, scheduled := s.gen, s.frequency, s.next
	s.mu.Unlock()

	// monthly triggers are daily checks that only run on the 1st
	if freq != Monthly || now.Day() == 1 {
		slog.Info("scheduled collection triggered", slog.Time("scheduled", scheduled))
		s.run(ctx, TriggerScheduled)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// a frequency update during the run already set a new trigger
	if s.gen == gen {
		s.next = freq.advance(scheduled, s.now())
		schedulerNextRun.Set(float64(s.next.Unix()))
		slog.Debug("next collection scheduled", slog.Time("next_run", s.next))
	}
}

// run invokes the callback, converting a panic into an error.
func (s *Scheduler) run(ctx context.Context, trigger Trigger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("collection callback panicked: %v", r)
		}

		s.mu.Lock()
		s.lastRun = s.now()
		s.runs++
		status := "success"
		if err != nil {
			s.failures++
			s.lastErr = err.Error()
			status = "error"
		} else {
			s.lastErr = ""
		}
		s.mu.Unlock()

		schedulerRunsTotal.WithLabelValues(string(trigger), status).Inc()
		if err != nil {
			slog.Error("collection run failed",
				slog.String("trigger", string(trigger)),
				slog.String("error", err.Error()))
		}
	}()

	if s.callback == nil {
		return fmt.Errorf("no collection callback configured")
	}
	return s.callback(ctx)
}

// ForceRun invokes the callback synchronously on the caller's goroutine.
// The next scheduled trigger is not changed.
func (s *Scheduler) ForceRun(ctx context.Context) error {
	slog.Info("forced collection requested")
	return s.run(ctx, TriggerForced)
}

// UpdateFrequency switches the recurrence and recomputes the next trigger
// immediately. An in-flight scheduled run completes but does not overwrite
// the new trigger.
func (s *Scheduler) UpdateFrequency(frequency string) error {
	f, err := ParseFrequency(frequency)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.frequency = f
	s.gen++
	s.next = f.Next(s.now())
	schedulerNextRun.Set(float64(s.next.Unix()))

	slog.Info("reporting frequency updated",
		slog.String("frequency", f.Describe()),
		slog.Time("next_run", s.next))
	return nil
}

// Frequency returns the current recurrence.
func (s *Scheduler) Frequency() Frequency {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frequency
}

// NextRun returns the next trigger time.
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Status returns the scheduler state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Running:     s.running,
		Frequency:   s.frequency,
		Description: s.frequency.Describe(),
		NextRun:     s.next,
		LastRun:     s.lastRun,
		LastError:   s.lastErr,
		Runs:        s.runs,
		Failures:    s.failures,
	}
	if !s.next.IsZero() {
		st.NextRunIn = s.next.Sub(s.now()).Round(time.Second).String()
	}
	return st
}

// NextRuns returns the next n trigger times of the current recurrence.
func (s *Scheduler) NextRuns(n int) []time.Time {
	if n <= 0 {
		return nil
	}
	s.mu.Lock()
	f, t := s.frequency, s.next
	s.mu.Unlock()

	out := make([]time.Time, 0, n)
	for len(out) < n {
		out = append(out, t)
		t = f.Next(t)
	}
	return out
}
