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

package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/utils/clock"

	"github.com/NVIDIA/inventory-agent/pkg/collector"
	"github.com/NVIDIA/inventory-agent/pkg/config"
	apperrors "github.com/NVIDIA/inventory-agent/pkg/errors"
	"github.com/NVIDIA/inventory-agent/pkg/inventory"
	"github.com/NVIDIA/inventory-agent/pkg/scheduler"
	"github.com/NVIDIA/inventory-agent/pkg/sender"
	"github.com/NVIDIA/inventory-agent/pkg/snapshotter"
)

// Status is the agent view served by GET /status.
type Status struct {
	Version       string            `json:"version" yaml:"version"`
	StartedAt     time.Time         `json:"started_at" yaml:"started_at"`
	UptimeSeconds float64           `json:"uptime_seconds" yaml:"uptime_seconds"`
	Busy          bool              `json:"busy" yaml:"busy"`
	Scheduler     scheduler.Status  `json:"scheduler" yaml:"scheduler"`
	Collection    snapshotter.Stats `json:"collection" yaml:"collection"`
	Delivery      sender.Stats      `json:"delivery" yaml:"delivery"`
}

// Option configures an Agent.
type Option func(*Agent)

// WithSnapshotter replaces the host snapshotter built from the config.
func WithSnapshotter(s snapshotter.Snapshotter) Option {
	return func(a *Agent) { a.snapshotter = s }
}

// WithSenderOptions passes options to the sender.
func WithSenderOptions(opts ...sender.Option) Option {
	return func(a *Agent) { a.senderOpts = append(a.senderOpts, opts...) }
}

// WithSchedulerOptions passes options to the scheduler.
func WithSchedulerOptions(opts ...scheduler.Option) Option {
	return func(a *Agent) { a.schedOpts = append(a.schedOpts, opts...) }
}

// WithConfigPath makes runtime server changes persist to path.
func WithConfigPath(path string) Option {
	return func(a *Agent) { a.configPath = path }
}

// WithClock sets the time source for uptime.
func WithClock(c clock.PassiveClock) Option {
	return func(a *Agent) { a.clock = c }
}

// Agent wires the snapshotter, sender and scheduler together.
type Agent struct {
	version    string
	configPath string
	clock      clock.PassiveClock
	startedAt  time.Time

	mu  sync.RWMutex
	cfg *config.Config

	snapshotter snapshotter.Snapshotter
	sender      *sender.Sender
	scheduler   *scheduler.Scheduler
	senderOpts  []sender.Option
	schedOpts   []scheduler.Option

	busy atomic.Bool
}

// New builds an agent from cfg. The scheduler is created but not started.
func New(cfg *config.Config, version string, opts ...Option) *Agent {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &Agent{
		version: version,
		cfg:     cfg,
		clock:   clock.RealClock{},
	}
	for _, o := range opts {
		o(a)
	}
	a.startedAt = a.clock.Now()

	if a.snapshotter == nil {
		a.snapshotter = NewHostSnapshotter(cfg, version)
	}
	a.sender = sender.New(SenderConfig(cfg), version, a.senderOpts...)

	schedOpts := append([]scheduler.Option{
		scheduler.WithPollInterval(cfg.Agent.PollInterval),
	}, a.schedOpts...)
	a.scheduler = scheduler.New(cfg.Agent.ReportingFrequency, a.scheduledRun, schedOpts...)
	return a
}

// NewHostSnapshotter builds the snapshotter for the running platform with
// the sections enabled in cfg.
func NewHostSnapshotter(cfg *config.Config, version string) *snapshotter.HostSnapshotter {
	factory := collector.NewDefaultFactory(
		collector.WithSystemDServices(cfg.Agent.SystemdServices),
	)
	collectors := collector.DefaultRegistry().Collectors("", factory, Selection(cfg))

	hs := snapshotter.NewHostSnapshotter(version, collectors)
	hs.Facts = factory.SystemCollector().HostFacts
	hs.Parallel = cfg.Agent.ParallelCollection
	hs.CacheTTL = cfg.Agent.CacheTTL
	if hs.CacheTTL == 0 {
		hs.CacheTTL = -1
	}
	return hs
}

// Selection maps the collect_* switches onto a collector selection.
func Selection(cfg *config.Config) collector.Selection {
	return collector.Selection{
		Hardware: cfg.Agent.CollectHardware,
		Software: cfg.Agent.CollectSoftware,
		Network:  cfg.Agent.CollectNetwork,
	}
}

// SenderConfig maps the server settings onto a sender config.
func SenderConfig(cfg *config.Config) sender.Config {
	return sender.Config{
		URL:       cfg.Server.URL,
		AuthToken: cfg.Server.AuthToken,
		Timeout:   cfg.Server.Timeout,
		VerifySSL: cfg.Server.VerifySSL,
		FailFast:  cfg.Agent.FailFast,
	}
}

// Config returns a copy of the active configuration.
func (a *Agent) Config() config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return *a.cfg
}

// Scheduler exposes the scheduler for inspection.
func (a *Agent) Scheduler() *scheduler.Scheduler {
	return a.scheduler
}

// Sender exposes the sender for inspection.
func (a *Agent) Sender() *sender.Sender {
	return a.sender
}

// Collect returns a snapshot, from cache unless force is set.
func (a *Agent) Collect(ctx context.Context, force bool) (*inventory.Snapshot, error) {
	return a.snapshotter.Collect(ctx, force)
}

// Send delivers the cached snapshot, collecting first when the cache is
// empty or stale.
func (a *Agent) Send(ctx context.Context) (sender.Outcome, error) {
	snap, err := a.snapshotter.Collect(ctx, false)
	if err != nil {
		return sender.Outcome{}, err
	}
	return a.deliver(ctx, snap), nil
}

// CollectAndSend runs a fresh collection and delivers it.
func (a *Agent) CollectAndSend(ctx context.Context) (sender.Outcome, error) {
	snap, err := a.snapshotter.Collect(ctx, true)
	if err != nil {
		return sender.Outcome{}, err
	}
	return a.deliver(ctx, snap), nil
}

func (a *Agent) deliver(ctx context.Context, snap *inventory.Snapshot) sender.Outcome {
	a.mu.RLock()
	retries, delay := a.cfg.Agent.MaxRetries, a.cfg.Agent.RetryDelay
	a.mu.RUnlock()
	return a.sender.SendWithRetry(ctx, snap, retries, delay)
}

// TestConnection checks that the collection server is reachable.
func (a *Agent) TestConnection(ctx context.Context) (bool, string) {
	return a.sender.TestConnection(ctx)
}

func (a *Agent) scheduledRun(ctx context.Context) error {
	if !a.busy.CompareAndSwap(false, true) {
		slog.Warn("scheduled run skipped, another operation is in progress")
		return apperrors.New(apperrors.ErrCodeConflict, "operation already in progress")
	}
	defer a.busy.Store(false)

	out, err := a.CollectAndSend(ctx)
	if err != nil {
		return err
	}
	if !out.Success() {
		return fmt.Errorf("delivery failed: %s", out)
	}
	slog.Info("scheduled inventory delivered", slog.Int("attempts", out.Attempts))
	return nil
}

// Status returns the combined runtime view.
func (a *Agent) Status() Status {
	now := a.clock.Now()
	return Status{
		Version:       a.version,
		StartedAt:     a.startedAt,
		UptimeSeconds: now.Sub(a.startedAt).Seconds(),
		Busy:          a.busy.Load(),
		Scheduler:     a.scheduler.Status(),
		Collection:    a.snapshotter.Stats(),
		Delivery:      a.sender.Stats(),
	}
}

// ApplyConfig applies a reloaded configuration to the running agent.
// Reporting frequency, endpoint settings and the retry budget take effect
// immediately; section selection and collector settings need a restart.
func (a *Agent) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	a.mu.Lock()
	prev := a.cfg
	a.cfg = cfg
	a.mu.Unlock()

	if cfg.Agent.ReportingFrequency != string(a.scheduler.Frequency()) {
		if err := a.scheduler.UpdateFrequency(cfg.Agent.ReportingFrequency); err != nil {
			slog.Error("failed to apply reporting frequency",
				slog.String("frequency", cfg.Agent.ReportingFrequency),
				slog.String("error", err.Error()))
		}
	}
	if SenderConfig(prev) != SenderConfig(cfg) {
		a.sender.UpdateConfig(SenderConfig(cfg))
	}
	if Selection(prev) != Selection(cfg) || prev.Agent.ParallelCollection != cfg.Agent.ParallelCollection {
		slog.Warn("collection settings changed, restart the agent to apply them")
	}
}

// ServerSettings is the runtime-editable endpoint configuration.
type ServerSettings struct {
	URL            string `json:"url"`
	TimeoutSeconds int    `json:"timeout"`
	VerifySSL      bool   `json:"verify_ssl"`
	HasAuthToken   bool   `json:"auth_token_set"`
}

// ServerUpdate carries the fields of a POST /config/server body. Nil
// fields are left unchanged.
type ServerUpdate struct {
	URL            *string `json:"url"`
	AuthToken      *string `json:"auth_token"`
	TimeoutSeconds *int    `json:"timeout"`
	VerifySSL      *bool   `json:"verify_ssl"`
}

// ServerSettings returns the current endpoint settings.
func (a *Agent) ServerSettings() ServerSettings {
	cfg := a.Config()
	return ServerSettings{
		URL:            cfg.Server.URL,
		TimeoutSeconds: int(cfg.Server.Timeout / time.Second),
		VerifySSL:      cfg.Server.VerifySSL,
		HasAuthToken:   cfg.Server.AuthToken != "",
	}
}

// UpdateServer validates u, applies it to the sender and, when a config
// path is set, persists it.
func (a *Agent) UpdateServer(u ServerUpdate) error {
	next := a.Config()
	if u.URL != nil {
		if err := config.ValidateServerURL(*u.URL); err != nil {
			return apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "invalid server url", err,
				map[string]any{"field": "url"})
		}
		next.Server.URL = *u.URL
	}
	if u.TimeoutSeconds != nil {
		d := time.Duration(*u.TimeoutSeconds) * time.Second
		if err := config.ValidateServerTimeout(d); err != nil {
			return apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "invalid server timeout", err,
				map[string]any{"field": "timeout"})
		}
		next.Server.Timeout = d
	}
	if u.AuthToken != nil {
		next.Server.AuthToken = *u.AuthToken
	}
	if u.VerifySSL != nil {
		next.Server.VerifySSL = *u.VerifySSL
	}

	a.mu.Lock()
	a.cfg = &next
	a.mu.Unlock()
	a.sender.UpdateConfig(SenderConfig(&next))

	if a.configPath != "" {
		if err := config.Save(&next, a.configPath); err != nil {
			return err
		}
	}
	slog.Info("server settings updated", slog.String("url", next.Server.URL))
	return nil
}

// Run starts the scheduler, reports readiness to systemd and blocks until
// ctx is done.
func (a *Agent) Run(ctx context.Context) error {
	a.scheduler.Start(ctx)
	notify(stateReady)
	slog.Info("agent running",
		slog.String("frequency", a.scheduler.Frequency().Describe()),
		slog.Time("next_run", a.scheduler.NextRun()))

	watchdog(ctx)

	notify(stateStopping)
	a.scheduler.Stop()
	slog.Info("agent stopped")
	return nil
}
