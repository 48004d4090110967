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

package snapshotter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NVIDIA/inventory-agent/pkg/collector"
	"github.com/NVIDIA/inventory-agent/pkg/collector/system"
	"github.com/NVIDIA/inventory-agent/pkg/defaults"
	apperrors "github.com/NVIDIA/inventory-agent/pkg/errors"
	"github.com/NVIDIA/inventory-agent/pkg/header"
	"github.com/NVIDIA/inventory-agent/pkg/inventory"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"
)

// FactsFunc returns the host facts the identity is derived from.
type FactsFunc func() (system.Facts, error)

type cacheEntry struct {
	snapshot   *inventory.Snapshot
	producedAt time.Time
	seq        uint64
}

// HostSnapshotter collects inventory sections from the local host and caches
// the assembled snapshot for CacheTTL. Collectors run sequentially unless
// Parallel is set; a failing or panicking collector becomes an unavailable
// section and never fails the run.
type HostSnapshotter struct {
	// Version is stamped on every snapshot header.
	Version string

	// Collectors produce the snapshot sections.
	Collectors []collector.Collector

	// Facts supplies hostname and MAC for the host identity.
	// If nil, the system collector is used.
	Facts FactsFunc

	// CacheTTL bounds how long a snapshot is served from cache.
	// Zero uses defaults.SnapshotCacheTTL; negative disables caching.
	CacheTTL time.Duration

	// ProviderTimeout bounds each collector call.
	// Zero uses defaults.CollectorTimeout.
	ProviderTimeout time.Duration

	// Parallel runs collectors concurrently, at most MaxParallel at a time
	// when MaxParallel is positive.
	Parallel    bool
	MaxParallel int

	// Clock is the time source. If nil, the real clock is used.
	Clock clock.PassiveClock

	writeMu      sync.Mutex
	cache        atomic.Pointer[cacheEntry]
	seq          atomic.Uint64
	runs         atomic.Uint64
	hits         atomic.Uint64
	identityOnce sync.Once
	identity     string
}

// NewHostSnapshotter returns a snapshotter over collectors with default
// cache and timeout settings.
func NewHostSnapshotter(version string, collectors []collector.Collector) *HostSnapshotter {
	return &HostSnapshotter{
		Version:    version,
		Collectors: collectors,
	}
}

func (h *HostSnapshotter) clock() clock.PassiveClock {
	if h.Clock == nil {
		return clock.RealClock{}
	}
	return h.Clock
}

func (h *HostSnapshotter) ttl() time.Duration {
	if h.CacheTTL == 0 {
		return defaults.SnapshotCacheTTL
	}
	return h.CacheTTL
}

func (h *HostSnapshotter) valid(e *cacheEntry) bool {
	ttl := h.ttl()
	return e != nil && ttl > 0 && h.clock().Since(e.producedAt) < ttl
}

// Collect returns the cached snapshot while it is valid and force is false.
// Otherwise it runs every collector and replaces the cache. The only errors
// are a done context, reported as TIMEOUT for an expired deadline and
// SERVICE_UNAVAILABLE for a cancel, and internal faults, reported with code
// INTERNAL.
func (h *HostSnapshotter) Collect(ctx context.Context, force bool) (snap *inventory.Snapshot, err error) {
	if !force {
		if e := h.cache.Load(); h.valid(e) {
			if e.snapshot == nil {
				snapshotCollectionTotal.WithLabelValues("error").Inc()
				return nil, apperrors.New(apperrors.ErrCodeInternal, "cached snapshot entry is empty")
			}
			h.hits.Add(1)
			snapshotCollectionTotal.WithLabelValues("cached").Inc()
			slog.Debug("returning cached snapshot",
				slog.Time("collected_at", e.snapshot.CollectedAt))
			return e.snapshot, nil
		}
	}

	if err := ctx.Err(); err != nil {
		snapshotCollectionTotal.WithLabelValues("error").Inc()
		code := apperrors.ErrCodeUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			code = apperrors.ErrCodeTimeout
		}
		return nil, apperrors.Wrap(code, "snapshot collection canceled", err)
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("snapshot pipeline panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			snapshotCollectionTotal.WithLabelValues("error").Inc()
			snap = nil
			err = apperrors.New(apperrors.ErrCodeInternal, fmt.Sprintf("snapshot pipeline panicked: %v", r))
		}
	}()

	return h.collect(ctx)
}

func (h *HostSnapshotter) collect(ctx context.Context) (*inventory.Snapshot, error) {
	clk := h.clock()
	start := clk.Now()
	seq := h.seq.Add(1)
	h.runs.Add(1)

	slog.Debug("starting host snapshot",
		slog.Int("collectors", len(h.Collectors)),
		slog.Bool("parallel", h.Parallel))

	sections := h.runCollectors(ctx)

	snap := &inventory.Snapshot{
		CollectedAt:  start,
		HostIdentity: h.hostIdentity(),
		Sections:     make(map[string]inventory.Section, len(sections)),
	}
	for _, s := range sections {
		snap.Sections[s.Name] = s
	}
	snap.Init(header.KindSnapshot, inventory.APIVersion, h.Version, start)
	if sys := snap.System(); sys != nil {
		snap.Metadata[header.MetadataHostname] = sys.Hostname
	}
	snap.Duration = clk.Since(start)

	h.store(&cacheEntry{snapshot: snap, producedAt: clk.Now(), seq: seq})

	unavailable := len(snap.Sections) - snap.AvailableCount()
	snapshotCollectionDuration.Observe(snap.Duration.Seconds())
	snapshotCollectionTotal.WithLabelValues("collected").Inc()
	snapshotSections.WithLabelValues("available").Set(float64(snap.AvailableCount()))
	snapshotSections.WithLabelValues("unavailable").Set(float64(unavailable))

	slog.Info("snapshot collected",
		slog.Int("sections", len(snap.Sections)),
		slog.Int("unavailable", unavailable),
		slog.Duration("duration", snap.Duration))
	return snap, nil
}

// store replaces the cache unless a newer run already did.
func (h *HostSnapshotter) store(e *cacheEntry) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	if cur := h.cache.Load(); cur != nil && cur.seq > e.seq {
		return
	}
	h.cache.Store(e)
}

func (h *HostSnapshotter) runCollectors(ctx context.Context) []inventory.Section {
	results := make([]inventory.Section, len(h.Collectors))

	if !h.Parallel {
		for i, c := range h.Collectors {
			results[i] = h.runCollector(ctx, c)
		}
		return results
	}

	// the group context is not used: one failing collector must not cancel the rest
	var g errgroup.Group
	if h.MaxParallel > 0 {
		g.SetLimit(h.MaxParallel)
	}
	for i, c := range h.Collectors {
		g.Go(func() error {
			results[i] = h.runCollector(ctx, c)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (h *HostSnapshotter) runCollector(ctx context.Context, c collector.Collector) (sec inventory.Section) {
	name := c.Name()
	clk := h.clock()
	start := clk.Now()

	defer func() {
		d := clk.Since(start)
		if r := recover(); r != nil {
			slog.Error("collector panicked",
				slog.String("collector", name),
				slog.Any("panic", r))
			sec = inventory.UnavailableSection(name, fmt.Errorf("collector panicked: %v", r), d)
		}
		snapshotProviderDuration.WithLabelValues(name).Observe(d.Seconds())
		if !sec.Available {
			snapshotProviderFailures.WithLabelValues(name).Inc()
		}
	}()

	timeout := h.ProviderTimeout
	if timeout <= 0 {
		timeout = defaults.CollectorTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	data, err := c.Collect(cctx)
	if err != nil {
		slog.Warn("collector failed",
			slog.String("collector", name),
			slog.String("error", err.Error()))
		return inventory.UnavailableSection(name, err, clk.Since(start))
	}
	return inventory.NewSection(name, data, clk.Since(start))
}

func (h *HostSnapshotter) hostIdentity() string {
	h.identityOnce.Do(func() {
		facts := h.Facts
		if facts == nil {
			facts = (&system.Collector{}).HostFacts
		}
		f, err := facts()
		if err != nil {
			slog.Warn("failed to read host facts, using fallback identity",
				slog.String("error", err.Error()))
			f = system.Facts{Hostname: "unknown"}
		}
		h.identity = HostIdentity(f.Hostname, f.PrimaryMAC)
	})
	return h.identity
}

// Stats describes the cached snapshot without collecting.
func (h *HostSnapshotter) Stats() Stats {
	st := Stats{
		CacheTTLSeconds: h.ttl().Seconds(),
		Runs:            h.runs.Load(),
		CacheHits:       h.hits.Load(),
	}
	e := h.cache.Load()
	if e == nil || e.snapshot == nil {
		return st
	}

	s := e.snapshot
	st.HasSnapshot = true
	st.CollectedAt = s.CollectedAt
	st.DurationSeconds = s.Duration.Seconds()
	st.CacheValid = h.valid(e)
	st.CacheAgeSeconds = h.clock().Since(e.producedAt).Seconds()
	st.Sections = len(s.Sections)
	st.AvailableSections = s.AvailableCount()
	if u := s.Unavailable(); len(u) > 0 {
		st.Unavailable = u
	}
	st.Applications = len(s.Applications())
	if n := s.Network(); n != nil {
		st.Interfaces = len(n.Interfaces)
	}
	if hw := s.Hardware(); hw != nil {
		st.HardwareComponents = hw.ComponentCount()
	}
	return st
}

// ClearCache drops the cached snapshot; the next Collect runs collectors.
func (h *HostSnapshotter) ClearCache() {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	h.cache.Store(nil)
	slog.Debug("snapshot cache cleared")
}
