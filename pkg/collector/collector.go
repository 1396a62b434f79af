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

package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/docker-activity/pkg/defaults"
	"github.com/NVIDIA/docker-activity/pkg/docker"
	"github.com/NVIDIA/docker-activity/pkg/energy"
	"github.com/NVIDIA/docker-activity/pkg/exporter"
	"github.com/NVIDIA/docker-activity/pkg/snapshot"
)

// Source is the container runtime statistics are read from.
type Source interface {
	ListContainers(ctx context.Context) ([]docker.Container, error)
	StreamContainerStats(ctx context.Context, id string) (<-chan docker.Stats, <-chan error)
}

// Collector streams container statistics into an exporter.
type Collector struct {
	source   Source
	exporter exporter.Exporter
	energy   energy.Reader
	rescan   time.Duration
	metrics  *metrics

	mu     sync.RWMutex
	active map[string]struct{}
	latest map[string]snapshot.Snapshot
}

// Option is a functional option for configuring Collector instances.
type Option func(*Collector)

// WithEnergy enables energy attribution from r.
func WithEnergy(r energy.Reader) Option {
	return func(c *Collector) {
		c.energy = r
	}
}

// WithRescanInterval sets how often the running containers are listed.
func WithRescanInterval(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.rescan = d
		}
	}
}

// WithRegisterer registers the collector's own metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Collector) {
		c.metrics = newMetrics(reg)
	}
}

// New returns a Collector reading from source and exporting to exp.
func New(source Source, exp exporter.Exporter, opts ...Option) *Collector {
	c := &Collector{
		source:   source,
		exporter: exp,
		rescan:   defaults.RescanInterval,
		active:   make(map[string]struct{}),
		latest:   make(map[string]snapshot.Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = newMetrics(nil)
	}
	return c
}

// Run collects until ctx is canceled. It fails only when the first listing
// of running containers fails; later listing errors are logged.
func (c *Collector) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if err := c.scan(gctx, g); err != nil {
		return err
	}

	ticker := time.NewTicker(c.rescan)
	defer ticker.Stop()

	slog.Info("collector started", "rescanInterval", c.rescan.String(), "energy", c.energy != nil)

loop:
	for {
		select {
		case <-gctx.Done():
			break loop
		case <-ticker.C:
			if err := c.scan(gctx, g); err != nil {
				slog.Warn("container rescan failed", "error", err)
			}
		}
	}

	err := g.Wait()
	slog.Info("collector stopped")
	return err
}

// scan starts a watcher for every running container not yet watched.
func (c *Collector) scan(ctx context.Context, g *errgroup.Group) error {
	containers, err := c.source.ListContainers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list running containers: %w", err)
	}

	for _, cont := range containers {
		if !c.track(cont.ID) {
			continue
		}
		slog.Debug("watching container", "id", cont.ID, "name", cont.Name, "image", cont.Image)
		g.Go(func() error {
			defer c.untrack(cont)
			c.watch(ctx, cont)
			return nil
		})
	}
	return nil
}

// track marks id as watched and reports whether it was not watched before.
func (c *Collector) track(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.active[id]; ok {
		return false
	}
	c.active[id] = struct{}{}
	c.metrics.containers.Set(float64(len(c.active)))
	return true
}

func (c *Collector) untrack(cont docker.Container) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.active, cont.ID)
	delete(c.latest, cont.Name)
	c.metrics.containers.Set(float64(len(c.active)))
	slog.Debug("container stream ended", "id", cont.ID, "name", cont.Name)
}

// watch consumes the stats stream of one container until it ends.
func (c *Collector) watch(ctx context.Context, cont docker.Container) {
	var meter *energy.Meter
	if c.energy != nil {
		meter = energy.NewMeter(c.energy)
	}

	stats, errs := c.source.StreamContainerStats(ctx, cont.ID)
	for frame := range stats {
		c.process(ctx, meter, frame)
	}
	if err := <-errs; err != nil {
		slog.Warn("container stats stream failed", "id", cont.ID, "name", cont.Name, "error", err)
	}
}

// process turns one frame into a snapshot and exports it.
func (c *Collector) process(ctx context.Context, meter *energy.Meter, frame docker.Stats) {
	// The meter advances on every frame so its interval tracks the CPU interval.
	var total *float64
	if meter != nil {
		var err error
		if total, err = meter.Next(ctx); err != nil {
			slog.Warn("failed to read energy", "error", err)
			total = nil
		}
	}

	if snapshot.Degenerate(frame.Current, frame.Prior) {
		c.metrics.degenerate.Inc()
		slog.Debug("skipping degenerate sample",
			"id", frame.Current.ID,
			"name", snapshot.NormalizeName(frame.Current.Name))
		return
	}

	snap := snapshot.Build(frame.Current, frame.Prior, total)
	c.metrics.samples.Inc()

	c.mu.Lock()
	c.latest[snap.ContainerName] = snap
	c.mu.Unlock()

	if err := c.exporter.Handle(ctx, snap); err != nil {
		c.metrics.exportErrors.Inc()
		slog.Warn("failed to export snapshot", "name", snap.ContainerName, "error", err)
	}
}

// Latest returns the most recent snapshot of every watched container,
// sorted by container name.
func (c *Collector) Latest() []snapshot.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]snapshot.Snapshot, 0, len(c.latest))
	for _, snap := range c.latest {
		result = append(result, snap)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ContainerName < result[j].ContainerName
	})
	return result
}
