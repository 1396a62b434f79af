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

// Package prometheus publishes CPU-attributed container energy as Prometheus
// counters.
//
// The set of containers is not known until runtime, so the Exporter keeps one
// lazily registered counter per container name. The counter is named after the
// container with every character outside [a-zA-Z0-9_:] replaced by an
// underscore:
//
//	web      -> docker_activity_cpu_power_web
//	my-app   -> docker_activity_cpu_power_my_app
//
// Counters are registered on the Registerer passed to New and are never
// removed for the lifetime of the Exporter. Snapshots without an energy value
// are ignored. A registration failure (for example "my-app" and "my_app" both
// deriving the same metric name) is returned as an ErrCodeConflict error and
// remembered for that container name; other containers are unaffected.
package prometheus

import (
	"context"
	stderrors "errors"
	"log/slog"
	"math"
	"sort"
	"sync"

	promclient "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/model"

	"github.com/NVIDIA/docker-activity/pkg/errors"
	"github.com/NVIDIA/docker-activity/pkg/exporter"
	"github.com/NVIDIA/docker-activity/pkg/snapshot"
)

const (
	// DefaultPrefix is prepended to the normalized container name.
	DefaultPrefix = "docker_activity_cpu_power_"

	// DefaultHelp is the help text of every container counter.
	DefaultHelp = "docker activity cpu power for a container"
)

var _ exporter.Exporter = (*Exporter)(nil)

// Exporter accumulates snapshot energy into per-container counters.
// It is safe for concurrent use.
type Exporter struct {
	registerer promclient.Registerer
	prefix     string
	help       string

	mu       sync.Mutex
	counters map[string]promclient.Counter
	failed   map[string]error
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithPrefix sets the metric name prefix.
func WithPrefix(prefix string) Option {
	return func(e *Exporter) {
		e.prefix = prefix
	}
}

// WithHelp sets the help text of the counters.
func WithHelp(help string) Option {
	return func(e *Exporter) {
		e.help = help
	}
}

// New returns an Exporter registering its counters on reg.
// A nil reg gets a fresh, private registry.
func New(reg promclient.Registerer, opts ...Option) *Exporter {
	if reg == nil {
		reg = promclient.NewRegistry()
	}
	e := &Exporter{
		registerer: reg,
		prefix:     DefaultPrefix,
		help:       DefaultHelp,
		counters:   make(map[string]promclient.Counter),
		failed:     make(map[string]error),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle adds the snapshot energy to the counter of its container, creating
// and registering the counter on first use.
func (e *Exporter) Handle(_ context.Context, snap snapshot.Snapshot) error {
	name := snap.ContainerName
	slog.Debug("handling snapshot in exporter",
		"container", name,
		"cpuPercent", snap.CPUPercent,
		"hasEnergy", snap.CPUEnergy != nil)

	if snap.CPUEnergy == nil {
		return nil
	}

	energy := *snap.CPUEnergy
	if energy < 0 || math.IsNaN(energy) || math.IsInf(energy, 0) {
		slog.Warn("rejecting energy value that would decrease a counter",
			"container", name,
			"energy", energy)
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"energy must be a finite, non-negative value",
			map[string]any{"container": name, "energy": energy})
	}

	counter, err := e.counter(name)
	if err != nil {
		return err
	}

	counter.Add(energy)
	return nil
}

// counter returns the counter for name, registering it if needed.
// Lookup and registration happen under one lock so concurrent callers never
// register the same container twice.
func (e *Exporter) counter(name string) (promclient.Counter, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.counters[name]; ok {
		return c, nil
	}
	if err, ok := e.failed[name]; ok {
		return nil, err
	}

	metric := MetricName(e.prefix, name)
	c := promclient.NewCounter(promclient.CounterOpts{
		Name: metric,
		Help: e.help,
	})

	if err := e.registerer.Register(c); err != nil {
		ctx := map[string]any{"container": name, "metric": metric}
		var are promclient.AlreadyRegisteredError
		if stderrors.As(err, &are) {
			ctx["reason"] = "already registered"
		}
		serr := errors.WrapWithContext(errors.ErrCodeConflict, "failed to register container counter", err, ctx)
		e.failed[name] = serr
		slog.Error("counter registration failed",
			"container", name,
			"metric", metric,
			"error", err)
		return nil, serr
	}

	slog.Info("registered container counter", "container", name, "metric", metric)
	e.counters[name] = c
	return c, nil
}

// Counters returns the current value of every registered counter keyed by
// container name.
func (e *Exporter) Counters() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]float64, len(e.counters))
	for name, c := range e.counters {
		var m dto.Metric
		if err := c.Write(&m); err != nil {
			slog.Warn("failed to read counter", "container", name, "error", err)
			continue
		}
		out[name] = m.GetCounter().GetValue()
	}
	return out
}

// Containers returns the sorted names of containers with a registered counter.
func (e *Exporter) Containers() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := make([]string, 0, len(e.counters))
	for name := range e.counters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MetricName derives the exported metric name of a container. A leading digit
// is replaced as well when prefix is empty.
func MetricName(prefix, container string) string {
	return model.EscapeName(prefix+container, model.UnderscoreEscaping)
}
