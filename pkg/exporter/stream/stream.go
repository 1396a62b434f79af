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

// Package stream implements an exporter writing every snapshot to stdout or a
// file in JSON, YAML or table format.
package stream

import (
	"context"
	"fmt"

	"github.com/NVIDIA/docker-activity/pkg/exporter"
	"github.com/NVIDIA/docker-activity/pkg/serializer"
	"github.com/NVIDIA/docker-activity/pkg/snapshot"
)

var _ exporter.Exporter = (*Exporter)(nil)

// Exporter serializes snapshots as they arrive.
type Exporter struct {
	writer     *serializer.Writer
	energyOnly bool
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithEnergyOnly drops snapshots without an energy value.
func WithEnergyOnly(v bool) Option {
	return func(e *Exporter) {
		e.energyOnly = v
	}
}

// New returns an Exporter writing to path ("" or "-" for stdout) in format.
func New(format serializer.Format, path string, opts ...Option) (*Exporter, error) {
	if format.IsUnknown() {
		return nil, fmt.Errorf("unknown output format: %q, supported: %v", format, serializer.SupportedFormats())
	}
	return NewWithWriter(serializer.NewFileWriterOrStdout(format, path), opts...), nil
}

// NewWithWriter returns an Exporter serializing through w.
func NewWithWriter(w *serializer.Writer, opts ...Option) *Exporter {
	e := &Exporter{writer: w}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle writes the snapshot.
func (e *Exporter) Handle(ctx context.Context, snap snapshot.Snapshot) error {
	if e.energyOnly && snap.CPUEnergy == nil {
		return nil
	}
	if err := e.writer.Serialize(ctx, snap); err != nil {
		return fmt.Errorf("failed to write snapshot of %s: %w", snap.ContainerName, err)
	}
	return nil
}

// Close flushes and closes the output.
func (e *Exporter) Close() error {
	return e.writer.Close()
}
