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

// Package exporter defines the contract between the collection driver and the
// components that publish Snapshot records.
//
// Exactly one Exporter is active per process. Implementations:
//
//   - prometheus: accumulates CPU-attributed energy into one counter per
//     container name, scraped from the /metrics endpoint
//   - stream: writes every snapshot to stdout or a file as JSON, YAML or a table
package exporter

import (
	"context"

	"github.com/NVIDIA/docker-activity/pkg/snapshot"
)

// Exporter publishes snapshots.
type Exporter interface {
	// Handle publishes one snapshot. It is called once per collected sample.
	Handle(ctx context.Context, snap snapshot.Snapshot) error
}

// Func adapts an ordinary function to the Exporter interface.
type Func func(ctx context.Context, snap snapshot.Snapshot) error

// Handle calls f(ctx, snap).
func (f Func) Handle(ctx context.Context, snap snapshot.Snapshot) error {
	return f(ctx, snap)
}

// Discard is an Exporter that drops every snapshot.
var Discard Exporter = Func(func(context.Context, snapshot.Snapshot) error { return nil })
