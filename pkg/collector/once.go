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

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/docker-activity/pkg/defaults"
	"github.com/NVIDIA/docker-activity/pkg/docker"
	"github.com/NVIDIA/docker-activity/pkg/energy"
	"github.com/NVIDIA/docker-activity/pkg/snapshot"
)

// maxConcurrentStats bounds the number of in-flight one-shot stats requests.
const maxConcurrentStats = 8

// OnceSource is the container runtime read by Once.
type OnceSource interface {
	ListContainers(ctx context.Context) ([]docker.Container, error)
	GetContainerStats(ctx context.Context, id string) (*docker.Stats, error)
}

// Once takes one snapshot of every running container, sorted by name.
// When r is not nil, the host energy spent while the statistics were being
// read is attributed to the containers by their CPU share.
// Containers whose frame is degenerate or whose stats cannot be read are
// left out.
func Once(ctx context.Context, src OnceSource, r energy.Reader) ([]snapshot.Snapshot, error) {
	containers, err := src.ListContainers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list running containers: %w", err)
	}

	var meter *energy.Meter
	if r != nil {
		meter = energy.NewMeter(r)
		if _, err := meter.Next(ctx); err != nil {
			slog.Warn("failed to read energy, continuing without", "error", err)
			meter = nil
		}
	}

	var (
		mu     sync.Mutex
		frames = make([]docker.Stats, 0, len(containers))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentStats)
	for _, cont := range containers {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(gctx, defaults.DockerStatsTimeout)
			defer cancel()

			stats, err := src.GetContainerStats(sctx, cont.ID)
			if err != nil {
				slog.Warn("skipping container", "id", cont.ID, "name", cont.Name, "error", err)
				return nil
			}
			mu.Lock()
			frames = append(frames, *stats)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total *float64
	if meter != nil {
		if total, err = meter.Next(ctx); err != nil {
			slog.Warn("failed to read energy, continuing without", "error", err)
			total = nil
		}
	}

	snaps := make([]snapshot.Snapshot, 0, len(frames))
	for _, frame := range frames {
		if snapshot.Degenerate(frame.Current, frame.Prior) {
			slog.Debug("skipping degenerate sample", "id", frame.Current.ID)
			continue
		}
		snaps = append(snaps, snapshot.Build(frame.Current, frame.Prior, total))
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].ContainerName < snaps[j].ContainerName
	})
	return snaps, nil
}
