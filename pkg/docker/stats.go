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

package docker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/docker/docker/api/types"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/docker-activity/pkg/snapshot"
)

// Stats is one statistics frame of a container: the current sample and the
// one immediately preceding it, as reported together by the daemon.
type Stats struct {
	Current snapshot.Sample
	Prior   snapshot.Sample
}

// GetContainerStats returns a single statistics frame. The daemon waits for
// a second reading so the prior sample is populated.
func (c *Client) GetContainerStats(ctx context.Context, id string) (*Stats, error) {
	resp, err := c.cli.ContainerStats(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats of %s: %w", id, err)
	}
	defer resp.Body.Close()

	var stats types.StatsJSON
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats of %s: %w", id, err)
	}

	s := toStats(&stats)
	return &s, nil
}

// StreamContainerStats streams statistics frames of a container until the
// context is canceled or the container stops. Both channels are closed when
// the stream ends; at most one error is sent.
func (c *Client) StreamContainerStats(ctx context.Context, id string) (<-chan Stats, <-chan error) {
	statsChan := make(chan Stats)
	errChan := make(chan error, 1)

	go func() {
		defer close(statsChan)
		defer close(errChan)

		resp, err := c.cli.ContainerStats(ctx, id, true)
		if err != nil {
			errChan <- fmt.Errorf("failed to stream stats of %s: %w", id, err)
			return
		}
		defer resp.Body.Close()

		decoder := json.NewDecoder(resp.Body)
		for {
			var stats types.StatsJSON
			if err := decoder.Decode(&stats); err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || ctx.Err() != nil {
					return
				}
				errChan <- fmt.Errorf("failed to decode stats of %s: %w", id, err)
				return
			}

			select {
			case statsChan <- toStats(&stats):
			case <-ctx.Done():
				return
			}
		}
	}()

	return statsChan, errChan
}

// toStats converts a daemon statistics frame. The Engine API omits zero
// values, so a zero gauge is reported as absent.
func toStats(s *types.StatsJSON) Stats {
	cur := snapshot.Sample{
		ID:   s.ID,
		Name: s.Name,
		Read: s.Read,
		CPU: snapshot.CPUReading{
			TotalUsage:  s.CPUStats.CPUUsage.TotalUsage,
			SystemUsage: optional(s.CPUStats.SystemUsage),
			OnlineCPUs:  optional(uint64(s.CPUStats.OnlineCPUs)),
		},
		PIDCount:    optional(s.PidsStats.Current),
		PIDLimit:    optional(s.PidsStats.Limit),
		MemoryUsage: optional(s.MemoryStats.Usage),
		MemoryLimit: optional(s.MemoryStats.Limit),
	}

	prior := snapshot.Sample{
		ID:   s.ID,
		Name: s.Name,
		Read: s.PreRead,
		CPU: snapshot.CPUReading{
			TotalUsage:  s.PreCPUStats.CPUUsage.TotalUsage,
			SystemUsage: optional(s.PreCPUStats.SystemUsage),
			OnlineCPUs:  optional(uint64(s.PreCPUStats.OnlineCPUs)),
		},
	}

	return Stats{Current: cur, Prior: prior}
}

func optional(v uint64) *uint64 {
	if v == 0 {
		return nil
	}
	return ptr.To(v)
}
