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
	"fmt"
	"time"

	"github.com/docker/docker/api/types/container"

	"github.com/NVIDIA/docker-activity/pkg/defaults"
	"github.com/NVIDIA/docker-activity/pkg/snapshot"
)

// Container is a running container.
type Container struct {
	ID      string
	Name    string
	Image   string
	State   string
	Created time.Time
}

// ListContainers returns the running containers.
func (c *Client) ListContainers(ctx context.Context) ([]Container, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.DockerListTimeout)
	defer cancel()

	containers, err := c.cli.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	result := make([]Container, 0, len(containers))
	for _, cont := range containers {
		var name string
		if len(cont.Names) > 0 {
			name = snapshot.NormalizeName(cont.Names[0])
		}

		result = append(result, Container{
			ID:      cont.ID,
			Name:    name,
			Image:   cont.Image,
			State:   cont.State,
			Created: time.Unix(cont.Created, 0),
		})
	}

	return result, nil
}
