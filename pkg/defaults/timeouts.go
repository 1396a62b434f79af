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

package defaults

import "time"

// Docker daemon timeouts.
const (
	// DockerPingTimeout bounds the initial connectivity check against the daemon.
	DockerPingTimeout = 30 * time.Second

	// DockerListTimeout is the timeout for listing running containers.
	DockerListTimeout = 10 * time.Second

	// DockerStatsTimeout bounds a single non-streaming stats request.
	// The daemon waits for a second reading before answering.
	DockerStatsTimeout = 5 * time.Second
)

// Collection intervals.
const (
	// RescanInterval is how often the running container set is listed again
	// to pick up containers started after the exporter.
	RescanInterval = 10 * time.Second

	// MinRescanInterval is the smallest accepted rescan interval.
	MinRescanInterval = 1 * time.Second
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// CLI timeouts for command-line operations.
const (
	// CLISnapshotTimeout is the default timeout for the one-shot snapshot command.
	CLISnapshotTimeout = 1 * time.Minute
)
