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

// Package cli implements the docker-activity command line.
//
// # Commands
//
// prometheus - Serve per-container energy counters:
//
//	docker-activity prometheus 9000
//
// Streams statistics of every running container, attributes host energy to
// each by its CPU share and accumulates it in one Prometheus counter per
// container, scraped from http://<address>:<port>/metrics. The latest
// snapshot of every container is also served on /v1/snapshots.
//
// stream - Write every snapshot:
//
//	docker-activity stream --format yaml --output activity.yaml
//
// Writes each snapshot as it is collected, as JSON (one document per line),
// YAML (documents separated by ---) or a table.
//
// snapshot - Take one snapshot of every running container:
//
//	docker-activity snapshot --format table
//
// # Global Flags
//
//	--config, -c        YAML or JSON config file
//	--log-level         debug, info, warn, error (default: info)
//	--docker-host       Docker daemon address (default: DOCKER_HOST or the local socket)
//	--sysfs             sysfs mount point for RAPL energy counters (default: /sys)
//	--no-energy         disable energy attribution
//	--rescan-interval   how often running containers are listed (default: 10s)
//
// Flags override the environment, which overrides the config file.
//
// # Environment Variables
//
//	LOG_LEVEL                       logging verbosity
//	DOCKER_ACTIVITY_CONFIG          config file path
//	DOCKER_HOST                     Docker daemon address
//	PORT                            listener port of the prometheus command
//	DOCKER_ACTIVITY_ADDRESS         listener address of the prometheus command
//	DOCKER_ACTIVITY_SYSFS           sysfs mount point
//	DOCKER_ACTIVITY_ENERGY          enable or disable energy attribution
//	DOCKER_ACTIVITY_METRIC_PREFIX   counter name prefix
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/docker-activity/pkg/cli.version=1.0.0'"
package cli
