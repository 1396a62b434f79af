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

// Package docker wraps the Docker Engine API client to list running
// containers and stream their raw statistics as snapshot.Sample pairs.
package docker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docker/docker/client"

	"github.com/NVIDIA/docker-activity/pkg/defaults"
)

// Config holds Docker client configuration.
type Config struct {
	Host      string
	TLSVerify bool
	CertPath  string
	Timeout   time.Duration
}

// DefaultConfig returns the configuration for the local Docker socket.
func DefaultConfig() Config {
	return Config{
		Host:    client.DefaultDockerHost,
		Timeout: defaults.DockerPingTimeout,
	}
}

// Client wraps the Docker API client.
type Client struct {
	cli *client.Client
}

// NewClient connects to the Docker daemon and verifies it answers a ping.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opts := []client.Opt{
		client.WithHost(cfg.Host),
		client.WithAPIVersionNegotiation(),
	}

	if cfg.TLSVerify {
		opts = append(opts, client.WithTLSClientConfig(
			cfg.CertPath+"/ca.pem",
			cfg.CertPath+"/cert.pem",
			cfg.CertPath+"/key.pem",
		))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaults.DockerPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ping, err := cli.Ping(pingCtx)
	if err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("failed to reach docker daemon at %s: %w", cfg.Host, err)
	}

	slog.Debug("connected to docker daemon",
		"host", cfg.Host,
		"apiVersion", ping.APIVersion,
		"osType", ping.OSType)

	return &Client{cli: cli}, nil
}

// Close closes the connection to the daemon.
func (c *Client) Close() error {
	if c.cli != nil {
		return c.cli.Close()
	}
	return nil
}
