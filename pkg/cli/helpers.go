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

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/docker-activity/pkg/config"
	"github.com/NVIDIA/docker-activity/pkg/docker"
	"github.com/NVIDIA/docker-activity/pkg/energy"
	"github.com/NVIDIA/docker-activity/pkg/serializer"
)

// parseOutputFormat returns the validated --format value.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported: %v)", f, serializer.SupportedFormats())
	}
	return f, nil
}

// loadConfig resolves the configuration from the config file, the
// environment and the flags explicitly set on the command line.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("docker-host") {
		cfg.Docker.Host = cmd.String("docker-host")
	}
	if cmd.IsSet("sysfs") {
		cfg.Energy.Sysfs = cmd.String("sysfs")
	}
	if cmd.IsSet("no-energy") {
		cfg.Energy.Enabled = !cmd.Bool("no-energy")
	}
	if cmd.IsSet("rescan-interval") {
		cfg.Collector.RescanInterval = cmd.Duration("rescan-interval")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEnergyReader returns the configured energy source, or nil when energy
// attribution is disabled or no RAPL zone is available on this host.
func newEnergyReader(cfg *config.Config) energy.Reader {
	if !cfg.Energy.Enabled {
		slog.Info("energy attribution disabled")
		return nil
	}

	r, err := energy.NewRAPL(cfg.Energy.Sysfs, cfg.Energy.Zones...)
	if err != nil {
		slog.Warn("energy attribution unavailable, reporting CPU share only",
			"sysfs", cfg.Energy.Sysfs, "error", err)
		return nil
	}
	return r
}

func newDockerClient(ctx context.Context, cfg *config.Config) (*docker.Client, error) {
	return docker.NewClient(ctx, docker.Config{
		Host:      cfg.Docker.Host,
		TLSVerify: cfg.Docker.TLSVerify,
		CertPath:  cfg.Docker.CertPath,
		Timeout:   cfg.Docker.Timeout,
	})
}

func closeClient(c *docker.Client) {
	if err := c.Close(); err != nil {
		slog.Warn("failed to close docker client", "error", err)
	}
}
